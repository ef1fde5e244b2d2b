// Package export holds the pieces shared by the HTML and PDF export paths.
package export

import (
	"fmt"
	"strings"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
)

// Filename builds the download name for an exported report:
// {kebab-cased report type}-{period token}-{generation date}.{ext}.
func Filename(md domain.ReportMetadata, format domain.ExportFormat) string {
	return fmt.Sprintf("%s-%s-%s.%s",
		kebab(md.ReportType),
		md.Period,
		md.GeneratedAt.Format("2006-01-02"),
		format,
	)
}

func kebab(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}
