package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/edu-tools/report-atlas/pkg/services/report"
)

type GenerateCmd struct {
	kind      string
	period    string
	startDate string
	endDate   string
	startupID string
	format    string
	outDir    string
	service   *report.Service
}

// NewGenerateCmd generates and exports a report in one non-interactive shot.
func NewGenerateCmd(service *report.Service) *cobra.Command {
	gc := &GenerateCmd{service: service}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and export a report",
		RunE:  gc.run,
	}

	cmd.Flags().StringVar(&gc.kind, "kind", "", "Report kind (budget-utilization, expense-summary, startup-progress, financial-overview)")
	cmd.Flags().StringVar(&gc.period, "period", "", "Reporting period (all-time, current-month, last-month, current-quarter, last-quarter, current-year, last-year, custom)")
	cmd.Flags().StringVar(&gc.startDate, "start", "", "Custom period start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&gc.endDate, "end", "", "Custom period end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&gc.startupID, "startup", "", "Limit the report to one startup id")
	cmd.Flags().StringVar(&gc.format, "format", "pdf", "Export format (html or pdf)")
	cmd.Flags().StringVar(&gc.outDir, "out", ".", "Directory the export is written to")

	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

func (gc *GenerateCmd) run(cmd *cobra.Command, _ []string) error {
	kind, err := domain.ParseReportKind(gc.kind)
	if err != nil {
		return err
	}
	period, err := domain.ParsePeriodToken(gc.period)
	if err != nil {
		return err
	}
	format, err := domain.ParseExportFormat(gc.format)
	if err != nil {
		return err
	}

	spec := report.GenerateSpec{Kind: kind, Period: period, StartupID: gc.startupID}
	if period == domain.PeriodCustom {
		spec.Range, err = parseCustomRange(gc.startDate, gc.endDate)
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	generated, err := gc.service.Generate(ctx, spec)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	file, err := gc.service.Export(ctx, generated, format)
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	path := filepath.Join(gc.outDir, file.Name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	cmd.Printf("Report written to %s\n", path)
	return nil
}

func parseCustomRange(start, end string) (domain.DateRange, error) {
	var r domain.DateRange
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return r, fmt.Errorf("invalid start date %q: %w", start, err)
		}
		r.Start = &t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return r, fmt.Errorf("invalid end date %q: %w", end, err)
		}
		r.End = &t
	}
	return r, nil
}
