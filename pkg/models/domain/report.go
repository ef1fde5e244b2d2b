package domain

import (
	"fmt"
	"time"
)

// ReportKind identifies one of the four selectable report templates.
type ReportKind string

const (
	KindBudgetUtilization ReportKind = "budget-utilization"
	KindExpenseSummary    ReportKind = "expense-summary"
	KindStartupProgress   ReportKind = "startup-progress"
	KindFinancialOverview ReportKind = "financial-overview"
)

// ReportKinds lists the selectable kinds in wizard display order.
func ReportKinds() []ReportKind {
	return []ReportKind{
		KindBudgetUtilization,
		KindExpenseSummary,
		KindStartupProgress,
		KindFinancialOverview,
	}
}

func ParseReportKind(s string) (ReportKind, error) {
	for _, k := range ReportKinds() {
		if s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown report kind %q", s)
}

// DisplayName is the human title used in report headers and history entries.
func (k ReportKind) DisplayName() string {
	switch k {
	case KindBudgetUtilization:
		return "Budget Utilization Report"
	case KindExpenseSummary:
		return "Expense Summary Report"
	case KindStartupProgress:
		return "Startup Progress Report"
	case KindFinancialOverview:
		return "Financial Overview Report"
	default:
		return string(k)
	}
}

// ExportFormat selects the document produced in the preview step.
type ExportFormat string

const (
	FormatHTML ExportFormat = "html"
	FormatPDF  ExportFormat = "pdf"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatHTML, FormatPDF:
		return ExportFormat(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ReportMetadata travels with every rendered document and history entry.
// It is never persisted inside the payload itself.
type ReportMetadata struct {
	ReportType  string
	Period      PeriodToken
	StartupName string
	GeneratedAt time.Time
}

// Startup is an incubated startup as listed by the admin API for the
// configure-step filter.
type Startup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
