// Package export renders generated reports as text tables for the terminal
// preview step.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/edu-tools/report-atlas/pkg/services/report"
)

type TableConfig struct {
	LabelWidth int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth: 32,
		ValueWidth: 18,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

// Handle writes the preview for a generated report. The layout follows the
// section order of the exported documents.
func (c *Reporter) Handle(g *report.Generated) error {
	funcMap := template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return "$" + d.StringFixed(2)
		},
		"pct": func(d decimal.Decimal) string {
			return d.StringFixed(1) + "%"
		},
		"row": func(label string, values ...any) string {
			parts := []string{fmt.Sprintf("| %-*s", c.config.LabelWidth, label)}
			for _, v := range values {
				parts = append(parts, fmt.Sprintf("| %*v", c.config.ValueWidth, v))
			}
			return strings.Join(parts, " ") + " |"
		},
		"separator": func(columns int) string {
			var b strings.Builder
			b.WriteString("+" + strings.Repeat("-", c.config.LabelWidth+2))
			for i := 0; i < columns; i++ {
				b.WriteString("+" + strings.Repeat("-", c.config.ValueWidth+2))
			}
			b.WriteString("+")
			return b.String()
		},
	}

	t, err := template.New("preview").Funcs(funcMap).Parse(previewTmpl)
	if err != nil {
		return fmt.Errorf("failed to parse preview template: %w", err)
	}

	view := previewView{
		Title:    g.Metadata.ReportType,
		Period:   g.Metadata.Period.DisplayName(),
		Startup:  g.Metadata.StartupName,
		When:     g.Metadata.GeneratedAt.Format("2006-01-02 15:04"),
		Budget:   g.Result.Payload.Budget,
		Expense:  g.Result.Payload.Expense,
		Activity: g.Result.Payload.Activity,
	}
	if view.Startup == "" {
		view.Startup = "All Startups"
	}
	if g.Result.Companion != nil {
		view.Expense = g.Result.Companion
	}
	if view.Expense != nil {
		view.Statuses = statusRows(view.Expense)
	}

	return t.Execute(c.writer, view)
}

type previewView struct {
	Title    string
	Period   string
	Startup  string
	When     string
	Budget   *domain.BudgetReport
	Expense  *domain.ExpenseReport
	Activity *domain.ActivityReport
	Statuses []statusRow
}

type statusRow struct {
	Status string
	Count  int
	Total  decimal.Decimal
}

// statusRows flattens the status map into the fixed render order.
func statusRows(r *domain.ExpenseReport) []statusRow {
	rows := make([]statusRow, 0, 3)
	for _, status := range domain.ExpenseStatuses() {
		b := r.ByStatus[status]
		rows = append(rows, statusRow{Status: status, Count: b.Count, Total: b.Total})
	}
	return rows
}

const previewTmpl = `
{{.Title}}
Period: {{.Period}} | Startup: {{.Startup}} | Generated: {{.When}}
{{if .Budget}}
=== Budget Utilization ===
Startups: {{.Budget.Summary.TotalStartups}} | Total Budget: {{money .Budget.Summary.TotalBudget}} | Spent: {{money .Budget.Summary.TotalSpent}}

{{separator 4}}
{{row "Startup" "Total" "Spent" "Remaining" "Utilization"}}
{{separator 4}}
{{range .Budget.Report}}{{row .Startup.Name (money .Budget.Total) (money .Budget.Spent) (money .Budget.Remaining) (pct .Budget.Utilization)}}
{{end}}{{separator 4}}
{{end}}{{if .Expense}}
=== Expense Summary ===
Expenses: {{.Expense.Summary.TotalExpenses}} | Total: {{money .Expense.Summary.TotalAmount}} | Approved: {{money .Expense.Summary.ApprovedAmount}}

{{separator 2}}
{{row "Status" "Count" "Total"}}
{{separator 2}}
{{range .Statuses}}{{row .Status .Count (money .Total)}}
{{end}}{{separator 2}}
{{if .Expense.ByCategory}}
{{separator 2}}
{{row "Category" "Count" "Total"}}
{{separator 2}}
{{range .Expense.ByCategory}}{{row .CategoryName .Count (money .Total)}}
{{end}}{{separator 2}}
{{end}}{{end}}{{if .Activity}}
=== Startup Activity ===
Progress Updates: {{.Activity.Summary.TotalProgressUpdates}} | Expenses: {{.Activity.Summary.TotalExpenses}} | Active Startups: {{.Activity.Summary.ActiveStartups}}

{{separator 3}}
{{row "Startup" "Updates" "Expenses" "Amount"}}
{{separator 3}}
{{range .Activity.ActivityByStartup}}{{row .Startup.Name .ProgressUpdateCount .ExpenseCount (money .TotalExpenseAmount)}}
{{end}}{{separator 3}}
{{end}}`
