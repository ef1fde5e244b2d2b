// Package htmlreport renders a fetched report payload into a complete,
// self-contained HTML document with inlined styles. Output is deterministic:
// identical inputs always produce the identical byte sequence.
package htmlreport

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

const maxProgressUpdates = 20

// Render builds the document for a payload. companion carries the Expense
// half of a financial overview and is rendered after the Budget body when
// present. logoBase64, when non-empty, is embedded as an inline PNG; all
// user-supplied text is escaped by html/template, so names and comments can
// never break out of their enclosing element.
func Render(
	payload domain.Payload,
	companion *domain.ExpenseReport,
	md domain.ReportMetadata,
	logoBase64 string,
) (string, error) {
	view := documentView{
		Title:         md.ReportType,
		PeriodDisplay: md.Period.DisplayName(),
		StartupName:   md.StartupName,
		GeneratedAt:   md.GeneratedAt.Format("January 2, 2006 3:04 PM"),
	}
	if logoBase64 != "" {
		view.LogoSrc = template.URL("data:image/png;base64," + logoBase64)
	}

	switch payload.Kind {
	case domain.PayloadBudget:
		view.Budget = newBudgetView(payload.Budget)
	case domain.PayloadExpense:
		view.Expense = newExpenseView(payload.Expense)
	case domain.PayloadActivity:
		view.Activity = newActivityView(payload.Activity)
	default:
		return "", fmt.Errorf("render: payload has no kind tag")
	}
	if companion != nil && view.Expense == nil {
		view.Expense = newExpenseView(companion)
	}

	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render report document: %w", err)
	}
	return buf.String(), nil
}

type documentView struct {
	LogoSrc       template.URL
	Title         string
	PeriodDisplay string
	StartupName   string
	GeneratedAt   string

	Budget   *budgetView
	Expense  *expenseView
	Activity *activityView
}

type card struct {
	Label string
	Value string
}

type budgetView struct {
	Cards []card
	Lines []budgetLine
}

type budgetLine struct {
	Name        string
	Total       string
	Allocated   string
	Spent       string
	Remaining   string
	Utilization string
}

type expenseView struct {
	Cards        []card
	StatusRows   []statusRow
	CategoryRows []categoryRow
}

type statusRow struct {
	Status  string
	Count   int
	Total   string
	Percent string
}

type categoryRow struct {
	Category string
	Startup  string
	Count    int
	Total    string
	Percent  string
}

type activityView struct {
	Cards       []card
	Updates     []updateCard
	Lines       []activityLine
	HasActivity bool
}

type updateCard struct {
	StartupName string
	Summary     string
	Comment     string
	Date        string
}

type activityLine struct {
	Name         string
	Updates      int
	Expenses     int
	Amount       string
	LastActivity string
}

func newBudgetView(r *domain.BudgetReport) *budgetView {
	v := &budgetView{
		Cards: []card{
			{Label: "Total Startups", Value: fmt.Sprintf("%d", r.Summary.TotalStartups)},
			{Label: "Total Budget", Value: money(r.Summary.TotalBudget)},
			{Label: "Total Allocated", Value: money(r.Summary.TotalAllocated)},
			{Label: "Total Spent", Value: money(r.Summary.TotalSpent)},
		},
	}
	for _, line := range r.Report {
		v.Lines = append(v.Lines, budgetLine{
			Name:        line.Startup.Name,
			Total:       money(line.Budget.Total),
			Allocated:   money(line.Budget.Allocated),
			Spent:       money(line.Budget.Spent),
			Remaining:   money(line.Budget.Remaining),
			Utilization: line.Budget.Utilization().StringFixed(1) + "%",
		})
	}
	return v
}

func newExpenseView(r *domain.ExpenseReport) *expenseView {
	v := &expenseView{
		Cards: []card{
			{Label: "Total Expenses", Value: fmt.Sprintf("%d", r.Summary.TotalExpenses)},
			{Label: "Total Amount", Value: money(r.Summary.TotalAmount)},
			{Label: "Approved Amount", Value: money(r.Summary.ApprovedAmount)},
			{Label: "Categories", Value: fmt.Sprintf("%d", len(r.ByCategory))},
		},
	}
	grand := r.Summary.TotalAmount
	for _, status := range domain.ExpenseStatuses() {
		b, ok := r.ByStatus[status]
		if !ok {
			continue
		}
		v.StatusRows = append(v.StatusRows, statusRow{
			Status:  status,
			Count:   b.Count,
			Total:   money(b.Total),
			Percent: shareOf(b.Total, grand),
		})
	}
	for _, c := range r.ByCategory {
		v.CategoryRows = append(v.CategoryRows, categoryRow{
			Category: c.CategoryName,
			Startup:  c.StartupName,
			Count:    c.Count,
			Total:    money(c.Total),
			Percent:  shareOf(c.Total, grand),
		})
	}
	return v
}

func newActivityView(r *domain.ActivityReport) *activityView {
	v := &activityView{
		Cards: []card{
			{Label: "Progress Updates", Value: fmt.Sprintf("%d", r.Summary.TotalProgressUpdates)},
			{Label: "Expenses Filed", Value: fmt.Sprintf("%d", r.Summary.TotalExpenses)},
			{Label: "Active Startups", Value: fmt.Sprintf("%d", r.Summary.ActiveStartups)},
			{Label: "Expense Total", Value: money(r.Expenses.Total)},
		},
	}

	updates := make([]domain.ProgressUpdate, len(r.ProgressUpdates.Items))
	copy(updates, r.ProgressUpdates.Items)
	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].CreatedAt.After(updates[j].CreatedAt)
	})
	if len(updates) > maxProgressUpdates {
		updates = updates[:maxProgressUpdates]
	}
	for _, u := range updates {
		v.Updates = append(v.Updates, updateCard{
			StartupName: u.StartupName,
			Summary:     u.Summary,
			Comment:     u.Comment,
			Date:        u.CreatedAt.Format("January 2, 2006"),
		})
	}

	for _, line := range r.ActivityByStartup {
		if line.ProgressUpdateCount > 0 || line.ExpenseCount > 0 {
			v.HasActivity = true
		}
		last := "—"
		if line.LastActivity != nil {
			last = line.LastActivity.Format("January 2, 2006")
		}
		v.Lines = append(v.Lines, activityLine{
			Name:         line.Startup.Name,
			Updates:      line.ProgressUpdateCount,
			Expenses:     line.ExpenseCount,
			Amount:       money(line.TotalExpenseAmount),
			LastActivity: last,
		})
	}
	return v
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// shareOf is value/total as a percentage with one decimal; 0.0% when the
// grand total is zero.
func shareOf(value, total decimal.Decimal) string {
	if total.IsZero() {
		return "0.0%"
	}
	return value.Div(total).Mul(decimal.NewFromInt(100)).Round(1).StringFixed(1) + "%"
}

var documentTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
  body { font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 32px; color: #2c3e50; background: #ffffff; }
  .logo { text-align: center; margin-bottom: 16px; }
  .logo img { max-height: 72px; }
  header { text-align: center; border-bottom: 3px solid #1e3a5f; padding-bottom: 16px; margin-bottom: 24px; }
  header h1 { margin: 0 0 8px; color: #1e3a5f; font-size: 26px; }
  header .meta { color: #7f8c8d; font-size: 13px; }
  h2 { color: #1e3a5f; font-size: 18px; border-left: 4px solid #3498db; padding-left: 10px; margin: 28px 0 12px; }
  .cards { display: flex; gap: 12px; margin-bottom: 20px; }
  .card { flex: 1; background: #f8f9fa; border: 1px solid #e3e8ee; border-radius: 6px; padding: 14px; text-align: center; }
  .card .label { font-size: 12px; color: #7f8c8d; text-transform: uppercase; }
  .card .value { font-size: 20px; font-weight: 600; color: #1e3a5f; margin-top: 6px; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 20px; font-size: 13px; }
  th { background: #1e3a5f; color: #ffffff; text-align: left; padding: 8px 10px; }
  td { padding: 8px 10px; border-bottom: 1px solid #e3e8ee; }
  tr:nth-child(even) td { background: #f1f5f9; }
  .update { background: #f8f9fa; border: 1px solid #e3e8ee; border-radius: 6px; padding: 12px; margin-bottom: 10px; }
  .update .who { font-weight: 600; color: #1e3a5f; }
  .update .when { color: #7f8c8d; font-size: 12px; float: right; }
  .update p { margin: 6px 0 0; font-size: 13px; }
  .empty { color: #7f8c8d; font-style: italic; padding: 12px 0; }
  footer { margin-top: 36px; border-top: 1px solid #e3e8ee; padding-top: 12px; text-align: center; color: #7f8c8d; font-size: 12px; }
</style>
</head>
<body>
{{if .LogoSrc}}<div class="logo"><img src="{{.LogoSrc}}" alt="logo"></div>
{{end}}<header>
<h1>{{.Title}}</h1>
<div class="meta">Period: {{.PeriodDisplay}}{{if .StartupName}} &middot; Startup: {{.StartupName}}{{end}} &middot; Generated: {{.GeneratedAt}}</div>
</header>
{{if .Budget}}{{template "budget" .Budget}}{{end}}
{{if .Expense}}{{template "expense" .Expense}}{{end}}
{{if .Activity}}{{template "activity" .Activity}}{{end}}
<footer>Startup Incubation Program &mdash; Administrative Platform</footer>
</body>
</html>
{{define "cards"}}<div class="cards">
{{range .}}<div class="card"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{end}}</div>{{end}}
{{define "budget"}}{{template "cards" .Cards}}
<h2>Budget Utilization by Startup</h2>
<table>
<tr><th>Startup</th><th>Total Budget</th><th>Allocated</th><th>Spent</th><th>Remaining</th><th>Utilization</th></tr>
{{range .Lines}}<tr><td>{{.Name}}</td><td>{{.Total}}</td><td>{{.Allocated}}</td><td>{{.Spent}}</td><td>{{.Remaining}}</td><td>{{.Utilization}}</td></tr>
{{end}}</table>{{end}}
{{define "expense"}}{{template "cards" .Cards}}
<h2>Expenses by Status</h2>
<table>
<tr><th>Status</th><th>Count</th><th>Total</th><th>% of Total</th></tr>
{{range .StatusRows}}<tr><td>{{.Status}}</td><td>{{.Count}}</td><td>{{.Total}}</td><td>{{.Percent}}</td></tr>
{{end}}</table>
<h2>Expenses by Category</h2>
<table>
<tr><th>Category</th><th>Startup</th><th>Count</th><th>Total</th><th>% of Total</th></tr>
{{range .CategoryRows}}<tr><td>{{.Category}}</td><td>{{.Startup}}</td><td>{{.Count}}</td><td>{{.Total}}</td><td>{{.Percent}}</td></tr>
{{end}}</table>{{end}}
{{define "activity"}}{{template "cards" .Cards}}
<h2>Recent Progress Updates</h2>
{{if .Updates}}{{range .Updates}}<div class="update"><span class="when">{{.Date}}</span><span class="who">{{.StartupName}}</span><p>{{.Summary}}</p>{{if .Comment}}<p>{{.Comment}}</p>{{end}}</div>
{{end}}{{else}}<div class="empty">No progress updates in this period.</div>
{{end}}{{if .HasActivity}}<h2>Activity by Startup</h2>
<table>
<tr><th>Startup</th><th>Progress Updates</th><th>Expenses</th><th>Expense Amount</th><th>Last Activity</th></tr>
{{range .Lines}}<tr><td>{{.Name}}</td><td>{{.Updates}}</td><td>{{.Expenses}}</td><td>{{.Amount}}</td><td>{{.LastActivity}}</td></tr>
{{end}}</table>
{{end}}{{end}}`))
