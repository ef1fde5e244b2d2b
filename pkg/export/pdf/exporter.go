// Package pdf assembles fetched report payloads into paginated A4 documents.
// Layout is done directly with a PDF library; content taller than one page
// flows onto additional pages through automatic page breaks, and nothing is
// emitted until the whole document assembled without error.
package pdf

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

var (
	colorPrimary   = [3]int{30, 58, 95}
	colorAccent    = [3]int{52, 152, 219}
	colorText      = [3]int{44, 62, 80}
	colorMuted     = [3]int{127, 140, 141}
	colorCardFill  = [3]int{248, 249, 250}
	colorTableAlt  = [3]int{241, 245, 249}
	colorTableLine = [3]int{227, 232, 238}
)

const (
	pageMargin   = 15.0
	contentWidth = 210 - 2*pageMargin
)

// Exporter renders report payloads to PDF bytes.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Generate builds the document. logo and chart are optional PNGs; either may
// be nil and the layout degrades without them. companion is the Expense half
// of a financial overview and gets its own sections after the Budget ones.
func (e *Exporter) Generate(
	payload domain.Payload,
	companion *domain.ExpenseReport,
	md domain.ReportMetadata,
	logo []byte,
	chart []byte,
) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Startup Incubation Program - Administrative Platform  |  Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	e.writeHeader(pdf, md, logo)

	switch payload.Kind {
	case domain.PayloadBudget:
		e.writeBudgetSections(pdf, payload.Budget, chart)
	case domain.PayloadExpense:
		e.writeExpenseSections(pdf, payload.Expense, chart)
	case domain.PayloadActivity:
		e.writeActivitySections(pdf, payload.Activity)
	default:
		return nil, fmt.Errorf("generate pdf: payload has no kind tag")
	}
	if companion != nil && payload.Kind != domain.PayloadExpense {
		e.writeExpenseSections(pdf, companion, nil)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) writeHeader(pdf *fpdf.Fpdf, md domain.ReportMetadata, logo []byte) {
	pageWidth, _ := pdf.GetPageSize()

	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(0, 0, pageWidth, 6, "F")

	if len(logo) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("program-logo", opts, bytes.NewReader(logo))
		if pdf.Ok() {
			pdf.ImageOptions("program-logo", (pageWidth-24)/2, 12, 24, 0, false, opts, 0, "")
			pdf.SetY(40)
		}
	} else {
		pdf.SetY(18)
	}

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.CellFormat(0, 10, md.ReportType, "", 1, "C", false, 0, "")

	sub := "Period: " + md.Period.DisplayName()
	if md.StartupName != "" {
		sub += "  |  Startup: " + md.StartupName
	}
	sub += "  |  Generated: " + md.GeneratedAt.Format("January 2, 2006 3:04 PM")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
	pdf.CellFormat(0, 6, sub, "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func (e *Exporter) writeBudgetSections(pdf *fpdf.Fpdf, r *domain.BudgetReport, chart []byte) {
	e.writeCards(pdf, []summaryCard{
		{"Total Startups", fmt.Sprintf("%d", r.Summary.TotalStartups)},
		{"Total Budget", money(r.Summary.TotalBudget)},
		{"Total Allocated", money(r.Summary.TotalAllocated)},
		{"Total Spent", money(r.Summary.TotalSpent)},
	})

	e.writeSectionTitle(pdf, "Budget Utilization by Startup")
	e.writeTable(pdf,
		[]string{"Startup", "Total", "Allocated", "Spent", "Remaining", "Utilization"},
		[]float64{50, 26, 26, 26, 26, 26},
		budgetRows(r),
	)

	e.writeChart(pdf, chart)
}

func (e *Exporter) writeExpenseSections(pdf *fpdf.Fpdf, r *domain.ExpenseReport, chart []byte) {
	e.writeCards(pdf, []summaryCard{
		{"Total Expenses", fmt.Sprintf("%d", r.Summary.TotalExpenses)},
		{"Total Amount", money(r.Summary.TotalAmount)},
		{"Approved Amount", money(r.Summary.ApprovedAmount)},
		{"Categories", fmt.Sprintf("%d", len(r.ByCategory))},
	})

	grand := r.Summary.TotalAmount
	var statusRows [][]string
	for _, status := range domain.ExpenseStatuses() {
		b, ok := r.ByStatus[status]
		if !ok {
			continue
		}
		statusRows = append(statusRows, []string{
			status, fmt.Sprintf("%d", b.Count), money(b.Total), share(b.Total, grand),
		})
	}
	e.writeSectionTitle(pdf, "Expenses by Status")
	e.writeTable(pdf,
		[]string{"Status", "Count", "Total", "% of Total"},
		[]float64{60, 30, 50, 40},
		statusRows,
	)

	var categoryRows [][]string
	for _, c := range r.ByCategory {
		categoryRows = append(categoryRows, []string{
			c.CategoryName, c.StartupName, fmt.Sprintf("%d", c.Count), money(c.Total), share(c.Total, grand),
		})
	}
	e.writeSectionTitle(pdf, "Expenses by Category")
	e.writeTable(pdf,
		[]string{"Category", "Startup", "Count", "Total", "% of Total"},
		[]float64{50, 45, 20, 35, 30},
		categoryRows,
	)

	e.writeChart(pdf, chart)
}

func (e *Exporter) writeActivitySections(pdf *fpdf.Fpdf, r *domain.ActivityReport) {
	e.writeCards(pdf, []summaryCard{
		{"Progress Updates", fmt.Sprintf("%d", r.Summary.TotalProgressUpdates)},
		{"Expenses Filed", fmt.Sprintf("%d", r.Summary.TotalExpenses)},
		{"Active Startups", fmt.Sprintf("%d", r.Summary.ActiveStartups)},
		{"Expense Total", money(r.Expenses.Total)},
	})

	e.writeSectionTitle(pdf, "Recent Progress Updates")
	updates := recentUpdates(r)
	if len(updates) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
		pdf.CellFormat(0, 8, "No progress updates in this period.", "", 1, "L", false, 0, "")
	}
	for _, u := range updates {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
		pdf.CellFormat(contentWidth-35, 6, u.StartupName, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
		pdf.CellFormat(35, 6, u.CreatedAt.Format("Jan 2, 2006"), "", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
		pdf.MultiCell(contentWidth, 5, u.Summary, "", "L", false)
		if u.Comment != "" {
			pdf.MultiCell(contentWidth, 5, u.Comment, "", "L", false)
		}
		pdf.Ln(2)
	}

	hasActivity := false
	var rows [][]string
	for _, line := range r.ActivityByStartup {
		if line.ProgressUpdateCount > 0 || line.ExpenseCount > 0 {
			hasActivity = true
		}
		last := "-"
		if line.LastActivity != nil {
			last = line.LastActivity.Format("Jan 2, 2006")
		}
		rows = append(rows, []string{
			line.Startup.Name,
			fmt.Sprintf("%d", line.ProgressUpdateCount),
			fmt.Sprintf("%d", line.ExpenseCount),
			money(line.TotalExpenseAmount),
			last,
		})
	}
	if hasActivity {
		e.writeSectionTitle(pdf, "Activity by Startup")
		e.writeTable(pdf,
			[]string{"Startup", "Updates", "Expenses", "Amount", "Last Activity"},
			[]float64{55, 25, 25, 35, 40},
			rows,
		)
	}
}

type summaryCard struct {
	label string
	value string
}

func (e *Exporter) writeCards(pdf *fpdf.Fpdf, cards []summaryCard) {
	const gap = 4.0
	w := (contentWidth - gap*float64(len(cards)-1)) / float64(len(cards))
	x := pageMargin
	y := pdf.GetY()

	for _, c := range cards {
		pdf.SetFillColor(colorCardFill[0], colorCardFill[1], colorCardFill[2])
		pdf.SetDrawColor(colorTableLine[0], colorTableLine[1], colorTableLine[2])
		pdf.Rect(x, y, w, 18, "FD")

		pdf.SetXY(x, y+3)
		pdf.SetFont("Arial", "", 7)
		pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
		pdf.CellFormat(w, 4, c.label, "", 0, "C", false, 0, "")

		pdf.SetXY(x, y+8)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
		pdf.CellFormat(w, 7, c.value, "", 0, "C", false, 0, "")

		x += w + gap
	}
	pdf.SetXY(pageMargin, y+24)
}

func (e *Exporter) writeSectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(colorAccent[0], colorAccent[1], colorAccent[2])
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func (e *Exporter) writeTable(pdf *fpdf.Fpdf, headers []string, widths []float64, rows [][]string) {
	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
	for rowIdx, row := range rows {
		fill := rowIdx%2 == 1
		if fill {
			pdf.SetFillColor(colorTableAlt[0], colorTableAlt[1], colorTableAlt[2])
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func (e *Exporter) writeChart(pdf *fpdf.Fpdf, chart []byte) {
	if len(chart) == 0 {
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("section-chart", opts, bytes.NewReader(chart))
	if !pdf.Ok() {
		return
	}
	pdf.ImageOptions("section-chart", pageMargin+20, pdf.GetY(), contentWidth-40, 0, true, opts, 0, "")
	pdf.Ln(4)
}

func budgetRows(r *domain.BudgetReport) [][]string {
	var rows [][]string
	for _, line := range r.Report {
		rows = append(rows, []string{
			line.Startup.Name,
			money(line.Budget.Total),
			money(line.Budget.Allocated),
			money(line.Budget.Spent),
			money(line.Budget.Remaining),
			line.Budget.Utilization().StringFixed(1) + "%",
		})
	}
	return rows
}

func recentUpdates(r *domain.ActivityReport) []domain.ProgressUpdate {
	updates := make([]domain.ProgressUpdate, len(r.ProgressUpdates.Items))
	copy(updates, r.ProgressUpdates.Items)
	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].CreatedAt.After(updates[j].CreatedAt)
	})
	const limit = 20
	if len(updates) > limit {
		updates = updates[:limit]
	}
	return updates
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func share(value, total decimal.Decimal) string {
	if total.IsZero() {
		return "0.0%"
	}
	return value.Div(total).Mul(decimal.NewFromInt(100)).Round(1).StringFixed(1) + "%"
}
