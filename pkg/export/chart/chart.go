// Package chart renders payload aggregates into PNG charts for embedding in
// exported PDF documents.
package chart

import (
	"fmt"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/go-analyze/charts"
)

// BudgetAllocationPie shows how the allocated budget is split across
// startups. Startups with a zero allocation are left out.
func BudgetAllocationPie(report *domain.BudgetReport) ([]byte, error) {
	var values []float64
	var names []string
	for _, line := range report.Report {
		if line.Budget.Allocated.IsZero() {
			continue
		}
		names = append(names, line.Startup.Name)
		values = append(values, line.Budget.Allocated.InexactFloat64())
	}
	return renderPie("Budget Allocation by Startup", values, names)
}

// ExpenseCategoryPie shows the expense split across categories.
func ExpenseCategoryPie(report *domain.ExpenseReport) ([]byte, error) {
	var values []float64
	var names []string
	for _, c := range report.ByCategory {
		if c.Total.IsZero() {
			continue
		}
		names = append(names, c.CategoryName)
		values = append(values, c.Total.InexactFloat64())
	}
	return renderPie("Expenses by Category", values, names)
}

func renderPie(title string, values []float64, names []string) ([]byte, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no data to chart")
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{Text: title}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf, nil
}
