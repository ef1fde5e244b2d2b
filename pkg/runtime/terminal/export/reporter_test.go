package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/edu-tools/report-atlas/pkg/services/report"
)

func generatedBudget() *report.Generated {
	return &report.Generated{
		Kind: domain.KindBudgetUtilization,
		Metadata: domain.ReportMetadata{
			ReportType:  "Budget Utilization Report",
			Period:      domain.PeriodCurrentQuarter,
			GeneratedAt: time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC),
		},
		Result: &report.Result{
			Payload: domain.BudgetPayload(&domain.BudgetReport{
				Summary: domain.BudgetSummary{
					TotalStartups: 1,
					TotalBudget:   decimal.NewFromInt(30000),
					TotalSpent:    decimal.NewFromInt(10000),
				},
				Report: []domain.BudgetLine{
					{
						Startup: domain.StartupRef{ID: "s-1", Name: "Quantline"},
						Budget: domain.StartupBudget{
							Total:     decimal.NewFromInt(30000),
							Spent:     decimal.NewFromInt(10000),
							Remaining: decimal.NewFromInt(20000),
						},
					},
				},
			}),
		},
	}
}

func TestReporterBudgetPreview(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	require.NoError(t, reporter.Handle(generatedBudget()))

	out := buf.String()
	assert.Contains(t, out, "Budget Utilization Report")
	assert.Contains(t, out, "Current Quarter")
	assert.Contains(t, out, "All Startups")
	assert.Contains(t, out, "Quantline")
	assert.Contains(t, out, "$30000.00")
	assert.Contains(t, out, "33.3%")
	assert.NotContains(t, out, "Expense Summary")
	assert.NotContains(t, out, "Startup Activity")
}

func TestReporterFinancialOverviewPreview(t *testing.T) {
	g := generatedBudget()
	g.Kind = domain.KindFinancialOverview
	g.Metadata.ReportType = "Financial Overview Report"
	g.Result.Companion = &domain.ExpenseReport{
		Summary: domain.ExpenseSummary{
			TotalExpenses: 4,
			TotalAmount:   decimal.NewFromInt(1800),
		},
		ByStatus: map[string]domain.StatusBreakdown{
			domain.StatusApproved: {Count: 4, Total: decimal.NewFromInt(1800)},
		},
	}

	var buf bytes.Buffer
	reporter := NewReporter(&buf)
	require.NoError(t, reporter.Handle(g))

	out := buf.String()
	assert.Contains(t, out, "Budget Utilization")
	assert.Contains(t, out, "Expense Summary")
	assert.Contains(t, out, domain.StatusApproved)
	assert.Contains(t, out, "$1800.00")
}

func TestReporterStartupFilterShown(t *testing.T) {
	g := generatedBudget()
	g.Metadata.StartupName = "Quantline"

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Handle(g))

	assert.Contains(t, buf.String(), "Startup: Quantline")
}

func TestReporterActivityPreview(t *testing.T) {
	last := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	g := &report.Generated{
		Kind: domain.KindStartupProgress,
		Metadata: domain.ReportMetadata{
			ReportType:  "Startup Progress Report",
			Period:      domain.PeriodAllTime,
			GeneratedAt: time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC),
		},
		Result: &report.Result{
			Payload: domain.ActivityPayload(&domain.ActivityReport{
				Summary: domain.ActivitySummary{
					TotalProgressUpdates: 2,
					TotalExpenses:        3,
					ActiveStartups:       1,
				},
				ActivityByStartup: []domain.ActivityLine{
					{
						Startup:             domain.StartupRef{ID: "s-1", Name: "Quantline"},
						ProgressUpdateCount: 2,
						ExpenseCount:        3,
						TotalExpenseAmount:  decimal.NewFromInt(900),
						LastActivity:        &last,
					},
				},
			}),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Handle(g))

	out := buf.String()
	assert.Contains(t, out, "Startup Activity")
	assert.Contains(t, out, "All Time")
	assert.Contains(t, out, "Quantline")
	assert.Contains(t, out, "$900.00")
}
