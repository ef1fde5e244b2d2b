package chart

import (
	"testing"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetAllocationPie(t *testing.T) {
	report := &domain.BudgetReport{
		Report: []domain.BudgetLine{
			{Startup: domain.StartupRef{Name: "Acme"}, Budget: domain.StartupBudget{Allocated: decimal.NewFromInt(2500)}},
			{Startup: domain.StartupRef{Name: "Globex"}, Budget: domain.StartupBudget{Allocated: decimal.NewFromInt(1500)}},
			{Startup: domain.StartupRef{Name: "Empty"}, Budget: domain.StartupBudget{}},
		},
	}

	png, err := BudgetAllocationPie(report)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG signature
	assert.Equal(t, byte(0x89), png[0])
}

func TestBudgetAllocationPie_NoData(t *testing.T) {
	_, err := BudgetAllocationPie(&domain.BudgetReport{})
	assert.Error(t, err)
}

func TestExpenseCategoryPie(t *testing.T) {
	report := &domain.ExpenseReport{
		ByCategory: []domain.CategoryBreakdown{
			{CategoryName: "Marketing", Total: decimal.NewFromInt(400)},
			{CategoryName: "Equipment", Total: decimal.NewFromInt(600)},
		},
	}

	png, err := ExpenseCategoryPie(report)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
