// Package report coordinates report fetching, export and history bookkeeping.
package report

import (
	"context"
	"fmt"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/edu-tools/report-atlas/pkg/store/client"
	"golang.org/x/sync/errgroup"
)

// Result is a fetched report ready for rendering. Companion carries the
// Expense half of a financial overview; it is rendered alongside the primary
// Budget payload but never persisted on its own.
type Result struct {
	Payload   domain.Payload
	Companion *domain.ExpenseReport
}

// Coordinator translates a report kind and filter into exactly the queries
// that kind requires. Kinds map to payloads as: budget-utilization -> Budget,
// expense-summary -> Expense, startup-progress -> Activity,
// financial-overview -> Budget and Expense. Unneeded queries never fire.
type Coordinator struct {
	client client.ReportsClient
}

func NewCoordinator(c client.ReportsClient) *Coordinator {
	return &Coordinator{client: c}
}

// Fetch issues the armed queries and yields the primary payload. A missing
// required payload fails the whole fetch; for financial-overview the two
// queries run concurrently and either failure fails the fetch, with Budget
// as the primary payload on success.
func (c *Coordinator) Fetch(
	ctx context.Context,
	kind domain.ReportKind,
	filter domain.ReportFilter,
) (*Result, error) {
	switch kind {
	case domain.KindBudgetUtilization:
		budget, err := c.client.GetBudgetReport(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("fetch budget report: %w", err)
		}
		return &Result{Payload: domain.BudgetPayload(budget)}, nil

	case domain.KindExpenseSummary:
		expense, err := c.client.GetExpenseReport(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("fetch expense report: %w", err)
		}
		return &Result{Payload: domain.ExpensePayload(expense)}, nil

	case domain.KindStartupProgress:
		activity, err := c.client.GetActivityReport(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("fetch activity report: %w", err)
		}
		return &Result{Payload: domain.ActivityPayload(activity)}, nil

	case domain.KindFinancialOverview:
		var budget *domain.BudgetReport
		var expense *domain.ExpenseReport

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			budget, err = c.client.GetBudgetReport(gctx, filter)
			if err != nil {
				return fmt.Errorf("fetch budget report: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			expense, err = c.client.GetExpenseReport(gctx, filter)
			if err != nil {
				return fmt.Errorf("fetch expense report: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return &Result{Payload: domain.BudgetPayload(budget), Companion: expense}, nil

	default:
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}
}
