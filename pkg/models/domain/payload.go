package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PayloadKind tags the concrete shape carried by a Payload. It is assigned
// exactly once, at the API boundary, so downstream code never has to sniff
// key shapes to tell the three report payloads apart.
type PayloadKind string

const (
	PayloadBudget   PayloadKind = "budget"
	PayloadExpense  PayloadKind = "expense"
	PayloadActivity PayloadKind = "activity"
)

// Payload is the tagged union of the three report shapes returned by the
// admin API. Exactly one of the pointers matching Kind is non-nil.
type Payload struct {
	Kind     PayloadKind
	Budget   *BudgetReport
	Expense  *ExpenseReport
	Activity *ActivityReport
}

func BudgetPayload(r *BudgetReport) Payload {
	return Payload{Kind: PayloadBudget, Budget: r}
}

func ExpensePayload(r *ExpenseReport) Payload {
	return Payload{Kind: PayloadExpense, Expense: r}
}

func ActivityPayload(r *ActivityReport) Payload {
	return Payload{Kind: PayloadActivity, Activity: r}
}

// Data returns the payload body for serialization at rest.
func (p Payload) Data() (json.RawMessage, error) {
	switch p.Kind {
	case PayloadBudget:
		return json.Marshal(p.Budget)
	case PayloadExpense:
		return json.Marshal(p.Expense)
	case PayloadActivity:
		return json.Marshal(p.Activity)
	default:
		return nil, fmt.Errorf("payload has no kind tag")
	}
}

// DecodePayload rebuilds a tagged payload from an at-rest body.
func DecodePayload(kind PayloadKind, data json.RawMessage) (Payload, error) {
	switch kind {
	case PayloadBudget:
		var r BudgetReport
		if err := json.Unmarshal(data, &r); err != nil {
			return Payload{}, fmt.Errorf("decode budget payload: %w", err)
		}
		return BudgetPayload(&r), nil
	case PayloadExpense:
		var r ExpenseReport
		if err := json.Unmarshal(data, &r); err != nil {
			return Payload{}, fmt.Errorf("decode expense payload: %w", err)
		}
		return ExpensePayload(&r), nil
	case PayloadActivity:
		var r ActivityReport
		if err := json.Unmarshal(data, &r); err != nil {
			return Payload{}, fmt.Errorf("decode activity payload: %w", err)
		}
		return ActivityPayload(&r), nil
	default:
		return Payload{}, fmt.Errorf("unknown payload kind %q", kind)
	}
}

// DetectPayloadKind classifies an untagged at-rest body by its distinguishing
// keys: "report" plus summary.totalStartups for budget, "byStatus"+"byCategory"
// for expense, "progressUpdates"+"activityByStartup" for activity. Used only
// for history entries written before kinds were tagged at the boundary.
func DetectPayloadKind(data json.RawMessage) (PayloadKind, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return "", fmt.Errorf("detect payload kind: %w", err)
	}
	_, hasReport := keys["report"]
	_, hasByStatus := keys["byStatus"]
	_, hasByCategory := keys["byCategory"]
	_, hasProgress := keys["progressUpdates"]
	_, hasActivity := keys["activityByStartup"]
	switch {
	case hasReport && !hasByStatus:
		return PayloadBudget, nil
	case hasByStatus && hasByCategory:
		return PayloadExpense, nil
	case hasProgress || hasActivity:
		return PayloadActivity, nil
	default:
		return "", fmt.Errorf("payload matches no known report shape")
	}
}

// BudgetReport aggregates budget utilization across startups.
type BudgetReport struct {
	Summary BudgetSummary `json:"summary"`
	Report  []BudgetLine  `json:"report"`
}

type BudgetSummary struct {
	TotalStartups  int             `json:"totalStartups"`
	TotalBudget    decimal.Decimal `json:"totalBudget"`
	TotalAllocated decimal.Decimal `json:"totalAllocated"`
	TotalSpent     decimal.Decimal `json:"totalSpent"`
}

type BudgetLine struct {
	Startup StartupRef    `json:"startup"`
	Budget  StartupBudget `json:"budget"`
}

type StartupRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StartupBudget struct {
	Total              decimal.Decimal `json:"total"`
	Allocated          decimal.Decimal `json:"allocated"`
	Spent              decimal.Decimal `json:"spent"`
	Remaining          decimal.Decimal `json:"remaining"`
	UtilizationPercent decimal.Decimal `json:"utilizationPercent"`
}

// Utilization computes spent/total as a percentage rounded to one decimal.
// A zero total yields 0, never a division error.
func (b StartupBudget) Utilization() decimal.Decimal {
	if b.Total.IsZero() {
		return decimal.Zero
	}
	return b.Spent.Div(b.Total).Mul(decimal.NewFromInt(100)).Round(1)
}

// ExpenseReport aggregates expenses by approval status and category.
type ExpenseReport struct {
	Summary    ExpenseSummary             `json:"summary"`
	ByStatus   map[string]StatusBreakdown `json:"byStatus"`
	ByCategory []CategoryBreakdown        `json:"byCategory"`
}

// Expense approval statuses, in fixed render order.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// ExpenseStatuses returns the statuses in their stable render order.
func ExpenseStatuses() []string {
	return []string{StatusPending, StatusApproved, StatusRejected}
}

type ExpenseSummary struct {
	TotalExpenses  int             `json:"totalExpenses"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	ApprovedAmount decimal.Decimal `json:"approvedAmount"`
}

type StatusBreakdown struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type CategoryBreakdown struct {
	CategoryName string          `json:"categoryName"`
	StartupName  string          `json:"startupName"`
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
}

// ActivityReport aggregates progress updates and expense activity.
type ActivityReport struct {
	Summary           ActivitySummary `json:"summary"`
	ProgressUpdates   ProgressUpdates `json:"progressUpdates"`
	Expenses          ExpenseTotals   `json:"expenses"`
	ActivityByStartup []ActivityLine  `json:"activityByStartup"`
}

type ActivitySummary struct {
	TotalProgressUpdates int `json:"totalProgressUpdates"`
	TotalExpenses        int `json:"totalExpenses"`
	ActiveStartups       int `json:"activeStartups"`
}

type ProgressUpdates struct {
	Items []ProgressUpdate `json:"items"`
}

type ProgressUpdate struct {
	ID          string    `json:"id"`
	StartupName string    `json:"startupName"`
	Summary     string    `json:"summary"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ExpenseTotals struct {
	Total decimal.Decimal `json:"total"`
}

type ActivityLine struct {
	Startup             StartupRef      `json:"startup"`
	ProgressUpdateCount int             `json:"progressUpdateCount"`
	ExpenseCount        int             `json:"expenseCount"`
	TotalExpenseAmount  decimal.Decimal `json:"totalExpenseAmount"`
	LastActivity        *time.Time      `json:"lastActivity"`
}
