package logo

import (
	"context"
	"fmt"
	"testing"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

type stubClient struct {
	logo  []byte
	err   error
	calls int
}

func (s *stubClient) FetchLogo(context.Context) ([]byte, error) {
	s.calls++
	return s.logo, s.err
}

func (s *stubClient) GetBudgetReport(context.Context, domain.ReportFilter) (*domain.BudgetReport, error) {
	return nil, nil
}

func (s *stubClient) GetExpenseReport(context.Context, domain.ReportFilter) (*domain.ExpenseReport, error) {
	return nil, nil
}

func (s *stubClient) GetActivityReport(context.Context, domain.ReportFilter) (*domain.ActivityReport, error) {
	return nil, nil
}

func (s *stubClient) ListStartups(context.Context) ([]domain.Startup, error) {
	return nil, nil
}

func TestCache_LoadsOnce(t *testing.T) {
	stub := &stubClient{logo: []byte("png-bytes")}
	c := NewCache(stub)
	ctx := context.Background()

	assert.Equal(t, []byte("png-bytes"), c.Raw(ctx))
	assert.Equal(t, "cG5nLWJ5dGVz", c.Base64(ctx))
	assert.Equal(t, []byte("png-bytes"), c.Raw(ctx))
	assert.Equal(t, 1, stub.calls)
}

func TestCache_FetchFailureDegrades(t *testing.T) {
	stub := &stubClient{err: fmt.Errorf("404")}
	c := NewCache(stub)
	ctx := context.Background()

	assert.Nil(t, c.Raw(ctx))
	assert.Empty(t, c.Base64(ctx))
	// The failure is cached too; no retry storm on every export.
	c.Raw(ctx)
	assert.Equal(t, 1, stub.calls)
}
