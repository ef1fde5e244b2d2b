package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRange(t *testing.T) domain.DateRange {
	t.Helper()
	start := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)
	return domain.DateRange{Start: &start, End: &end}
}

func TestGetBudgetReport(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{
			"success": true,
			"data": {
				"summary": {"totalStartups": 2, "totalBudget": "5000", "totalAllocated": "4000", "totalSpent": "1500"},
				"report": [
					{"startup": {"id": "s1", "name": "Acme"}, "budget": {"total": "3000", "allocated": "2500", "spent": "1000", "remaining": "2000", "utilizationPercent": "33.3"}}
				]
			}
		}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: "secret"})
	report, err := c.GetBudgetReport(context.Background(), domain.ReportFilter{
		StartupID: "s1",
		Range:     testRange(t),
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/reports/budget", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "s1", gotQuery["startupId"])
	assert.Equal(t, "2024-05-01", gotQuery["startDate"])
	assert.Equal(t, "2024-05-31", gotQuery["endDate"])

	assert.Equal(t, 2, report.Summary.TotalStartups)
	require.Len(t, report.Report, 1)
	assert.Equal(t, "Acme", report.Report[0].Startup.Name)
}

func TestGetReport_AllStartupsOmitsFilter(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"success": true, "data": {"summary": {}, "byStatus": {}, "byCategory": []}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	_, err := c.GetExpenseReport(context.Background(), domain.ReportFilter{StartupID: "all"})
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestGetReport_NullDataIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success": true, "data": null}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	_, err := c.GetActivityReport(context.Background(), domain.ReportFilter{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestGetReport_APIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success": false, "message": "period out of range"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	_, err := c.GetBudgetReport(context.Background(), domain.ReportFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period out of range")
}

func TestGetReport_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	_, err := c.GetBudgetReport(context.Background(), domain.ReportFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestListStartups(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/startups", r.URL.Path)
		w.Write([]byte(`{"success": true, "data": [{"id": "s1", "name": "Acme"}, {"id": "s2", "name": "Globex"}]}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	startups, err := c.ListStartups(context.Background())
	require.NoError(t, err)
	require.Len(t, startups, 2)
	assert.Equal(t, "Globex", startups[1].Name)
}

func TestFetchLogo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer srv.Close()

	c := New(Config{LogoURL: srv.URL + "/logo.png"})
	logo, err := c.FetchLogo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, logo)
}

func TestFetchLogo_NotConfigured(t *testing.T) {
	c := New(Config{})
	_, err := c.FetchLogo(context.Background())
	assert.Error(t, err)
}
