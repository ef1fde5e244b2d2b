// Package client implements the HTTP client for the admin platform API,
// the single source of report payloads, startup listings and branding assets.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
)

// ErrNoData is returned when a report query succeeds but carries no payload.
// The engine treats this as a failed fetch, not as an empty report.
var ErrNoData = fmt.Errorf("report query returned no data")

// ReportsClient is the subset of the admin API the report engine consumes.
type ReportsClient interface {
	GetBudgetReport(ctx context.Context, filter domain.ReportFilter) (*domain.BudgetReport, error)
	GetExpenseReport(ctx context.Context, filter domain.ReportFilter) (*domain.ExpenseReport, error)
	GetActivityReport(ctx context.Context, filter domain.ReportFilter) (*domain.ActivityReport, error)
	ListStartups(ctx context.Context) ([]domain.Startup, error)
	FetchLogo(ctx context.Context) ([]byte, error)
}

type Client struct {
	baseURL    string
	token      string
	logoURL    string
	httpClient *http.Client
}

type Config struct {
	BaseURL string
	Token   string
	LogoURL string
	Timeout time.Duration
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		logoURL: cfg.LogoURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// envelope is the API's uniform success wrapper. Data stays raw until the
// caller-specific shape is known.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) GetBudgetReport(ctx context.Context, filter domain.ReportFilter) (*domain.BudgetReport, error) {
	var report domain.BudgetReport
	if err := c.getReport(ctx, "/api/reports/budget", filter, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) GetExpenseReport(ctx context.Context, filter domain.ReportFilter) (*domain.ExpenseReport, error) {
	var report domain.ExpenseReport
	if err := c.getReport(ctx, "/api/reports/expenses", filter, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) GetActivityReport(ctx context.Context, filter domain.ReportFilter) (*domain.ActivityReport, error) {
	var report domain.ActivityReport
	if err := c.getReport(ctx, "/api/reports/activity", filter, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) ListStartups(ctx context.Context) ([]domain.Startup, error) {
	body, err := c.get(ctx, c.baseURL+"/api/startups", nil)
	if err != nil {
		return nil, err
	}
	var startups []domain.Startup
	if err := json.Unmarshal(body, &startups); err != nil {
		return nil, fmt.Errorf("decode startups: %w", err)
	}
	return startups, nil
}

// FetchLogo downloads the program logo for embedding in exported documents.
func (c *Client) FetchLogo(ctx context.Context) ([]byte, error) {
	if c.logoURL == "" {
		return nil, fmt.Errorf("no logo URL configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.logoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build logo request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch logo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch logo: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) getReport(ctx context.Context, path string, filter domain.ReportFilter, out any) error {
	params := url.Values{}
	if id := filter.EffectiveStartupID(); id != "" {
		params.Set("startupId", id)
	}
	if s := filter.Range.StartISO(); s != "" {
		params.Set("startDate", s)
	}
	if e := filter.Range.EndISO(); e != "" {
		params.Set("endDate", e)
	}

	body, err := c.get(ctx, c.baseURL+path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode report payload: %w", err)
	}
	return nil
}

// get issues an authenticated GET, unwraps the success envelope and returns
// the raw data body. A successful response without data maps to ErrNoData.
func (c *Client) get(ctx context.Context, rawURL string, params url.Values) (json.RawMessage, error) {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("api error: %s", env.Message)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, ErrNoData
	}
	return env.Data, nil
}
