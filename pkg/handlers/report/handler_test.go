package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edu-tools/report-atlas/pkg/models/api"
	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/edu-tools/report-atlas/pkg/models/store"
	reportsvc "github.com/edu-tools/report-atlas/pkg/services/report"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Generate(ctx context.Context, spec reportsvc.GenerateSpec) (*reportsvc.Generated, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportsvc.Generated), args.Error(1)
}

func (m *mockService) Export(ctx context.Context, g *reportsvc.Generated, format domain.ExportFormat) (*reportsvc.File, error) {
	args := m.Called(ctx, g, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportsvc.File), args.Error(1)
}

func (m *mockService) History(ctx context.Context) []store.StoredReport {
	args := m.Called(ctx)
	return args.Get(0).([]store.StoredReport)
}

func (m *mockService) DeleteHistory(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockService) ExportStored(ctx context.Context, id string, format domain.ExportFormat) (*reportsvc.File, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportsvc.File), args.Error(1)
}

func (m *mockService) Startups(ctx context.Context) ([]domain.Startup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Startup), args.Error(1)
}

func setupRouter(svc *mockService) *chi.Mux {
	h := NewHandler(svc)
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/reports", h.GenerateReport)
		r.Get("/history", h.ListHistory)
		r.Delete("/history/{id}", h.DeleteHistory)
		r.Get("/history/{id}/download", h.DownloadStored)
		r.Get("/startups", h.ListStartups)
	})
	return router
}

func TestGenerateReport(t *testing.T) {
	generated := &reportsvc.Generated{Kind: domain.KindExpenseSummary}
	file := &reportsvc.File{
		Name: "expense-summary-report-current-month-2024-05-15.html",
		MIME: "text/html; charset=utf-8",
		Data: []byte("<!DOCTYPE html>"),
	}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*mockService)
		expectedStatus int
		check          func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "successful generation streams the download",
			body: `{"kind":"expense-summary","period":"current-month","format":"html"}`,
			setupMock: func(m *mockService) {
				m.On("Generate", mock.Anything, reportsvc.GenerateSpec{
					Kind:   domain.KindExpenseSummary,
					Period: domain.PeriodCurrentMonth,
				}).Return(generated, nil)
				m.On("Export", mock.Anything, generated, domain.FormatHTML).Return(file, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Header().Get("Content-Disposition"), file.Name)
				assert.Equal(t, "<!DOCTYPE html>", rec.Body.String())
			},
		},
		{
			name:           "invalid body",
			body:           `{not json`,
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown kind",
			body:           `{"kind":"velocity","period":"current-month"}`,
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown period",
			body:           `{"kind":"expense-summary","period":"fortnight"}`,
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "upstream failure",
			body: `{"kind":"expense-summary","period":"current-month"}`,
			setupMock: func(m *mockService) {
				m.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("admin api down"))
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name: "custom period carries explicit dates",
			body: `{"kind":"expense-summary","period":"custom","startDate":"2024-01-01","endDate":"2024-03-31","format":"html"}`,
			setupMock: func(m *mockService) {
				m.On("Generate", mock.Anything, mock.MatchedBy(func(spec reportsvc.GenerateSpec) bool {
					return spec.Period == domain.PeriodCustom &&
						spec.Range.Start != nil && spec.Range.Start.Format("2006-01-02") == "2024-01-01" &&
						spec.Range.End != nil && spec.Range.End.Format("2006-01-02") == "2024-03-31"
				})).Return(generated, nil)
				m.On("Export", mock.Anything, generated, domain.FormatHTML).Return(file, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "custom period with malformed date",
			body:           `{"kind":"expense-summary","period":"custom","startDate":"01/01/2024"}`,
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			tt.setupMock(svc)
			router := setupRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.check != nil {
				tt.check(t, rec)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestListHistory(t *testing.T) {
	svc := &mockService{}
	svc.On("History", mock.Anything).Return([]store.StoredReport{
		{
			ID:          "id-2",
			Kind:        "expense-summary",
			TypeName:    "Expense Summary Report",
			Period:      "current-month",
			Format:      "html",
			GeneratedAt: time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:          "id-1",
			Kind:        "budget-utilization",
			TypeName:    "Budget Utilization Report",
			Period:      "all-time",
			StartupName: "Quantline",
			Format:      "pdf",
			GeneratedAt: time.Date(2024, 5, 14, 9, 0, 0, 0, time.UTC),
		},
	})
	router := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []api.HistoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "id-2", entries[0].ID)
	assert.Equal(t, "Expense Summary Report", entries[0].TypeName)
	assert.Equal(t, "Quantline", entries[1].StartupName)
}

func TestListHistoryEmpty(t *testing.T) {
	svc := &mockService{}
	svc.On("History", mock.Anything).Return([]store.StoredReport{})
	router := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestDeleteHistory(t *testing.T) {
	svc := &mockService{}
	svc.On("DeleteHistory", mock.Anything, "id-1").Return(nil)
	router := setupRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/history/id-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestDownloadStored(t *testing.T) {
	file := &reportsvc.File{
		Name: "budget-utilization-report-all-time-2024-05-14.pdf",
		MIME: "application/pdf",
		Data: []byte("%PDF-1.4"),
	}

	svc := &mockService{}
	svc.On("ExportStored", mock.Anything, "id-1", domain.FormatPDF).Return(file, nil)
	router := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history/id-1/download?format=pdf", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
}

func TestDownloadStoredDefaultsToPDF(t *testing.T) {
	svc := &mockService{}
	svc.On("ExportStored", mock.Anything, "id-1", domain.FormatPDF).
		Return(&reportsvc.File{Name: "r.pdf", MIME: "application/pdf", Data: []byte("%PDF")}, nil)
	router := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history/id-1/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDownloadStoredMissingEntry(t *testing.T) {
	svc := &mockService{}
	svc.On("ExportStored", mock.Anything, "gone", domain.FormatPDF).Return(nil, errors.New("not found"))
	router := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history/gone/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListStartups(t *testing.T) {
	svc := &mockService{}
	svc.On("Startups", mock.Anything).Return([]domain.Startup{
		{ID: "s-1", Name: "Quantline"},
		{ID: "s-2", Name: "Heliobyte"},
	}, nil)
	router := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/startups", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var startups []api.Startup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &startups))
	require.Len(t, startups, 2)
	assert.Equal(t, "Heliobyte", startups[1].Name)
}

func TestListStartupsUpstreamFailure(t *testing.T) {
	svc := &mockService{}
	svc.On("Startups", mock.Anything).Return(nil, errors.New("admin api down"))
	router := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/startups", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var apiErr api.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "startup listing failed", apiErr.Error)
}
