// Package report exposes the report engine over HTTP for the admin platform.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edu-tools/report-atlas/pkg/adapters"
	"github.com/edu-tools/report-atlas/pkg/models/api"
	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/edu-tools/report-atlas/pkg/models/store"
	reportsvc "github.com/edu-tools/report-atlas/pkg/services/report"
)

// Service is the part of the report engine the HTTP surface drives.
type Service interface {
	Generate(ctx context.Context, spec reportsvc.GenerateSpec) (*reportsvc.Generated, error)
	Export(ctx context.Context, g *reportsvc.Generated, format domain.ExportFormat) (*reportsvc.File, error)
	History(ctx context.Context) []store.StoredReport
	DeleteHistory(ctx context.Context, id string) error
	ExportStored(ctx context.Context, id string, format domain.ExportFormat) (*reportsvc.File, error)
	Startups(ctx context.Context) ([]domain.Startup, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GenerateReport generates a report and streams the export back as a
// download in one request.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	spec, format, err := mapGenerateRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	generated, err := h.service.Generate(ctx, spec)
	if err != nil {
		if errors.Is(err, reportsvc.ErrIncompleteSelection) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zerolog.Ctx(ctx).Error().Err(err).Str("kind", req.Kind).Msg("report generation failed")
		writeError(w, http.StatusBadGateway, "report generation failed")
		return
	}

	file, err := h.service.Export(ctx, generated, format)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("kind", req.Kind).Msg("report export failed")
		writeError(w, http.StatusInternalServerError, "report export failed")
		return
	}

	writeFile(w, file)
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries := h.service.History(ctx)
	response := make([]api.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		response = append(response, adapters.MapStoreReportToAPI(e))
	}

	writeJSON(ctx, w, response)
}

func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteHistory(r.Context(), id); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("id", id).Msg("history delete failed")
		writeError(w, http.StatusInternalServerError, "history delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadStored re-exports a history entry in the requested format without
// touching the admin API.
func (h *Handler) DownloadStored(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(domain.FormatPDF)
	}
	format, err := domain.ParseExportFormat(formatParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, err := h.service.ExportStored(ctx, id, format)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("id", id).Msg("stored report export failed")
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	writeFile(w, file)
}

func (h *Handler) ListStartups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	startups, err := h.service.Startups(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("startup listing failed")
		writeError(w, http.StatusBadGateway, "startup listing failed")
		return
	}

	response := make([]api.Startup, 0, len(startups))
	for _, s := range startups {
		response = append(response, adapters.MapStartupDomainToAPI(s))
	}

	writeJSON(ctx, w, response)
}

func mapGenerateRequest(req api.GenerateRequest) (reportsvc.GenerateSpec, domain.ExportFormat, error) {
	var spec reportsvc.GenerateSpec

	kind, err := domain.ParseReportKind(req.Kind)
	if err != nil {
		return spec, "", err
	}
	period, err := domain.ParsePeriodToken(req.Period)
	if err != nil {
		return spec, "", err
	}
	formatParam := req.Format
	if formatParam == "" {
		formatParam = string(domain.FormatPDF)
	}
	format, err := domain.ParseExportFormat(formatParam)
	if err != nil {
		return spec, "", err
	}

	spec = reportsvc.GenerateSpec{Kind: kind, Period: period, StartupID: req.StartupID}
	if period == domain.PeriodCustom {
		spec.Range, err = parseRange(req.StartDate, req.EndDate)
		if err != nil {
			return spec, "", err
		}
	}
	return spec, format, nil
}

func parseRange(start, end string) (domain.DateRange, error) {
	var r domain.DateRange
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return r, fmt.Errorf("invalid startDate %q", start)
		}
		r.Start = &t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return r, fmt.Errorf("invalid endDate %q", end)
		}
		r.End = &t
	}
	return r, nil
}

func writeFile(w http.ResponseWriter, file *reportsvc.File) {
	w.Header().Set("Content-Type", file.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(file.Data)))
	_, _ = w.Write(file.Data)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Error{Error: message})
}
