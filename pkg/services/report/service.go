package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edu-tools/report-atlas/pkg/adapters"
	"github.com/edu-tools/report-atlas/pkg/export"
	"github.com/edu-tools/report-atlas/pkg/export/chart"
	"github.com/edu-tools/report-atlas/pkg/export/htmlreport"
	"github.com/edu-tools/report-atlas/pkg/export/pdf"
	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/edu-tools/report-atlas/pkg/models/store"
	"github.com/edu-tools/report-atlas/pkg/services/period"
	"github.com/edu-tools/report-atlas/pkg/store/client"
	"github.com/edu-tools/report-atlas/pkg/store/duckdb/history"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrIncompleteSelection is returned when Generate is invoked without both a
// report kind and a period. The UI disables the action, but the check stays.
var ErrIncompleteSelection = errors.New("report kind and period are required")

// LogoProvider hands out the cached program logo; see services/logo.
type LogoProvider interface {
	Raw(ctx context.Context) []byte
	Base64(ctx context.Context) string
}

// GenerateSpec carries the wizard's configure-step selections.
type GenerateSpec struct {
	Kind      domain.ReportKind
	Period    domain.PeriodToken
	Range     domain.DateRange // honored only for the custom period
	StartupID string
}

// Generated is a fetched report ready for export, with the metadata attached
// to every rendered document and history entry.
type Generated struct {
	Kind     domain.ReportKind
	Metadata domain.ReportMetadata
	Result   *Result
}

// File is an export ready for download.
type File struct {
	Name string
	MIME string
	Data []byte
}

type Service struct {
	coordinator *Coordinator
	client      client.ReportsClient
	exporter    *pdf.Exporter
	logo        LogoProvider
	history     history.Store
	now         func() time.Time
	newID       func() string
}

type Deps struct {
	Client  client.ReportsClient
	Logo    LogoProvider
	History history.Store
	// Now and NewID default to the wall clock and random UUIDs.
	Now   func() time.Time
	NewID func() string
}

func NewService(deps Deps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{
		coordinator: NewCoordinator(deps.Client),
		client:      deps.Client,
		exporter:    pdf.NewExporter(),
		logo:        deps.Logo,
		history:     deps.History,
		now:         now,
		newID:       newID,
	}
}

// Startups lists the incubated startups for the configure-step filter.
func (s *Service) Startups(ctx context.Context) ([]domain.Startup, error) {
	return s.client.ListStartups(ctx)
}

// Generate resolves the period, arms the queries the kind requires and
// returns the fetched result. The startup name on the metadata is resolved
// from the listing so documents carry the name, not the id.
func (s *Service) Generate(ctx context.Context, spec GenerateSpec) (*Generated, error) {
	if spec.Kind == "" || spec.Period == "" {
		return nil, ErrIncompleteSelection
	}

	dateRange := period.Resolve(spec.Period, s.now())
	if spec.Period == domain.PeriodCustom {
		dateRange = spec.Range
	}
	filter := domain.ReportFilter{StartupID: spec.StartupID, Range: dateRange}

	result, err := s.coordinator.Fetch(ctx, spec.Kind, filter)
	if err != nil {
		return nil, err
	}

	md := domain.ReportMetadata{
		ReportType:  spec.Kind.DisplayName(),
		Period:      spec.Period,
		StartupName: s.startupName(ctx, filter.EffectiveStartupID()),
		GeneratedAt: s.now(),
	}
	return &Generated{Kind: spec.Kind, Metadata: md, Result: result}, nil
}

// Export renders the generated report into the requested format and records
// it in history. History write failures never fail the export.
func (s *Service) Export(ctx context.Context, g *Generated, format domain.ExportFormat) (*File, error) {
	file, err := s.render(ctx, g.Result.Payload, g.Result.Companion, g.Metadata, format)
	if err != nil {
		return nil, err
	}

	s.record(ctx, g, format)
	return file, nil
}

// History lists persisted report descriptors, newest first.
func (s *Service) History(ctx context.Context) []store.StoredReport {
	return s.history.List(ctx)
}

func (s *Service) DeleteHistory(ctx context.Context, id string) error {
	return s.history.Delete(ctx, id)
}

// ExportStored re-renders a persisted report without re-fetching from the
// admin API. A financial overview re-renders from its primary Budget payload;
// the Expense half was never persisted on its own.
func (s *Service) ExportStored(ctx context.Context, id string, format domain.ExportFormat) (*File, error) {
	entry, err := s.history.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, md, err := adapters.MapStoreToReport(*entry)
	if err != nil {
		return nil, fmt.Errorf("restore history entry: %w", err)
	}
	return s.render(ctx, payload, nil, md, format)
}

func (s *Service) render(
	ctx context.Context,
	payload domain.Payload,
	companion *domain.ExpenseReport,
	md domain.ReportMetadata,
	format domain.ExportFormat,
) (*File, error) {
	switch format {
	case domain.FormatHTML:
		doc, err := htmlreport.Render(payload, companion, md, s.logo.Base64(ctx))
		if err != nil {
			return nil, err
		}
		return &File{
			Name: export.Filename(md, domain.FormatHTML),
			MIME: "text/html; charset=utf-8",
			Data: []byte(doc),
		}, nil

	case domain.FormatPDF:
		doc, err := s.exporter.Generate(payload, companion, md, s.logo.Raw(ctx), s.chartFor(ctx, payload))
		if err != nil {
			return nil, err
		}
		return &File{
			Name: export.Filename(md, domain.FormatPDF),
			MIME: "application/pdf",
			Data: doc,
		}, nil

	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// chartFor builds the section chart for payloads that have one. Chart
// failures only cost the chart, never the export.
func (s *Service) chartFor(ctx context.Context, payload domain.Payload) []byte {
	var png []byte
	var err error
	switch payload.Kind {
	case domain.PayloadBudget:
		png, err = chart.BudgetAllocationPie(payload.Budget)
	case domain.PayloadExpense:
		png, err = chart.ExpenseCategoryPie(payload.Expense)
	default:
		return nil
	}
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("chart omitted from export")
		return nil
	}
	return png
}

func (s *Service) record(ctx context.Context, g *Generated, format domain.ExportFormat) {
	entry, err := adapters.MapReportToStore(s.newID(), g.Kind, g.Metadata, format, g.Result.Payload)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("history entry not recorded")
		return
	}
	if err := s.history.Add(ctx, entry); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("history write failed, export unaffected")
	}
}

func (s *Service) startupName(ctx context.Context, startupID string) string {
	if startupID == "" {
		return ""
	}
	startups, err := s.client.ListStartups(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("startup name unresolved")
		return ""
	}
	for _, st := range startups {
		if st.ID == startupID {
			return st.Name
		}
	}
	return ""
}
