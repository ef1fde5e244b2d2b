// Package wizard drives the three-step report generation flow:
// select -> configure -> preview. The wizard holds the user's selections,
// gates transitions on them and delegates the actual work to the report
// service. It always starts at the select step; nothing is restored from a
// previous session.
package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/edu-tools/report-atlas/pkg/services/report"
)

type Step string

const (
	StepSelect    Step = "select"
	StepConfigure Step = "configure"
	StepPreview   Step = "preview"
)

var (
	ErrWrongStep      = errors.New("action not available at this step")
	ErrPeriodRequired = errors.New("a period must be selected before generating")
)

// Service is the part of the report service the wizard drives.
type Service interface {
	Generate(ctx context.Context, spec report.GenerateSpec) (*report.Generated, error)
	Export(ctx context.Context, g *report.Generated, format domain.ExportFormat) (*report.File, error)
}

type Wizard struct {
	service Service

	step        Step
	kind        domain.ReportKind
	period      domain.PeriodToken
	customRange domain.DateRange
	startupID   string
	generated   *report.Generated
}

func New(service Service) *Wizard {
	return &Wizard{service: service, step: StepSelect}
}

func (w *Wizard) Step() Step                 { return w.step }
func (w *Wizard) Kind() domain.ReportKind    { return w.kind }
func (w *Wizard) Period() domain.PeriodToken { return w.period }
func (w *Wizard) StartupID() string          { return w.startupID }

// Generated returns the fetched report shown on the preview step.
func (w *Wizard) Generated() *report.Generated { return w.generated }

// SelectKind picks a report kind and unconditionally advances to configure.
func (w *Wizard) SelectKind(kind domain.ReportKind) error {
	if w.step != StepSelect {
		return fmt.Errorf("%w: select is step one", ErrWrongStep)
	}
	w.kind = kind
	w.step = StepConfigure
	return nil
}

// Configure records the period and optional startup filter.
func (w *Wizard) Configure(period domain.PeriodToken, startupID string) error {
	if w.step != StepConfigure {
		return fmt.Errorf("%w: configure after selecting a kind", ErrWrongStep)
	}
	w.period = period
	w.startupID = startupID
	return nil
}

// SetCustomRange records the explicit bounds honored when the custom period
// is selected.
func (w *Wizard) SetCustomRange(r domain.DateRange) error {
	if w.step != StepConfigure {
		return fmt.Errorf("%w: configure after selecting a kind", ErrWrongStep)
	}
	w.customRange = r
	return nil
}

// CanGenerate reports whether the generate action is enabled.
func (w *Wizard) CanGenerate() bool {
	return w.step == StepConfigure && w.kind != "" && w.period != ""
}

// Generate fetches the report. On success the wizard advances to preview;
// on failure it stays at configure with all selections intact so the user
// can retry.
func (w *Wizard) Generate(ctx context.Context) error {
	if w.step != StepConfigure {
		return fmt.Errorf("%w: generate from the configure step", ErrWrongStep)
	}
	if w.period == "" {
		return ErrPeriodRequired
	}

	g, err := w.service.Generate(ctx, report.GenerateSpec{
		Kind:      w.kind,
		Period:    w.period,
		Range:     w.customRange,
		StartupID: w.startupID,
	})
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	w.generated = g
	w.step = StepPreview
	return nil
}

// Download exports the previewed report in the chosen format.
func (w *Wizard) Download(ctx context.Context, format domain.ExportFormat) (*report.File, error) {
	if w.step != StepPreview {
		return nil, fmt.Errorf("%w: download from the preview step", ErrWrongStep)
	}
	return w.service.Export(ctx, w.generated, format)
}

// Back returns to the previous step. From preview the configure selections
// are preserved; from configure the chosen kind is kept for re-selection.
func (w *Wizard) Back() {
	switch w.step {
	case StepPreview:
		w.step = StepConfigure
		w.generated = nil
	case StepConfigure:
		w.step = StepSelect
	}
}

// Reset clears every selection and returns to the initial select step.
func (w *Wizard) Reset() {
	w.step = StepSelect
	w.kind = ""
	w.period = ""
	w.customRange = domain.DateRange{}
	w.startupID = ""
	w.generated = nil
}
