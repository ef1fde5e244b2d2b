package adapters

import (
	"fmt"

	"github.com/edu-tools/report-atlas/pkg/models/api"
	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/edu-tools/report-atlas/pkg/models/store"
)

// payloadKindFor maps a report kind to the payload shape it persists.
// financial-overview stores its primary Budget payload; the Expense half is
// rendered at export time but never independently persisted.
func payloadKindFor(kind domain.ReportKind) domain.PayloadKind {
	switch kind {
	case domain.KindExpenseSummary:
		return domain.PayloadExpense
	case domain.KindStartupProgress:
		return domain.PayloadActivity
	default:
		return domain.PayloadBudget
	}
}

func MapReportToStore(
	id string,
	kind domain.ReportKind,
	md domain.ReportMetadata,
	format domain.ExportFormat,
	payload domain.Payload,
) (store.StoredReport, error) {
	data, err := payload.Data()
	if err != nil {
		return store.StoredReport{}, fmt.Errorf("serialize payload: %w", err)
	}
	return store.StoredReport{
		ID:          id,
		Kind:        string(kind),
		TypeName:    md.ReportType,
		Period:      string(md.Period),
		StartupName: md.StartupName,
		Format:      string(format),
		GeneratedAt: md.GeneratedAt,
		Data:        data,
	}, nil
}

// MapStoreToReport rebuilds the tagged payload and metadata of a history
// entry. Entries carry their kind, so the payload shape is derived from it;
// structural detection is the fallback for entries with an unknown kind.
func MapStoreToReport(sr store.StoredReport) (domain.Payload, domain.ReportMetadata, error) {
	kind, err := domain.ParseReportKind(sr.Kind)
	var payloadKind domain.PayloadKind
	if err != nil {
		payloadKind, err = domain.DetectPayloadKind(sr.Data)
		if err != nil {
			return domain.Payload{}, domain.ReportMetadata{}, err
		}
	} else {
		payloadKind = payloadKindFor(kind)
	}

	payload, err := domain.DecodePayload(payloadKind, sr.Data)
	if err != nil {
		return domain.Payload{}, domain.ReportMetadata{}, err
	}

	md := domain.ReportMetadata{
		ReportType:  sr.TypeName,
		Period:      domain.PeriodToken(sr.Period),
		StartupName: sr.StartupName,
		GeneratedAt: sr.GeneratedAt,
	}
	return payload, md, nil
}

func MapStoreReportToAPI(sr store.StoredReport) api.HistoryEntry {
	return api.HistoryEntry{
		ID:          sr.ID,
		Kind:        sr.Kind,
		TypeName:    sr.TypeName,
		Period:      sr.Period,
		StartupName: sr.StartupName,
		Format:      sr.Format,
		GeneratedAt: sr.GeneratedAt,
	}
}

func MapStartupDomainToAPI(s domain.Startup) api.Startup {
	return api.Startup{ID: s.ID, Name: s.Name}
}
