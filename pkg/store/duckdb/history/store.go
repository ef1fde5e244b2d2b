// Package history persists the bounded, newest-first list of generated
// reports. History is a convenience feature: callers are expected to treat
// write failures as non-fatal, and reads degrade to an empty list rather
// than failing the surrounding flow.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/edu-tools/report-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

// Capacity bounds the history to the 50 most recently inserted entries.
// Eviction is strict FIFO by insertion order, regardless of entry content.
const Capacity = 50

type Store interface {
	// Add prepends an entry and truncates the history to Capacity.
	Add(ctx context.Context, report store.StoredReport) error
	// List returns entries newest-first. A corrupted underlying store yields
	// an empty list, never an error that would break callers.
	List(ctx context.Context) []store.StoredReport
	// Get returns the entry with the given id.
	Get(ctx context.Context, id string) (*store.StoredReport, error)
	// Delete removes the entry with the given id; absent ids are a no-op.
	Delete(ctx context.Context, id string) error
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{db: db}, nil
}

func (s *defaultStore) Add(ctx context.Context, report store.StoredReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history write: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stored_reports (
			seq, id, kind, type_name, period, startup_name, format, generated_at, data
		) VALUES (
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM stored_reports),
			?, ?, ?, ?, ?, ?, ?, ?
		)`,
		report.ID,
		report.Kind,
		report.TypeName,
		report.Period,
		report.StartupName,
		report.Format,
		report.GeneratedAt,
		string(report.Data),
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM stored_reports
		WHERE id NOT IN (SELECT id FROM stored_reports ORDER BY seq DESC LIMIT ?)`,
		Capacity,
	)
	if err != nil {
		return fmt.Errorf("truncate history: %w", err)
	}

	return tx.Commit()
}

func (s *defaultStore) List(ctx context.Context) []store.StoredReport {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, type_name, period, startup_name, format, generated_at, data
		FROM stored_reports
		ORDER BY seq DESC`)
	if err != nil {
		logger.Warn().Err(err).Msg("history unreadable, returning empty list")
		return []store.StoredReport{}
	}
	defer rows.Close()

	reports := make([]store.StoredReport, 0)
	for rows.Next() {
		r, err := scanStoredReport(rows)
		if err != nil {
			logger.Warn().Err(err).Msg("skipping corrupted history entry")
			continue
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		logger.Warn().Err(err).Msg("history read aborted, returning partial list")
	}
	return reports
}

func (s *defaultStore) Get(ctx context.Context, id string) (*store.StoredReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, type_name, period, startup_name, format, generated_at, data
		FROM stored_reports
		WHERE id = ?`, id)

	r, err := scanStoredReport(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("history entry %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("read history entry: %w", err)
	}
	return &r, nil
}

func (s *defaultStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM stored_reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStoredReport(row rowScanner) (store.StoredReport, error) {
	var r store.StoredReport
	var startupName sql.NullString
	var data string

	err := row.Scan(&r.ID, &r.Kind, &r.TypeName, &r.Period, &startupName, &r.Format, &r.GeneratedAt, &data)
	if err != nil {
		return store.StoredReport{}, err
	}
	if startupName.Valid {
		r.StartupName = startupName.String
	}
	if !json.Valid([]byte(data)) {
		return store.StoredReport{}, fmt.Errorf("entry %s holds invalid payload JSON", r.ID)
	}
	r.Data = json.RawMessage(data)
	return r, nil
}
