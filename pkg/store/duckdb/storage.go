package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

// StoredReportsSchema holds the report history. Data is kept as raw text so a
// partially corrupted entry can be skipped on read instead of poisoning the
// whole table. seq preserves strict insertion order for FIFO eviction.
const StoredReportsSchema = `
	CREATE TABLE IF NOT EXISTS stored_reports (
		seq BIGINT NOT NULL,
		id VARCHAR NOT NULL PRIMARY KEY,
		kind VARCHAR NOT NULL,
		type_name VARCHAR NOT NULL,
		period VARCHAR NOT NULL,
		startup_name VARCHAR,
		format VARCHAR NOT NULL,
		generated_at TIMESTAMP NOT NULL,
		data VARCHAR NOT NULL
	);
`

var bootQueries = []string{
	StoredReportsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
