// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported driver names, as passed to database/sql.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the archive database and creates the schema.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, errors.Newf("unsupported database driver %q", driver)
	}
	if dsn == "" {
		return nil, errors.WithHint(
			errors.Newf("no %s connection string", driver),
			"set DATABASE_URL or pass --database",
		)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", driver)
	}
	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY between Record calls
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "failed to ping %s", driver)
	}
	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return errors.Wrap(err, "failed to create schema")
	}

	return nil
}

const schema = `
-- Published datasets
CREATE TABLE IF NOT EXISTS dataset_snapshot (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    checksum TEXT NOT NULL UNIQUE,
    size_bytes BIGINT NOT NULL,
    loaded_at TIMESTAMP NOT NULL,
    problem_rows INTEGER NOT NULL,
    orientation_rows INTEGER NOT NULL,
    countries TEXT NOT NULL -- JSON array
);

CREATE INDEX IF NOT EXISTS idx_dataset_snapshot_loaded_at ON dataset_snapshot(loaded_at);

-- Normalized cells, one per (sheet, label, country)
CREATE TABLE IF NOT EXISTS dataset_value (
    snapshot_id TEXT NOT NULL REFERENCES dataset_snapshot(id) ON DELETE CASCADE,
    sheet TEXT NOT NULL,
    label TEXT NOT NULL,
    country TEXT NOT NULL,
    proportion DOUBLE PRECISION,
    PRIMARY KEY (snapshot_id, sheet, label, country)
);

CREATE INDEX IF NOT EXISTS idx_dataset_value_country ON dataset_value(snapshot_id, country);
`
