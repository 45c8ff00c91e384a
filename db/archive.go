// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/danielhkuo/political-dashboard/survey"
)

// ErrSnapshotNotFound is returned by Get for an unknown id.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is one archived dataset.
type Snapshot struct {
	ID              string
	Source          string
	Checksum        string
	SizeBytes       int64
	LoadedAt        time.Time
	ProblemRows     int
	OrientationRows int
	Countries       []string
}

// Archive records every distinct published dataset.
type Archive struct {
	db *sql.DB
}

// NewArchive wraps an open database whose schema has been created.
func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db}
}

// Record stores ds unless a snapshot with the same checksum already exists.
// It returns the stored snapshot and whether a new row was written.
func (a *Archive) Record(ctx context.Context, ds *survey.Dataset) (Snapshot, bool, error) {
	existing, err := a.byChecksum(ctx, ds.Source.Checksum)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrSnapshotNotFound) {
		return Snapshot{}, false, err
	}

	snap := Snapshot{
		ID:              uuid.NewString(),
		Source:          ds.Source.Path,
		Checksum:        ds.Source.Checksum,
		SizeBytes:       ds.Source.Size,
		LoadedAt:        ds.Source.LoadedAt.UTC(),
		ProblemRows:     ds.Problems.Len(),
		OrientationRows: ds.Orientation.Len(),
		Countries:       ds.Countries(),
	}

	countries, err := json.Marshal(snap.Countries)
	if err != nil {
		return Snapshot{}, false, errors.Wrap(err, "failed to encode countries")
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, false, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dataset_snapshot
			(id, source, checksum, size_bytes, loaded_at, problem_rows, orientation_rows, countries)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, snap.ID, snap.Source, snap.Checksum, snap.SizeBytes, snap.LoadedAt,
		snap.ProblemRows, snap.OrientationRows, string(countries))
	if err != nil {
		return Snapshot{}, false, errors.Wrap(err, "failed to insert snapshot")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dataset_value (snapshot_id, sheet, label, country, proportion)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return Snapshot{}, false, errors.Wrap(err, "failed to prepare value insert")
	}
	defer stmt.Close()

	for _, table := range []*survey.Table{ds.Problems, ds.Orientation} {
		labels := table.Labels()
		for _, country := range table.Countries() {
			values, _ := table.Column(country)
			for i, v := range values {
				p := sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
				if _, err := stmt.ExecContext(ctx, snap.ID, table.Sheet(), labels[i], country, p); err != nil {
					return Snapshot{}, false, errors.Wrapf(err,
						"failed to insert value %s/%s/%s", table.Sheet(), labels[i], country)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, false, errors.Wrap(err, "failed to commit snapshot")
	}
	return snap, true, nil
}

// List returns up to limit snapshots, newest first.
func (a *Archive) List(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, source, checksum, size_bytes, loaded_at, problem_rows, orientation_rows, countries
		FROM dataset_snapshot
		ORDER BY loaded_at DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query snapshots")
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate snapshots")
	}
	return snapshots, nil
}

// Get returns the snapshot with the given id.
func (a *Archive) Get(ctx context.Context, id string) (Snapshot, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, source, checksum, size_bytes, loaded_at, problem_rows, orientation_rows, countries
		FROM dataset_snapshot WHERE id = $1
	`, id)
	return scanSnapshot(row)
}

// Value returns one archived proportion. ok is false when the cell was blank.
func (a *Archive) Value(ctx context.Context, id, sheet, label, country string) (v float64, ok bool, err error) {
	var p sql.NullFloat64
	err = a.db.QueryRowContext(ctx, `
		SELECT proportion FROM dataset_value
		WHERE snapshot_id = $1 AND sheet = $2 AND label = $3 AND country = $4
	`, id, sheet, label, country).Scan(&p)
	if err == sql.ErrNoRows {
		return 0, false, errors.Wrapf(ErrSnapshotNotFound, "%s/%s/%s", sheet, label, country)
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to query value")
	}
	return p.Float64, p.Valid, nil
}

func (a *Archive) byChecksum(ctx context.Context, checksum string) (Snapshot, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, source, checksum, size_bytes, loaded_at, problem_rows, orientation_rows, countries
		FROM dataset_snapshot WHERE checksum = $1
	`, checksum)
	return scanSnapshot(row)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var (
		s         Snapshot
		countries string
	)
	err := row.Scan(&s.ID, &s.Source, &s.Checksum, &s.SizeBytes, &s.LoadedAt,
		&s.ProblemRows, &s.OrientationRows, &countries)
	if err == sql.ErrNoRows {
		return Snapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to scan snapshot")
	}
	if err := json.Unmarshal([]byte(countries), &s.Countries); err != nil {
		return Snapshot{}, errors.Wrapf(err, "snapshot %s: bad countries column", s.ID)
	}
	return s, nil
}
