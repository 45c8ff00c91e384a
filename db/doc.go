// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db archives published datasets.

# Schema Creation

Open connects and creates the schema in one step:

	conn, err := db.Open(ctx, db.DriverSQLite, "file:dashboard.db")
	if err != nil {
		log.Fatal(err)
	}

CreateSchema alone is safe to call multiple times - uses IF NOT EXISTS for
all tables and indexes.

# Tables

  - dataset_snapshot: one row per distinct workbook (unique checksum)
  - dataset_value: normalized proportions, NULL for blank cells

	dataset_snapshot 1──* dataset_value

# Archive

	archive := db.NewArchive(conn)
	snap, created, err := archive.Record(ctx, ds)
	recent, err := archive.List(ctx, 10)

Recording the same workbook twice returns the first snapshot and
created == false.
*/
package db
