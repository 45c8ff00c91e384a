// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines response types for the API.

# Response Types

Types for JSON responses:

  - CountriesResponse: countries, count
  - LabelsResponse: metric, label_column, labels
  - SingleViewResponse: country, title, rows, warning
  - ComparisonResponse: country_a, country_b, rows, table, significant, warning
  - SnapshotInfo: source, checksum, size, loaded_at, row counts
  - SnapshotListResponse: snapshots
  - ReloadResponse: snapshot, changed, message
  - ErrorResponse: error, message, hint

# Blank Cells

Proportions are *float64 and encode blank cells as null:

	row := models.ViewRow{Label: "Crime", Proportion: models.Proportion(v)}

# Constants

Formats:

	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPNG  = "png"
*/
package models
