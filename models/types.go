// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"math"
	"time"
)

// Response format constants
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPNG  = "png"
)

// Warning shown when a view is requested with an empty selection.
const EmptySelectionWarning = "Please select at least one %s to display."

// Response types

type CountriesResponse struct {
	Countries []string `json:"countries"`
	Count     int      `json:"count"`
}

type LabelsResponse struct {
	Metric      string   `json:"metric"`
	LabelColumn string   `json:"label_column"`
	Labels      []string `json:"labels"`
}

// Proportion is nil for blank cells
type ViewRow struct {
	Label      string   `json:"label"`
	Proportion *float64 `json:"proportion"`
	Display    string   `json:"display"`
}

type SingleViewResponse struct {
	Metric      string    `json:"metric"`
	LabelColumn string    `json:"label_column"`
	Country     string    `json:"country"`
	Title       string    `json:"title"`
	Rows        []ViewRow `json:"rows"`
	Warning     string    `json:"warning,omitempty"`
}

type ComparisonRow struct {
	Label      string   `json:"label"`
	Country    string   `json:"country"`
	Proportion *float64 `json:"proportion"`
	Display    string   `json:"display"`
}

// Label rows by country columns
type WideTable struct {
	Labels    []string     `json:"labels"`
	Countries []string     `json:"countries"`
	Values    [][]*float64 `json:"values"`
}

type ComparisonResponse struct {
	Metric      string          `json:"metric"`
	LabelColumn string          `json:"label_column"`
	CountryA    string          `json:"country_a"`
	CountryB    string          `json:"country_b"`
	Title       string          `json:"title"`
	Rows        []ComparisonRow `json:"rows"`
	Table       WideTable       `json:"table"`
	Significant []string        `json:"significant"`
	Warning     string          `json:"warning,omitempty"`
}

type SnapshotInfo struct {
	ID              string    `json:"id,omitempty"`
	Source          string    `json:"source"`
	Checksum        string    `json:"checksum"`
	SizeBytes       int64     `json:"size_bytes"`
	Size            string    `json:"size"`
	LoadedAt        time.Time `json:"loaded_at"`
	Age             string    `json:"age"`
	ProblemRows     int       `json:"problem_rows"`
	OrientationRows int       `json:"orientation_rows"`
	Countries       []string  `json:"countries"`
}

type SnapshotListResponse struct {
	Snapshots []SnapshotInfo `json:"snapshots"`
}

// ArchivedValue is one cell of an archived snapshot.
type ArchivedValue struct {
	SnapshotID string   `json:"snapshot_id"`
	Metric     string   `json:"metric"`
	Sheet      string   `json:"sheet"`
	Label      string   `json:"label"`
	Country    string   `json:"country"`
	Proportion *float64 `json:"proportion"`
	Display    string   `json:"display"`
}

type ReloadResponse struct {
	Snapshot SnapshotInfo `json:"snapshot"`
	Changed  bool         `json:"changed"`
	Message  string       `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// Proportion converts a cell value for JSON, which has no NaN.
func Proportion(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
