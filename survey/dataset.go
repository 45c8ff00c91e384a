// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"slices"
)

// Metric selects one of the two survey tables.
type Metric string

const (
	MetricIssues      Metric = "issues"
	MetricOrientation Metric = "orientation"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{MetricIssues, MetricOrientation}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if !slices.Contains(Metrics, m) {
		return "", selectionErrorf("unknown metric %q", s)
	}
	return m, nil
}

// Noun returns the singular word used for a row of the metric's table.
func (m Metric) Noun() string {
	if m == MetricOrientation {
		return "orientation"
	}
	return "issue"
}

// Dataset is one immutable snapshot of the survey workbook.
type Dataset struct {
	Problems    *Table
	Orientation *Table
	Source      SourceInfo

	countries []string
}

// NewDataset derives the country index and bundles both tables.
func NewDataset(problems, orientation *Table, src SourceInfo) (*Dataset, error) {
	countries, err := Countries(problems, orientation)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Problems:    problems,
		Orientation: orientation,
		Source:      src,
		countries:   countries,
	}, nil
}

// Countries returns the sorted country index.
func (d *Dataset) Countries() []string { return slices.Clone(d.countries) }

// HasCountry reports whether country is in the country index.
func (d *Dataset) HasCountry(country string) bool {
	_, found := slices.BinarySearch(d.countries, country)
	return found
}

// Table returns the table behind a metric.
func (d *Dataset) Table(m Metric) (*Table, error) {
	switch m {
	case MetricIssues:
		return d.Problems, nil
	case MetricOrientation:
		return d.Orientation, nil
	}
	return nil, selectionErrorf("unknown metric %q", string(m))
}

// Labels returns the default selection for a metric: every row label.
func (d *Dataset) Labels(m Metric) ([]string, error) {
	t, err := d.Table(m)
	if err != nil {
		return nil, err
	}
	return t.Labels(), nil
}

// Single validates country against the index and extracts a single view.
func (d *Dataset) Single(m Metric, country string, selected []string) (*SingleView, error) {
	t, err := d.Table(m)
	if err != nil {
		return nil, err
	}
	if !d.HasCountry(country) {
		return nil, selectionErrorf("country %q is not available", country)
	}
	return ExtractSingle(t, country, selected)
}

// Compare validates both countries against the index and extracts a
// comparison.
func (d *Dataset) Compare(m Metric, a, b string, selected []string) (*ComparisonView, error) {
	t, err := d.Table(m)
	if err != nil {
		return nil, err
	}
	for _, c := range []string{a, b} {
		if !d.HasCountry(c) {
			return nil, selectionErrorf("country %q is not available", c)
		}
	}
	return ExtractComparison(t, a, b, selected)
}
