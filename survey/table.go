// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"math"
	"slices"
)

// Default sheet layout of the survey workbook
const (
	DefaultProblemsSheet    = "Most Im"
	DefaultOrientationSheet = "Sheet2"
	ProblemsLabelColumn     = "Most Important Problem"
	OrientationLabelColumn  = "Left-Right Orientation"
)

// Column is a named series of proportions, one value per table row.
// Missing cells are NaN.
type Column struct {
	Name   string
	Values []float64
}

// Table is an immutable label-keyed table with one column per country.
type Table struct {
	sheet       string
	labelColumn string
	labels      []string
	labelIndex  map[string]int
	countries   []string
	values      map[string][]float64
}

// NewTable builds a table from its label column and country columns.
// Labels must be non-empty and unique, column names unique and every column
// must have exactly one value per label.
func NewTable(sheet, labelColumn string, labels []string, columns []Column) (*Table, error) {
	t := &Table{
		sheet:       sheet,
		labelColumn: labelColumn,
		labels:      slices.Clone(labels),
		labelIndex:  make(map[string]int, len(labels)),
		countries:   make([]string, 0, len(columns)),
		values:      make(map[string][]float64, len(columns)),
	}

	for i, label := range labels {
		if label == "" {
			return nil, schemaErrorf("sheet %q row %d: empty %q", sheet, i+2, labelColumn)
		}
		if _, dup := t.labelIndex[label]; dup {
			return nil, schemaErrorf("sheet %q: duplicate %q value %q", sheet, labelColumn, label)
		}
		t.labelIndex[label] = i
	}

	for _, col := range columns {
		if col.Name == labelColumn {
			return nil, schemaErrorf("sheet %q: column %q used twice", sheet, col.Name)
		}
		if _, dup := t.values[col.Name]; dup {
			return nil, schemaErrorf("sheet %q: duplicate column %q", sheet, col.Name)
		}
		if len(col.Values) != len(labels) {
			return nil, schemaErrorf("sheet %q column %q: %d values for %d rows",
				sheet, col.Name, len(col.Values), len(labels))
		}
		t.countries = append(t.countries, col.Name)
		t.values[col.Name] = slices.Clone(col.Values)
	}

	return t, nil
}

// Sheet returns the name of the sheet the table was read from.
func (t *Table) Sheet() string { return t.sheet }

// LabelColumn returns the header of the label column.
func (t *Table) LabelColumn() string { return t.labelColumn }

// Labels returns the row labels in source order.
func (t *Table) Labels() []string { return slices.Clone(t.labels) }

// Countries returns the country columns in source order.
func (t *Table) Countries() []string { return slices.Clone(t.countries) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.labels) }

// HasCountry reports whether the table has a column for country.
func (t *Table) HasCountry(country string) bool {
	_, ok := t.values[country]
	return ok
}

// Column returns a copy of the values of one country column.
func (t *Table) Column(country string) ([]float64, bool) {
	vals, ok := t.values[country]
	if !ok {
		return nil, false
	}
	return slices.Clone(vals), true
}

// Value returns the proportion for a label and country. ok is false when the
// label or the country is unknown; a known but empty cell returns NaN.
func (t *Table) Value(label, country string) (v float64, ok bool) {
	row, ok := t.labelIndex[label]
	if !ok {
		return math.NaN(), false
	}
	vals, ok := t.values[country]
	if !ok {
		return math.NaN(), false
	}
	return vals[row], true
}

func (t *Table) columns() []Column {
	cols := make([]Column, 0, len(t.countries))
	for _, name := range t.countries {
		cols = append(cols, Column{Name: name, Values: t.values[name]})
	}
	return cols
}

// Normalize returns a copy of t in which every column whose maximum exceeds
// 1 has been divided by 100. The decision is taken per column. Applying it
// to an already normalized table returns an equal table.
func Normalize(t *Table) *Table {
	cols := t.columns()
	for i, col := range cols {
		vals := slices.Clone(col.Values)
		if hi, ok := columnMax(vals); ok && hi > 1 {
			for j := range vals {
				vals[j] /= 100
			}
		}
		cols[i].Values = vals
	}

	out, err := NewTable(t.sheet, t.labelColumn, t.labels, cols)
	if err != nil {
		// t already passed the same validation
		panic(err)
	}
	return out
}

// dropEmptyColumns removes columns that hold no value at all.
func dropEmptyColumns(cols []Column) []Column {
	kept := cols[:0:0]
	for _, col := range cols {
		if _, ok := columnMax(col.Values); ok {
			kept = append(kept, col)
		}
	}
	return kept
}

// columnMax returns the largest non-NaN value. ok is false for an all-NaN
// column.
func columnMax(vals []float64) (hi float64, ok bool) {
	hi = math.Inf(-1)
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		ok = true
		if v > hi {
			hi = v
		}
	}
	return hi, ok
}
