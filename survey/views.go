// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"math"
	"slices"

	"github.com/cockroachdb/errors"
)

// SignificanceThreshold is the absolute proportion gap above which two
// countries are flagged as differing significantly on a label.
const SignificanceThreshold = 0.10

// Countries returns the sorted country columns present in both tables.
func Countries(problems, orientation *Table) ([]string, error) {
	var common []string
	for _, c := range problems.countries {
		if orientation.HasCountry(c) {
			common = append(common, c)
		}
	}
	if len(common) == 0 {
		return nil, errors.Mark(
			errors.Newf("sheets %q and %q share no country column", problems.sheet, orientation.sheet),
			ErrNoCommonCountries,
		)
	}
	slices.Sort(common)
	return common, nil
}

// SingleRow is one label of a single-country view.
type SingleRow struct {
	Label      string
	Proportion float64
}

// SingleView is the selected rows of one country column.
type SingleView struct {
	LabelColumn string
	Country     string
	Rows        []SingleRow
}

// ExtractSingle returns the rows of t whose label is in selected, in source
// order, paired with the proportion of country. An empty selection yields a
// view with no rows.
func ExtractSingle(t *Table, country string, selected []string) (*SingleView, error) {
	vals, ok := t.values[country]
	if !ok {
		return nil, selectionErrorf("country %q is not a column of sheet %q", country, t.sheet)
	}

	view := &SingleView{
		LabelColumn: t.labelColumn,
		Country:     country,
		Rows:        []SingleRow{},
	}
	want := selectionSet(selected)
	for i, label := range t.labels {
		if _, ok := want[label]; ok {
			view.Rows = append(view.Rows, SingleRow{Label: label, Proportion: vals[i]})
		}
	}
	return view, nil
}

// ComparisonRow is one (label, country) pair of a comparison.
type ComparisonRow struct {
	Label      string
	Country    string
	Proportion float64
}

// ComparisonView is a two-country comparison in long format.
// Rows are ordered by label, then country A before country B.
type ComparisonView struct {
	LabelColumn string
	CountryA    string
	CountryB    string
	Rows        []ComparisonRow
	// Significant lists, in row order, the labels whose proportions differ
	// by more than SignificanceThreshold.
	Significant []string
}

// ExtractComparison filters t to the selected labels and unpivots the two
// country columns into long format. a and b may be equal, in which case each
// label appears once.
func ExtractComparison(t *Table, a, b string, selected []string) (*ComparisonView, error) {
	for _, c := range []string{a, b} {
		if !t.HasCountry(c) {
			return nil, selectionErrorf("country %q is not a column of sheet %q", c, t.sheet)
		}
	}

	countries := []string{a, b}
	if a == b {
		countries = countries[:1]
	}

	view := &ComparisonView{
		LabelColumn: t.labelColumn,
		CountryA:    a,
		CountryB:    b,
		Rows:        []ComparisonRow{},
		Significant: []string{},
	}
	want := selectionSet(selected)
	for i, label := range t.labels {
		if _, ok := want[label]; !ok {
			continue
		}
		for _, c := range countries {
			view.Rows = append(view.Rows, ComparisonRow{
				Label:      label,
				Country:    c,
				Proportion: t.values[c][i],
			})
		}
	}

	view.Significant = significantLabels(view.Rows, a, b)
	return view, nil
}

// significantLabels works on the long rows so that the annotation never
// touches the proportions themselves.
func significantLabels(rows []ComparisonRow, a, b string) []string {
	out := []string{}
	if a == b {
		return out
	}

	var (
		current    string
		pa, pb     float64
		hasA, hasB bool
	)
	flush := func() {
		if hasA && hasB && math.Abs(pa-pb) > SignificanceThreshold {
			out = append(out, current)
		}
	}
	for _, r := range rows {
		if r.Label != current {
			flush()
			current, hasA, hasB = r.Label, false, false
		}
		switch r.Country {
		case a:
			pa, hasA = r.Proportion, true
		case b:
			pb, hasB = r.Proportion, true
		}
	}
	flush()
	return out
}

// IsSignificant reports whether label was flagged.
func (v *ComparisonView) IsSignificant(label string) bool {
	return slices.Contains(v.Significant, label)
}

// Countries returns the distinct compared countries in order.
func (v *ComparisonView) Countries() []string {
	if v.CountryA == v.CountryB {
		return []string{v.CountryA}
	}
	return []string{v.CountryA, v.CountryB}
}

// WideTable is a comparison pivoted back to label rows by country columns.
type WideTable struct {
	LabelColumn string
	Labels      []string
	Countries   []string
	Values      [][]float64
}

// Pivot turns the long rows back into a wide table. Labels keep their row
// order.
func (v *ComparisonView) Pivot() *WideTable {
	w := &WideTable{
		LabelColumn: v.LabelColumn,
		Labels:      []string{},
		Countries:   v.Countries(),
		Values:      [][]float64{},
	}
	col := make(map[string]int, len(w.Countries))
	for j, c := range w.Countries {
		col[c] = j
	}

	row := make(map[string]int)
	for _, r := range v.Rows {
		i, ok := row[r.Label]
		if !ok {
			i = len(w.Labels)
			row[r.Label] = i
			w.Labels = append(w.Labels, r.Label)
			vals := make([]float64, len(w.Countries))
			for j := range vals {
				vals[j] = math.NaN()
			}
			w.Values = append(w.Values, vals)
		}
		w.Values[i][col[r.Country]] = r.Proportion
	}
	return w
}

// Value returns the pivoted proportion for a label and country.
func (w *WideTable) Value(label, country string) (float64, bool) {
	i := slices.Index(w.Labels, label)
	j := slices.Index(w.Countries, country)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return w.Values[i][j], true
}

func selectionSet(selected []string) map[string]struct{} {
	set := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		set[s] = struct{}{}
	}
	return set
}
