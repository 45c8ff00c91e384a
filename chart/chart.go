// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chart

import (
	"cmp"
	"math"
	"slices"

	"github.com/danielhkuo/political-dashboard/survey"
)

// Default color palette for chart series.
var defaultColors = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// SignificanceMarker is appended to category labels of significant rows.
const SignificanceMarker = "*"

// Config describes a bar chart independently of how it is drawn.
type Config struct {
	Title      string
	XAxis      string
	YAxis      string
	Horizontal bool
	Categories []string
	Series     []Series
	// Significant holds the categories whose countries differ by more than
	// the significance threshold.
	Significant []string
}

// Series is one bar per category. Values may be NaN for blank cells.
type Series struct {
	Name  string
	Color string
	Data  []Point
}

// Point is a single bar.
type Point struct {
	Label string
	Value float64
}

// Title returns the chart title for a single-country view.
func Title(m survey.Metric, country string) string {
	if m == survey.MetricOrientation {
		return "Political Orientation in " + country
	}
	return "Top Issues in " + country
}

// CompareTitle returns the chart title for a comparison view.
func CompareTitle(m survey.Metric, a, b string) string {
	if m == survey.MetricOrientation {
		return "Political Orientation: " + a + " vs " + b
	}
	return "Issue Importance: " + a + " vs " + b
}

// Single builds the chart for one country. Issue charts are horizontal and
// sorted by proportion ascending; orientation charts keep source order.
func Single(m survey.Metric, view *survey.SingleView) *Config {
	points := make([]Point, 0, len(view.Rows))
	for _, r := range view.Rows {
		points = append(points, Point{Label: r.Label, Value: r.Proportion})
	}

	cfg := &Config{
		Title:  Title(m, view.Country),
		Series: []Series{{Name: view.Country, Color: defaultColors[0], Data: points}},
	}

	if m == survey.MetricIssues {
		cfg.Horizontal = true
		cfg.XAxis = "Proportion"
		cfg.YAxis = "Issue"
		slices.SortStableFunc(points, func(a, b Point) int {
			return cmp.Compare(sortKey(a.Value), sortKey(b.Value))
		})
	} else {
		cfg.XAxis = view.LabelColumn
		cfg.YAxis = "Proportion"
	}

	for _, p := range points {
		cfg.Categories = append(cfg.Categories, p.Label)
	}
	return cfg
}

// Compare builds the grouped chart for a comparison. Issue charts order
// categories by the combined proportion ascending.
func Compare(m survey.Metric, view *survey.ComparisonView) *Config {
	countries := view.Countries()
	wide := view.Pivot()

	cfg := &Config{
		Title:       CompareTitle(m, view.CountryA, view.CountryB),
		Categories:  slices.Clone(wide.Labels),
		Significant: slices.Clone(view.Significant),
	}

	if m == survey.MetricIssues {
		cfg.Horizontal = true
		cfg.XAxis = "Proportion"
		cfg.YAxis = "Issue"

		totals := make(map[string]float64, len(wide.Labels))
		for i, label := range wide.Labels {
			for j := range countries {
				totals[label] += sortKey(wide.Values[i][j])
			}
		}
		slices.SortStableFunc(cfg.Categories, func(a, b string) int {
			return cmp.Compare(totals[a], totals[b])
		})
	} else {
		cfg.XAxis = view.LabelColumn
		cfg.YAxis = "Proportion"
	}

	for j, country := range countries {
		s := Series{Name: country, Color: defaultColors[j%len(defaultColors)]}
		for _, label := range cfg.Categories {
			v, _ := wide.Value(label, country)
			s.Data = append(s.Data, Point{Label: label, Value: v})
		}
		cfg.Series = append(cfg.Series, s)
	}
	return cfg
}

// IsSignificant reports whether category is flagged.
func (c *Config) IsSignificant(category string) bool {
	return slices.Contains(c.Significant, category)
}

// TickLabels returns the category labels as drawn, with significant
// categories marked.
func (c *Config) TickLabels() []string {
	out := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		out[i] = cat
		if c.IsSignificant(cat) {
			out[i] += " " + SignificanceMarker
		}
	}
	return out
}

func sortKey(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
