// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package chart turns survey views into bar charts.
//
// Single and Compare build a renderer-independent Config; RenderPNG draws it
// with gonum/plot.
//
//	cfg := chart.Compare(survey.MetricIssues, view)
//	if err := chart.RenderPNG(cfg, w); err != nil {
//		return err
//	}
package chart
