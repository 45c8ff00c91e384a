// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielhkuo/political-dashboard/chart"
	"github.com/danielhkuo/political-dashboard/export"
	"github.com/danielhkuo/political-dashboard/metrics"
	"github.com/danielhkuo/political-dashboard/middleware"
	"github.com/danielhkuo/political-dashboard/models"
	"github.com/danielhkuo/political-dashboard/snapshot"
	"github.com/danielhkuo/political-dashboard/survey"
)

type DashboardHandler struct {
	store   *snapshot.Store
	metrics *metrics.Metrics
}

func NewDashboardHandler(store *snapshot.Store, m *metrics.Metrics) *DashboardHandler {
	return &DashboardHandler{store: store, metrics: m}
}

// GetCountries handles GET /countries
func (h *DashboardHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	ds, err := h.store.Require()
	if err != nil {
		writeError(w, r, err)
		return
	}

	countries := ds.Countries()
	middleware.JSONResponse(w, http.StatusOK, models.CountriesResponse{
		Countries: countries,
		Count:     len(countries),
	})
}

// GetLabels handles GET /labels/{metric}
// The labels double as the default selection of a view.
func (h *DashboardHandler) GetLabels(w http.ResponseWriter, r *http.Request) {
	m, ok := parseMetric(w, r)
	if !ok {
		return
	}
	ds, err := h.store.Require()
	if err != nil {
		writeError(w, r, err)
		return
	}

	table, err := ds.Table(m)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LabelsResponse{
		Metric:      string(m),
		LabelColumn: table.LabelColumn(),
		Labels:      table.Labels(),
	})
}

// GetSingleView handles GET /views/{metric}/{country}
func (h *DashboardHandler) GetSingleView(w http.ResponseWriter, r *http.Request) {
	m, ok := parseMetric(w, r)
	if !ok {
		return
	}
	format, ok := parseFormat(w, r)
	if !ok {
		return
	}
	ds, err := h.store.Require()
	if err != nil {
		writeError(w, r, err)
		return
	}

	selected, err := selection(r, ds, m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	country := r.PathValue("country")
	view, err := ds.Single(m, country, selected)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.observe(m, "single", format)

	switch format {
	case models.FormatCSV, models.FormatPNG:
		if len(view.Rows) == 0 {
			emptySelection(w, m)
			return
		}
		var buf bytes.Buffer
		if format == models.FormatCSV {
			err = export.SingleCSV(&buf, view)
		} else {
			err = chart.RenderPNG(chart.Single(m, view), &buf)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		middleware.Attachment(w, contentType(format), export.SingleFilename(m, country, format), buf.Bytes())

	default:
		resp := models.SingleViewResponse{
			Metric:      string(m),
			LabelColumn: view.LabelColumn,
			Country:     view.Country,
			Title:       chart.Title(m, view.Country),
			Rows:        make([]models.ViewRow, 0, len(view.Rows)),
		}
		for _, row := range view.Rows {
			resp.Rows = append(resp.Rows, models.ViewRow{
				Label:      row.Label,
				Proportion: models.Proportion(row.Proportion),
				Display:    export.FormatPercent(row.Proportion),
			})
		}
		if len(view.Rows) == 0 {
			resp.Warning = fmt.Sprintf(models.EmptySelectionWarning, m.Noun())
		}
		middleware.JSONResponse(w, http.StatusOK, resp)
	}
}

// GetComparison handles GET /compare/{metric}/{a}/{b}
func (h *DashboardHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	m, ok := parseMetric(w, r)
	if !ok {
		return
	}
	format, ok := parseFormat(w, r)
	if !ok {
		return
	}
	ds, err := h.store.Require()
	if err != nil {
		writeError(w, r, err)
		return
	}

	selected, err := selection(r, ds, m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, b := r.PathValue("a"), r.PathValue("b")
	view, err := ds.Compare(m, a, b, selected)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.observe(m, "compare", format)

	switch format {
	case models.FormatCSV, models.FormatPNG:
		if len(view.Rows) == 0 {
			emptySelection(w, m)
			return
		}
		var buf bytes.Buffer
		if format == models.FormatCSV {
			err = export.ComparisonCSV(&buf, view)
		} else {
			err = chart.RenderPNG(chart.Compare(m, view), &buf)
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		middleware.Attachment(w, contentType(format), export.CompareFilename(m, a, b, format), buf.Bytes())

	default:
		wide := view.Pivot()
		resp := models.ComparisonResponse{
			Metric:      string(m),
			LabelColumn: view.LabelColumn,
			CountryA:    view.CountryA,
			CountryB:    view.CountryB,
			Title:       chart.CompareTitle(m, a, b),
			Rows:        make([]models.ComparisonRow, 0, len(view.Rows)),
			Table: models.WideTable{
				Labels:    wide.Labels,
				Countries: wide.Countries,
				Values:    make([][]*float64, len(wide.Values)),
			},
			Significant: view.Significant,
		}
		for _, row := range view.Rows {
			resp.Rows = append(resp.Rows, models.ComparisonRow{
				Label:      row.Label,
				Country:    row.Country,
				Proportion: models.Proportion(row.Proportion),
				Display:    export.FormatPercent(row.Proportion),
			})
		}
		for i, vals := range wide.Values {
			resp.Table.Values[i] = make([]*float64, len(vals))
			for j, v := range vals {
				resp.Table.Values[i][j] = models.Proportion(v)
			}
		}
		if len(view.Rows) == 0 {
			resp.Warning = fmt.Sprintf(models.EmptySelectionWarning, m.Noun())
		}
		middleware.JSONResponse(w, http.StatusOK, resp)
	}
}

func (h *DashboardHandler) observe(m survey.Metric, kind, format string) {
	if h.metrics == nil {
		return
	}
	h.metrics.ViewsBuiltTotal.WithLabelValues(string(m), kind, format).Inc()
}

// selection returns the requested labels. Without any label parameter every
// label of the table is selected; label parameters that are all empty select
// nothing.
func selection(r *http.Request, ds *survey.Dataset, m survey.Metric) ([]string, error) {
	values, present := r.URL.Query()["label"]
	if !present {
		return ds.Labels(m)
	}

	selected := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			selected = append(selected, v)
		}
	}
	return selected, nil
}

func parseFormat(w http.ResponseWriter, r *http.Request) (string, bool) {
	format := r.URL.Query().Get("format")
	switch format {
	case "":
		return models.FormatJSON, true
	case models.FormatJSON, models.FormatCSV, models.FormatPNG:
		return format, true
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return "", false
	}
}

func emptySelection(w http.ResponseWriter, m survey.Metric) {
	middleware.ErrorResponse(w, http.StatusUnprocessableEntity, fmt.Sprintf(models.EmptySelectionWarning, m.Noun()))
}

func contentType(format string) string {
	if format == models.FormatPNG {
		return export.ContentTypePNG
	}
	return export.ContentTypeCSV
}
