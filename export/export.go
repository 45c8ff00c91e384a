// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package export writes views and the full dataset as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/political-dashboard/survey"
)

// Content types of the download formats.
const (
	ContentTypeCSV  = "text/csv"
	ContentTypePNG  = "image/png"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WorkbookFilename is the download name of the full dataset.
const WorkbookFilename = "political_dashboard_data.xlsx"

func suffix(m survey.Metric) string {
	if m == survey.MetricOrientation {
		return "orientation"
	}
	return "top_issues"
}

// SingleFilename returns the download name of a single-country view.
func SingleFilename(m survey.Metric, country, ext string) string {
	return fmt.Sprintf("%s_%s.%s", country, suffix(m), ext)
}

// CompareFilename returns the download name of a comparison view.
func CompareFilename(m survey.Metric, a, b, ext string) string {
	name := "issues"
	if m == survey.MetricOrientation {
		name = "orientation"
	}
	return fmt.Sprintf("%s_%s_%s.%s", a, b, name, ext)
}

// FormatPercent renders a proportion for display. Blank cells render empty.
func FormatPercent(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

// SingleCSV writes one row per label with the country's proportion.
func SingleCSV(w io.Writer, view *survey.SingleView) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{view.LabelColumn, view.Country}); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}
	for _, r := range view.Rows {
		if err := writer.Write([]string{r.Label, FormatPercent(r.Proportion)}); err != nil {
			return errors.Wrap(err, "failed to write csv row")
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "failed to flush csv")
}

// ComparisonCSV writes the comparison pivoted to label rows and one column
// per country. A trailing column flags significant differences.
func ComparisonCSV(w io.Writer, view *survey.ComparisonView) error {
	writer := csv.NewWriter(w)
	wide := view.Pivot()

	header := append([]string{wide.LabelColumn}, wide.Countries...)
	header = append(header, "Significant")
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}

	for i, label := range wide.Labels {
		record := make([]string, 0, len(header))
		record = append(record, label)
		for _, v := range wide.Values[i] {
			record = append(record, FormatPercent(v))
		}
		sig := ""
		if view.IsSignificant(label) {
			sig = "yes"
		}
		record = append(record, sig)
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "failed to write csv row")
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "failed to flush csv")
}

// Workbook writes the normalized dataset as an .xlsx file with one sheet per
// table, under the sheet names it was loaded from.
func Workbook(w io.Writer, ds *survey.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, table := range []*survey.Table{ds.Problems, ds.Orientation} {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", table.Sheet()); err != nil {
				return errors.Wrapf(err, "failed to name sheet %q", table.Sheet())
			}
		} else if _, err := f.NewSheet(table.Sheet()); err != nil {
			return errors.Wrapf(err, "failed to create sheet %q", table.Sheet())
		}
		if err := writeTable(f, table); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}
	return nil
}

func writeTable(f *excelize.File, table *survey.Table) error {
	sheet := table.Sheet()
	countries := table.Countries()

	header := make([]interface{}, 0, len(countries)+1)
	header = append(header, table.LabelColumn())
	for _, c := range countries {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrapf(err, "failed to write header of %q", sheet)
	}

	columns := make([][]float64, len(countries))
	for j, c := range countries {
		columns[j], _ = table.Column(c)
	}

	for i, label := range table.Labels() {
		row := make([]interface{}, 0, len(countries)+1)
		row = append(row, label)
		for j := range countries {
			v := columns[j][i]
			if math.IsNaN(v) {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write row %d of %q", i+2, sheet)
		}
	}
	return nil
}
