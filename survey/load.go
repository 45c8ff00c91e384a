// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
)

// LoadOptions names the sheets and label columns to read.
type LoadOptions struct {
	ProblemsSheet    string
	OrientationSheet string
	ProblemsLabel    string
	OrientationLabel string
}

// DefaultLoadOptions returns the layout of the published survey workbook.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		ProblemsSheet:    DefaultProblemsSheet,
		OrientationSheet: DefaultOrientationSheet,
		ProblemsLabel:    ProblemsLabelColumn,
		OrientationLabel: OrientationLabelColumn,
	}
}

func (o LoadOptions) withDefaults() LoadOptions {
	d := DefaultLoadOptions()
	if o.ProblemsSheet == "" {
		o.ProblemsSheet = d.ProblemsSheet
	}
	if o.OrientationSheet == "" {
		o.OrientationSheet = d.OrientationSheet
	}
	if o.ProblemsLabel == "" {
		o.ProblemsLabel = d.ProblemsLabel
	}
	if o.OrientationLabel == "" {
		o.OrientationLabel = d.OrientationLabel
	}
	return o
}

// SourceInfo describes the workbook a dataset was built from.
type SourceInfo struct {
	Path     string    `json:"path"`
	Checksum string    `json:"checksum"`
	Size     int64     `json:"size"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Load reads the workbook at path and returns a validated dataset.
// The file is read exactly once.
func Load(path string, opts LoadOptions) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "read workbook %q", path)
		err = errors.WithHint(err, "check that the data file exists and is readable")
		return nil, errors.Mark(err, ErrMissingResource)
	}

	problems, orientation, err := LoadTables(bytes.NewReader(data), opts)
	if err != nil {
		return nil, errors.Wrapf(err, "load %q", path)
	}

	sum := sha256.Sum256(data)
	src := SourceInfo{
		Path:     path,
		Checksum: hex.EncodeToString(sum[:]),
		Size:     int64(len(data)),
		LoadedAt: time.Now().UTC(),
	}
	return NewDataset(problems, orientation, src)
}

// LoadTables parses both sheets of the workbook in r, drops empty columns
// and normalizes percentage columns.
func LoadTables(r io.Reader, opts LoadOptions) (problems, orientation *Table, err error) {
	opts = opts.withDefaults()

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, errors.Mark(errors.Wrap(err, "open workbook"), ErrMissingResource)
	}
	defer f.Close()

	problems, err = readSheet(f, opts.ProblemsSheet, opts.ProblemsLabel)
	if err != nil {
		return nil, nil, err
	}
	orientation, err = readSheet(f, opts.OrientationSheet, opts.OrientationLabel)
	if err != nil {
		return nil, nil, err
	}

	return Normalize(problems), Normalize(orientation), nil
}

func readSheet(f *excelize.File, sheet, labelColumn string) (*Table, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.WithHint(
			schemaErrorf("sheet %q not found", sheet),
			fmt.Sprintf("workbook sheets: %s", strings.Join(f.GetSheetList(), ", ")),
		)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read sheet %q", sheet), ErrSchema)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	var header []string
	if len(rows) > 0 {
		header = headerNames(rows[0], width)
	}

	labelIdx := -1
	for i, name := range header {
		if name == labelColumn {
			labelIdx = i
			break
		}
	}
	if labelIdx < 0 {
		return nil, schemaErrorf("required column %q missing in %q sheet", labelColumn, sheet)
	}

	var labels []string
	cols := make([]Column, 0, width)
	for j, name := range header {
		if j != labelIdx {
			cols = append(cols, Column{Name: name})
		}
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}

		labels = append(labels, strings.TrimSpace(cell(row, labelIdx)))

		c := 0
		for j := range header {
			if j == labelIdx {
				continue
			}
			v, err := parseProportion(cell(row, j))
			if err != nil {
				name, _ := excelize.CoordinatesToCellName(j+1, i+1)
				return nil, schemaErrorf("sheet %q cell %s: %q is not a number", sheet, name, cell(row, j))
			}
			cols[c].Values = append(cols[c].Values, v)
			c++
		}
	}

	return NewTable(sheet, labelColumn, labels, dropEmptyColumns(cols))
}

// headerNames names every column of the sheet. Blank headers become
// "Unnamed: N" and repeated headers get a ".N" suffix, the way spreadsheet
// readers usually name them.
func headerNames(row []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for j := 0; j < width; j++ {
		name := strings.TrimSpace(cell(row, j))
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(j)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[j] = name
	}
	return names
}

func cell(row []string, j int) string {
	if j < len(row) {
		return row[j]
	}
	return ""
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// missingMarkers are cell texts read as a blank cell: Excel error values
// and the usual spreadsheet spellings of a missing value.
var missingMarkers = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "#DIV/0!": {}, "#VALUE!": {},
	"#REF!": {}, "#NAME?": {}, "#NUM!": {}, "#NULL!": {}, "#SPILL!": {},
	"#CALC!": {}, "#GETTING_DATA": {},
	"N/A": {}, "n/a": {}, "NA": {}, "<NA>": {}, "NULL": {}, "null": {},
	"None": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
}

// parseProportion reads a decimal cell. Blank and missing markers are NaN;
// infinities and hex floats are rejected.
func parseProportion(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return math.NaN(), nil
	}
	if _, ok := missingMarkers[s]; ok {
		return math.NaN(), nil
	}
	if strings.ContainsAny(s, "xX") {
		return 0, errors.Newf("hex literal %q", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errors.Newf("non-finite value %q", s)
	}
	return v, nil
}
