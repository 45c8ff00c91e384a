// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/political-dashboard/cliparse"
)

// Sheet is a workbook sheet fixture. Rows hold cell values as written to
// the file; nil leaves a cell blank.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// ProblemsSheet is the standard problem fixture. DE is fractional, FR is in
// percent, EU27 only exists on this sheet and Empty has no values.
func ProblemsSheet() Sheet {
	return Sheet{
		Name:   "Most Im",
		Header: []string{"Most Important Problem", "DE", "FR", "IT", "EU27", "Empty"},
		Rows: [][]interface{}{
			{"Inflation", 0.5, 30, 0.45, 0.41, nil},
			{"Crime", 0.2, 10, 0.12, 0.15, nil},
			{"Unemployment", 0.1, 25, 0.38, 0.22, nil},
		},
	}
}

// OrientationSheet is the standard orientation fixture. ES only exists on
// this sheet.
func OrientationSheet() Sheet {
	return Sheet{
		Name:   "Sheet2",
		Header: []string{"Left-Right Orientation", "DE", "FR", "IT", "ES"},
		Rows: [][]interface{}{
			{"Left", 0.40, 25, 0.30, 0.33},
			{"Centre", 0.35, 40, 0.36, 0.31},
			{"Right", 0.25, 35, 0.34, 0.36},
		},
	}
}

// WriteWorkbook writes the sheets to a new .xlsx file in a temp directory
// and returns its path.
func WriteWorkbook(t *testing.T, sheets ...Sheet) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Data2Add.xlsx")
	WriteWorkbookTo(t, path, sheets...)
	return path
}

// WriteWorkbookTo writes the sheets to path, replacing any existing file.
func WriteWorkbookTo(t *testing.T, path string, sheets ...Sheet) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("Failed to rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("Failed to create sheet %q: %v", sheet.Name, err)
		}

		for j, header := range sheet.Header {
			cell, _ := excelize.CoordinatesToCellName(j+1, 1)
			if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
				t.Fatalf("Failed to write header: %v", err)
			}
		}
		for r, row := range sheet.Rows {
			for j, v := range row {
				if v == nil {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(j+1, r+2)
				if err := f.SetCellValue(sheet.Name, cell, v); err != nil {
					t.Fatalf("Failed to write cell %s: %v", cell, err)
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}
}

// WriteSampleWorkbook writes the standard two-sheet fixture.
func WriteSampleWorkbook(t *testing.T) string {
	t.Helper()
	return WriteWorkbook(t, ProblemsSheet(), OrientationSheet())
}

// SetupTestDB opens a private in-memory SQLite database. Callers create the
// schema they need.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every pooled connection would otherwise get its own empty database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return db
}

// GetTestConfig returns a standard test configuration for the given workbook
func GetTestConfig(dataFile string) cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DataFile:         dataFile,
		ProblemsSheet:    "Most Im",
		OrientationSheet: "Sheet2",
		DatabaseType:     cliparse.DatabaseSQLite,
		AdminKey:         "test-admin-key",
		LogLevel:         "info",
		LogFormat:        "console",
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
