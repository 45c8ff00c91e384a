// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/danielhkuo/political-dashboard/db"
	"github.com/danielhkuo/political-dashboard/models"
	"github.com/danielhkuo/political-dashboard/survey"
	tu "github.com/danielhkuo/political-dashboard/testutil"
)

func setupArchive(t *testing.T) *db.Archive {
	t.Helper()
	conn := tu.SetupTestDB(t)
	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db.NewArchive(conn)
}

func TestGetSnapshot(t *testing.T) {
	store, path := setupStore(t)
	h := NewSnapshotHandler(store, nil)

	w := httptest.NewRecorder()
	h.GetSnapshot(w, httptest.NewRequest("GET", "/snapshot", nil))

	tu.AssertStatus(t, w, http.StatusOK)
	var resp models.SnapshotInfo
	tu.AssertJSON(t, w, &resp)

	if resp.Source != path {
		t.Errorf("Expected source %q, got %q", path, resp.Source)
	}
	if len(resp.Checksum) != 64 {
		t.Errorf("Expected sha256 checksum, got %q", resp.Checksum)
	}
	if resp.Size == "" || resp.Age == "" {
		t.Errorf("Expected humanized size and age, got %q / %q", resp.Size, resp.Age)
	}
	if resp.ProblemRows != 3 || resp.OrientationRows != 3 {
		t.Errorf("Unexpected row counts %d / %d", resp.ProblemRows, resp.OrientationRows)
	}
}

func TestListSnapshots(t *testing.T) {
	store, _ := setupStore(t)
	archive := setupArchive(t)
	if _, _, err := archive.Record(context.Background(), store.Current()); err != nil {
		t.Fatalf("Failed to record snapshot: %v", err)
	}
	h := NewSnapshotHandler(store, archive)

	w := httptest.NewRecorder()
	h.ListSnapshots(w, httptest.NewRequest("GET", "/snapshots?limit=5", nil))

	tu.AssertStatus(t, w, http.StatusOK)
	var resp models.SnapshotListResponse
	tu.AssertJSON(t, w, &resp)

	if len(resp.Snapshots) != 1 {
		t.Fatalf("Expected 1 snapshot, got %d", len(resp.Snapshots))
	}
	if resp.Snapshots[0].ID == "" {
		t.Error("Expected archived snapshot to carry an id")
	}
	if resp.Snapshots[0].Checksum != store.Current().Source.Checksum {
		t.Error("Expected archived checksum to match the served dataset")
	}
}

func TestGetArchivedSnapshot(t *testing.T) {
	store, _ := setupStore(t)
	archive := setupArchive(t)
	snap, _, err := archive.Record(context.Background(), store.Current())
	if err != nil {
		t.Fatalf("Failed to record snapshot: %v", err)
	}
	h := NewSnapshotHandler(store, archive)

	get := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/snapshots/"+id, nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		h.GetArchivedSnapshot(w, req)
		return w
	}

	w := get(snap.ID)
	tu.AssertStatus(t, w, http.StatusOK)
	var resp models.SnapshotInfo
	tu.AssertJSON(t, w, &resp)
	if resp.ID != snap.ID || resp.Checksum != snap.Checksum {
		t.Errorf("Unexpected snapshot %+v", resp)
	}

	tu.AssertStatus(t, get("missing"), http.StatusNotFound)
}

func TestGetArchivedValue(t *testing.T) {
	store, _ := setupStore(t)
	archive := setupArchive(t)
	snap, _, err := archive.Record(context.Background(), store.Current())
	if err != nil {
		t.Fatalf("Failed to record snapshot: %v", err)
	}
	h := NewSnapshotHandler(store, archive)

	get := func(id, metric, country, query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/snapshots/"+id+"/values/"+metric+"/"+country+query, nil)
		req.SetPathValue("id", id)
		req.SetPathValue("metric", metric)
		req.SetPathValue("country", country)
		w := httptest.NewRecorder()
		h.GetArchivedValue(w, req)
		return w
	}

	w := get(snap.ID, "issues", "FR", "?label=Crime")
	tu.AssertStatus(t, w, http.StatusOK)
	var resp models.ArchivedValue
	tu.AssertJSON(t, w, &resp)
	if resp.Proportion == nil || *resp.Proportion < 0.0999 || *resp.Proportion > 0.1001 {
		t.Errorf("Expected FR Crime 0.10, got %v", resp.Proportion)
	}
	if resp.Sheet != "Most Im" || resp.Display != "10.0%" {
		t.Errorf("Unexpected value %+v", resp)
	}

	tu.AssertStatus(t, get(snap.ID, "issues", "FR", ""), http.StatusBadRequest)
	tu.AssertStatus(t, get(snap.ID, "issues", "FR", "?label=Unknown"), http.StatusNotFound)
	tu.AssertStatus(t, get("missing", "issues", "FR", "?label=Crime"), http.StatusNotFound)
	tu.AssertStatus(t, get(snap.ID, "parties", "FR", "?label=Crime"), http.StatusNotFound)
}

func TestListSnapshots_Errors(t *testing.T) {
	store, _ := setupStore(t)

	w := httptest.NewRecorder()
	NewSnapshotHandler(store, nil).ListSnapshots(w, httptest.NewRequest("GET", "/snapshots", nil))
	tu.AssertStatus(t, w, http.StatusNotFound)

	h := NewSnapshotHandler(store, setupArchive(t))
	for _, limit := range []string{"0", "101", "ten"} {
		w := httptest.NewRecorder()
		h.ListSnapshots(w, httptest.NewRequest("GET", "/snapshots?limit="+limit, nil))
		tu.AssertStatus(t, w, http.StatusBadRequest)
	}

	w = httptest.NewRecorder()
	NewSnapshotHandler(store, nil).GetArchivedSnapshot(w, httptest.NewRequest("GET", "/snapshots/x", nil))
	tu.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetWorkbook(t *testing.T) {
	store, _ := setupStore(t)
	h := NewSnapshotHandler(store, nil)

	w := httptest.NewRecorder()
	h.GetWorkbook(w, httptest.NewRequest("GET", "/export/workbook", nil))

	tu.AssertStatus(t, w, http.StatusOK)
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="political_dashboard_data.xlsx"` {
		t.Errorf("Unexpected Content-Disposition %q", got)
	}

	problems, orientation, err := survey.LoadTables(bytes.NewReader(w.Body.Bytes()), survey.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Exported workbook does not load: %v", err)
	}
	if problems.Len() != 3 || orientation.Len() != 3 {
		t.Errorf("Unexpected exported row counts %d / %d", problems.Len(), orientation.Len())
	}
}

func TestReload(t *testing.T) {
	store, path := setupStore(t)
	cfg := tu.GetTestConfig(path)
	h := NewAdminHandler(store, cfg)

	reload := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/admin/reload", nil)
		if key != "" {
			req.Header.Set("X-Admin-Key", key)
		}
		w := httptest.NewRecorder()
		h.Reload(w, req)
		return w
	}

	t.Run("missing key", func(t *testing.T) {
		tu.AssertStatus(t, reload(""), http.StatusUnauthorized)
	})

	t.Run("wrong key", func(t *testing.T) {
		tu.AssertStatus(t, reload("nope"), http.StatusUnauthorized)
	})

	t.Run("unchanged workbook", func(t *testing.T) {
		w := reload(cfg.AdminKey)
		tu.AssertStatus(t, w, http.StatusOK)
		var resp models.ReloadResponse
		tu.AssertJSON(t, w, &resp)
		if resp.Changed {
			t.Error("Expected unchanged workbook")
		}
	})

	t.Run("changed workbook", func(t *testing.T) {
		orientation := tu.OrientationSheet()
		orientation.Rows = orientation.Rows[:2]
		tu.WriteWorkbookTo(t, path, tu.ProblemsSheet(), orientation)

		w := reload(cfg.AdminKey)
		tu.AssertStatus(t, w, http.StatusOK)
		var resp models.ReloadResponse
		tu.AssertJSON(t, w, &resp)
		if !resp.Changed {
			t.Error("Expected changed workbook")
		}
		if resp.Snapshot.OrientationRows != 2 {
			t.Errorf("Expected 2 orientation rows, got %d", resp.Snapshot.OrientationRows)
		}
	})

	t.Run("broken workbook keeps previous snapshot", func(t *testing.T) {
		before := store.Current()
		if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
			t.Fatal(err)
		}

		w := reload(cfg.AdminKey)
		tu.AssertStatus(t, w, http.StatusUnprocessableEntity)
		if store.Current() != before {
			t.Error("Expected previous snapshot to stay published")
		}
	})
}

func TestReload_Disabled(t *testing.T) {
	store, path := setupStore(t)
	cfg := tu.GetTestConfig(path)
	cfg.AdminKey = ""

	req := httptest.NewRequest("POST", "/admin/reload", nil)
	req.Header.Set("X-Admin-Key", "")
	w := httptest.NewRecorder()
	NewAdminHandler(store, cfg).Reload(w, req)

	tu.AssertStatus(t, w, http.StatusForbidden)
}
