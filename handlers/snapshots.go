// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/danielhkuo/political-dashboard/db"
	"github.com/danielhkuo/political-dashboard/export"
	"github.com/danielhkuo/political-dashboard/middleware"
	"github.com/danielhkuo/political-dashboard/models"
	"github.com/danielhkuo/political-dashboard/snapshot"
	"github.com/danielhkuo/political-dashboard/survey"
)

const (
	defaultSnapshotLimit = 20
	maxSnapshotLimit     = 100
)

type SnapshotHandler struct {
	store   *snapshot.Store
	archive *db.Archive
}

// archive may be nil when no database is configured.
func NewSnapshotHandler(store *snapshot.Store, archive *db.Archive) *SnapshotHandler {
	return &SnapshotHandler{store: store, archive: archive}
}

// GetSnapshot handles GET /snapshot
// Describes the dataset currently served.
func (h *SnapshotHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ds, err := h.store.Require()
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, datasetInfo(ds))
}

func (h *SnapshotHandler) requireArchive(w http.ResponseWriter) bool {
	if h.archive == nil {
		middleware.ErrorResponseWithHint(w, http.StatusNotFound, "Snapshot archive not configured",
			"start the server with --database to keep a history of loaded workbooks")
		return false
	}
	return true
}

// ListSnapshots handles GET /snapshots?limit=N
func (h *SnapshotHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	if !h.requireArchive(w) {
		return
	}

	limit := defaultSnapshotLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSnapshotLimit {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	snapshots, err := h.archive.List(r.Context(), limit)
	if err != nil {
		zap.S().Errorw("failed to list snapshots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.SnapshotListResponse{Snapshots: make([]models.SnapshotInfo, 0, len(snapshots))}
	for _, s := range snapshots {
		resp.Snapshots = append(resp.Snapshots, archivedInfo(s))
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetArchivedSnapshot handles GET /snapshots/{id}
func (h *SnapshotHandler) GetArchivedSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.requireArchive(w) {
		return
	}

	snap, err := h.archive.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrSnapshotNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Snapshot not found")
		return
	}
	if err != nil {
		zap.S().Errorw("failed to get snapshot", "id", r.PathValue("id"), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, archivedInfo(snap))
}

// GetArchivedValue handles GET /snapshots/{id}/values/{metric}/{country}?label=L
// The metric resolves to the sheet name of the dataset currently served.
func (h *SnapshotHandler) GetArchivedValue(w http.ResponseWriter, r *http.Request) {
	if !h.requireArchive(w) {
		return
	}
	m, ok := parseMetric(w, r)
	if !ok {
		return
	}
	label := strings.TrimSpace(r.URL.Query().Get("label"))
	if label == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "label is required")
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

	id, country := r.PathValue("id"), r.PathValue("country")
	v, ok, err := h.archive.Value(r.Context(), id, table.Sheet(), label, country)
	if errors.Is(err, db.ErrSnapshotNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Value not found")
		return
	}
	if err != nil {
		zap.S().Errorw("failed to get archived value", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !ok {
		v = math.NaN()
	}

	middleware.JSONResponse(w, http.StatusOK, models.ArchivedValue{
		SnapshotID: id,
		Metric:     string(m),
		Sheet:      table.Sheet(),
		Label:      label,
		Country:    country,
		Proportion: models.Proportion(v),
		Display:    export.FormatPercent(v),
	})
}

// GetWorkbook handles GET /export/workbook
func (h *SnapshotHandler) GetWorkbook(w http.ResponseWriter, r *http.Request) {
	ds, err := h.store.Require()
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Workbook(&buf, ds); err != nil {
		writeError(w, r, err)
		return
	}
	middleware.Attachment(w, export.ContentTypeXLSX, export.WorkbookFilename, buf.Bytes())
}

func datasetInfo(ds *survey.Dataset) models.SnapshotInfo {
	return models.SnapshotInfo{
		Source:          ds.Source.Path,
		Checksum:        ds.Source.Checksum,
		SizeBytes:       ds.Source.Size,
		Size:            humanize.Bytes(uint64(ds.Source.Size)),
		LoadedAt:        ds.Source.LoadedAt,
		Age:             humanize.Time(ds.Source.LoadedAt),
		ProblemRows:     ds.Problems.Len(),
		OrientationRows: ds.Orientation.Len(),
		Countries:       ds.Countries(),
	}
}

func archivedInfo(s db.Snapshot) models.SnapshotInfo {
	countries := s.Countries
	if countries == nil {
		countries = []string{}
	}
	return models.SnapshotInfo{
		ID:              s.ID,
		Source:          s.Source,
		Checksum:        s.Checksum,
		SizeBytes:       s.SizeBytes,
		Size:            humanize.Bytes(uint64(s.SizeBytes)),
		LoadedAt:        s.LoadedAt,
		Age:             humanize.Time(s.LoadedAt),
		ProblemRows:     s.ProblemRows,
		OrientationRows: s.OrientationRows,
		Countries:       countries,
	}
}
