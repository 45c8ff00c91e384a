// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/political-dashboard/cliparse"
	"github.com/danielhkuo/political-dashboard/db"
	"github.com/danielhkuo/political-dashboard/handlers"
	"github.com/danielhkuo/political-dashboard/metrics"
	"github.com/danielhkuo/political-dashboard/middleware"
	"github.com/danielhkuo/political-dashboard/snapshot"
)

// NewRouter wires every route. archive and m may be nil.
func NewRouter(store *snapshot.Store, archive *db.Archive, cfg cliparse.Config, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	dashboardHandler := handlers.NewDashboardHandler(store, m)
	snapshotHandler := handlers.NewSnapshotHandler(store, archive)
	adminHandler := handlers.NewAdminHandler(store, cfg)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithMetrics(m, pattern, middleware.WithLogging(h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Views (public)
	handle("GET /countries", dashboardHandler.GetCountries)
	handle("GET /labels/{metric}", dashboardHandler.GetLabels)
	handle("GET /views/{metric}/{country}", dashboardHandler.GetSingleView)
	handle("GET /compare/{metric}/{a}/{b}", dashboardHandler.GetComparison)

	// Dataset
	handle("GET /export/workbook", snapshotHandler.GetWorkbook)
	handle("GET /snapshot", snapshotHandler.GetSnapshot)
	handle("GET /snapshots", snapshotHandler.ListSnapshots)
	handle("GET /snapshots/{id}", snapshotHandler.GetArchivedSnapshot)
	handle("GET /snapshots/{id}/values/{metric}/{country}", snapshotHandler.GetArchivedValue)

	// Admin operations
	handle("POST /admin/reload", adminHandler.Reload)

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("political-dashboard API v1"))
	})

	return mux
}
