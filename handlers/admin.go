// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/danielhkuo/political-dashboard/auth"
	"github.com/danielhkuo/political-dashboard/cliparse"
	"github.com/danielhkuo/political-dashboard/middleware"
	"github.com/danielhkuo/political-dashboard/models"
	"github.com/danielhkuo/political-dashboard/snapshot"
)

type AdminHandler struct {
	store *snapshot.Store
	cfg   cliparse.Config
}

func NewAdminHandler(store *snapshot.Store, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{store: store, cfg: cfg}
}

// Reload handles POST /admin/reload
// Re-reads the workbook; on failure the previous snapshot keeps serving.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), h.cfg.AdminKey)
	if errors.Is(err, auth.ErrAdminDisabled) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin endpoints disabled")
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	prev := h.store.Current()
	ds, err := h.store.Load(r.Context())
	if err != nil {
		zap.S().Warnw("reload rejected", "error", err)
		writeError(w, r, err)
		return
	}

	changed := prev == nil || prev.Source.Checksum != ds.Source.Checksum
	message := "Dataset reloaded"
	if !changed {
		message = "Workbook unchanged"
	}

	middleware.JSONResponse(w, http.StatusOK, models.ReloadResponse{
		Snapshot: datasetInfo(ds),
		Changed:  changed,
		Message:  message,
	})
}
