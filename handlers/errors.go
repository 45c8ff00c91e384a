// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/danielhkuo/political-dashboard/middleware"
	"github.com/danielhkuo/political-dashboard/snapshot"
	"github.com/danielhkuo/political-dashboard/survey"
)

// writeError maps domain errors to HTTP statuses. Unexpected errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	hint := errors.FlattenHints(err)

	switch {
	case errors.Is(err, snapshot.ErrNotLoaded):
		middleware.ErrorResponseWithHint(w, http.StatusServiceUnavailable, "Dataset not loaded", hint)
	case errors.Is(err, survey.ErrInvalidSelection):
		middleware.ErrorResponseWithHint(w, http.StatusBadRequest, err.Error(), hint)
	case errors.Is(err, survey.ErrSchema),
		errors.Is(err, survey.ErrMissingResource),
		errors.Is(err, survey.ErrNoCommonCountries):
		// only reachable from a reload; the previous snapshot stays
		middleware.ErrorResponseWithHint(w, http.StatusUnprocessableEntity, err.Error(), hint)
	default:
		zap.S().Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

// parseMetric reads the {metric} path value. Unknown metrics are 404s: the
// path names a resource that does not exist.
func parseMetric(w http.ResponseWriter, r *http.Request) (survey.Metric, bool) {
	m, err := survey.ParseMetric(r.PathValue("metric"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return m, true
}
