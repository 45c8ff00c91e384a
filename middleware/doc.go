// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, hashed remote) at debug level and
completion (status, bytes, duration_ms) at info level. Every response
carries an X-Request-ID header.

# Metrics

Count requests per mux pattern:

	mux.HandleFunc(pattern, middleware.WithMetrics(m, pattern, handler))

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, OPTIONS with headers Content-Type, X-Admin-Key,
X-Request-ID, and exposes Content-Disposition for downloads.

# Response Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.Attachment(w, "text/csv", "DE_top_issues.csv", body)

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for IP hashing in request logs.
*/
package middleware
