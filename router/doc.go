// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the dashboard API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, archive, cfg, metrics)

archive and metrics are optional.

# Endpoints

Health:

	GET /health

Views (public). Both accept repeated ?label= and ?format=json|csv|png:

	GET /countries                  - Country index
	GET /labels/{metric}            - Row labels of issues or orientation
	GET /views/{metric}/{country}   - Single-country view
	GET /compare/{metric}/{a}/{b}   - Two-country comparison

Dataset:

	GET /export/workbook - Normalized dataset as .xlsx
	GET /snapshot        - Currently served snapshot
	GET /snapshots       - Archive history (needs a database)
	GET /snapshots/{id}  - One archived snapshot
	GET /snapshots/{id}/values/{metric}/{country}?label=L - One archived cell

Admin (requires X-Admin-Key):

	POST /admin/reload - Re-read the workbook

Monitoring:

	GET /metrics - Prometheus

Every route except /health and /metrics is wrapped with request logging and
request metrics labelled by the route pattern.
*/
package router
