// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the dashboard API.

# Handler Types

Each handler is a struct holding the snapshot store and whatever else its
routes need:

  - DashboardHandler: country index, labels, single and comparison views
  - SnapshotHandler: current snapshot, archive history, workbook export
  - AdminHandler: workbook reload

Handlers are created via constructor functions:

	dashboardHandler := handlers.NewDashboardHandler(store, metrics)

Every request reads the snapshot once, so a reload in the middle of a
request never mixes two datasets.

# Views

	GET /views/{metric}/{country}?label=Crime&label=Inflation
	GET /compare/{metric}/{a}/{b}?format=csv

metric is "issues" or "orientation". Without a label parameter all labels
are selected. An empty label parameter selects nothing: JSON responses carry
a warning, CSV and PNG respond 422.

# Errors

	unknown metric          404
	unknown country/format  400
	empty download          422
	reload rejected         422 (previous snapshot stays)
	no dataset loaded       503

# Admin

POST /admin/reload requires the X-Admin-Key header.
*/
package handlers
