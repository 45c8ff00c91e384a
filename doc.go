// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the political dashboard server.

The server reads a survey workbook with two sheets, "Most Im" (most
important problem per country) and "Sheet2" (left-right orientation per
country), normalizes percentages to proportions and serves single-country
and two-country views as JSON, CSV or PNG charts.

# Starting the Server

	DATA_FILE=Data2Add.xlsx go run .

Or with flags:

	go run . serve -p 3318 -f Data2Add.xlsx --watch

# Other Commands

	go run . countries -f Data2Add.xlsx   # print the country index
	go run . export -f Data2Add.xlsx -o out.xlsx

# Configuration

Flags win over environment variables, which win over a .env file:

  - DATA_FILE (-f): survey workbook (default: Data2Add.xlsx)
  - PROBLEMS_SHEET, ORIENTATION_SHEET: sheet names
  - PORT (-p): server port (default: 3318)
  - WATCH (--watch): reload when the workbook changes
  - ADMIN_KEY (--admin-key): key for POST /admin/reload, generated if empty
  - DATABASE_URL (-d), DATABASE_TYPE (-t): optional snapshot archive
    (sqlite or postgres)
  - LOG_LEVEL, LOG_FORMAT: debug|info|warn|error, console|json

A workbook that cannot be loaded at startup is fatal. Later reloads that
fail keep the previous snapshot.

# Architecture

  - survey: workbook loading, normalization, country index, views
  - snapshot: published dataset, reload and file watching
  - chart, export: PNG charts, CSV and XLSX downloads
  - handlers, router, middleware, models: HTTP API
  - db: snapshot archive
  - cliparse, logging, metrics, auth: configuration and ambient concerns

See package documentation for each component.
*/
package main
