// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Commands built with cobra register the same flags and resolve them with Load:

	cliparse.RegisterFlags(cmd.Flags())
	cfg, err := cliparse.Load(cmd.Flags())

# Config Fields

  - Port: Server listen port (default: 3318)
  - DataFile: Survey workbook (default: Data2Add.xlsx)
  - ProblemsSheet / OrientationSheet: Sheet names (default: "Most Im", "Sheet2")
  - DatabaseURL: Snapshot archive (optional, archive disabled when empty)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminKey: Required by POST /admin/reload (endpoint disabled when empty)
  - LogLevel / LogFormat: zap level and encoder (default: info, console)
  - Watch: Reload the workbook when the file changes

# CLI Flags

	-p, --port              Server port
	-f, --data              Survey workbook
	--problems-sheet        Problem sheet name
	--orientation-sheet     Orientation sheet name
	-d, --database          Archive database URL
	-t, --database-type     sqlite or postgres
	--admin-key             Admin key
	--log-level, --log-format
	--watch
	--env-file              Dotenv file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATA_FILE         → -f
	PROBLEMS_SHEET    → --problems-sheet
	ORIENTATION_SHEET → --orientation-sheet
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	ADMIN_KEY         → --admin-key
	LOG_LEVEL, LOG_FORMAT, WATCH

Variables from the dotenv file are applied only when not already set.
CLI flags take precedence over environment variables.
*/
package cliparse
