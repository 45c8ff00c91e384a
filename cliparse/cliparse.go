package cliparse

import (
	"io/fs"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port             int
	DataFile         string
	ProblemsSheet    string
	OrientationSheet string
	DatabaseURL      string
	DatabaseType     string
	AdminKey         string
	LogLevel         string
	LogFormat        string
	Watch            bool
}

// ArchiveEnabled reports whether published snapshots should be recorded.
func (c Config) ArchiveEnabled() bool {
	return c.DatabaseURL != ""
}

// flag name -> environment variable
var envNames = map[string]string{
	"port":              "PORT",
	"data":              "DATA_FILE",
	"problems-sheet":    "PROBLEMS_SHEET",
	"orientation-sheet": "ORIENTATION_SHEET",
	"database":          "DATABASE_URL",
	"database-type":     "DATABASE_TYPE",
	"admin-key":         "ADMIN_KEY",
	"log-level":         "LOG_LEVEL",
	"log-format":        "LOG_FORMAT",
	"watch":             "WATCH",
}

// RegisterFlags adds the configuration flags to a flag set.
func RegisterFlags(flags *pflag.FlagSet) {
	// Network config (can be CLI args or env)
	flags.IntP("port", "p", 0, "Server port")

	// Data source
	flags.StringP("data", "f", "", "Survey workbook (.xlsx)")
	flags.String("problems-sheet", "", "Sheet holding the most important problems")
	flags.String("orientation-sheet", "", "Sheet holding the left-right orientation")
	flags.Bool("watch", false, "Reload the workbook when it changes on disk")

	// Snapshot archive (optional)
	flags.StringP("database", "d", "", "Snapshot archive database URL")
	flags.StringP("database-type", "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.String("admin-key", "", "Admin key for reload (prefer env)")

	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (console or json)")
	flags.String("env-file", ".env", "Optional dotenv file")
}

// ParseFlags parses args and resolves the configuration.
func ParseFlags(args []string) (Config, error) {
	flags := pflag.NewFlagSet("political-dashboard", pflag.ContinueOnError)
	RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	return Load(flags)
}

// Load resolves the configuration from parsed flags, the environment, an
// optional dotenv file and defaults, in that order of precedence.
func Load(flags *pflag.FlagSet) (Config, error) {
	if envFile, err := flags.GetString("env-file"); err == nil && envFile != "" {
		// Existing environment variables win over the file
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrapf(err, "load env file %q", envFile)
		}
	}

	v := viper.New()
	for name, env := range envNames {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return Config{}, err
			}
		}
		if err := v.BindEnv(name, env); err != nil {
			return Config{}, err
		}
	}
	v.SetDefault("port", 3318)
	v.SetDefault("data", "Data2Add.xlsx")
	v.SetDefault("problems-sheet", "Most Im")
	v.SetDefault("orientation-sheet", "Sheet2")
	v.SetDefault("database-type", DatabaseSQLite)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "console")

	var cfg Config

	port, err := strconv.Atoi(v.GetString("port"))
	if err != nil || port < 1 || port > 65535 {
		return Config{}, errors.Newf("invalid PORT %q", v.GetString("port"))
	}
	cfg.Port = port

	watch, err := strconv.ParseBool(v.GetString("watch"))
	if err != nil {
		return Config{}, errors.Newf("invalid WATCH %q", v.GetString("watch"))
	}
	cfg.Watch = watch

	cfg.DataFile = v.GetString("data")
	cfg.ProblemsSheet = v.GetString("problems-sheet")
	cfg.OrientationSheet = v.GetString("orientation-sheet")
	cfg.DatabaseURL = v.GetString("database")
	cfg.DatabaseType = strings.ToLower(v.GetString("database-type"))
	cfg.AdminKey = v.GetString("admin-key")
	cfg.LogLevel = strings.ToLower(v.GetString("log-level"))
	cfg.LogFormat = strings.ToLower(v.GetString("log-format"))

	if cfg.DataFile == "" {
		return Config{}, errors.New("data file required (use -f or DATA_FILE env)")
	}

	switch cfg.DatabaseType {
	case DatabaseSQLite, DatabasePostgres:
	default:
		return Config{}, errors.Newf("unsupported DATABASE_TYPE %q", cfg.DatabaseType)
	}

	switch cfg.LogFormat {
	case "console", "json":
	default:
		return Config{}, errors.Newf("unsupported LOG_FORMAT %q", cfg.LogFormat)
	}

	return cfg, nil
}
