// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := ParseFlags([]string{"--env-file="})
	require.NoError(t, err)

	assert.Equal(t, 3318, cfg.Port)
	assert.Equal(t, "Data2Add.xlsx", cfg.DataFile)
	assert.Equal(t, "Most Im", cfg.ProblemsSheet)
	assert.Equal(t, "Sheet2", cfg.OrientationSheet)
	assert.Equal(t, DatabaseSQLite, cfg.DatabaseType)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.False(t, cfg.Watch)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATA_FILE", "survey.xlsx")
	os.Setenv("DATABASE_URL", "file:archive.db")
	os.Setenv("ADMIN_KEY", "secret")
	os.Setenv("WATCH", "true")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"--env-file="})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "survey.xlsx", cfg.DataFile)
	assert.Equal(t, "secret", cfg.AdminKey)
	assert.True(t, cfg.Watch)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_TYPE", "sqlite")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-t", "postgres", "-f", "other.xlsx", "--env-file="})
	require.NoError(t, err)

	// CLI should override env
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DatabasePostgres, cfg.DatabaseType)
	assert.Equal(t, "other.xlsx", cfg.DataFile)
}

func TestParseFlags_EnvFile(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7000\nLOG_LEVEL=DEBUG\n"), 0o644))

	cfg, err := ParseFlags([]string{"--env-file", path})
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad port env", map[string]string{"PORT": "abc"}, nil},
		{"port out of range", nil, []string{"-p", "70000"}},
		{"bad database type", map[string]string{"DATABASE_TYPE": "mysql"}, nil},
		{"bad log format", nil, []string{"--log-format", "xml"}},
		{"bad watch", map[string]string{"WATCH": "sometimes"}, nil},
		{"unknown flag", nil, []string{"--slug-salt", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			defer os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			_, err := ParseFlags(append(tt.args, "--env-file="))
			assert.Error(t, err)
		})
	}
}
