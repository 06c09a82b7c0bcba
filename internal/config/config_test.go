package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
http_server:
  address: "localhost:9000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "students.db", cfg.StoragePath)
	assert.Equal(t, "localhost:9000", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadReadsFile(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
storage_path: "/var/lib/students.db"
http_server:
  address: ":8082"
  write_timeout: 30s
  cors_allowed_origins:
    - "https://example.org"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "/var/lib/students.db", cfg.StoragePath)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.Equal(t, []string{"https://example.org"}, cfg.CORSAllowedOrigins)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
storage_path: "file.db"
http_server:
  address: ":8082"
`)
	t.Setenv("STORAGE_PATH", "env.db")
	t.Setenv("HTTP_SERVER_ADDR", ":9999")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.StoragePath)
	assert.Equal(t, ":9999", cfg.Addr)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing address", `env: "dev"`},
		{"unknown driver", "storage_driver: \"mysql\"\nhttp_server:\n  address: \":1\"\n"},
		{"postgres without dsn", "storage_driver: \"postgres\"\nhttp_server:\n  address: \":1\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
