package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CONFIG_FILE", "STORE_BACKEND", "SQLITE_PATH", "DATABASE_URL",
		"MONGO_URI", "MONGO_DB", "UPLOAD_DIR", "OUTPUT_DIR", "LISTEN_ADDR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "supply.db", cfg.SQLitePath)
	assert.Equal(t, "SupplyDB", cfg.MongoDB)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "forecast_outputs", cfg.OutputDir)
	assert.Equal(t, ":3000", cfg.ListenAddr)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "store_backend: postgres\ndatabase_url: postgres://yaml\nlisten_addr: \":4000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, ":4000", cfg.ListenAddr)
}
