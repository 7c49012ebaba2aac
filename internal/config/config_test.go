package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/flow/layout"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// unsetenv clears keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

var managedKeys = []string{
	"FLOW_ADDR", "FLOW_STORE", "FLOW_HISTORY_LIMIT", "FLOW_LOG_LEVEL", "FLOW_LOG_FORMAT",
	"FLOW_LAYOUT_NODE_WIDTH", "FLOW_LAYOUT_NODE_HEIGHT", "FLOW_LAYOUT_HORIZONTAL_GAP", "FLOW_LAYOUT_VERTICAL_GAP",
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	unsetenv(t, managedKeys...)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, 100, cfg.HistoryLimit)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, layout.DefaultOptions(), cfg.Options())
}

func TestLoadFromEnv(t *testing.T) {
	chdirTemp(t)
	unsetenv(t, managedKeys...)
	t.Setenv("FLOW_ADDR", ":8080")
	t.Setenv("FLOW_STORE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/flow")
	t.Setenv("FLOW_HISTORY_LIMIT", "25")
	t.Setenv("FLOW_LOG_LEVEL", "debug")
	t.Setenv("FLOW_LAYOUT_NODE_WIDTH", "200")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "postgres://localhost/flow", cfg.DatabaseURL)
	assert.Equal(t, 25, cfg.HistoryLimit)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, 200.0, cfg.Options().NodeWidth)
}

func TestLoadDotEnv(t *testing.T) {
	chdirTemp(t)
	unsetenv(t, managedKeys...)
	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte("FLOW_ADDR=:9999\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Config{Store: "postgres"}).Validate())
	assert.Error(t, (&Config{Store: "redis"}).Validate())
	assert.Error(t, (&Config{Store: "etcd"}).Validate())
	assert.NoError(t, (&Config{Store: "redis", RedisURL: "redis://localhost:6379"}).Validate())
}
