package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 4, cfg.Pool.Size)
	require.Equal(t, 64, cfg.Pool.QueueSize)
	require.Equal(t, time.Minute, cfg.Pool.Timeout)
	require.False(t, cfg.Pool.Disabled)

	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.Equal(t, 16, cfg.Cache.MaxEntries)
	require.Equal(t, int64(256<<20), cfg.Cache.MaxTotalBytes)
	require.Equal(t, int64(64<<20), cfg.Cache.MaxBundleBytes)

	require.Equal(t, 2, cfg.Tasks.Workers)
	require.Equal(t, 32, cfg.Tasks.MaxQueue)
	require.Equal(t, 2*time.Minute, cfg.Tasks.StalePending)
	require.Equal(t, 10*time.Minute, cfg.Tasks.Retention)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TABLEDEF_POOL_SIZE", "8")
	t.Setenv("TABLEDEF_POOL_DISABLED", "true")
	t.Setenv("TABLEDEF_CACHE_TTL", "5m")
	t.Setenv("TABLEDEF_CACHE_MAXENTRIES", "4")
	t.Setenv("TABLEDEF_TASKS_WORKERS", "6")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 8, cfg.Pool.Size)
	require.True(t, cfg.Pool.Disabled)
	require.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	require.Equal(t, 4, cfg.Cache.MaxEntries)
	require.Equal(t, 6, cfg.Tasks.Workers)

	// Untouched knobs keep their defaults.
	require.Equal(t, 64, cfg.Pool.QueueSize)
	require.Equal(t, 32, cfg.Tasks.MaxQueue)
}

func TestDefaultNeverFails(t *testing.T) {
	t.Setenv("TABLEDEF_POOL_SIZE", "not-a-number")

	cfg := Default()
	require.Equal(t, 4, cfg.Pool.Size, "a bad env value falls back to the compiled-in default")
}
