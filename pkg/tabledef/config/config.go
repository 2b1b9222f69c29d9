// Package config loads runtime configuration from the environment.
// Every knob has a default and is independently tunable, since memory
// budgets differ sharply between the desktop and server profiles.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for recognized environment variables, e.g.
// TABLEDEF_POOL_SIZE=8 or TABLEDEF_CACHE_TTL=5m.
const EnvPrefix = "TABLEDEF_"

// PoolConfig tunes the parse worker pool.
type PoolConfig struct {
	Size      int           `koanf:"size"`
	QueueSize int           `koanf:"queuesize"`
	Timeout   time.Duration `koanf:"timeout"`
	Disabled  bool          `koanf:"disabled"`
}

// CacheConfig tunes the result cache budgets.
type CacheConfig struct {
	TTL            time.Duration `koanf:"ttl"`
	MaxEntries     int           `koanf:"maxentries"`
	MaxTotalBytes  int64         `koanf:"maxtotalbytes"`
	MaxBundleBytes int64         `koanf:"maxbundlebytes"`
}

// TasksConfig tunes the task manager.
type TasksConfig struct {
	Workers      int           `koanf:"workers"`
	MaxQueue     int           `koanf:"maxqueue"`
	StalePending time.Duration `koanf:"stalepending"`
	Retention    time.Duration `koanf:"retention"`
}

// Config is the full runtime configuration.
type Config struct {
	Pool  PoolConfig  `koanf:"pool"`
	Cache CacheConfig `koanf:"cache"`
	Tasks TasksConfig `koanf:"tasks"`
}

// defaults is the desktop profile, expressed as a confmap so the env
// provider layers cleanly on top.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"pool.size":            4,
		"pool.queuesize":       64,
		"pool.timeout":         "60s",
		"pool.disabled":        false,
		"cache.ttl":            "10m",
		"cache.maxentries":     16,
		"cache.maxtotalbytes":  int64(256 << 20),
		"cache.maxbundlebytes": int64(64 << 20),
		"tasks.workers":        2,
		"tasks.maxqueue":       32,
		"tasks.stalepending":   "2m",
		"tasks.retention":      "10m",
	}
}

// Default returns the configuration with every knob at its default.
func Default() Config {
	cfg, err := Load()
	if err != nil {
		// Defaults alone cannot fail to unmarshal; an env typo can. Fall
		// back to the compiled-in values.
		cfg = Config{}
		k := koanf.New(".")
		_ = k.Load(confmap.Provider(defaults(), "."), nil)
		_ = k.Unmarshal("", &cfg)
	}
	return cfg
}

// Load builds the configuration from defaults overlaid with TABLEDEF_*
// environment variables.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, err
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
