package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies TRADESIM_* environment variable overrides, and
// returns the final Config. A missing file is not an error. The returned
// Config has NOT been validated; the caller should invoke Config.Validate()
// after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known TRADESIM_* environment variables and
// overwrites the corresponding Config fields when a variable is set.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.DataDir, "TRADESIM_DATA_DIR")
	setStr(&cfg.Store, "TRADESIM_STORE")
	setStr(&cfg.User, "TRADESIM_USER")
	setStr(&cfg.DefaultCash, "TRADESIM_DEFAULT_CASH")

	setStr(&cfg.Log.Level, "TRADESIM_LOG_LEVEL")
	setBool(&cfg.Log.Pretty, "TRADESIM_LOG_PRETTY")

	setStr(&cfg.Market.Schedule, "TRADESIM_MARKET_SCHEDULE")
	setDuration(&cfg.Market.Interval, "TRADESIM_MARKET_INTERVAL")
	setInt(&cfg.Market.MaxCatchUp, "TRADESIM_MARKET_MAX_CATCH_UP")
	setInt64(&cfg.Market.Seed, "TRADESIM_MARKET_SEED")
}

// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
