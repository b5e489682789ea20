// Package config defines the configuration of the trading simulator and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/tradesim"
	"github.com/robfig/cron/v3"
)

// Store kinds.
const (
	StoreJSONL  = "jsonl"
	StoreSQLite = "sqlite"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by TRADESIM_* environment variables.
type Config struct {
	DataDir     string       `toml:"data_dir"`
	Store       string       `toml:"store"`
	User        string       `toml:"user"` // acting user, overrides the session
	DefaultCash string       `toml:"default_cash"`
	Log         LogConfig    `toml:"log"`
	Market      MarketConfig `toml:"market"`
}

// LogConfig holds logging parameters.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// MarketConfig holds the simulated market parameters.
type MarketConfig struct {
	Schedule   string         `toml:"schedule"`     // cron schedule of a watching market
	Interval   Duration       `toml:"interval"`     // time between two ticks when catching up
	MaxCatchUp int            `toml:"max_catch_up"` // max ticks applied when catching up
	Seed       int64          `toml:"seed"`         // 0 means time based
	Symbols    []SymbolConfig `toml:"symbols"`
}

// SymbolConfig lists one security.
type SymbolConfig struct {
	Symbol string `toml:"symbol"`
	Name   string `toml:"name"`
	Price  string `toml:"price"`
}

// Duration wraps time.Duration so it can be decoded from TOML strings.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DataDir:     ".tradesim",
		Store:       StoreJSONL,
		DefaultCash: "10000.00",
		Log: LogConfig{
			Level: "info",
		},
		Market: MarketConfig{
			Schedule:   "@every 5s",
			Interval:   Duration{5 * time.Second},
			MaxCatchUp: 720,
		},
	}
}

// Cash returns the initial cash of new accounts.
func (c *Config) Cash() (tradesim.Money, error) {
	return tradesim.ParseMoney(c.DefaultCash)
}

// validLogLevels enumerates the accepted values for LogConfig.Level.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if c.DataDir == "" {
		errs = append(errs, "data_dir must be set")
	}
	if c.Store != StoreJSONL && c.Store != StoreSQLite {
		errs = append(errs, fmt.Sprintf("unknown store %q (valid: %s, %s)", c.Store, StoreJSONL, StoreSQLite))
	}
	if cash, err := c.Cash(); err != nil {
		errs = append(errs, fmt.Sprintf("default_cash: %v", err))
	} else if cash.IsNegative() {
		errs = append(errs, "default_cash must be >= 0")
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("unknown log level %q (valid: debug, info, warn, error)", c.Log.Level))
	}

	// Market
	if _, err := cron.ParseStandard(c.Market.Schedule); err != nil {
		errs = append(errs, fmt.Sprintf("market: invalid schedule %q: %v", c.Market.Schedule, err))
	}
	if c.Market.Interval.Duration <= 0 {
		errs = append(errs, "market: interval must be > 0")
	}
	if c.Market.MaxCatchUp < 0 {
		errs = append(errs, "market: max_catch_up must be >= 0")
	}
	seen := make(map[string]bool)
	for i, s := range c.Market.Symbols {
		symbol := strings.ToUpper(s.Symbol)
		if symbol == "" {
			errs = append(errs, fmt.Sprintf("market: symbols[%d]: symbol must be set", i))
			continue
		}
		if seen[symbol] {
			errs = append(errs, fmt.Sprintf("market: symbols[%d]: duplicate symbol %q", i, s.Symbol))
		}
		seen[symbol] = true
		if price, err := tradesim.ParseMoney(s.Price); err != nil || !price.IsPositive() {
			errs = append(errs, fmt.Sprintf("market: symbols[%d]: price of %q must be a positive amount, got %q", i, s.Symbol, s.Price))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
