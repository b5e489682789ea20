package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	cash, err := cfg.Cash()
	require.NoError(t, err)
	assert.Equal(t, "$10,000.00", cash.String())
	assert.Equal(t, 5*time.Second, cfg.Market.Interval.Duration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string // empty means valid
	}{
		{name: "sqlite", modify: func(c *Config) { c.Store = StoreSQLite }},
		{name: "unknown store", modify: func(c *Config) { c.Store = "csv" }, want: `unknown store "csv"`},
		{name: "no data dir", modify: func(c *Config) { c.DataDir = "" }, want: "data_dir must be set"},
		{name: "bad cash", modify: func(c *Config) { c.DefaultCash = "lots" }, want: "default_cash"},
		{name: "negative cash", modify: func(c *Config) { c.DefaultCash = "-1" }, want: "default_cash must be >= 0"},
		{name: "log level", modify: func(c *Config) { c.Log.Level = "trace" }, want: `unknown log level "trace"`},
		{name: "schedule", modify: func(c *Config) { c.Market.Schedule = "sometimes" }, want: "market: invalid schedule"},
		{name: "cron schedule", modify: func(c *Config) { c.Market.Schedule = "*/5 * * * *" }},
		{name: "interval", modify: func(c *Config) { c.Market.Interval = Duration{} }, want: "market: interval must be > 0"},
		{name: "catch up", modify: func(c *Config) { c.Market.MaxCatchUp = -1 }, want: "max_catch_up"},
		{
			name: "symbols",
			modify: func(c *Config) {
				c.Market.Symbols = []SymbolConfig{{Symbol: "IBM", Name: "IBM Corp.", Price: "120.50"}}
			},
		},
		{
			name: "duplicate symbol",
			modify: func(c *Config) {
				c.Market.Symbols = []SymbolConfig{{Symbol: "IBM", Price: "1"}, {Symbol: "ibm", Price: "2"}}
			},
			want: `symbols[1]: duplicate symbol "ibm"`,
		},
		{
			name: "zero price",
			modify: func(c *Config) {
				c.Market.Symbols = []SymbolConfig{{Symbol: "IBM", Price: "0"}}
			},
			want: "must be a positive amount",
		},
		{
			name: "missing symbol",
			modify: func(c *Config) {
				c.Market.Symbols = []SymbolConfig{{Price: "1"}}
			},
			want: "symbols[0]: symbol must be set",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Defaults()
	cfg.Store = "csv"
	cfg.Log.Level = "trace"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store")
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Store, cfg.Store)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tradesim.toml")
	content := `
data_dir = "/var/lib/tradesim"
store = "sqlite"
default_cash = "2500.00"

[log]
level = "debug"

[market]
interval = "1m"
seed = 42

[[market.symbols]]
symbol = "IBM"
name = "IBM Corp."
price = "120.00"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/var/lib/tradesim", cfg.DataDir)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "2500.00", cfg.DefaultCash)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, time.Minute, cfg.Market.Interval.Duration)
	assert.Equal(t, int64(42), cfg.Market.Seed)
	assert.Equal(t, "@every 5s", cfg.Market.Schedule, "defaults are kept")
	assert.Equal(t, []SymbolConfig{{Symbol: "IBM", Name: "IBM Corp.", Price: "120.00"}}, cfg.Market.Symbols)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tradesim.toml")
	require.NoError(t, os.WriteFile(path, []byte("store = "), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRADESIM_DATA_DIR", "/tmp/sim")
	t.Setenv("TRADESIM_STORE", "sqlite")
	t.Setenv("TRADESIM_USER", "alice")
	t.Setenv("TRADESIM_DEFAULT_CASH", "500")
	t.Setenv("TRADESIM_LOG_LEVEL", "warn")
	t.Setenv("TRADESIM_LOG_PRETTY", "true")
	t.Setenv("TRADESIM_MARKET_SCHEDULE", "@every 1s")
	t.Setenv("TRADESIM_MARKET_INTERVAL", "2s")
	t.Setenv("TRADESIM_MARKET_MAX_CATCH_UP", "3")
	t.Setenv("TRADESIM_MARKET_SEED", "7")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/sim", cfg.DataDir)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, "500", cfg.DefaultCash)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, "@every 1s", cfg.Market.Schedule)
	assert.Equal(t, 2*time.Second, cfg.Market.Interval.Duration)
	assert.Equal(t, 3, cfg.Market.MaxCatchUp)
	assert.Equal(t, int64(7), cfg.Market.Seed)
}

func TestLoad_IgnoresMalformedEnv(t *testing.T) {
	t.Setenv("TRADESIM_MARKET_INTERVAL", "soon")
	t.Setenv("TRADESIM_MARKET_SEED", "x")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Market.Interval.Duration)
	assert.Zero(t, cfg.Market.Seed)
}
