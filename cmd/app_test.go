package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/tradesim"
	"github.com/etnz/tradesim/config"
	"github.com/etnz/tradesim/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup points the global flags to a fresh data directory.
func setup(t *testing.T, kind string) {
	t.Helper()
	t.Setenv("TRADESIM_LOG_LEVEL", "error")
	t.Setenv("TRADESIM_MARKET_SEED", "1")

	*configFile = filepath.Join(t.TempDir(), "missing.toml")
	*dataDir = t.TempDir()
	*storeKind = kind
	*actingUser = ""
	t.Cleanup(func() {
		*configFile = "tradesim.toml"
		*dataDir, *storeKind, *actingUser = "", "", ""
	})
}

// execute runs the command line args and returns its status and output.
func execute(t *testing.T, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	var buf bytes.Buffer
	out = &buf
	defer func() { out = os.Stdout }()

	f := flag.NewFlagSet("tradesim", flag.ContinueOnError)
	commander := subcommands.NewCommander(f, "tradesim")
	Register(commander)
	require.NoError(t, f.Parse(args))
	return commander.Execute(context.Background()), buf.String()
}

// loadState loads the state saved by the commands.
func loadState(t *testing.T) *store.State {
	t.Helper()
	cfg := config.Defaults()
	cfg.DataDir = *dataDir
	if *storeKind != "" {
		cfg.Store = *storeKind
	}
	st, err := store.Open(&cfg, zerolog.Nop())
	require.NoError(t, err)
	defer st.Close()
	state, err := st.Load(context.Background())
	require.NoError(t, err)
	return state
}

func TestTradingSession(t *testing.T) {
	for _, kind := range []string{config.StoreJSONL, config.StoreSQLite} {
		t.Run(kind, func(t *testing.T) {
			setup(t, kind)

			status, output := execute(t, "register", "-n", "alice", "-e", "alice@example.com", "-c", "1000.00")
			require.Equal(t, subcommands.ExitSuccess, status)
			assert.Contains(t, output, "Registered alice with $1,000.00")

			status, _ = execute(t, "register", "-n", "alice")
			assert.Equal(t, subcommands.ExitFailure, status, "duplicate name")

			status, _ = execute(t, "buy", "-s", "AAPL", "-q", "2")
			assert.Equal(t, subcommands.ExitFailure, status, "not logged in")

			status, output = execute(t, "login", "-n", "alice")
			require.Equal(t, subcommands.ExitSuccess, status)
			assert.Equal(t, "Logged in as alice.\n", output)

			status, output = execute(t, "buy", "-s", "aapl", "-q", "2")
			require.Equal(t, subcommands.ExitSuccess, status)
			assert.Contains(t, output, "Bought 2 AAPL at $")

			status, _ = execute(t, "sell", "-s", "AAPL", "-q", "5")
			assert.Equal(t, subcommands.ExitFailure, status, "insufficient shares")

			status, _ = execute(t, "buy", "-s", "IBM", "-q", "1")
			assert.Equal(t, subcommands.ExitFailure, status, "unknown symbol")

			status, _ = execute(t, "buy", "-s", "TSLA", "-q", "1000")
			assert.Equal(t, subcommands.ExitFailure, status, "insufficient funds")

			state := loadState(t)
			alice, ok := state.Registry.FindByName("alice")
			require.True(t, ok)
			txs := alice.Ledger().Transactions()
			require.Len(t, txs, 1, "failed orders are not recorded")
			assert.Equal(t, "AAPL", txs[0].Symbol())
			assert.Equal(t, tradesim.Quantity(2), alice.Ledger().Quantity("AAPL"))
			assert.True(t, tradesim.M(1000).Sub(txs[0].TotalValue()).Equal(alice.Ledger().Cash()))
			assert.Equal(t, "alice", state.Session.User)
			assert.Len(t, state.Quotes, 8)

			status, output = execute(t, "holding", "-format", "json", "-q", "$.positions[0].symbol")
			require.Equal(t, subcommands.ExitSuccess, status)
			assert.Equal(t, "\"AAPL\"\n", output)

			status, output = execute(t, "tx", "-format", "json", "-q", "$.transactions[*].side")
			require.Equal(t, subcommands.ExitSuccess, status)
			assert.JSONEq(t, `["buy"]`, output)

			status, output = execute(t, "performance", "-format", "json")
			require.Equal(t, subcommands.ExitSuccess, status)
			var perf struct {
				Invested float64  `json:"invested"`
				Percent  *float64 `json:"percent"`
			}
			require.NoError(t, json.Unmarshal([]byte(output), &perf))
			assert.InDelta(t, txs[0].TotalValue().Decimal().InexactFloat64(), perf.Invested, 1e-9)
			assert.NotNil(t, perf.Percent)

			status, _ = execute(t, "logout")
			require.Equal(t, subcommands.ExitSuccess, status)
			status, _ = execute(t, "whoami")
			assert.Equal(t, subcommands.ExitFailure, status)
		})
	}
}

func TestActingUserFlag(t *testing.T) {
	setup(t, "")

	status, _ := execute(t, "register", "-n", "bob")
	require.Equal(t, subcommands.ExitSuccess, status)

	*actingUser = "bob"
	status, output := execute(t, "whoami")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, output, "bob <>")
	assert.Contains(t, output, "cash:    $10,000.00")

	*actingUser = "carol"
	status, _ = execute(t, "whoami")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestMarketCmd(t *testing.T) {
	setup(t, "")

	status, output := execute(t, "market", "-format", "json", "-q", "$.quotes[*].symbol")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.JSONEq(t, `["AAPL","AMZN","GOOGL","META","MSFT","NFLX","NVDA","TSLA"]`, output)

	status, output = execute(t, "market", "-format", "html")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, output, "<h1>Market</h1>")
}

func TestConfiguredSymbols(t *testing.T) {
	setup(t, "")
	*configFile = filepath.Join(t.TempDir(), "tradesim.toml")
	content := `
[[market.symbols]]
symbol = "ibm"
name = "IBM Corp."
price = "120.00"
`
	require.NoError(t, os.WriteFile(*configFile, []byte(content), 0o644))

	status, output := execute(t, "market", "-format", "json", "-q", "$.quotes[*].symbol")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.JSONEq(t, `["IBM"]`, output)
}

func TestUsageErrors(t *testing.T) {
	setup(t, "")
	tests := [][]string{
		{"register"},
		{"login"},
		{"buy", "-q", "1"},
		{"buy", "-s", "AAPL"},
		{"sell", "-s", "AAPL", "-q", "-1"},
		{"holding", "-format", "pdf"},
		{"holding", "-q", "$.name"},
		{"tx", "-head", "1", "-tail", "1"},
	}
	for _, args := range tests {
		status, _ := execute(t, args...)
		assert.Equal(t, subcommands.ExitUsageError, status, "%v", args)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	setup(t, "csv")
	status, _ := execute(t, "whoami")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestTxHeadTail(t *testing.T) {
	setup(t, "")
	*actingUser = "alice"
	status, _ := execute(t, "register", "-n", "alice")
	require.Equal(t, subcommands.ExitSuccess, status)
	for _, symbol := range []string{"AAPL", "MSFT", "NFLX"} {
		status, _ := execute(t, "buy", "-s", symbol, "-q", "1")
		require.Equal(t, subcommands.ExitSuccess, status)
	}

	_, output := execute(t, "tx", "-format", "json", "-head", "1", "-q", "$.transactions[*].symbol")
	assert.JSONEq(t, `["AAPL"]`, output)
	_, output = execute(t, "tx", "-format", "json", "-tail", "2", "-q", "$.transactions[*].symbol")
	assert.JSONEq(t, `["MSFT","NFLX"]`, output)
}

func TestTopicCmd(t *testing.T) {
	setup(t, "")

	status, output := execute(t, "topic")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, output, "trading")

	status, output = execute(t, "topic", "storage")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, output, "accounts.jsonl")

	status, _ = execute(t, "topic", "nope")
	assert.Equal(t, subcommands.ExitFailure, status)
}
