// Package cmd implements the CLI application of the trading simulator.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/etnz/tradesim"
	"github.com/etnz/tradesim/config"
	"github.com/etnz/tradesim/logger"
	"github.com/etnz/tradesim/market"
	"github.com/etnz/tradesim/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&registerCmd{}, "accounts")
	c.Register(&loginCmd{}, "accounts")
	c.Register(&logoutCmd{}, "accounts")
	c.Register(&whoamiCmd{}, "accounts")

	c.Register(&marketCmd{}, "market")
	c.Register(&tradeCmd{side: tradesim.Buy}, "trading")
	c.Register(&tradeCmd{side: tradesim.Sell}, "trading")

	c.Register(&holdingCmd{}, "reports")
	c.Register(&txCmd{}, "reports")
	c.Register(&performanceCmd{}, "reports")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "tradesim.toml", "Path to the configuration file (TOML). A missing file is ignored.")
	dataDir    = flag.String("data", "", "Path to the data directory. Overrides the configuration.")
	storeKind  = flag.String("store", "", "Store backend (jsonl or sqlite). Overrides the configuration.")
	actingUser = flag.String("u", "", "Act as this user instead of the logged in one.")
)

// out is where reports are printed.
var out io.Writer = os.Stdout

// loadConfig loads the configuration file and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, fmt.Errorf("cannot load configuration %q: %w", *configFile, err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *storeKind != "" {
		cfg.Store = *storeKind
	}
	if *actingUser != "" {
		cfg.User = *actingUser
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app is the state of one invocation: the loaded state and the market feed
// caught up to now.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store store.Store
	state *store.State
	feed  *market.Feed
}

// openApp loads the configuration and the state, then advances the market.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobal(log)

	st, err := store.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	state, err := st.Load(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}

	now := time.Now()
	feed, err := newFeed(cfg, state.Quotes, now)
	if err != nil {
		st.Close()
		return nil, err
	}
	n := feed.Advance(now, cfg.Market.Interval.Duration, cfg.Market.MaxCatchUp)
	log.Debug().Int("ticks", n).Msg("Market caught up")

	return &app{cfg: cfg, log: log, store: st, state: state, feed: feed}, nil
}

// newFeed restores the persisted quotes and lists the configured securities
// that are missing.
func newFeed(cfg *config.Config, quotes []market.Quote, now time.Time) (*market.Feed, error) {
	listing, err := securities(cfg)
	if err != nil {
		return nil, err
	}
	seed := uint64(cfg.Market.Seed)
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}
	feed := market.NewFeed(rand.NewPCG(seed, seed), quotes...)
	for _, l := range listing {
		feed.Add(market.NewQuote(l, now))
	}
	return feed, nil
}

// securities returns the configured securities, the default ones if none.
func securities(cfg *config.Config) ([]market.Listing, error) {
	if len(cfg.Market.Symbols) == 0 {
		return market.DefaultListing, nil
	}
	listing := make([]market.Listing, 0, len(cfg.Market.Symbols))
	for _, s := range cfg.Market.Symbols {
		price, err := tradesim.ParseMoney(s.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price of %q: %w", s.Symbol, err)
		}
		listing = append(listing, market.Listing{Symbol: strings.ToUpper(s.Symbol), Name: s.Name, Price: price})
	}
	return listing, nil
}

// save persists the state with the current quotes.
func (a *app) save(ctx context.Context) error {
	a.state.Quotes = a.feed.Quotes()
	return a.store.Save(ctx, a.state)
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("cannot close store")
	}
}

// errNotLoggedIn is returned when no user is acting.
var errNotLoggedIn = errors.New("not logged in, use 'login -n <name>' or the -u flag")

// account returns the acting account: the -u user if any, or the logged in one.
func (a *app) account() (*tradesim.Account, error) {
	name := a.cfg.User
	if name == "" {
		name = a.state.Session.User
	}
	if name == "" {
		return nil, errNotLoggedIn
	}
	acc, ok := a.state.Registry.FindByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown user %q: %w", name, tradesim.ErrAccountNotFound)
	}
	return acc, nil
}

// run opens the app, calls f and saves the state if f succeeds.
func run(ctx context.Context, f func(a *app) error) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if err := f(a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := a.save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving state: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
