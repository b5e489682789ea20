// Package store persists the state of the trading simulator.
//
// Two backends are available: a directory of JSONL files, human-readable and
// git-friendly, and a SQLite database. Both persist the same State.
package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/etnz/tradesim"
	"github.com/etnz/tradesim/config"
	"github.com/etnz/tradesim/market"
	"github.com/rs/zerolog"
)

// Session is the logged in user between two invocations.
type Session struct {
	User string `json:"user,omitempty"` // display name, empty when logged out
}

// State is everything the simulator persists.
type State struct {
	Registry *tradesim.Registry
	Quotes   []market.Quote // empty until the market has been opened
	Session  Session
}

// NewState returns an empty state. Options apply to its registry.
func NewState(opts ...tradesim.Option) *State {
	return &State{Registry: tradesim.NewRegistry(opts...)}
}

// Store loads and saves a State.
type Store interface {
	// Load returns the persisted state, an empty one if nothing was saved yet.
	Load(ctx context.Context) (*State, error)
	// Save replaces the persisted state with s.
	Save(ctx context.Context, s *State) error
	Close() error
}

// Open opens the store configured in cfg. Options apply to loaded registries.
func Open(cfg *config.Config, log zerolog.Logger, opts ...tradesim.Option) (Store, error) {
	switch cfg.Store {
	case config.StoreJSONL:
		return NewFile(cfg.DataDir, log, opts...), nil
	case config.StoreSQLite:
		return OpenSQLite(filepath.Join(cfg.DataDir, "tradesim.db"), log, opts...)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
