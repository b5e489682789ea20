package tradesim

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"
)

// Account is a registered trader. It owns exactly one Ledger for its lifetime.
type Account struct {
	id      string
	name    string // unique display name
	email   string
	created time.Time
	ledger  *Ledger
}

// ID returns the unique identifier of the account.
func (a *Account) ID() string { return a.id }

// Name returns the display name of the account.
func (a *Account) Name() string { return a.name }

// Email returns the contact email given at registration.
func (a *Account) Email() string { return a.email }

// Created returns the registration time.
func (a *Account) Created() time.Time { return a.created }

// Ledger returns the ledger owned by the account.
func (a *Account) Ledger() *Ledger { return a.ledger }

// Registry maps account identities to their ledger and enforces the uniqueness
// of ids and display names.
type Registry struct {
	accounts []*Account          // in registration order
	byID     map[string]*Account // index accounts by id
	byName   map[string]*Account // index accounts by display name
	opts     []Option
	o        options
}

// NewRegistry creates an empty registry. Options are also passed down to the
// ledger of every registered account.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		accounts: make([]*Account, 0),
		byID:     make(map[string]*Account),
		byName:   make(map[string]*Account),
		opts:     opts,
		o:        newOptions(opts...),
	}
}

// Register creates an account named displayName, with a fresh unique id and a
// ledger seeded with initialCash.
//
// It fails with ErrDuplicateName when displayName is already used, compared
// exactly and case-sensitively.
func (r *Registry) Register(displayName, email string, initialCash Money) (*Account, error) {
	if strings.TrimSpace(displayName) == "" {
		return nil, fmt.Errorf("display name is missing: %w", ErrInvalidName)
	}
	if initialCash.IsNegative() {
		return nil, fmt.Errorf("initial cash must not be negative, got %s: %w", initialCash, ErrInvalidAmount)
	}
	if _, exists := r.byName[displayName]; exists {
		return nil, fmt.Errorf("cannot register %q: %w", displayName, ErrDuplicateName)
	}

	id := r.o.newID()
	for r.byID[id] != nil {
		id = r.o.newID()
	}
	return r.add(&Account{
		id:      id,
		name:    displayName,
		email:   email,
		created: r.o.now(),
		ledger:  NewLedger(initialCash, r.opts...),
	}), nil
}

// Restore adds a previously registered account with its ledger, as decoded
// from a persisted state.
func (r *Registry) Restore(id, displayName, email string, created time.Time, ledger *Ledger) (*Account, error) {
	if id == "" {
		return nil, fmt.Errorf("cannot restore %q: account id is missing", displayName)
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, fmt.Errorf("cannot restore account %q: display name is missing: %w", id, ErrInvalidName)
	}
	if _, exists := r.byID[id]; exists {
		return nil, fmt.Errorf("cannot restore account %q: id already registered", id)
	}
	if _, exists := r.byName[displayName]; exists {
		return nil, fmt.Errorf("cannot restore %q: %w", displayName, ErrDuplicateName)
	}
	return r.add(&Account{id: id, name: displayName, email: email, created: created, ledger: ledger}), nil
}

func (r *Registry) add(a *Account) *Account {
	r.accounts = append(r.accounts, a)
	r.byID[a.id] = a
	r.byName[a.name] = a
	return a
}

// FindByName returns the account with exactly this display name.
func (r *Registry) FindByName(displayName string) (*Account, bool) {
	a, ok := r.byName[displayName]
	return a, ok
}

// Find returns the account with this id.
func (r *Registry) Find(id string) (*Account, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// Accounts returns an iterator over accounts in registration order.
func (r *Registry) Accounts() iter.Seq[*Account] {
	return slices.Values(slices.Clone(r.accounts))
}

// Names returns the display names in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.accounts))
	for _, a := range r.accounts {
		names = append(names, a.name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered accounts.
func (r *Registry) Len() int { return len(r.accounts) }
