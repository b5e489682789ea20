package tradesim

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Position is the current holding of one symbol.
//
// A Position is a value: mutating it never affects the Ledger it came from.
type Position struct {
	Symbol      string   `json:"symbol"`
	Quantity    Quantity `json:"quantity"`
	AverageCost Money    `json:"averageCost"` // per share, 2 decimal places
}

// CostBasis returns the acquisition cost of the held shares, at average cost.
func (p Position) CostBasis() Money { return p.AverageCost.Mul(p.Quantity) }

// options holds the collaborators shared by ledgers and registries.
type options struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Ledger or a Registry.
type Option func(*options)

// WithClock sets the clock used to timestamp new records.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDs sets the generator of unique identifiers for new records.
func WithIDs(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func newOptions(opts ...Option) options {
	o := options{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Ledger tracks the cash, the positions and the transaction history of one
// account.
//
// In a Ledger transactions are always in insertion order, which is also the
// chronological order. Cash and positions are always the result of replaying
// all transactions from the initial cash.
type Ledger struct {
	initialCash  Money
	cash         Money
	positions    map[string]Position // index positions by symbol, never at zero quantity
	transactions []Transaction
	opts         options
}

// NewLedger creates an empty ledger endowed with initialCash.
func NewLedger(initialCash Money, opts ...Option) *Ledger {
	return &Ledger{
		initialCash:  initialCash,
		cash:         initialCash,
		positions:    make(map[string]Position),
		transactions: make([]Transaction, 0),
		opts:         newOptions(opts...),
	}
}

// Replay rebuilds a ledger from its initial cash and its transaction log.
//
// Transactions are applied in order, with their own ids and timestamps. It
// fails on the first transaction that cannot be applied.
func Replay(initialCash Money, txs []Transaction, opts ...Option) (*Ledger, error) {
	l := NewLedger(initialCash, opts...)
	for i, tx := range txs {
		if err := l.Apply(tx); err != nil {
			return nil, fmt.Errorf("cannot replay transaction #%d %q: %w", i+1, tx.ID(), err)
		}
	}
	return l, nil
}

// Buy purchases quantity shares of symbol at unitPrice.
//
// The total cost is debited from the cash balance and the average cost of the
// position is blended with the unit price. It fails with ErrInsufficientFunds
// if the cash balance does not cover the total cost, and leaves the ledger
// unchanged on any failure.
func (l *Ledger) Buy(symbol string, quantity Quantity, unitPrice Money) (Transaction, error) {
	tx := NewTransaction(l.opts.newID(), symbol, Buy, quantity, unitPrice, l.opts.now())
	if err := l.Apply(tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Sell sells quantity shares of symbol at unitPrice.
//
// The proceeds are credited to the cash balance. The average cost of the
// remaining shares is unchanged, and a position sold down to zero is removed.
// It fails with ErrInsufficientShares if fewer shares are held, and leaves
// the ledger unchanged on any failure.
func (l *Ledger) Sell(symbol string, quantity Quantity, unitPrice Money) (Transaction, error) {
	tx := NewTransaction(l.opts.newID(), symbol, Sell, quantity, unitPrice, l.opts.now())
	if err := l.Apply(tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Apply validates tx against the current state and, only if valid, commits
// it: cash and position are updated and tx is appended to the history.
func (l *Ledger) Apply(tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("invalid %s transaction: %w", tx.Side(), err)
	}

	total := tx.TotalValue()
	pos, held := l.positions[tx.symbol]

	switch tx.side {
	case Buy:
		if l.cash.LessThan(total) {
			return fmt.Errorf("cannot buy %s %s for %s, cash balance is %s: %w", tx.quantity, tx.symbol, total, l.cash, ErrInsufficientFunds)
		}
		if !held {
			pos = Position{Symbol: tx.symbol}
		}
		newQuantity := pos.Quantity + tx.quantity
		// weighted blend: (oldAvg*oldQty + price*qty) / (oldQty + qty)
		pos.AverageCost = pos.CostBasis().Add(total).DivRound(newQuantity)
		pos.Quantity = newQuantity

		l.cash = l.cash.Sub(total)
		l.positions[tx.symbol] = pos

	case Sell:
		if pos.Quantity < tx.quantity {
			return fmt.Errorf("cannot sell %s %s, position is %s: %w", tx.quantity, tx.symbol, pos.Quantity, ErrInsufficientShares)
		}
		pos.Quantity -= tx.quantity

		l.cash = l.cash.Add(total)
		if pos.Quantity.IsZero() {
			delete(l.positions, tx.symbol)
		} else {
			l.positions[tx.symbol] = pos
		}
	}

	l.transactions = append(l.transactions, tx)
	return nil
}

// InitialCash returns the cash endowment the ledger was created with.
func (l *Ledger) InitialCash() Money { return l.initialCash }

// Cash returns the current cash balance.
func (l *Ledger) Cash() Money { return l.cash }

// Holdings returns a copy of the held quantity per symbol.
func (l *Ledger) Holdings() map[string]Quantity {
	holdings := make(map[string]Quantity, len(l.positions))
	for symbol, pos := range l.positions {
		holdings[symbol] = pos.Quantity
	}
	return holdings
}

// Quantity returns the held quantity of symbol, 0 if not held.
func (l *Ledger) Quantity(symbol string) Quantity {
	return l.positions[symbol].Quantity
}

// AverageCost returns the average cost per share of symbol, 0 if not held.
func (l *Ledger) AverageCost(symbol string) Money {
	pos, ok := l.positions[symbol]
	if !ok {
		return M(0)
	}
	return pos.AverageCost
}

// Position returns the position held on symbol, if any.
func (l *Ledger) Position(symbol string) (Position, bool) {
	pos, ok := l.positions[symbol]
	return pos, ok
}

// Symbols returns an iterator over the held symbols in alphabetical order.
func (l *Ledger) Symbols() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(l.positions)))
}

// Positions returns a copy of all positions sorted by symbol.
func (l *Ledger) Positions() []Position {
	positions := make([]Position, 0, len(l.positions))
	for symbol := range l.Symbols() {
		positions = append(positions, l.positions[symbol])
	}
	return positions
}

// Transactions returns a copy of the transaction history in insertion order.
func (l *Ledger) Transactions() []Transaction {
	return slices.Clone(l.transactions)
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }
