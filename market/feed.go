package market

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/etnz/tradesim"
	"github.com/shopspring/decimal"
)

var (
	maxMove  = decimal.RequireFromString("0.05") // a tick moves a price by at most 5%
	minPrice = tradesim.M(1)                     // prices never go below
)

// Feed is a concurrent safe price source over a set of quotes.
//
// A tick is applied under the write lock, readers always observe prices from
// one single tick.
type Feed struct {
	mu      sync.RWMutex
	quotes  map[string]*Quote // index quotes by uppercase symbol
	rnd     *rand.Rand
	updated time.Time // time of the last tick
}

// NewFeed creates a feed over quotes, drawing price moves from src.
func NewFeed(src rand.Source, quotes ...Quote) *Feed {
	f := &Feed{
		quotes: make(map[string]*Quote, len(quotes)),
		rnd:    rand.New(src),
	}
	for _, q := range quotes {
		f.add(q)
	}
	return f
}

// Add lists q unless its symbol is already listed. It returns true if added.
func (f *Feed) Add(q Quote) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.quotes[key(q.Symbol)]; exists {
		return false
	}
	f.add(q)
	return true
}

func (f *Feed) add(q Quote) {
	q = q.clone()
	if len(q.History) == 0 {
		q.History = []tradesim.Money{q.Price}
	}
	f.quotes[key(q.Symbol)] = &q
	if q.Updated.After(f.updated) {
		f.updated = q.Updated
	}
}

func key(symbol string) string { return strings.ToUpper(strings.TrimSpace(symbol)) }

// Tick moves every price by a random change in [-5%, +5%), rounded to the
// cent and never below 1.00.
func (f *Feed) Tick(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tick(now)
}

func (f *Feed) tick(now time.Time) {
	// sorted, so that a seeded source always produces the same prices.
	for _, k := range slices.Sorted(maps.Keys(f.quotes)) {
		q := f.quotes[k]
		change := decimal.NewFromFloat(f.rnd.Float64()*2 - 1).Mul(maxMove)
		next := tradesim.M(q.Price.Decimal().Mul(decimal.NewFromInt(1).Add(change))).Round()

		q.Previous = q.Price
		q.Price = next.Max(minPrice)
		q.Updated = now
		q.History = append(q.History, q.Price)
		if len(q.History) > historySize {
			q.History = slices.Clone(q.History[len(q.History)-historySize:])
		}
	}
	f.updated = now
}

// Advance applies one tick per whole interval elapsed since the last tick, at
// most maxTicks when maxTicks is positive. Skipped ticks are the oldest ones.
// It returns the number of ticks applied.
func (f *Feed) Advance(now time.Time, interval time.Duration, maxTicks int) int {
	if interval <= 0 {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	n := int(now.Sub(f.updated) / interval)
	if n <= 0 {
		return 0
	}
	base := f.updated
	if maxTicks > 0 && n > maxTicks {
		n = maxTicks
		base = now.Add(-time.Duration(n) * interval)
	}
	for i := 1; i <= n; i++ {
		f.tick(base.Add(time.Duration(i) * interval))
	}
	return n
}

// Updated returns the time of the last tick.
func (f *Feed) Updated() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.updated
}

// Price returns the current price of symbol, looked up case-insensitively.
func (f *Feed) Price(symbol string) (tradesim.Money, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	q, ok := f.quotes[key(symbol)]
	if !ok {
		return tradesim.Money{}, false
	}
	return q.Price, true
}

// Quote returns the quote of symbol, looked up case-insensitively.
func (f *Feed) Quote(symbol string) (Quote, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	q, ok := f.quotes[key(symbol)]
	if !ok {
		return Quote{}, fmt.Errorf("no quote for %q: %w", symbol, tradesim.ErrSymbolNotFound)
	}
	return q.clone(), nil
}

// Quotes returns a copy of every quote sorted by symbol.
func (f *Feed) Quotes() []Quote {
	f.mu.RLock()
	defer f.mu.RUnlock()
	quotes := make([]Quote, 0, len(f.quotes))
	for _, k := range slices.Sorted(maps.Keys(f.quotes)) {
		quotes = append(quotes, f.quotes[k].clone())
	}
	return quotes
}

// Symbols returns the listed symbols in alphabetical order.
func (f *Feed) Symbols() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	symbols := make([]string, 0, len(f.quotes))
	for _, k := range slices.Sorted(maps.Keys(f.quotes)) {
		symbols = append(symbols, f.quotes[k].Symbol)
	}
	return symbols
}
