// Package market simulates the price source of the trading platform.
//
// A Feed holds one Quote per listed symbol and moves all prices together on
// every tick with a bounded random walk. The Feed does not own its schedule: a
// Ticker, or the caller with Advance, decides when ticks happen.
package market

import (
	"time"

	"github.com/etnz/tradesim"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// historySize is the number of prices kept in a Quote history, current price
// included.
const historySize = 50

// Listing describes a security offered on the market at its opening price.
type Listing struct {
	Symbol string
	Name   string
	Price  tradesim.Money
}

// DefaultListing is the set of securities listed when none is configured.
var DefaultListing = []Listing{
	{"AAPL", "Apple Inc.", tradesim.M(150)},
	{"GOOGL", "Alphabet Inc.", tradesim.M(2500)},
	{"MSFT", "Microsoft Corp.", tradesim.M(300)},
	{"AMZN", "Amazon.com Inc.", tradesim.M(3200)},
	{"TSLA", "Tesla Inc.", tradesim.M(800)},
	{"META", "Meta Platforms Inc.", tradesim.M(320)},
	{"NVDA", "NVIDIA Corp.", tradesim.M(220)},
	{"NFLX", "Netflix Inc.", tradesim.M(450)},
}

// Quote is the market state of one symbol.
type Quote struct {
	Symbol   string           `json:"symbol"`
	Name     string           `json:"name"`
	Price    tradesim.Money   `json:"price"`
	Previous tradesim.Money   `json:"previous"`
	Updated  time.Time        `json:"updated"`
	History  []tradesim.Money `json:"history,omitempty"` // oldest first, ends with Price
}

// NewQuote opens a quote for l at time at. Previous price and price are equal.
func NewQuote(l Listing, at time.Time) Quote {
	return Quote{
		Symbol:   l.Symbol,
		Name:     l.Name,
		Price:    l.Price,
		Previous: l.Price,
		Updated:  at,
		History:  []tradesim.Money{l.Price},
	}
}

// NewQuotes opens a quote for every listing.
func NewQuotes(listing []Listing, at time.Time) []Quote {
	quotes := make([]Quote, 0, len(listing))
	for _, l := range listing {
		quotes = append(quotes, NewQuote(l, at))
	}
	return quotes
}

// Change returns the price change since the previous tick.
func (q Quote) Change() tradesim.Money { return q.Price.Sub(q.Previous) }

// ChangePercent returns the change relative to the previous price, 0 when
// there is no previous price.
func (q Quote) ChangePercent() tradesim.Percent {
	if q.Previous.IsZero() {
		return tradesim.P(decimal.Zero)
	}
	ratio := q.Change().Decimal().DivRound(q.Previous.Decimal(), 4)
	return tradesim.P(ratio.Mul(decimal.NewFromInt(100)))
}

// Volatility returns the standard deviation of the tick to tick returns over
// the price history. It is 0 until the history holds at least three prices.
func (q Quote) Volatility() float64 {
	returns := make([]float64, 0, len(q.History))
	for i := 1; i < len(q.History); i++ {
		prev := q.History[i-1].Decimal().InexactFloat64()
		if prev == 0 {
			continue
		}
		returns = append(returns, q.History[i].Decimal().InexactFloat64()/prev-1)
	}
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil)
}

// clone returns a copy of q that shares no memory with it.
func (q Quote) clone() Quote {
	q.History = append([]tradesim.Money(nil), q.History...)
	return q
}
