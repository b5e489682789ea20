package renderer

import (
	"time"

	"github.com/etnz/tradesim"
	"github.com/etnz/tradesim/market"
	"github.com/shopspring/decimal"
)

// Market is the quote board.
type Market struct {
	Updated time.Time     `json:"updated"`
	Quotes  []MarketQuote `json:"quotes"`
}

// MarketQuote is one line of the quote board.
type MarketQuote struct {
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name"`
	Price         tradesim.Money   `json:"price"`
	Change        tradesim.Money   `json:"change"`
	ChangePercent tradesim.Percent `json:"changePercent"`
	Volatility    tradesim.Percent `json:"volatility"` // std dev of tick returns
}

// When returns the last update time in UTC.
func (m *Market) When() string { return m.Updated.UTC().Format(time.DateTime) }

// NewMarket creates the quote board of quotes, last updated at updated.
func NewMarket(quotes []market.Quote, updated time.Time) *Market {
	m := &Market{
		Updated: updated,
		Quotes:  make([]MarketQuote, 0, len(quotes)),
	}
	for _, q := range quotes {
		m.Quotes = append(m.Quotes, MarketQuote{
			Symbol:        q.Symbol,
			Name:          q.Name,
			Price:         q.Price,
			Change:        q.Change(),
			ChangePercent: q.ChangePercent(),
			Volatility:    tradesim.P(decimal.NewFromFloat(q.Volatility() * 100).Round(2)),
		})
	}
	return m
}
