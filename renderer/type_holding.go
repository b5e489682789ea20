package renderer

import (
	"github.com/etnz/tradesim"
	"github.com/etnz/tradesim/market"
)

// Holding is a struct to represent the holding data in json.
// Numbers are handled using the exact decimal types (Money, Quantity, etc.)
// So that they already contain basics renderers (SignedString etc.)
type Holding struct {
	// Name of the account.
	Name string `json:"name"`
	// TotalValue is the cash plus the market value of all positions.
	TotalValue tradesim.Money `json:"totalValue"`
	// Cash is the cash balance.
	Cash tradesim.Money `json:"cash"`
	// PositionsValue is the market value of all positions.
	PositionsValue tradesim.Money `json:"positionsValue"`
	// Positions sorted by symbol.
	Positions []HoldingPosition `json:"positions"`
}

// HoldingPosition represents a single position.
type HoldingPosition struct {
	Symbol      string            `json:"symbol"`
	Name        string            `json:"name,omitempty"`
	Quantity    tradesim.Quantity `json:"quantity"`
	AverageCost tradesim.Money    `json:"averageCost"`
	Price       tradesim.Money    `json:"price"`
	MarketValue tradesim.Money    `json:"marketValue"`
	GainLoss    tradesim.Money    `json:"gainLoss"`
	Priced      bool              `json:"priced"` // false when the symbol has no quote
}

// NewHolding creates a new Holding struct from an account, valued at the
// quotes prices.
func NewHolding(a *tradesim.Account, quotes []market.Quote) *Holding {
	l := a.Ledger()
	prices, names := index(quotes)

	h := &Holding{
		Name:       a.Name(),
		Cash:       l.Cash(),
		TotalValue: tradesim.PortfolioValue(l, prices),
		Positions:  make([]HoldingPosition, 0),
	}
	h.PositionsValue = h.TotalValue.Sub(h.Cash)

	for _, pos := range l.Positions() {
		hp := HoldingPosition{
			Symbol:      pos.Symbol,
			Name:        names[pos.Symbol],
			Quantity:    pos.Quantity,
			AverageCost: pos.AverageCost,
		}
		if price, ok := prices.Price(pos.Symbol); ok {
			hp.Priced = true
			hp.Price = price
			hp.MarketValue = tradesim.PositionValue(l, pos.Symbol, price)
			hp.GainLoss = tradesim.GainLoss(l, pos.Symbol, price)
		}
		h.Positions = append(h.Positions, hp)
	}
	return h
}

// index returns the prices and the names of quotes, by symbol.
func index(quotes []market.Quote) (tradesim.Prices, map[string]string) {
	prices := make(tradesim.Prices, len(quotes))
	names := make(map[string]string, len(quotes))
	for _, q := range quotes {
		prices[q.Symbol] = q.Price
		names[q.Symbol] = q.Name
	}
	return prices, names
}
