package renderer

import (
	"github.com/etnz/tradesim"
	"github.com/etnz/tradesim/market"
)

// Performance is the valuation summary of an account.
type Performance struct {
	Name        string            `json:"name"`
	InitialCash tradesim.Money    `json:"initialCash"`
	Invested    tradesim.Money    `json:"invested"`
	Cash        tradesim.Money    `json:"cash"`
	Value       tradesim.Money    `json:"value"`
	GainLoss    tradesim.Money    `json:"gainLoss"`
	Percent     *tradesim.Percent `json:"percent"` // nil when nothing is invested
}

// NewPerformance values the account a at the quotes prices.
func NewPerformance(a *tradesim.Account, quotes []market.Quote) *Performance {
	prices, _ := index(quotes)
	perf := tradesim.NewPerformance(a.Ledger(), prices)
	p := &Performance{
		Name:        a.Name(),
		InitialCash: a.Ledger().InitialCash(),
		Invested:    perf.Invested,
		Cash:        perf.Cash,
		Value:       perf.Value,
		GainLoss:    perf.GainLoss,
	}
	if perf.HasPercent {
		p.Percent = &perf.Percent
	}
	return p
}
