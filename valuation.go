package tradesim

import (
	"github.com/shopspring/decimal"
)

// PriceSource supplies the current unit price of a symbol.
//
// ok is false when the symbol cannot be resolved.
type PriceSource interface {
	Price(symbol string) (price Money, ok bool)
}

// PriceFunc adapts an ordinary function to a PriceSource.
type PriceFunc func(symbol string) (Money, bool)

// Price calls f(symbol).
func (f PriceFunc) Price(symbol string) (Money, bool) { return f(symbol) }

// Prices is a static PriceSource indexed by symbol.
type Prices map[string]Money

// Price returns the price of symbol if listed.
func (p Prices) Price(symbol string) (Money, bool) {
	price, ok := p[symbol]
	return price, ok
}

// PortfolioValue returns the cash balance plus the market value of every held
// position. Positions whose symbol the price source cannot resolve contribute
// nothing.
func PortfolioValue(l *Ledger, prices PriceSource) Money {
	total := l.Cash()
	for _, pos := range l.Positions() {
		price, ok := prices.Price(pos.Symbol)
		if !ok {
			continue
		}
		total = total.Add(price.Mul(pos.Quantity))
	}
	return total
}

// PositionValue returns price times the held quantity of symbol, 0 if not held.
func PositionValue(l *Ledger, symbol string, price Money) Money {
	return price.Mul(l.Quantity(symbol))
}

// GainLoss returns the unrealized gain or loss of the shares of symbol
// currently held, valued at price against their average cost. 0 if not held.
//
// Gains realized by past sells are not included, they are already in cash.
func GainLoss(l *Ledger, symbol string, price Money) Money {
	pos, ok := l.Position(symbol)
	if !ok {
		return M(0)
	}
	return price.Sub(pos.AverageCost).Mul(pos.Quantity)
}

// TotalGainLoss sums the unrealized gain or loss of every position the price
// source can resolve.
func TotalGainLoss(l *Ledger, prices PriceSource) Money {
	total := M(0)
	for _, pos := range l.Positions() {
		price, ok := prices.Price(pos.Symbol)
		if !ok {
			continue
		}
		total = total.Add(GainLoss(l, pos.Symbol, price))
	}
	return total
}

// TotalInvested returns the net capital committed over the whole history: the
// total value of buys minus the total value of sells. It is negative when
// proceeds exceed purchases.
func TotalInvested(l *Ledger) Money {
	total := M(0)
	for _, tx := range l.transactions {
		switch tx.Side() {
		case Buy:
			total = total.Add(tx.TotalValue())
		case Sell:
			total = total.Sub(tx.TotalValue())
		}
	}
	return total
}

// PerformancePercent returns (currentValue - totalInvested) / totalInvested
// as a percentage. The ratio is rounded to 4 decimal places, half away from
// zero, before being scaled to percent.
//
// ok is false, and the percentage meaningless, when totalInvested is not
// positive.
func PerformancePercent(currentValue, totalInvested Money) (p Percent, ok bool) {
	if !totalInvested.IsPositive() {
		return Percent{}, false
	}
	ratio := currentValue.Sub(totalInvested).Decimal().DivRound(totalInvested.Decimal(), 4)
	return P(ratio.Mul(decimal.NewFromInt(100))), true
}

// Performance summarizes the valuation of a ledger at current prices.
type Performance struct {
	Value      Money   // portfolio value, cash included
	Cash       Money   // cash balance
	Invested   Money   // net capital invested
	GainLoss   Money   // unrealized gain or loss on held positions
	Percent    Percent // performance over the capital invested
	HasPercent bool    // false when nothing is invested, Percent is then meaningless
}

// NewPerformance computes the Performance of l at prices.
func NewPerformance(l *Ledger, prices PriceSource) Performance {
	p := Performance{
		Value:    PortfolioValue(l, prices),
		Cash:     l.Cash(),
		Invested: TotalInvested(l),
		GainLoss: TotalGainLoss(l, prices),
	}
	p.Percent, p.HasPercent = PerformancePercent(p.Value, p.Invested)
	return p
}
