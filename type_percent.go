package tradesim

import "github.com/shopspring/decimal"

// Percent is a percentage value, 5 means 5%.
type Percent struct {
	value decimal.Decimal
}

// P creates a Percent from a decimal value.
func P(value decimal.Decimal) Percent { return Percent{value: value} }

// Decimal returns the exact value of p.
func (p Percent) Decimal() decimal.Decimal { return p.value }

func (p Percent) Equal(q Percent) bool { return p.value.Equal(q.value) }
func (p Percent) IsZero() bool         { return p.value.IsZero() }
func (p Percent) IsNegative() bool     { return p.value.IsNegative() }

func (p Percent) String() string {
	return p.value.StringFixed(2) + "%"
}

// SignedString returns the percentage with an explicit sign.
// 0 is represented as a "-".
func (p Percent) SignedString() string {
	rounded := p.value.Round(2)
	if rounded.IsZero() {
		return "-"
	}
	if rounded.IsPositive() {
		return "+" + p.String()
	}
	return p.String()
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.value.String()), nil
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	return p.value.UnmarshalJSON(data)
}
