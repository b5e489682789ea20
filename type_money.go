package tradesim

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the single currency all amounts are expressed in.
const Currency = "USD"

// Money represents a monetary value in Currency.
//
// Values are exact, arithmetic never rounds unless explicitly asked to.
type Money struct {
	value decimal.Decimal // as major unit value
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// M creates a Money from a numeric value.
func M[T float64 | int | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// ParseMoney parses an amount like "150.25".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: d}, nil
}

// Decimal returns the exact value of m.
func (m Money) Decimal() decimal.Decimal { return m.value }

// String returns the amount formatted in Currency, e.g. "$1,234.56".
func (m Money) String() string {
	// to get a never nil currency I need to call the Money constructor
	cur := *money.New(0, Currency).Currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString returns the formatted amount with an explicit sign.
// 0 is represented as a "-".
func (m Money) SignedString() string {
	if m.Round().IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money            { return Money{value: m.value.Mul(q.Decimal())} }

// DivRound divides m by q and rounds the result to 2 decimal places, half away
// from zero.
func (m Money) DivRound(q Quantity) Money {
	return Money{value: m.value.DivRound(q.Decimal(), 2)}
}

// Round returns m rounded to 2 decimal places, half away from zero.
func (m Money) Round() Money { return Money{value: m.value.Round(2)} }

// Min returns the smallest of m and n.
func (m Money) Min(n Money) Money {
	if n.LessThan(m) {
		return n
	}
	return m
}

// Max returns the largest of m and n.
func (m Money) Max(n Money) Money {
	if n.GreaterThan(m) {
		return n
	}
	return m
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.value.UnmarshalJSON(data)
}
