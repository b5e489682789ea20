package tradesim

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Quantity is a whole number of shares.
type Quantity int64

// Decimal returns q as a decimal, for arithmetic with Money.
func (q Quantity) Decimal() decimal.Decimal { return decimal.NewFromInt(int64(q)) }

func (q Quantity) IsPositive() bool { return q > 0 }
func (q Quantity) IsZero() bool     { return q == 0 }
func (q Quantity) String() string   { return strconv.FormatInt(int64(q), 10) }
