package tradesim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLedger returns the ledger of the reference scenario:
// AAPL 15 @155.00 avg, GOOGL 2 @2500.00, cash 2750.00.
func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(USD("10000.00"), testOptions()...)
	for _, op := range []struct {
		side     Side
		symbol   string
		quantity Quantity
		price    string
	}{
		{Buy, "AAPL", 10, "150.00"},
		{Buy, "AAPL", 10, "160.00"},
		{Sell, "AAPL", 5, "170.00"},
		{Buy, "GOOGL", 2, "2500.00"},
	} {
		var err error
		if op.side == Buy {
			_, err = l.Buy(op.symbol, op.quantity, USD(op.price))
		} else {
			_, err = l.Sell(op.symbol, op.quantity, USD(op.price))
		}
		require.NoError(t, err)
	}
	return l
}

func TestPortfolioValue(t *testing.T) {
	l := newTestLedger(t)

	testCases := []struct {
		name   string
		prices PriceSource
		want   string
	}{
		{
			name:   "all prices known",
			prices: Prices{"AAPL": USD("180.00"), "GOOGL": USD("2400.00")},
			want:   "10250.00", // 2750 + 15*180 + 2*2400
		},
		{
			name:   "unknown symbol is skipped",
			prices: Prices{"AAPL": USD("180.00")},
			want:   "5450.00", // 2750 + 15*180
		},
		{
			name:   "no price at all",
			prices: PriceFunc(func(string) (Money, bool) { return Money{}, false }),
			want:   "2750.00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := PortfolioValue(l, tc.prices)
			assert.True(t, USD(tc.want).Equal(got), "PortfolioValue() = %s, want %s", got.Decimal(), tc.want)
		})
	}
}

func TestPositionValueAndGainLoss(t *testing.T) {
	l := newTestLedger(t)

	testCases := []struct {
		symbol    string
		price     string
		wantValue string
		wantGain  string
	}{
		{symbol: "AAPL", price: "180.00", wantValue: "2700.00", wantGain: "375.00"},
		{symbol: "AAPL", price: "150.00", wantValue: "2250.00", wantGain: "-75.00"},
		{symbol: "GOOGL", price: "2500.00", wantValue: "5000.00", wantGain: "0"},
		{symbol: "MSFT", price: "300.00", wantValue: "0", wantGain: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.symbol+"@"+tc.price, func(t *testing.T) {
			value := PositionValue(l, tc.symbol, USD(tc.price))
			assert.True(t, USD(tc.wantValue).Equal(value), "PositionValue() = %s", value.Decimal())
			gain := GainLoss(l, tc.symbol, USD(tc.price))
			assert.True(t, USD(tc.wantGain).Equal(gain), "GainLoss() = %s", gain.Decimal())
		})
	}
}

func TestTotalGainLoss(t *testing.T) {
	l := newTestLedger(t)
	got := TotalGainLoss(l, Prices{"AAPL": USD("180.00"), "GOOGL": USD("2400.00")})
	// 15*(180-155) + 2*(2400-2500)
	assert.True(t, USD("175.00").Equal(got), "TotalGainLoss() = %s", got.Decimal())
}

func TestTotalInvested(t *testing.T) {
	t.Run("buy then sell", func(t *testing.T) {
		l := NewLedger(USD("5000"), testOptions()...)
		_, err := l.Buy("AAPL", 10, USD("100.00"))
		require.NoError(t, err)
		_, err = l.Sell("AAPL", 4, USD("100.00"))
		require.NoError(t, err)
		assert.True(t, USD("600.00").Equal(TotalInvested(l)))
	})

	t.Run("proceeds exceed purchases", func(t *testing.T) {
		l := NewLedger(USD("5000"), testOptions()...)
		_, err := l.Buy("AAPL", 10, USD("100.00"))
		require.NoError(t, err)
		_, err = l.Sell("AAPL", 10, USD("150.00"))
		require.NoError(t, err)
		assert.True(t, USD("-500.00").Equal(TotalInvested(l)))
	})

	t.Run("empty ledger", func(t *testing.T) {
		assert.True(t, TotalInvested(NewLedger(USD("5000"))).IsZero())
	})
}

func TestPerformancePercent(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		invested string
		want     string
		wantOK   bool
	}{
		{name: "gain", value: "1100", invested: "1000", want: "10", wantOK: true},
		{name: "loss", value: "900", invested: "1000", want: "-10", wantOK: true},
		// 1/3 = 0.3333 at 4 places
		{name: "rounded ratio", value: "4", invested: "3", want: "33.33", wantOK: true},
		// 2/3 = 0.66666.. rounds to 0.6667
		{name: "rounded up ratio", value: "5", invested: "3", want: "66.67", wantOK: true},
		{name: "nothing invested", value: "1000", invested: "0", wantOK: false},
		{name: "negative invested", value: "1000", invested: "-50", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PerformancePercent(USD(tc.value), USD(tc.invested))
			require.Equal(t, tc.wantOK, ok)
			if !ok {
				return
			}
			assert.True(t, USD(tc.want).Decimal().Equal(got.Decimal()), "PerformancePercent() = %s, want %s", got, tc.want)
		})
	}
}

func TestNewPerformance(t *testing.T) {
	l := newTestLedger(t)
	p := NewPerformance(l, Prices{"AAPL": USD("180.00"), "GOOGL": USD("2400.00")})

	assert.True(t, USD("10250.00").Equal(p.Value))
	assert.True(t, USD("2750.00").Equal(p.Cash))
	// 1500 + 1600 - 850 + 5000
	assert.True(t, USD("7250.00").Equal(p.Invested))
	assert.True(t, USD("175.00").Equal(p.GainLoss))
	require.True(t, p.HasPercent)
	// (10250 - 7250) / 7250 = 0.41379.. -> 0.4138
	assert.Equal(t, "41.38%", p.Percent.String())
}
