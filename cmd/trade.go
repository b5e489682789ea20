package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradesim"
	"github.com/google/subcommands"
)

// tradeCmd buys or sells shares at the current market price.
type tradeCmd struct {
	side     tradesim.Side
	symbol   string
	quantity int64
}

func (c *tradeCmd) Name() string { return string(c.side) }
func (c *tradeCmd) Synopsis() string {
	if c.side == tradesim.Sell {
		return "sell shares at the current market price"
	}
	return "buy shares at the current market price"
}
func (c *tradeCmd) Usage() string {
	return fmt.Sprintf(`tradesim %s -s <symbol> -q <quantity>

  Executes a market order for the acting user. The order is executed at the
  price quoted when the command starts.
`, c.side)
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol of the security, e.g. AAPL")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares, must be positive")
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -s flag is required.")
		return subcommands.ExitUsageError
	}
	if c.quantity <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -q must be a positive number of shares.")
		return subcommands.ExitUsageError
	}

	return run(ctx, func(a *app) error {
		acc, err := a.account()
		if err != nil {
			return err
		}
		// the price is captured once, the order executes at this price.
		q, err := a.feed.Quote(c.symbol)
		if err != nil {
			return err
		}

		l := acc.Ledger()
		var tx tradesim.Transaction
		switch c.side {
		case tradesim.Buy:
			tx, err = l.Buy(q.Symbol, tradesim.Quantity(c.quantity), q.Price)
		case tradesim.Sell:
			tx, err = l.Sell(q.Symbol, tradesim.Quantity(c.quantity), q.Price)
		}
		if err != nil {
			return err
		}

		a.log.Info().
			Str("account", acc.ID()).
			Str("side", string(tx.Side())).
			Str("symbol", tx.Symbol()).
			Int64("quantity", int64(tx.Quantity())).
			Str("price", tx.Price().Decimal().String()).
			Msg("Order executed")

		verb := "Bought"
		if tx.Side() == tradesim.Sell {
			verb = "Sold"
		}
		fmt.Fprintf(out, "%s %s %s at %s for %s. Cash balance: %s.\n",
			verb, tx.Quantity(), tx.Symbol(), tx.Price(), tx.TotalValue(), l.Cash())
		return nil
	})
}
