package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradesim/renderer"
	"github.com/google/subcommands"
)

type holdingCmd struct {
	reportFlags
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the positions and cash of the acting user" }
func (*holdingCmd) Usage() string {
	return `tradesim holding [-format md|html|json] [-q <jsonpath>]

  Displays every position valued at the current market prices, with its
  average cost and unrealized gain or loss.
`
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.check(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		acc, err := a.account()
		if err != nil {
			return err
		}
		report := renderer.NewHolding(acc, a.feed.Quotes())
		return c.print(renderer.RenderHolding(report), report)
	})
}

type txCmd struct {
	reportFlags
	head int
	tail int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of the acting user" }
func (*txCmd) Usage() string {
	return `tradesim tx [-head <n>] [-tail <n>] [-format md|html|json] [-q <jsonpath>]

  Lists transactions in chronological order.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	c.reportFlags.SetFlags(f)
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	if err := c.check(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		acc, err := a.account()
		if err != nil {
			return err
		}
		report := renderer.NewTransactions(acc)
		txs := report.Transactions
		if c.head > 0 && len(txs) > c.head {
			txs = txs[:c.head]
		}
		if c.tail > 0 && len(txs) > c.tail {
			txs = txs[len(txs)-c.tail:]
		}
		report.Transactions = txs
		return c.print(renderer.RenderTransactions(report), report)
	})
}

type performanceCmd struct {
	reportFlags
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "display the portfolio value and performance" }
func (*performanceCmd) Usage() string {
	return `tradesim performance [-format md|html|json] [-q <jsonpath>]

  Displays the portfolio value at current market prices and its performance
  over the net capital invested.
`
}

func (c *performanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.check(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		acc, err := a.account()
		if err != nil {
			return err
		}
		report := renderer.NewPerformance(acc, a.feed.Quotes())
		return c.print(renderer.RenderPerformance(report), report)
	})
}
