package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/tradesim/market"
	"github.com/etnz/tradesim/renderer"
	"github.com/google/subcommands"
)

type marketCmd struct {
	reportFlags
	watch bool
}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "display the current market quotes" }
func (*marketCmd) Usage() string {
	return `tradesim market [-watch] [-format md|html|json] [-q <jsonpath>]

  Displays the quote of every listed security. With -watch, the market keeps
  ticking on the configured schedule and the quotes are printed after every
  tick, until interrupted.
`
}

func (c *marketCmd) SetFlags(f *flag.FlagSet) {
	c.reportFlags.SetFlags(f)
	f.BoolVar(&c.watch, "watch", false, "Keep the market ticking and print quotes after every tick")
}

func (c *marketCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.check(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		if err := c.show(a.feed.Quotes(), a.feed.Updated()); err != nil {
			return err
		}
		if !c.watch {
			return nil
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		ticker := market.NewTicker(a.feed, a.log, func(at time.Time, quotes []market.Quote) {
			if err := c.show(quotes, at); err != nil {
				a.log.Error().Err(err).Msg("cannot print quotes")
			}
		})
		if err := ticker.Start(a.cfg.Market.Schedule); err != nil {
			return err
		}
		<-ctx.Done()
		ticker.Stop()
		return nil
	})
}

func (c *marketCmd) show(quotes []market.Quote, updated time.Time) error {
	report := renderer.NewMarket(quotes, updated)
	return c.print(renderer.RenderMarket(report), report)
}
