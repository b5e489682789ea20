// Command tradesim is a stock trading simulator.
//
// Traders register, log in, watch a simulated market, buy and sell shares,
// and review their portfolio performance.
//
// Usage:
//
//	tradesim register -n alice -e alice@example.com
//	tradesim login -n alice
//	tradesim market
//	tradesim buy -s AAPL -q 10
//	tradesim holding
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tradesim/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	cmd.Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
