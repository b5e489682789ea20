package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/tradesim"
	"github.com/google/subcommands"
)

type registerCmd struct {
	name  string
	email string
	cash  string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "register a new trader account" }
func (*registerCmd) Usage() string {
	return `tradesim register -n <name> [-e <email>] [-c <cash>]

  Registers a new account with a cash endowment. Display names are unique and
  case-sensitive.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Display name of the account")
	f.StringVar(&c.email, "e", "", "Contact email")
	f.StringVar(&c.cash, "c", "", "Initial cash. Defaults to the configured default cash.")
}

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -n flag is required.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		cash := a.cfg.DefaultCash
		if c.cash != "" {
			cash = c.cash
		}
		initial, err := tradesim.ParseMoney(cash)
		if err != nil {
			return err
		}
		acc, err := a.state.Registry.Register(c.name, c.email, initial)
		if err != nil {
			return err
		}
		a.log.Info().Str("account", acc.ID()).Str("name", acc.Name()).Msg("Account registered")
		fmt.Fprintf(out, "Registered %s with %s. Use 'login -n %s' to start trading.\n", acc.Name(), acc.Ledger().Cash(), acc.Name())
		return nil
	})
}

type loginCmd struct {
	name string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in as an existing account" }
func (*loginCmd) Usage() string {
	return `tradesim login -n <name>

  Makes <name> the acting user of the next commands.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Display name of the account")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -n flag is required.")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(a *app) error {
		acc, ok := a.state.Registry.FindByName(c.name)
		if !ok {
			return fmt.Errorf("unknown user %q: %w", c.name, tradesim.ErrAccountNotFound)
		}
		a.state.Session.User = acc.Name()
		fmt.Fprintf(out, "Logged in as %s.\n", acc.Name())
		return nil
	})
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "log out the current account" }
func (*logoutCmd) Usage() string {
	return `tradesim logout
`
}

func (c *logoutCmd) SetFlags(f *flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		if a.state.Session.User == "" {
			fmt.Fprintln(out, "Not logged in.")
			return nil
		}
		fmt.Fprintf(out, "Logged out %s.\n", a.state.Session.User)
		a.state.Session.User = ""
		return nil
	})
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the acting account" }
func (*whoamiCmd) Usage() string {
	return `tradesim whoami
`
}

func (c *whoamiCmd) SetFlags(f *flag.FlagSet) {}

func (c *whoamiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(a *app) error {
		acc, err := a.account()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s <%s>\n", acc.Name(), acc.Email())
		fmt.Fprintf(out, "  id:      %s\n", acc.ID())
		fmt.Fprintf(out, "  since:   %s\n", acc.Created().Format(time.DateTime))
		fmt.Fprintf(out, "  cash:    %s\n", acc.Ledger().Cash())
		fmt.Fprintf(out, "  trades:  %d\n", acc.Ledger().Len())
		return nil
	})
}
