package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/etnz/moneymarket"
	"github.com/etnz/moneymarket/renderer"
	"github.com/google/subcommands"
)

// actionCmd runs one ledger operation against a fresh session.
type actionCmd struct {
	command moneymarket.CommandType
	script  string
	instant bool
}

func (c *actionCmd) Name() string { return string(c.command) }
func (c *actionCmd) Synopsis() string {
	switch c.command {
	case moneymarket.CmdSupply:
		return "move tokens from the wallet into the market"
	case moneymarket.CmdWithdraw:
		return "move supplied tokens back to the wallet"
	case moneymarket.CmdBorrow:
		return "borrow tokens against the supplied collateral"
	default:
		return "pay back borrowed tokens from the wallet"
	}
}
func (c *actionCmd) Usage() string {
	return fmt.Sprintf(`mmd %s [-f <script>] [-instant] <denom> <amount>

  %s.

  The portfolio starts from the configured seed table, the actions of the
  optional script are applied first. The action is then validated, submitted
  and applied, and the resulting dashboard is displayed.

  Ctrl-C while the submission is pending abandons the action.

Usage Examples:
$ mmd supply unibi 200.0
$ mmd borrow -f setup.txt usdc 50

`, c.command, c.Synopsis())
}

func (c *actionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.script, "f", "", "Script of actions to apply first, one per line (\"-\" for stdin).")
	f.BoolVar(&c.instant, "instant", false, "Submit without the configured delay.")
}

func (c *actionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Error: %s expects a denom and an amount\n", c.command)
		f.Usage()
		return subcommands.ExitUsageError
	}
	action := moneymarket.Action{Command: c.command, Denom: f.Arg(0), Amount: f.Arg(1)}

	setup, err := readScript(c.script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
		return subcommands.ExitFailure
	}

	a, err := openApp(c.instant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	for _, setupAction := range setup {
		if _, err := a.session.Execute(ctx, setupAction); err != nil {
			fmt.Fprintf(os.Stderr, "Error applying %q: %v\n", setupAction, err)
			return subcommands.ExitFailure
		}
	}

	if !c.instant {
		fmt.Fprintf(os.Stderr, "Submitting %s...\n", action)
	}
	receipt, err := a.session.Execute(ctx, action)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(os.Stdout, renderer.ReceiptMarkdown(receipt)+"\n"+renderer.DashboardMarkdown(a.session.Snapshot(), a.network()))
	return subcommands.ExitSuccess
}
