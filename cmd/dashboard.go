package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/moneymarket"
	"github.com/etnz/moneymarket/renderer"
	"github.com/google/subcommands"
)

// Output formats of the dashboard.
const (
	formatMarkdown = "markdown"
	formatTable    = "table"
	formatJSON     = "json"
)

type dashboardCmd struct {
	format string
	script string
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "display the market and the portfolio metrics" }
func (*dashboardCmd) Usage() string {
	return `mmd dashboard [-format markdown|table|json] [-f <script>]

  Displays the totals, the health factor, the borrowing power and the markets
  of a fresh portfolio, after applying the actions of the optional script.
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", formatMarkdown, "Output format: markdown, table or json.")
	f.StringVar(&c.script, "f", "", "Script of actions to apply first, one per line (\"-\" for stdin).")
}

func (c *dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch c.format {
	case formatMarkdown, formatTable, formatJSON:
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}

	actions, err := readScript(c.script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
		return subcommands.ExitFailure
	}

	a, err := openApp(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	for _, action := range actions {
		if _, err := a.session.Execute(ctx, action); err != nil {
			fmt.Fprintf(os.Stderr, "Error applying %q: %v\n", action, err)
			return subcommands.ExitFailure
		}
	}

	if err := writeDashboard(os.Stdout, a.session.Snapshot(), a.network(), c.format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// writeDashboard writes the snapshot in one of the output formats.
func writeDashboard(w io.Writer, s moneymarket.Snapshot, network, format string) error {
	switch format {
	case formatJSON:
		return moneymarket.EncodeSnapshot(w, s)
	case formatTable:
		renderer.DashboardTable(w, s)
		return nil
	default:
		printMarkdown(w, renderer.DashboardMarkdown(s, network))
		return nil
	}
}
