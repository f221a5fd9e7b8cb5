package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/etnz/moneymarket"
	"github.com/etnz/moneymarket/renderer"
	"github.com/google/subcommands"
)

type shellCmd struct {
	instant bool
}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "run actions interactively on a single session" }
func (*shellCmd) Usage() string {
	return `mmd shell [-instant]

  Reads commands from stdin, one per line, and runs them on a session that
  lives until the end of the input:

` + indent(shellHelp, "  ") + `
  Ctrl-C while a submission is pending abandons the action, the session goes on.

Usage Examples:
$ printf 'supply unibi 200.0\nborrow usdc 50\nshow\n' | mmd shell -instant

`
}

func (c *shellCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.instant, "instant", false, "Submit without the configured delay.")
}

func (c *shellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(c.instant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	sh := &shell{
		session: a.session,
		network: a.network(),
		out:     os.Stdout,
		pending: !c.instant,
	}
	if isTerminal(os.Stdin) {
		sh.prompt = "mmd> "
		fmt.Fprintln(sh.out, "Type 'help' for the list of commands.")
	}
	if err := sh.run(ctx, os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

const shellHelp = `supply|withdraw|borrow|repay <denom> <amount>   run an action
show                                            display the dashboard
receipts                                        list the applied actions
assets                                          list the markets
help                                            display this help
quit                                            leave the shell
`

// shell runs text commands on a session.
type shell struct {
	session *moneymarket.Session
	network string
	out     io.Writer
	prompt  string // printed before reading each line, if any
	pending bool   // announce submissions before waiting for them
}

// run reads commands from 'in' until the end of input or a quit command.
func (sh *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(sh.out, sh.prompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		word, _, _ := strings.Cut(strings.ToLower(line), " ")
		switch word {
		case "":
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprint(sh.out, shellHelp)
		case "show", "dashboard":
			printMarkdown(sh.out, renderer.DashboardMarkdown(sh.session.Snapshot(), sh.network))
		case "receipts":
			printMarkdown(sh.out, renderer.ReceiptsMarkdown(sh.session.Receipts()))
		case "assets":
			renderer.AssetsTable(sh.out, renderer.NewDashboard(sh.session.Snapshot(), sh.network))
		default:
			if !strings.HasPrefix(word, "#") {
				sh.exec(ctx, line)
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(sh.out, sh.prompt)
	}
	return scanner.Err()
}

// exec runs a single action line and reports the outcome.
func (sh *shell) exec(ctx context.Context, line string) {
	action, err := moneymarket.ParseAction(line)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}

	// Ctrl-C only abandons this action.
	actx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if sh.pending {
		fmt.Fprintf(sh.out, "Submitting %s...\n", action)
	}
	receipt, err := sh.session.Execute(actx, action)
	switch {
	case errors.Is(err, context.Canceled) && ctx.Err() == nil:
		fmt.Fprintf(sh.out, "Cancelled %s, nothing changed.\n", action)
	case err != nil:
		fmt.Fprintf(sh.out, "Error: %v\n", err)
	default:
		printMarkdown(sh.out, renderer.ReceiptMarkdown(receipt))
	}
}

// indent prefixes every non empty line of 's'.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
