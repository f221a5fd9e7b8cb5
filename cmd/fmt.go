package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/moneymarket"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	check bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats action scripts into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `mmd fmt [-check] <script>...

  Reads each script, and writes it back in place with one action per line in
  the "<command> <denom> <amount>" form. Comments and blank lines are dropped,
  the JSON form is converted.

  With -check, the actions are also run on a fresh portfolio and the first
  rejected one is reported. Nothing is written if any script is invalid.

Usage Examples:
$ mmd fmt -check setup.txt

`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.check, "check", false, "Run the actions on a fresh portfolio to validate them.")
}

func (c *fmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: fmt expects at least one script")
		return subcommands.ExitUsageError
	}

	formatted := make(map[string][]byte)
	for _, name := range f.Args() {
		if name == "-" {
			fmt.Fprintln(os.Stderr, "Error: fmt rewrites files in place, stdin is not supported")
			return subcommands.ExitUsageError
		}
		actions, err := readScript(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if c.check {
			if err := replay(ctx, actions); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", name, err)
				return subcommands.ExitFailure
			}
		}
		var b bytes.Buffer
		if err := moneymarket.EncodeActions(&b, actions); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", name, err)
			return subcommands.ExitFailure
		}
		formatted[name] = b.Bytes()
	}

	for _, name := range f.Args() {
		if err := os.WriteFile(name, formatted[name], 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Formatted %s\n", name)
	}
	return subcommands.ExitSuccess
}

// replay runs 'actions' on a fresh instant session.
func replay(ctx context.Context, actions []moneymarket.Action) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()
	for i, action := range actions {
		if _, err := a.session.Execute(ctx, action); err != nil {
			return fmt.Errorf("action %d %q: %w", i+1, action, err)
		}
	}
	return nil
}
