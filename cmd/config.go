package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type configCmd struct {
	yaml bool
}

func (*configCmd) Name() string     { return "config" }
func (*configCmd) Synopsis() string { return "display the effective configuration" }
func (*configCmd) Usage() string {
	return `mmd config [-yaml]

  Displays the configuration after environment overrides. The -yaml output
  is a valid configuration file, a good starting point for -config.
`
}

func (c *configCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yaml, "yaml", false, "Print the configuration as a YAML file.")
}

func (c *configCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if !c.yaml {
		if err := cfg.Dump(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	content, err := cfg.YAML()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	os.Stdout.Write(content)
	return subcommands.ExitSuccess
}
