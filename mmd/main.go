// Command mmd plays with a money market: supply, withdraw, borrow and repay
// tokens, and watch the health of the position.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/moneymarket/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	// settings may come from a .env file of the working directory
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	// answers the shell when invoked for completion, and exits
	cmd.Completion(commander).Complete(commander.Name())

	flag.Parse()

	if name := flag.Arg(0); name != "" && !isCommand(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func isCommand(commander *subcommands.Commander, name string) bool {
	found := false
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		found = found || c.Name() == name
	})
	return found
}
