package cmd

import (
	"flag"

	"github.com/etnz/moneymarket"
	"github.com/etnz/moneymarket/config"
	"github.com/etnz/moneymarket/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the commands registered in 'c'.
//
// Flags are discovered from the commands themselves, the values of a few of
// them and the positional arguments are predicted from the configuration and
// the documentation.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{},
	}
	c.VisitAll(func(f *flag.Flag) {
		root.Flags[f.Name] = flagPredictor(f)
	})
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = flagPredictor(f)
		})
		sub.Args = argsPredictor(cmd.Name())
		root.Sub[cmd.Name()] = sub
	})
	return root
}

func flagPredictor(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch f.Name {
	case "config":
		return predict.Files("*.yaml")
	case "f":
		return predict.Files("*")
	case "format":
		return predict.Set{formatMarkdown, formatTable, formatJSON}
	default:
		return predict.Something
	}
}

func argsPredictor(name string) complete.Predictor {
	switch name {
	case "topic":
		topics, err := docs.GetAllTopics()
		if err != nil {
			return predict.Nothing
		}
		return predict.Set(append(topics, "*"))
	}
	if _, err := moneymarket.ParseCommandType(name); err == nil {
		return predict.Set(denoms())
	}
	return predict.Nothing
}

// denoms returns the denominations of the embedded configuration.
func denoms() []string {
	cfg, err := config.Default()
	if err != nil {
		return nil
	}
	var ds []string
	for _, a := range cfg.Assets {
		ds = append(ds, a.Denom)
	}
	return ds
}
