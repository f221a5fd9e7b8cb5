// Package cmd implements the mmd CLI application to play with a money market.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/moneymarket"
	"github.com/etnz/moneymarket/config"
	"github.com/etnz/moneymarket/logging"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&dashboardCmd{}, "market")
	c.Register(&assetsCmd{}, "market")
	c.Register(&shellCmd{}, "market")
	c.Register(&serveCmd{}, "market")

	for _, command := range moneymarket.Commands {
		c.Register(&actionCmd{command: command}, "actions")
	}
	c.Register(&fmtCmd{}, "actions")

	c.Register(&configCmd{}, "help")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a YAML configuration file. Defaults to the embedded configuration of $GO_ENV.")
var rawMarkdown = flag.Bool("raw", false, "Print markdown as is, without terminal rendering")

// loadConfig loads the configuration selected by the global flags, or by
// $MMD_CONFIG when run as an extension.
func loadConfig() (*config.Config, error) {
	name := *configFile
	if name == "" {
		name = os.Getenv(EnvConfigFile)
	}
	return config.Load(name)
}

// newLogger creates the logger configured in 'cfg', writing on stderr.
func newLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	return logging.New(cfg.Log, os.Stderr, isTerminal(os.Stderr))
}

// newSession creates a session over a fresh portfolio seeded from 'cfg'.
// With 'instant' actions are applied without the configured submit delay.
func newSession(cfg *config.Config, log zerolog.Logger, instant bool) (*moneymarket.Session, error) {
	p, err := cfg.Portfolio()
	if err != nil {
		return nil, err
	}
	var submitter moneymarket.Submitter = moneymarket.InstantSubmitter{}
	if !instant {
		if submitter, err = cfg.Submitter(); err != nil {
			return nil, err
		}
	}
	return moneymarket.NewSession(p, submitter, moneymarket.WithLogger(log)), nil
}

// app is what a subcommand works on: the configuration, a session seeded
// from it and the logger.
type app struct {
	cfg     *config.Config
	session *moneymarket.Session
	log     zerolog.Logger
	closer  io.Closer
}

// openApp loads the configuration and creates a session on it. Close must be
// called when done.
func openApp(instant bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("cannot load configuration: %w", err)
	}
	log, closer, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot create logger: %w", err)
	}
	session, err := newSession(cfg, log, instant)
	if err != nil {
		closer.Close()
		return nil, err
	}
	return &app{cfg: cfg, session: session, log: log, closer: closer}, nil
}

// Close releases the log file.
func (a *app) Close() error { return a.closer.Close() }

// network is the chain name shown in the dashboards.
func (a *app) network() string { return a.cfg.Network.ChainID }

// readScript reads the actions of a script file, "-" means stdin.
func readScript(name string) ([]moneymarket.Action, error) {
	if name == "" {
		return nil, nil
	}
	if name == "-" {
		return moneymarket.DecodeActions(os.Stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	actions, err := moneymarket.DecodeActions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return actions, nil
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(w io.Writer, md string) {
	if *rawMarkdown {
		io.WriteString(w, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		io.WriteString(w, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		io.WriteString(w, md)
		return
	}
	io.WriteString(w, out)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
