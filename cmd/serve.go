package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/etnz/moneymarket/logging"
	"github.com/etnz/moneymarket/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr    string
	instant bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the session over HTTP" }
func (*serveCmd) Usage() string {
	return `mmd serve [-addr <host:port>] [-instant]

  Serves a session over HTTP until interrupted:

  GET  /health              liveness
  GET  /api/portfolio       current snapshot
  GET  /api/assets/:denom   one asset of the snapshot
  POST /api/actions         run {"command","denom","amount"}, returns the receipt
  GET  /api/receipts        applied actions
  GET  /ws                  websocket pushing a snapshot after every action

`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address, overrides the configuration.")
	f.BoolVar(&c.instant, "instant", false, "Submit without the configured delay.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(c.instant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if c.addr != "" {
		a.cfg.Server.Address = c.addr
	}
	level, err := a.cfg.LogLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	hlog.SetLevel(logging.HertzLevel(level))
	a.log.Info().
		Str("address", a.cfg.Server.Address).
		Str("network", a.network()).
		Msg("serving money market")

	h := server.New(a.session, a.cfg.Server, a.log)
	h.Spin()
	return subcommands.ExitSuccess
}
