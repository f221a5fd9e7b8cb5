package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/etnz/moneymarket/config"
	"github.com/google/subcommands"
	"github.com/olekukonko/tablewriter"
)

type assetsCmd struct{}

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "list the configured assets" }
func (*assetsCmd) Usage() string {
	return `mmd assets

  Lists the seed table of the configuration: denominations, display symbols,
  precision, APY, wallet balance and market contract addresses.
`
}

func (c *assetsCmd) SetFlags(f *flag.FlagSet) {}

func (c *assetsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	writeAssets(os.Stdout, cfg.Assets)
	return subcommands.ExitSuccess
}

// writeAssets writes the seed table as plain text.
func writeAssets(w io.Writer, assets []config.Asset) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Symbol", "Denom", "Name", "Decimals", "APY", "Balance", "Market"})
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetBorder(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	for _, a := range assets {
		t.Append([]string{a.Symbol, a.Denom, a.Name, strconv.Itoa(a.Decimals), a.APY, a.Balance, a.MarketAddress})
	}
	t.Render()
}
