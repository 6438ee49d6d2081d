package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	sgx "github.com/seetoh/sgxdividends"
	"github.com/seetoh/sgxdividends/dividendssg"
)

// upcomingCmd implements the "upcoming" command: scrape the dividends.sg
// announcement table into the dashboard CSV.
type upcomingCmd struct {
	dashboardFile string
}

func (*upcomingCmd) Name() string     { return "upcoming" }
func (*upcomingCmd) Synopsis() string { return "scrape announced dividends from dividends.sg" }
func (*upcomingCmd) Usage() string {
	return `sgxdiv upcoming [-o upcoming_dividends.csv]:

	Scrapes the dividends.sg announcement table and writes the per-ticker
	dashboard CSV. Tickers absent from the built-in set are included, the
	snapshot command backfills them later.
`
}

func (c *upcomingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dashboardFile, "o", defaultDashboardFile, "dashboard CSV output file")
}

func (c *upcomingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rows, err := dividendssg.New().FetchUpcoming()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "Error: dividends.sg returned no announcements")
		return subcommands.ExitFailure
	}

	upcoming, companies := dividendssg.UpcomingTable(rows)
	registry := sgx.NewRegistry(sgx.DedupeNone)
	registry.Backfill(upcoming, companies)

	records := registry.Records()
	if err := writeFileWith(c.dashboardFile, func(f *os.File) error { return sgx.ExportDashboardCSV(f, records) }); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if extra := extraTickers(rows); len(extra) > 0 {
		fmt.Printf("Announced but not in the built-in ticker set: %s\n", strings.Join(extra, ", "))
	}
	fmt.Printf("Wrote %d announced tickers to %s\n", len(records), c.dashboardFile)
	return subcommands.ExitSuccess
}

// extraTickers returns announced tickers missing from the built-in set, in
// page order.
func extraTickers(rows []sgx.Row) []string {
	known := make(map[string]bool, len(sgx.DefaultTickers))
	for _, t := range sgx.DefaultTickers {
		known[sgx.TickerKey(t)] = true
	}
	var extra []string
	for _, t := range dividendssg.Tickers(rows) {
		if !known[t] {
			extra = append(extra, t)
		}
	}
	return extra
}
