package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	sgx "github.com/seetoh/sgxdividends"
	"github.com/seetoh/sgxdividends/yahoo"
)

// fetchCmd implements the "fetch" command: one full collection pass against
// Yahoo Finance.
type fetchCmd struct {
	tickers    string
	rangeYears int
	start      string
	end        string
	fill       bool
	dedupe     string
	today      string

	masterFile    string
	dashboardFile string
	exportFile    string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "collect dividend histories from Yahoo Finance" }
func (*fetchCmd) Usage() string {
	return `sgxdiv fetch [-tickers D05,O39] [-range 10] [-start 2020-01-01] [-end 2025-12-31]:

	Collects the price history and dividend events for every ticker, aligns
	the ex-date price windows, resolves the upcoming summaries, and writes
	the master CSV, the dashboard CSV and the JSONL export.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "tickers", "", "comma-separated tickers to collect, default is the built-in SGX set")
	f.IntVar(&c.rangeYears, "range", 10, "years of price history to request")
	f.StringVar(&c.start, "start", "", "inclusive lower bound on ex-dates (default 2020-01-01)")
	f.StringVar(&c.end, "end", "", "inclusive upper bound on ex-dates (default 2025-12-31)")
	f.BoolVar(&c.fill, "fill", false, "carry-fill unresolved window offsets from their neighbors")
	f.StringVar(&c.dedupe, "dedupe", "none", "event dedupe strategy: none, exdate or exdate-amount")
	f.StringVar(&c.today, "today", "", "reference date for upcoming resolution, default today")
	f.StringVar(&c.masterFile, "o", defaultMasterFile, "master CSV output file")
	f.StringVar(&c.dashboardFile, "dashboard", defaultDashboardFile, "dashboard CSV output file")
	f.StringVar(&c.exportFile, "jsonl", defaultExportFile, "JSONL export output file")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.config()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	registry, err := sgx.Gather(yahoo.New(), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: collection failed:", err)
		return subcommands.ExitFailure
	}

	records := registry.Records()
	if err := writeFileWith(c.masterFile, func(f *os.File) error { return sgx.ExportCSV(f, records) }); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := writeFileWith(c.dashboardFile, func(f *os.File) error { return sgx.ExportDashboardCSV(f, records) }); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := writeFileWith(c.exportFile, func(f *os.File) error { return sgx.ExportJSONL(f, records) }); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Collected %d tickers into %s, %s and %s\n", registry.Len(), c.masterFile, c.dashboardFile, c.exportFile)
	return subcommands.ExitSuccess
}

func (c *fetchCmd) config() (sgx.GatherConfig, error) {
	dedupe, err := parseDedupe(c.dedupe)
	if err != nil {
		return sgx.GatherConfig{}, err
	}
	start, err := parseDateFlag(c.start)
	if err != nil {
		return sgx.GatherConfig{}, err
	}
	end, err := parseDateFlag(c.end)
	if err != nil {
		return sgx.GatherConfig{}, err
	}
	today, err := parseDateFlag(c.today)
	if err != nil {
		return sgx.GatherConfig{}, err
	}

	fill := sgx.FillNone
	if c.fill {
		fill = sgx.FillCarry
	}
	return sgx.GatherConfig{
		Tickers:    splitTickers(c.tickers),
		RangeYears: c.rangeYears,
		Today:      today,
		Dedupe:     dedupe,
		Normalize: sgx.NormalizeConfig{
			Start:  start,
			End:    end,
			Window: sgx.WindowConfig{Fill: fill},
		},
	}, nil
}
