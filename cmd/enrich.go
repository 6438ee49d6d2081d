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

// enrichCmd implements the "enrich" command: refresh a few tickers inside an
// existing master CSV without re-collecting everything else.
type enrichCmd struct {
	tickers    string
	rangeYears int
	start      string
	end        string
	fill       bool

	masterFile string
	out        string
}

func (*enrichCmd) Name() string     { return "enrich" }
func (*enrichCmd) Synopsis() string { return "refresh selected tickers in the master CSV" }
func (*enrichCmd) Usage() string {
	return `sgxdiv enrich -tickers D05,O39 [-master sgx_dividends.csv]:

	Re-collects the given tickers from Yahoo Finance and replaces their rows
	in the master CSV. Rows of other tickers pass through untouched. Writes
	in place unless -o names another file.
`
}

func (c *enrichCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "tickers", "", "comma-separated tickers to refresh (required)")
	f.IntVar(&c.rangeYears, "range", 10, "years of price history to request")
	f.StringVar(&c.start, "start", "", "inclusive lower bound on ex-dates (default 2020-01-01)")
	f.StringVar(&c.end, "end", "", "inclusive upper bound on ex-dates (default 2025-12-31)")
	f.BoolVar(&c.fill, "fill", false, "carry-fill unresolved window offsets from their neighbors")
	f.StringVar(&c.masterFile, "master", defaultMasterFile, "master CSV input file")
	f.StringVar(&c.out, "o", "", "output file, default is the input file")
}

func (c *enrichCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tickers := splitTickers(c.tickers)
	if len(tickers) == 0 {
		fmt.Fprintln(os.Stderr, "Error: -tickers is required")
		return subcommands.ExitUsageError
	}

	rows, err := readCSVRows(c.masterFile, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	registry := sgx.NewRegistry(sgx.DedupeNone)
	for _, row := range rows {
		if ticker, fragment, ok := sgx.FragmentFromRow(row); ok {
			registry.Merge(ticker, fragment)
		}
	}

	start, err := parseDateFlag(c.start)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	end, err := parseDateFlag(c.end)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	fill := sgx.FillNone
	if c.fill {
		fill = sgx.FillCarry
	}

	fresh, err := sgx.Gather(yahoo.New(), sgx.GatherConfig{
		Tickers:    tickers,
		RangeYears: c.rangeYears,
		Normalize:  sgx.NormalizeConfig{Start: start, End: end, Window: sgx.WindowConfig{Fill: fill}},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: collection failed:", err)
		return subcommands.ExitFailure
	}

	// Refreshed tickers supersede their previous rows wholesale.
	for _, rec := range fresh.Records() {
		registry.Replace(rec.Ticker, sgx.Fragment{
			CompanyName: rec.CompanyName,
			Symbol:      rec.Symbol,
			Events:      rec.Events,
			Upcoming:    rec.Upcoming,
		})
	}

	out := c.out
	if out == "" {
		out = c.masterFile
	}
	records := registry.Records()
	if err := writeFileWith(out, func(f *os.File) error { return sgx.ExportCSV(f, records) }); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Refreshed %d tickers in %s\n", len(tickers), out)
	return subcommands.ExitSuccess
}
