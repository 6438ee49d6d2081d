package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	sgx "github.com/seetoh/sgxdividends"
	"github.com/seetoh/sgxdividends/dividendssg"
)

// snapshotCmd implements the "snapshot" command: merge the tabular
// artifacts into the consolidated JSON document.
type snapshotCmd struct {
	masterFile    string
	dashboardFile string
	exportFile    string
	dedupe        string
	out           string
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "merge the CSV artifacts into the snapshot JSON" }
func (*snapshotCmd) Usage() string {
	return `sgxdiv snapshot [-master sgx_dividends.csv] [-dashboard upcoming_dividends.csv] [-jsonl file] [-o sgx_dividends_snapshot.json]:

	Merges the master CSV, the dashboard CSV and optionally a JSONL export
	into one consolidated per-ticker snapshot. Tickers only present in the
	dashboard still get a record, with an empty event list.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.masterFile, "master", defaultMasterFile, "master CSV input file")
	f.StringVar(&c.dashboardFile, "dashboard", defaultDashboardFile, "dashboard CSV input file, skipped when absent")
	f.StringVar(&c.exportFile, "jsonl", "", "optional JSONL input file to merge as well")
	f.StringVar(&c.dedupe, "dedupe", "none", "event dedupe strategy: none, exdate or exdate-amount")
	f.StringVar(&c.out, "o", defaultSnapshotFile, "snapshot JSON output file")
}

func (c *snapshotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	dedupe, err := parseDedupe(c.dedupe)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	masterRows, err := readCSVRows(c.masterFile, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	dashboardRows, err := readCSVRows(c.dashboardFile, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	registry := sgx.NewRegistry(dedupe)
	for _, row := range masterRows {
		if ticker, fragment, ok := sgx.FragmentFromRow(row); ok {
			registry.Merge(ticker, fragment)
		}
	}
	if c.exportFile != "" {
		if err := mergeJSONL(registry, c.exportFile); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
	}
	upcoming, companies := dividendssg.UpcomingTable(dashboardRows)
	registry.Backfill(upcoming, companies)

	snapshot := sgx.BuildSnapshot(registry)
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: cannot marshal snapshot:", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(c.out, append(data, '\n'), 0644); err != nil {
		fmt.Fprintln(os.Stderr, "Error: cannot write snapshot:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Wrote snapshot of %d tickers to %s\n", registry.Len(), c.out)
	return subcommands.ExitSuccess
}

func mergeJSONL(registry *sgx.Registry, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer f.Close()
	rows, err := sgx.ImportJSONLRows(f)
	if err != nil {
		return fmt.Errorf("cannot read %q: %w", path, err)
	}
	for _, row := range rows {
		if ticker, fragment, ok := sgx.FragmentFromRow(row); ok {
			registry.Merge(ticker, fragment)
		}
	}
	return nil
}
