// Package cmd implements the CLI application to collect and publish SGX
// dividend data.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	sgx "github.com/seetoh/sgxdividends"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&fetchCmd{},
	&upcomingCmd{},
	&snapshotCmd{},
	&enrichCmd{},
}

// Default artifact names, shared across commands so one run's output is the
// next run's input.
const (
	defaultMasterFile    = "sgx_dividends.csv"
	defaultDashboardFile = "upcoming_dividends.csv"
	defaultExportFile    = "sgx_dividends.jsonl"
	defaultSnapshotFile  = "sgx_dividends_snapshot.json"
)

// splitTickers parses a comma-separated ticker flag, empty meaning the
// default collection set.
func splitTickers(flagValue string) []string {
	if strings.TrimSpace(flagValue) == "" {
		return nil
	}
	var tickers []string
	for _, t := range strings.Split(flagValue, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

// parseDedupe maps the -dedupe flag to a strategy.
func parseDedupe(name string) (sgx.DedupeStrategy, error) {
	switch name {
	case "", "none":
		return sgx.DedupeNone, nil
	case "exdate":
		return sgx.DedupeByExDate, nil
	case "exdate-amount":
		return sgx.DedupeByExDateAmount, nil
	}
	return sgx.DedupeNone, fmt.Errorf("unknown dedupe strategy %q, want none, exdate or exdate-amount", name)
}

// parseDateFlag parses an optional date flag, zero when unset.
func parseDateFlag(value string) (sgx.Date, error) {
	if value == "" {
		return sgx.Date{}, nil
	}
	return sgx.ParseDate(value)
}

// writeFileWith creates path and streams it through write.
func writeFileWith(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %q: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	return f.Close()
}

// readCSVRows loads a CSV artifact as rows, a missing optional file reads as
// no rows.
func readCSVRows(path string, optional bool) ([]sgx.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer f.Close()
	rows, err := sgx.ImportCSVRows(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", path, err)
	}
	return rows, nil
}
