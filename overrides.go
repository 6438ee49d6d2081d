package sgxdividends

import "strings"

// ManualOverride is a corrective record for one ticker's upcoming dividend,
// authored by hand when the feeds are stale or adjusted. Label fields are
// kept exactly as authored. Read-only, never mutated at run time.
type ManualOverride struct {
	Date    Date   // upcoming ex-date, zero when not authored
	PayDate Date   // zero when not authored
	Yield   string // e.g. "1.23%", "" when not authored
	Amount  string // e.g. "SGD 0.005", "" when not authored
}

// OverrideLookup resolves a manual override for a ticker. It is injected
// into the upcoming resolver so tests can swap the table.
type OverrideLookup interface {
	Lookup(symbol, ticker string) (ManualOverride, bool)
}

// OverrideTable is a static OverrideLookup keyed by bare ticker.
type OverrideTable map[string]ManualOverride

// Lookup tries, in order: the resolved symbol, the symbol with its exchange
// suffix stripped, then the raw ticker.
func (t OverrideTable) Lookup(symbol, ticker string) (ManualOverride, bool) {
	candidates := make([]string, 0, 3)
	if symbol != "" {
		candidates = append(candidates, symbol)
		if stripped := StripExchangeSuffix(symbol); stripped != symbol {
			candidates = append(candidates, stripped)
		}
	}
	if ticker != "" {
		candidates = append(candidates, ticker)
	}
	for _, candidate := range candidates {
		if ov, ok := t[strings.ToUpper(strings.TrimSpace(candidate))]; ok {
			return ov, true
		}
	}
	return ManualOverride{}, false
}

// NoOverrides is an empty lookup.
var NoOverrides = OverrideTable{}

// DefaultOverrides carries the hand-maintained corrections for the current
// SGX announcement season.
var DefaultOverrides = OverrideTable{
	"1F2":  {Date: NewDate(2025, 10, 14), Yield: "1.23%", Amount: "SGD 0.005"},
	"BBW":  {Date: NewDate(2025, 10, 14), Yield: "4.31%", Amount: "HKD 3.900"},
	"EH5":  {Date: NewDate(2025, 10, 15), Yield: "0.78%", Amount: "AUD 0.005"},
	"5WG":  {Date: NewDate(2025, 10, 15), Yield: "4.24%", Amount: "SGD 0.003"},
	"K71U": {Date: NewDate(2025, 10, 15), Yield: "0.82%", Amount: "SGD 0.008"},
	"S68":  {Date: NewDate(2025, 10, 16), Yield: "0.60%", Amount: "SGD 0.105"},
	"D07":  {Date: NewDate(2025, 10, 16), Yield: "0.00%", Amount: "0.000"},
	"BEC":  {Date: NewDate(2025, 10, 22), PayDate: NewDate(2025, 11, 14), Yield: "1.41%", Amount: "SGD 0.060"},
	"NEX":  {Date: NewDate(2025, 10, 22), PayDate: NewDate(2025, 10, 30), Yield: "1.24%", Amount: "SGD 0.005"},
	"CHJ":  {Date: NewDate(2025, 10, 23), PayDate: NewDate(2025, 11, 7), Yield: "1.18%", Amount: "SGD 0.010"},
	"T12":  {Date: NewDate(2025, 10, 30), PayDate: NewDate(2025, 11, 12), Yield: "1.16%", Amount: "SGD 0.010"},
	"W05":  {Date: NewDate(2025, 10, 30), PayDate: NewDate(2025, 11, 17), Yield: "2.08%", Amount: "SGD 0.030"},
	"LCC":  {Date: NewDate(2025, 10, 30), PayDate: NewDate(2025, 11, 14), Yield: "4.23%", Amount: "SGD 0.022"},
	"MIJ":  {Date: NewDate(2025, 10, 31), PayDate: NewDate(2025, 11, 14), Yield: "0.77%", Amount: "SGD 0.001"},
	"1B1":  {Date: NewDate(2025, 10, 31), PayDate: NewDate(2025, 11, 13), Yield: "3.33%", Amount: "SGD 0.012"},
	"C33":  {Date: NewDate(2025, 10, 31), PayDate: NewDate(2025, 11, 13), Yield: "3.26%", Amount: "SGD 0.007"},
	"O08":  {Date: NewDate(2025, 10, 31), Yield: "4.10%", Amount: "SGD 0.007"},
	"F17":  {Date: NewDate(2025, 11, 4), Yield: "3.42%", Amount: "SGD 0.070"},
	"K29":  {Date: NewDate(2025, 11, 4), Yield: "2.36%", Amount: "HKD 0.039"},
	"BQM":  {Date: NewDate(2025, 11, 4), Yield: "2.22%", Amount: "SGD 0.018"},
	"564":  {Date: NewDate(2025, 11, 5), Yield: "1.41%", Amount: "SGD 0.020"},
	"5WF":  {Date: NewDate(2025, 11, 5), Yield: "0.98%", Amount: "SGD 0.001"},
	"L19":  {Date: NewDate(2025, 11, 5), Yield: "2.17%", Amount: "SGD 0.010"},
	"DM0":  {Date: NewDate(2025, 11, 6), Yield: "0.51%", Amount: "SGD 0.002"},
	"1R6":  {Date: NewDate(2025, 11, 6), Yield: "1.22%", Amount: "SGD 0.003"},
	"5DD":  {Date: NewDate(2025, 11, 6), Yield: "1.69%", Amount: "SGD 0.030"},
	"UUK":  {Date: NewDate(2025, 11, 6), Yield: "2.61%", Amount: "SGD 0.002"},
	"G50":  {Date: NewDate(2025, 11, 6), Yield: "1.46%", Amount: "SGD 0.010"},
	"A04":  {Date: NewDate(2025, 11, 14), Yield: "0.93%", Amount: "SGD 0.002"},
	"500":  {Date: NewDate(2025, 11, 20), Yield: "2.54%", Amount: "SGD 0.016"},
	"BVA":  {Date: NewDate(2025, 11, 24), Yield: "0.69%", Amount: "MYR 0.005"},
	"S71":  {Date: NewDate(2025, 11, 25), Yield: "0.89%", Amount: "SGD 0.002"},
	"K03":  {Date: NewDate(2025, 12, 3), Yield: "1.16%", Amount: "SGD 0.010"},
	"S3N":  {Date: NewDate(2025, 12, 11), Yield: "1.48%", Amount: "SGD 0.001"},
}
