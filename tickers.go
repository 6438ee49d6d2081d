package sgxdividends

import "strings"

// exchangeSuffix is the Yahoo Finance suffix for SGX listings.
const exchangeSuffix = ".SI"

// StripExchangeSuffix removes the exchange suffix from a symbol, if any.
func StripExchangeSuffix(symbol string) string {
	return strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(symbol)), exchangeSuffix)
}

// TickerKey normalizes a ticker for grouping: uppercased, trimmed, exchange
// suffix stripped. This is the key space of the merge registry.
func TickerKey(ticker string) string { return StripExchangeSuffix(ticker) }

// SymbolCandidates returns the Yahoo symbol variants to try for an SGX
// ticker, suffixed form first.
func SymbolCandidates(ticker string) []string {
	base := strings.ToUpper(strings.TrimSpace(ticker))
	if base == "" {
		return nil
	}
	if strings.HasSuffix(base, exchangeSuffix) {
		return []string{base}
	}
	return []string{base + exchangeSuffix, base}
}

// DefaultTickers is the fixed SGX collection set.
var DefaultTickers = []string{
	"D05", "O39", "Z74", "U11", "S63", "J36", "C6L", "S68", "F34", "H78",
	"BN4", "9CI", "BS6", "Y92", "U96", "C07", "G13", "5E2", "G07", "U14",
	"C09", "D01", "S58", "U06", "V03", "TQ5", "YF8", "S59", "M04", "E5H",
	"LCC", "1B1", "C33", "O08", "C52", "F17", "BEC", "NEX", "CHJ", "T12",
	"W05", "MIJ",
}
