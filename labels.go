package sgxdividends

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// This file parses and formats the human labels that circulate between
// sources: dividend amounts with a currency prefix ("SGD 0.105") and
// percentage yields ("0.60%"). Labels are authored data, so parsing is
// deliberately forgiving and formatting is exact.

var numberRE = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseAmountLabel extracts the numeric value from an amount label like
// "SGD 0.105" or "3,900.00". Returns false when no number is present.
func ParseAmountLabel(label string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(label, ",", ""))
	match := numberRE.FindString(cleaned)
	if match == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// AmountCurrency returns the ISO currency code prefixing an amount label
// ("SGD 0.105" -> "SGD"), or "" when the label carries none. The code is
// validated against the currency registry so that a stray word is not
// mistaken for a currency.
func AmountCurrency(label string) string {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) < 2 {
		return ""
	}
	code := strings.ToUpper(fields[0])
	if money.GetCurrency(code) == nil {
		return ""
	}
	return code
}

// ParsePercentLabel extracts the numeric value from a percentage label like
// "0.60%". It tolerates thousands separators and the unicode minus sign.
func ParsePercentLabel(label string) (decimal.Decimal, bool) {
	cleaned := strings.NewReplacer("%", "", ",", "", "−", "-").Replace(label)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// FormatAmountLabel renders a dividend amount the way the tabular export
// does: four decimals, no currency.
func FormatAmountLabel(amount decimal.Decimal) string { return amount.StringFixed(4) }

// FormatCurrencyAmountLabel renders an amount with its currency prefix when
// the code is a known currency ("SGD 0.105"), plain otherwise.
func FormatCurrencyAmountLabel(code string, amount decimal.Decimal) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || money.GetCurrency(code) == nil {
		return FormatAmountLabel(amount)
	}
	return code + " " + FormatAmountLabel(amount)
}

// FormatYieldLabel renders a yield value as a percentage with two decimals.
func FormatYieldLabel(yield decimal.Decimal) string { return yield.StringFixed(2) + "%" }

// FormatPrice renders a window price with four decimals, "" when absent.
func FormatPrice(price float64, ok bool) string {
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.4f", price)
}

// FormatSnapshotPrice renders a price for the consolidated snapshot, which
// historically uses two decimals.
func FormatSnapshotPrice(price float64, ok bool) string {
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.2f", price)
}
