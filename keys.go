package sgxdividends

import (
	"strings"
	"unicode"
)

// This file implements the small text-normalization grammar that lets one
// canonical column name match every source's naming convention: the master
// CSV says "Ex-Dividend Date", the machine export says ex_dividend_date,
// and the window columns range from "Price D+5" to price_d_plus_5.

// KeyVariants generates the closed set of case/punctuation/separator
// variants of a column name. The expansion runs to a fixed point, so
// compound substitutions like "D+1" -> "d plus 1" -> "d_plus_1" are all
// reached.
func KeyVariants(key string) []string {
	if key == "" {
		return nil
	}
	seen := make(map[string]bool)
	variants := make([]string, 0, 16)
	queue := []string{key}

	push := func(s string) {
		if s != "" && !seen[s] {
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == "" || seen[current] {
			continue
		}
		seen[current] = true
		variants = append(variants, current)

		lower := strings.ToLower(current)
		push(lower)

		push(strings.NewReplacer("+", " plus ", "-", " minus ").Replace(lower))
		push(strings.NewReplacer("+", "_plus_", "-", "_minus_").Replace(lower))

		spaced := strings.NewReplacer("-", " ", "/", " ").Replace(lower)
		push(spaced)
		push(strings.ReplaceAll(spaced, " ", ""))
		push(strings.ReplaceAll(spaced, " ", "_"))

		var stripped strings.Builder
		for _, r := range spaced {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				stripped.WriteRune(r)
			}
		}
		push(stripped.String())
	}
	return variants
}

// Row is one tabular record with its headers normalized at load time into
// the variant key space, so a lookup by any convention's name hits.
type Row struct {
	cells map[string]string
}

// NewRow builds a Row from parallel header and value slices. Extra values
// without a header are dropped; headers without a value read as empty.
func NewRow(header, values []string) Row {
	r := Row{cells: make(map[string]string, len(header)*8)}
	for i, h := range header {
		var v string
		if i < len(values) {
			v = values[i]
		}
		r.set(h, v)
	}
	return r
}

// RowFromMap builds a Row from a key->value record (JSON sources).
func RowFromMap(record map[string]string) Row {
	r := Row{cells: make(map[string]string, len(record)*8)}
	for k, v := range record {
		r.set(k, v)
	}
	return r
}

func (r Row) set(key, value string) {
	for _, variant := range KeyVariants(key) {
		if _, exists := r.cells[variant]; !exists {
			r.cells[variant] = value
		}
	}
}

// Get returns the trimmed value for the first of the given canonical names
// that matches a column, in any naming convention.
func (r Row) Get(names ...string) (string, bool) {
	for _, name := range names {
		for _, variant := range KeyVariants(name) {
			if v, ok := r.cells[variant]; ok {
				return strings.TrimSpace(v), true
			}
		}
	}
	return "", false
}

// Value is like Get but returns "" when no column matches.
func (r Row) Value(names ...string) string {
	v, _ := r.Get(names...)
	return v
}
