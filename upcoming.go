package sgxdividends

import (
	"log"

	"github.com/shopspring/decimal"
)

// UpcomingInfo summarizes the next (or most recent past) dividend for a
// ticker. It is always a projection of a DividendEvent or of a manual
// override, never independently authored.
type UpcomingInfo struct {
	Date        Date // chosen upcoming (or fallback) ex-date, zero when unknown
	PayDate     Date
	YieldValue  decimal.Decimal
	YieldLabel  string // "" when absent
	AmountValue decimal.Decimal
	AmountLabel string // "" when absent
}

// IsZero reports whether no field of the summary is set.
func (u UpcomingInfo) IsZero() bool {
	return u.Date.IsZero() && u.PayDate.IsZero() && u.YieldLabel == "" && u.AmountLabel == ""
}

// ExDateLookup is the live last-resort source for an upcoming ex-date,
// consulted only when neither events nor overrides yield one.
type ExDateLookup func(symbol string) (Date, bool, error)

// nextExDate picks the upcoming reference date from a ticker's event
// history: the earliest ex-date at or after today, else the most recent
// past one, else nothing.
func nextExDate(events []DividendEvent, today Date) (Date, bool) {
	var upcoming, latest Date
	var haveUpcoming, haveAny bool
	for _, ev := range events {
		if ev.ExDate.IsZero() {
			continue
		}
		if !haveAny || ev.ExDate.After(latest) {
			latest = ev.ExDate
			haveAny = true
		}
		if !ev.ExDate.Before(today) {
			if !haveUpcoming || ev.ExDate.Before(upcoming) {
				upcoming = ev.ExDate
				haveUpcoming = true
			}
		}
	}
	if haveUpcoming {
		return upcoming, true
	}
	if haveAny {
		return latest, true
	}
	return Date{}, false
}

// ResolveUpcoming compiles the upcoming summary for one ticker from its
// event history, the manual override table and the live lookup.
//
// Field precedence is asymmetric on purpose: date and payDate trust the
// computation first, the override only fills gaps; yield and amount trust
// the override first once authored, because the raw feed is prone to stale
// or adjusted values there.
func ResolveUpcoming(ticker, symbol string, events []DividendEvent, overrides OverrideLookup, live ExDateLookup, today Date) (UpcomingInfo, bool) {
	var info UpcomingInfo

	if on, ok := nextExDate(events, today); ok {
		info.Date = on
		// First event matching the chosen date sources amount, payDate, yield.
		for _, ev := range events {
			if ev.ExDate != on {
				continue
			}
			info.PayDate = ev.PayDate
			info.AmountValue = ev.Amount
			info.AmountLabel = FormatAmountLabel(ev.Amount)
			if ev.YieldLabel != "" {
				info.YieldValue = ev.YieldValue
				info.YieldLabel = ev.YieldLabel
			}
			break
		}
	}

	var override ManualOverride
	var haveOverride bool
	if overrides != nil {
		override, haveOverride = overrides.Lookup(symbol, ticker)
	}
	if haveOverride {
		if info.Date.IsZero() && !override.Date.IsZero() {
			info.Date = override.Date
		}
		if info.PayDate.IsZero() && !override.PayDate.IsZero() {
			info.PayDate = override.PayDate
		}
		if override.Yield != "" {
			info.YieldLabel = override.Yield
			if v, ok := ParsePercentLabel(override.Yield); ok {
				info.YieldValue = v
			}
		}
		if override.Amount != "" {
			info.AmountLabel = override.Amount
			if v, ok := ParseAmountLabel(override.Amount); ok {
				info.AmountValue = v
			}
		}
	}

	if info.Date.IsZero() && symbol != "" && live != nil {
		on, ok, err := live(symbol)
		if err != nil {
			log.Printf("upcoming ex-date lookup failed for %s: %v", symbol, err)
		} else if ok {
			info.Date = on
		}
	}

	return info, !info.IsZero()
}

// UpcomingCache memoizes resolved summaries per resolved symbol within a
// single run. Write-once: the first successful store for a key is never
// overwritten.
type UpcomingCache struct {
	entries map[string]upcomingEntry
}

type upcomingEntry struct {
	info UpcomingInfo
	ok   bool
}

// NewUpcomingCache returns an empty cache.
func NewUpcomingCache() *UpcomingCache {
	return &UpcomingCache{entries: make(map[string]upcomingEntry)}
}

// Lookup returns the cached summary for key and whether an entry exists.
func (c *UpcomingCache) Lookup(key string) (info UpcomingInfo, ok, found bool) {
	e, found := c.entries[key]
	return e.info, e.ok, found
}

// Store records a resolution for key. Later stores for the same key are
// ignored.
func (c *UpcomingCache) Store(key string, info UpcomingInfo, ok bool) {
	if _, exists := c.entries[key]; exists {
		return
	}
	c.entries[key] = upcomingEntry{info: info, ok: ok}
}
