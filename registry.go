package sgxdividends

import (
	"sort"
	"strings"
)

// TickerRecord is the canonical per-ticker entity produced by the merge
// engine: one instance per unique ticker across the whole run.
type TickerRecord struct {
	Ticker      string // uppercase, canonical, no exchange suffix
	CompanyName string
	Symbol      string // resolved exchange-suffixed form, "" when unresolved
	Events      []DividendEvent
	Upcoming    *UpcomingInfo // nil when absent
}

// Fragment is a partial TickerRecord contributed by one source.
type Fragment struct {
	CompanyName string
	Symbol      string
	Events      []DividendEvent
	Upcoming    *UpcomingInfo
}

// DedupeStrategy selects how the registry treats events re-ingested for the
// same ticker from multiple sources. The historical behavior is append-only;
// see the design notes before changing the default.
type DedupeStrategy int

const (
	DedupeNone DedupeStrategy = iota
	DedupeByExDate
	DedupeByExDateAmount
)

// Registry reconciles ticker fragments from heterogeneous sources into one
// deduplicated record set. It owns every TickerRecord it hands out.
type Registry struct {
	records map[string]*TickerRecord
	dedupe  DedupeStrategy
}

// NewRegistry returns an empty registry with the given event dedupe
// strategy.
func NewRegistry(dedupe DedupeStrategy) *Registry {
	return &Registry{records: make(map[string]*TickerRecord), dedupe: dedupe}
}

// Merge folds one fragment into the record for ticker. Grouping keys are
// uppercased and exchange-suffix-stripped. Company name and upcoming info
// follow first-source-wins; events are appended subject to the dedupe
// strategy.
func (r *Registry) Merge(ticker string, fragment Fragment) {
	key := TickerKey(ticker)
	if key == "" {
		return
	}
	rec, ok := r.records[key]
	if !ok {
		rec = &TickerRecord{Ticker: key}
		r.records[key] = rec
	}
	if rec.CompanyName == "" && fragment.CompanyName != "" {
		rec.CompanyName = strings.TrimSpace(fragment.CompanyName)
	}
	if rec.Symbol == "" && fragment.Symbol != "" {
		rec.Symbol = strings.ToUpper(strings.TrimSpace(fragment.Symbol))
	}
	for _, ev := range fragment.Events {
		if r.duplicate(rec, ev) {
			continue
		}
		rec.Events = append(rec.Events, ev)
	}
	if rec.Upcoming == nil && fragment.Upcoming != nil {
		up := *fragment.Upcoming
		rec.Upcoming = &up
	}
}

func (r *Registry) duplicate(rec *TickerRecord, ev DividendEvent) bool {
	switch r.dedupe {
	case DedupeByExDate:
		for _, existing := range rec.Events {
			if existing.ExDate == ev.ExDate {
				return true
			}
		}
	case DedupeByExDateAmount:
		for _, existing := range rec.Events {
			if existing.ExDate == ev.ExDate && existing.Amount.Equal(ev.Amount) {
				return true
			}
		}
	}
	return false
}

// Replace drops every stored event for ticker and installs the given set.
// Re-enrichment supersedes, it never patches.
func (r *Registry) Replace(ticker string, fragment Fragment) {
	key := TickerKey(ticker)
	if key == "" {
		return
	}
	delete(r.records, key)
	r.Merge(ticker, fragment)
}

// Backfill sets the upcoming info, from a separately loaded summary table
// keyed by ticker, on every record that still lacks one. Records present in
// the table but unknown to the registry are created so the snapshot covers
// every announced ticker.
func (r *Registry) Backfill(upcoming map[string]UpcomingInfo, companies map[string]string) {
	for ticker, info := range upcoming {
		key := TickerKey(ticker)
		if key == "" {
			continue
		}
		rec, ok := r.records[key]
		if !ok {
			rec = &TickerRecord{Ticker: key}
			r.records[key] = rec
		}
		if rec.CompanyName == "" {
			rec.CompanyName = companies[ticker]
		}
		if rec.Upcoming == nil {
			up := info
			rec.Upcoming = &up
		}
	}
}

// Get returns the record for ticker, or nil.
func (r *Registry) Get(ticker string) *TickerRecord { return r.records[TickerKey(ticker)] }

// Len returns the number of distinct tickers.
func (r *Registry) Len() int { return len(r.records) }

// Records returns all records sorted ascending by ticker, each with its
// events sorted ascending by ex-date. This is the final snapshot order.
func (r *Registry) Records() []*TickerRecord {
	out := make([]*TickerRecord, 0, len(r.records))
	for _, rec := range r.records {
		SortEventsAscending(rec.Events)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}
