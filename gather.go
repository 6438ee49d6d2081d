package sgxdividends

import (
	"errors"
	"fmt"
	"log"
)

// Provider is a market-data source able to serve one ticker end to end.
// Implementations live in their own subpackages.
type Provider interface {
	// ResolveSymbol maps a bare ticker to its exchange-suffixed symbol and
	// company name.
	ResolveSymbol(ticker string) (companyName, symbol string, err error)
	// FetchDailySeries returns raw daily closing prices covering at least
	// the last rangeYears years.
	FetchDailySeries(symbol string, rangeYears int) ([]PriceSample, error)
	// FetchDividendEvents returns the raw dividend records for symbol.
	FetchDividendEvents(symbol string) ([]RawDividend, error)
	// FetchUpcomingExDate asks the provider's calendar for the next
	// announced ex-date, when it has one.
	FetchUpcomingExDate(symbol string) (Date, bool, error)
}

// GatherConfig parametrizes a collection run. The zero value collects the
// default ticker list over the default range with the built-in overrides.
type GatherConfig struct {
	Tickers    []string
	Overrides  OverrideLookup
	Normalize  NormalizeConfig
	RangeYears int  // years of price history to request, default 10
	Today      Date // reference date for upcoming resolution, default today
	Dedupe     DedupeStrategy
}

func (c GatherConfig) tickers() []string {
	if len(c.Tickers) == 0 {
		return DefaultTickers
	}
	return c.Tickers
}

func (c GatherConfig) overrides() OverrideLookup {
	if c.Overrides == nil {
		return DefaultOverrides
	}
	return c.Overrides
}

func (c GatherConfig) rangeYears() int {
	if c.RangeYears <= 0 {
		return 10
	}
	return c.RangeYears
}

func (c GatherConfig) today() Date {
	if c.Today.IsZero() {
		return Today()
	}
	return c.Today
}

// Gather runs one sequential collection pass: for every ticker it resolves
// the symbol, pulls prices and dividends, normalizes the events, resolves
// the upcoming summary, and merges the result into a fresh registry.
//
// A failing ticker is logged and skipped, it still contributes an
// override-only upcoming summary when the override table has one. Gather
// only fails when not a single ticker produced data.
func Gather(provider Provider, cfg GatherConfig) (*Registry, error) {
	registry := NewRegistry(cfg.Dedupe)
	cache := NewUpcomingCache()
	today := cfg.today()
	overrides := cfg.overrides()

	var failures []error
	collected := 0
	for _, ticker := range cfg.tickers() {
		fragment, err := gatherTicker(provider, ticker, cfg, overrides, cache, today)
		if err != nil {
			log.Printf("skipping %s: %v", ticker, err)
			failures = append(failures, fmt.Errorf("%s: %w", ticker, err))
		} else {
			collected++
		}
		registry.Merge(ticker, fragment)
	}

	if collected == 0 {
		return nil, errors.Join(errors.New("no dividend data collected from any ticker"), errors.Join(failures...))
	}
	return registry, nil
}

func gatherTicker(provider Provider, ticker string, cfg GatherConfig, overrides OverrideLookup, cache *UpcomingCache, today Date) (Fragment, error) {
	company, symbol, err := provider.ResolveSymbol(ticker)
	if err != nil {
		// No symbol, no feed. The override table may still announce a
		// dividend for this ticker, keep that.
		fragment := Fragment{}
		if info, ok := resolveCached(cache, ticker, ticker, "", nil, overrides, nil, today); ok {
			fragment.Upcoming = &info
		}
		return fragment, fmt.Errorf("cannot resolve symbol: %w", err)
	}

	events, err := gatherEvents(provider, symbol, cfg)
	if err != nil {
		fragment := Fragment{CompanyName: company, Symbol: symbol}
		if info, ok := resolveCached(cache, symbol, ticker, symbol, nil, overrides, provider.FetchUpcomingExDate, today); ok {
			fragment.Upcoming = &info
		}
		return fragment, fmt.Errorf("cannot collect %s: %w", symbol, err)
	}

	fragment := Fragment{CompanyName: company, Symbol: symbol, Events: events}
	if info, ok := resolveCached(cache, symbol, ticker, symbol, events, overrides, provider.FetchUpcomingExDate, today); ok {
		fragment.Upcoming = &info
	}
	log.Printf("collected %s (%s): %d dividend events", ticker, symbol, len(events))
	return fragment, nil
}

func gatherEvents(provider Provider, symbol string, cfg GatherConfig) ([]DividendEvent, error) {
	samples, err := provider.FetchDailySeries(symbol, cfg.rangeYears())
	if err != nil {
		return nil, fmt.Errorf("price history: %w", err)
	}
	series := BuildPriceSeries(samples)

	raws, err := provider.FetchDividendEvents(symbol)
	if err != nil {
		return nil, fmt.Errorf("dividend records: %w", err)
	}
	return NormalizeEvents(raws, series, cfg.Normalize), nil
}

// resolveCached memoizes ResolveUpcoming per cache key so that a symbol
// shared by several input tickers is only resolved (and its live calendar
// only queried) once per run.
func resolveCached(cache *UpcomingCache, key, ticker, symbol string, events []DividendEvent, overrides OverrideLookup, live ExDateLookup, today Date) (UpcomingInfo, bool) {
	if info, ok, found := cache.Lookup(key); found {
		return info, ok
	}
	info, ok := ResolveUpcoming(ticker, symbol, events, overrides, live, today)
	cache.Store(key, info, ok)
	return info, ok
}
