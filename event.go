package sgxdividends

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// RawDividend is one dividend record as handed over by a provider feed,
// before any validation. Optional dates are zero when absent.
type RawDividend struct {
	Unix            int64   // ex-dividend date as epoch seconds
	Amount          float64 // dividend per share
	PayUnix         int64
	RecordUnix      int64
	DeclarationUnix int64
	Currency        string
}

// DividendEvent is a canonical dividend event for one ticker: the validated
// amount, the calendar dates, and the price window aligned on the ex-date.
// Events are immutable once built; a re-enriched ticker gets a fresh set.
type DividendEvent struct {
	ExDate          Date
	Amount          decimal.Decimal
	PayDate         Date // zero when absent
	RecordDate      Date
	DeclarationDate Date
	Currency        string
	Window          PriceWindow
	YieldValue      decimal.Decimal
	YieldLabel      string // "" when the yield could not be computed
}

// NormalizeConfig bounds and parametrizes event normalization.
// The zero value maps to the 2020-01-01..2025-12-31 collection range.
type NormalizeConfig struct {
	Start  Date // inclusive lower bound on ex-dates
	End    Date // inclusive upper bound
	Window WindowConfig
}

func (c NormalizeConfig) start() Date {
	if c.Start.IsZero() {
		return NewDate(2020, 1, 1)
	}
	return c.Start
}

func (c NormalizeConfig) end() Date {
	if c.End.IsZero() {
		return NewDate(2025, 12, 31)
	}
	return c.End
}

var errOutOfRange = errors.New("ex-date outside the collection range")

// NormalizeEvent converts one raw record into a DividendEvent, aligning its
// price window against the ticker's series and computing the yield.
//
// It fails (the event, not the batch) when the amount is not strictly
// positive, the date is absent, or the ex-date falls outside the configured
// range.
func NormalizeEvent(raw RawDividend, series *PriceSeries, cfg NormalizeConfig) (DividendEvent, error) {
	if raw.Unix == 0 {
		return DividendEvent{}, errors.New("dividend event has no ex-date")
	}
	if !(raw.Amount > 0) {
		return DividendEvent{}, fmt.Errorf("dividend amount %v is not positive", raw.Amount)
	}

	exDate := DateOfUnix(raw.Unix)
	if exDate.Before(cfg.start()) || exDate.After(cfg.end()) {
		return DividendEvent{}, fmt.Errorf("%w: %s", errOutOfRange, exDate)
	}

	ev := DividendEvent{
		ExDate:   exDate,
		Amount:   decimal.NewFromFloat(raw.Amount),
		Currency: raw.Currency,
		Window:   BuildWindow(series, exDate, cfg.Window),
	}
	if raw.PayUnix != 0 {
		ev.PayDate = DateOfUnix(raw.PayUnix)
	}
	if raw.RecordUnix != 0 {
		ev.RecordDate = DateOfUnix(raw.RecordUnix)
	}
	if raw.DeclarationUnix != 0 {
		ev.DeclarationDate = DateOfUnix(raw.DeclarationUnix)
	}

	// The yield is only meaningful against a strictly positive ex-date price.
	if anchor, ok := ev.Window.Anchor(); ok && anchor > 0 {
		ev.YieldValue = ev.Amount.Div(decimal.NewFromFloat(anchor)).Mul(decimal.NewFromInt(100))
		ev.YieldLabel = FormatYieldLabel(ev.YieldValue)
	}
	return ev, nil
}

// NormalizeEvents converts a raw batch, skipping (not aborting on) invalid
// records, and returns the events sorted descending by ex-date: storage
// order is most recent first, the final snapshot re-sorts ascending.
func NormalizeEvents(raws []RawDividend, series *PriceSeries, cfg NormalizeConfig) []DividendEvent {
	events := make([]DividendEvent, 0, len(raws))
	for _, raw := range raws {
		ev, err := NormalizeEvent(raw, series, cfg)
		if err != nil {
			// A single bad row never fails the ticker.
			continue
		}
		events = append(events, ev)
	}
	SortEventsDescending(events)
	return events
}

// SortEventsDescending orders events most recent first.
func SortEventsDescending(events []DividendEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].ExDate.After(events[j].ExDate) })
}

// SortEventsAscending orders events chronologically.
func SortEventsAscending(events []DividendEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].ExDate.Before(events[j].ExDate) })
}
