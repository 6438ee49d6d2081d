package sgxdividends

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotVersion identifies the consolidated snapshot document format.
const SnapshotVersion = 1

// Snapshot is the consolidated per-ticker document produced after all
// sources are merged. Tickers are sorted ascending by symbol, each record's
// events ascending by ex-date.
type Snapshot struct {
	Version     int
	GeneratedAt time.Time
	Tickers     []*TickerRecord
}

// BuildSnapshot assembles the snapshot from the merge registry.
func BuildSnapshot(r *Registry) *Snapshot {
	return &Snapshot{
		Version:     SnapshotVersion,
		GeneratedAt: time.Now().UTC(),
		Tickers:     r.Records(),
	}
}

// MarshalJSON writes the snapshot with a stable field order:
// version, generatedAt, tickers.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("version", s.Version)
	w.Append("generatedAt", s.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"))

	tickers := make([]json.RawMessage, 0, len(s.Tickers))
	for _, rec := range s.Tickers {
		data, err := marshalSnapshotRecord(rec)
		if err != nil {
			return nil, err
		}
		tickers = append(tickers, data)
	}
	w.Append("tickers", tickers)
	return w.MarshalJSON()
}

func marshalSnapshotRecord(rec *TickerRecord) ([]byte, error) {
	var w jsonObjectWriter
	w.Append("ticker", rec.Ticker)
	w.Append("companyName", rec.CompanyName)

	events := make([]json.RawMessage, 0, len(rec.Events))
	for _, ev := range rec.Events {
		data, err := marshalSnapshotEvent(ev)
		if err != nil {
			return nil, err
		}
		events = append(events, data)
	}
	w.Append("events", events)

	if rec.Upcoming == nil {
		w.Append("upcoming", nil)
	} else {
		data, err := marshalSnapshotUpcoming(rec)
		if err != nil {
			return nil, err
		}
		w.Append("upcoming", json.RawMessage(data))
	}
	return w.MarshalJSON()
}

func marshalSnapshotEvent(ev DividendEvent) ([]byte, error) {
	var w jsonObjectWriter
	w.Append("exDate", ev.ExDate)
	w.Append("dividendAmount", ev.Amount.InexactFloat64())
	w.Append("dividendAmountLabel", FormatAmountLabel(ev.Amount))

	anchor, ok := ev.Window.Anchor()
	if ok {
		w.Append("exDatePrice", anchor)
		w.Append("exDatePriceLabel", FormatSnapshotPrice(anchor, true))
	} else {
		w.Append("exDatePrice", nil)
		w.Append("exDatePriceLabel", nil)
	}
	w.Append("prices", json.RawMessage(marshalSnapshotPrices(ev.Window)))
	return w.MarshalJSON()
}

// marshalSnapshotPrices writes the price window keyed "D-10".."D+30". The
// anchor appears under both "D+0" and the historical "D0" alias. Unresolved
// offsets are kept as explicit nulls so consumers see the full window.
func marshalSnapshotPrices(window PriceWindow) []byte {
	var w jsonObjectWriter
	appendPrice := func(key string, offset int) {
		if p, ok := window.At(offset); ok {
			w.Append(key, FormatSnapshotPrice(p, true))
		} else {
			w.Append(key, nil)
		}
	}
	appendPrice("D+0", 0)
	appendPrice("D0", 0)
	for offset := -WindowBackward; offset <= WindowForward; offset++ {
		if offset == 0 {
			continue
		}
		appendPrice(fmt.Sprintf("D%+d", offset), offset)
	}
	data, _ := w.MarshalJSON()
	return data
}

func marshalSnapshotUpcoming(rec *TickerRecord) ([]byte, error) {
	up := rec.Upcoming
	var w jsonObjectWriter
	w.Append("ticker", rec.Ticker)
	w.Optional("companyName", rec.CompanyName)
	if up.Date.IsZero() {
		w.Append("exDate", nil)
	} else {
		w.Append("exDate", up.Date)
	}
	if up.PayDate.IsZero() {
		w.Append("payDate", nil)
	} else {
		w.Append("payDate", up.PayDate)
	}
	if up.AmountLabel == "" {
		w.Append("amountLabel", nil)
		w.Append("amountValue", nil)
	} else {
		w.Append("amountLabel", up.AmountLabel)
		w.Append("amountValue", up.AmountValue.InexactFloat64())
	}
	if up.YieldLabel == "" {
		w.Append("yieldLabel", nil)
		w.Append("yieldValue", nil)
	} else {
		w.Append("yieldLabel", up.YieldLabel)
		w.Append("yieldValue", up.YieldValue.InexactFloat64())
	}
	return w.MarshalJSON()
}
