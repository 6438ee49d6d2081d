package sgxdividends

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBuildSnapshot(t *testing.T) {
	r := NewRegistry(DedupeNone)
	for _, rec := range sampleRecords() {
		r.Merge(rec.Ticker, Fragment{
			CompanyName: rec.CompanyName,
			Symbol:      rec.Symbol,
			Events:      rec.Events,
			Upcoming:    rec.Upcoming,
		})
	}

	s := BuildSnapshot(r)
	if s.Version != SnapshotVersion {
		t.Errorf("Version = %d, want %d", s.Version, SnapshotVersion)
	}
	if s.GeneratedAt.IsZero() {
		t.Error("GeneratedAt is zero")
	}
	if len(s.Tickers) != 2 {
		t.Fatalf("Tickers = %d, want 2", len(s.Tickers))
	}
	// Snapshot order is ascending by ticker.
	if s.Tickers[0].Ticker != "BEC" || s.Tickers[1].Ticker != "S68" {
		t.Errorf("ticker order = %q, %q", s.Tickers[0].Ticker, s.Tickers[1].Ticker)
	}
}

func TestSnapshot_MarshalJSON(t *testing.T) {
	r := NewRegistry(DedupeNone)
	for _, rec := range sampleRecords() {
		r.Merge(rec.Ticker, Fragment{
			CompanyName: rec.CompanyName,
			Events:      rec.Events,
			Upcoming:    rec.Upcoming,
		})
	}
	s := BuildSnapshot(r)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	text := string(data)

	// Stable top-level field order.
	if !strings.HasPrefix(text, `{"version":1,"generatedAt":"`) {
		t.Errorf("unexpected document prefix: %.60s", text)
	}

	// The document must parse back, with the expected shape.
	var doc struct {
		Version     int    `json:"version"`
		GeneratedAt string `json:"generatedAt"`
		Tickers     []struct {
			Ticker      string `json:"ticker"`
			CompanyName string `json:"companyName"`
			Events      []struct {
				ExDate              string             `json:"exDate"`
				DividendAmount      float64            `json:"dividendAmount"`
				DividendAmountLabel string             `json:"dividendAmountLabel"`
				ExDatePrice         *float64           `json:"exDatePrice"`
				ExDatePriceLabel    *string            `json:"exDatePriceLabel"`
				Prices              map[string]*string `json:"prices"`
			} `json:"events"`
			Upcoming *struct {
				Ticker  string  `json:"ticker"`
				ExDate  *string `json:"exDate"`
				PayDate *string `json:"payDate"`
			} `json:"upcoming"`
		} `json:"tickers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("snapshot does not parse back: %v", err)
	}

	if doc.Version != 1 || len(doc.Tickers) != 2 {
		t.Fatalf("doc = version %d, %d tickers", doc.Version, len(doc.Tickers))
	}
	if _, err := ParseDate(doc.GeneratedAt); err != nil {
		// generatedAt is a full timestamp, ParseDate accepts RFC3339.
		t.Errorf("generatedAt %q does not parse: %v", doc.GeneratedAt, err)
	}

	s68 := doc.Tickers[1]
	if s68.Ticker != "S68" || len(s68.Events) != 1 {
		t.Fatalf("S68 = %+v", s68)
	}
	ev := s68.Events[0]
	if ev.ExDate != "2025-10-16" || ev.DividendAmount != 0.105 || ev.DividendAmountLabel != "0.1050" {
		t.Errorf("event = %+v", ev)
	}
	if ev.ExDatePrice == nil || *ev.ExDatePrice != 17.50 {
		t.Errorf("exDatePrice = %v, want 17.50", ev.ExDatePrice)
	}
	if ev.ExDatePriceLabel == nil || *ev.ExDatePriceLabel != "17.50" {
		t.Errorf("exDatePriceLabel = %v, want 17.50", ev.ExDatePriceLabel)
	}

	// The prices object carries the whole window, the anchor under both
	// spellings, unresolved offsets as explicit nulls.
	if got, want := len(ev.Prices), WindowBackward+WindowForward+2; got != want {
		t.Errorf("prices keys = %d, want %d", got, want)
	}
	for _, key := range []string{"D+0", "D0"} {
		if p, ok := ev.Prices[key]; !ok || p == nil || *p != "17.50" {
			t.Errorf("prices[%s] = %v, want 17.50", key, p)
		}
	}
	if p, ok := ev.Prices["D-1"]; !ok || p == nil || *p != "17.40" {
		t.Errorf("prices[D-1] = %v, want 17.40", p)
	}
	if p, ok := ev.Prices["D+5"]; !ok || p != nil {
		t.Errorf("prices[D+5] = %v, want an explicit null", p)
	}

	if s68.Upcoming == nil || s68.Upcoming.ExDate == nil || *s68.Upcoming.ExDate != "2025-10-16" {
		t.Errorf("upcoming = %+v", s68.Upcoming)
	}

	// BEC has no events but a non-null upcoming block.
	bec := doc.Tickers[0]
	if len(bec.Events) != 0 || bec.Upcoming == nil {
		t.Errorf("BEC = %+v", bec)
	}
	if bec.Upcoming.PayDate != nil {
		t.Errorf("BEC payDate = %v, want null", bec.Upcoming.PayDate)
	}
}

func TestSnapshot_NullUpcoming(t *testing.T) {
	r := NewRegistry(DedupeNone)
	r.Merge("D05", Fragment{CompanyName: "DBS Group"})
	data, err := json.Marshal(BuildSnapshot(r))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"upcoming":null`) {
		t.Errorf("record without upcoming must carry an explicit null:\n%s", data)
	}
}
