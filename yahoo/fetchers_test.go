package yahoo

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seetoh/sgxdividends"
)

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"currency": "SGD"},
      "timestamp": [1760572800, 1760659200, 1760918400],
      "indicators": {
        "quote":    [{"close": [17.10, 17.20, 17.30]}],
        "adjclose": [{"adjclose": [17.50, null, 17.60]}]
      },
      "events": {
        "dividends": {
          "1760572800": {"amount": 0.105, "date": 1760572800}
        }
      }
    }],
    "error": null
  }
}`

const searchFixture = `{
  "quotes": [
    {"symbol": "S68.SI", "shortname": "SGX", "longname": "Singapore Exchange Limited"},
    {"symbol": "S68U.SI", "shortname": "Other"}
  ]
}`

const summaryFixture = `{
  "quoteSummary": {
    "result": [{
      "calendarEvents": {
        "exDividendDate": {"raw": 1760572800, "fmt": "2025-10-16"}
      }
    }],
    "error": null
  }
}`

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			http.NotFound(w, r)
		case r.URL.Path == crumbPath:
			fmt.Fprint(w, "test-crumb")
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/S68.SI"):
			fmt.Fprint(w, chartFixture)
		case strings.HasPrefix(r.URL.Path, "/v1/finance/search"):
			fmt.Fprint(w, searchFixture)
		case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/S68.SI"):
			if r.URL.Query().Get("crumb") != "test-crumb" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, summaryFixture)
		default:
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
		}
	}))
}

func TestFetchDailySeries(t *testing.T) {
	server := fixtureServer(t)
	defer server.Close()
	c := newTestClient(server.URL, func(time.Duration) {})

	samples, err := c.FetchDailySeries("S68.SI", 10)
	if err != nil {
		t.Fatalf("FetchDailySeries() error = %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("samples = %d, want 3", len(samples))
	}
	// Adjusted closes are preferred over raw closes.
	if samples[0].Price == nil || *samples[0].Price != 17.50 {
		t.Errorf("samples[0] = %v, want the adjusted 17.50", samples[0].Price)
	}
	// Null closes pass through as absent, the series builder drops them.
	if samples[1].Price != nil {
		t.Errorf("samples[1] = %v, want nil", *samples[1].Price)
	}

	s := sgxdividends.BuildPriceSeries(samples)
	if s.Len() != 2 {
		t.Errorf("series length = %d, want 2", s.Len())
	}
	if p, ok := s.Get(sgxdividends.NewDate(2025, 10, 16)); !ok || p != 17.50 {
		t.Errorf("series at 2025-10-16 = %v, %v", p, ok)
	}
}

func TestFetchDailySeries_ChartError(t *testing.T) {
	server := fixtureServer(t)
	defer server.Close()
	c := newTestClient(server.URL, func(time.Duration) {})

	if _, err := c.FetchDailySeries("NOPE.SI", 10); err == nil {
		t.Error("FetchDailySeries() should surface the chart error")
	}
}

func TestFetchDividendEvents(t *testing.T) {
	server := fixtureServer(t)
	defer server.Close()
	c := newTestClient(server.URL, func(time.Duration) {})

	raws, err := c.FetchDividendEvents("S68.SI")
	if err != nil {
		t.Fatalf("FetchDividendEvents() error = %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("raws = %d, want 1", len(raws))
	}
	if raws[0].Amount != 0.105 || raws[0].Unix != 1760572800 {
		t.Errorf("raw = %+v", raws[0])
	}
	if raws[0].Currency != "SGD" {
		t.Errorf("currency = %q, want SGD", raws[0].Currency)
	}
}

func TestResolveSymbol(t *testing.T) {
	server := fixtureServer(t)
	defer server.Close()
	c := newTestClient(server.URL, func(time.Duration) {})

	name, symbol, err := c.ResolveSymbol("S68")
	if err != nil {
		t.Fatalf("ResolveSymbol() error = %v", err)
	}
	if symbol != "S68.SI" {
		t.Errorf("symbol = %q, want S68.SI", symbol)
	}
	if name != "Singapore Exchange Limited" {
		t.Errorf("name = %q, want the longname", name)
	}
}

func TestFetchUpcomingExDate(t *testing.T) {
	server := fixtureServer(t)
	defer server.Close()
	c := newTestClient(server.URL, func(time.Duration) {})

	on, ok, err := c.FetchUpcomingExDate("S68.SI")
	if err != nil {
		t.Fatalf("FetchUpcomingExDate() error = %v", err)
	}
	if !ok || on != sgxdividends.NewDate(2025, 10, 16) {
		t.Errorf("FetchUpcomingExDate() = %v, %v, want 2025-10-16, true", on, ok)
	}
}

func TestFetchUpcomingExDate_NothingAnnounced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case crumbPath:
			fmt.Fprint(w, "test-crumb")
		default:
			// A calendar without an ex-dividend entry.
			fmt.Fprint(w, `{"quoteSummary":{"result":[{"calendarEvents":{}}],"error":null}}`)
		}
	}))
	defer server.Close()
	c := newTestClient(server.URL, func(time.Duration) {})

	_, ok, err := c.FetchUpcomingExDate("S68.SI")
	if err != nil {
		t.Fatalf("FetchUpcomingExDate() error = %v", err)
	}
	if ok {
		t.Error("FetchUpcomingExDate() should report nothing announced")
	}
}
