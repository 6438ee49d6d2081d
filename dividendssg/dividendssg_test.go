package dividendssg

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/seetoh/sgxdividends"
)

const pageFixture = `<html><body>
<h1>Upcoming Dividends</h1>
<table>
  <tr>
    <th>Company</th><th>Stock Code</th><th>Share Price</th>
    <th>Dividend Amount</th><th>Yield</th><th>Ex Date</th><th>Pay Date</th>
  </tr>
  <tr>
    <td>Singapore Exchange</td><td>S68</td><td>17.50</td>
    <td>SGD 0.105</td><td>0.60%</td><td>2025-10-16</td><td>2025-10-29</td>
  </tr>
  <tr>
    <td>BRC Asia</td><td>BEC</td><td>4.25</td>
    <td>2025-10-22</td><td>1.41%</td><td>SGD 0.060</td><td></td>
  </tr>
  <tr>
    <td>Singapore Exchange</td><td>S68.SI</td><td>17.50</td>
    <td>SGD 0.999</td><td>9.99%</td><td>2030-01-01</td><td></td>
  </tr>
  <tr><td></td><td></td><td></td><td></td><td></td><td></td><td></td></tr>
</table>
</body></html>`

func TestParseTable(t *testing.T) {
	rows, err := ParseTable(strings.NewReader(pageFixture))
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	// The empty trailing row is dropped.
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	first := rows[0]
	if got := first.Value("Ticker"); got != "S68" {
		t.Errorf("ticker = %q, want S68", got)
	}
	if got := first.Value("Company Name"); got != "Singapore Exchange" {
		t.Errorf("company = %q", got)
	}
	if got := first.Value("Upcoming Dividend Ex Date"); got != "2025-10-16" {
		t.Errorf("ex date = %q", got)
	}
	if got := first.Value("Dividend Payment Date"); got != "2025-10-29" {
		t.Errorf("pay date = %q", got)
	}
	if got := first.Value("Dividend Yield"); got != "0.60%" {
		t.Errorf("yield = %q", got)
	}
	if got := first.Value("Dividend Amount"); got != "SGD 0.105" {
		t.Errorf("amount = %q", got)
	}
}

func TestParseTable_RepairsSwappedCells(t *testing.T) {
	rows, err := ParseTable(strings.NewReader(pageFixture))
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	// The BEC row has its amount and ex-date the wrong way around in the
	// markup, the parser swaps them back.
	bec := rows[1]
	if got := bec.Value("Upcoming Dividend Ex Date"); got != "2025-10-22" {
		t.Errorf("ex date = %q, want the repaired 2025-10-22", got)
	}
	if got := bec.Value("Dividend Amount"); got != "SGD 0.060" {
		t.Errorf("amount = %q, want the repaired SGD 0.060", got)
	}
}

func TestParseTable_NoTable(t *testing.T) {
	if _, err := ParseTable(strings.NewReader("<html><body><p>nothing</p></body></html>")); err == nil {
		t.Error("ParseTable() should fail without a table")
	}
}

func TestTickers(t *testing.T) {
	rows, err := ParseTable(strings.NewReader(pageFixture))
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	got := Tickers(rows)
	// S68 and S68.SI collapse to one ticker, page order is preserved.
	want := []string{"S68", "BEC"}
	if len(got) != len(want) {
		t.Fatalf("Tickers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tickers()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUpcomingTable(t *testing.T) {
	rows, err := ParseTable(strings.NewReader(pageFixture))
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	upcoming, companies := UpcomingTable(rows)

	s68, ok := upcoming["S68"]
	if !ok {
		t.Fatal("upcoming misses S68")
	}
	// The first row for a ticker wins over the duplicate S68.SI row.
	if s68.Date != sgxdividends.NewDate(2025, 10, 16) {
		t.Errorf("S68 date = %v, want the first row's 2025-10-16", s68.Date)
	}
	if s68.YieldLabel != "0.60%" || s68.AmountLabel != "SGD 0.105" {
		t.Errorf("S68 labels = %q, %q", s68.YieldLabel, s68.AmountLabel)
	}
	if companies["S68"] != "Singapore Exchange" {
		t.Errorf("company = %q", companies["S68"])
	}

	if bec, ok := upcoming["BEC"]; !ok || bec.Date != sgxdividends.NewDate(2025, 10, 22) {
		t.Errorf("BEC = %+v, %v", bec, ok)
	}
}

func TestFetchUpcoming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pageFixture)
	}))
	defer server.Close()

	rows, err := NewWithBase(server.URL).FetchUpcoming()
	if err != nil {
		t.Fatalf("FetchUpcoming() error = %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want 3", len(rows))
	}
}
