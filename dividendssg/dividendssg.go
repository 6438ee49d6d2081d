// Package dividendssg scrapes the dividends.sg announcement table, the
// community-maintained list of upcoming SGX dividends.
package dividendssg

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/seetoh/sgxdividends"
)

const defaultBaseURL = "https://www.dividends.sg"

// Client fetches and parses the announcement page.
type Client struct {
	http *resty.Client
	base string
}

// New returns a Client against the live site.
func New() *Client {
	return &Client{
		http: resty.New().SetTimeout(15 * time.Second),
		base: defaultBaseURL,
	}
}

// NewWithBase targets another host, for tests.
func NewWithBase(base string) *Client {
	return &Client{http: resty.New(), base: base}
}

// FetchUpcoming downloads the announcement page and returns its rows under
// canonical column names.
func (c *Client) FetchUpcoming() ([]sgxdividends.Row, error) {
	resp, err := c.http.R().Get(c.base + "/")
	if err != nil {
		return nil, fmt.Errorf("cannot fetch dividends.sg: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("cannot fetch dividends.sg: %s", resp.Status())
	}
	return ParseTable(bytes.NewReader(resp.Body()))
}

// canonicalColumns maps the header words the site has used over time to the
// canonical column names the rest of the pipeline looks up.
var canonicalColumns = []struct {
	keywords []string
	name     string
}{
	{[]string{"company", "name"}, "Company Name"},
	{[]string{"ticker", "code", "symbol"}, "Ticker"},
	{[]string{"ex"}, "Upcoming Dividend Ex Date"},
	{[]string{"pay"}, "Dividend Payment Date"},
	{[]string{"yield"}, "Dividend Yield"},
	{[]string{"amount", "dividend", "dps"}, "Dividend Amount"},
	{[]string{"price"}, "Price"},
}

func canonicalColumn(header string) string {
	lower := strings.ToLower(header)
	for _, col := range canonicalColumns {
		for _, kw := range col.keywords {
			if strings.Contains(lower, kw) {
				return col.name
			}
		}
	}
	return strings.TrimSpace(header)
}

// ParseTable extracts the first data table from the page HTML. Header names
// are canonicalized and obviously swapped date/amount cells are repaired,
// the site's markup is hand-edited and not always consistent.
func ParseTable(r io.Reader) ([]sgxdividends.Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot parse dividends.sg page: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("dividends.sg page has no table")
	}

	var header []string
	table.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		header = append(header, canonicalColumn(strings.TrimSpace(cell.Text())))
	})
	if len(header) == 0 {
		return nil, fmt.Errorf("dividends.sg table has no header row")
	}

	var rows []sgxdividends.Row
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		var values []string
		tr.Find("td").Each(func(_ int, cell *goquery.Selection) {
			values = append(values, strings.TrimSpace(cell.Text()))
		})
		if len(values) == 0 {
			return
		}
		repairSwappedCells(header, values)
		row := sgxdividends.NewRow(header, values)
		if row.Value("Ticker") == "" {
			return
		}
		rows = append(rows, row)
	})
	return rows, nil
}

// repairSwappedCells fixes rows where the ex-date and amount columns were
// entered the wrong way around: a date where the amount belongs and vice
// versa.
func repairSwappedCells(header, values []string) {
	dateCol, amountCol := -1, -1
	for i, h := range header {
		switch h {
		case "Upcoming Dividend Ex Date":
			dateCol = i
		case "Dividend Amount":
			amountCol = i
		}
	}
	if dateCol < 0 || amountCol < 0 || dateCol >= len(values) || amountCol >= len(values) {
		return
	}
	if looksLikeDate(values[dateCol]) || !looksLikeDate(values[amountCol]) {
		return
	}
	values[dateCol], values[amountCol] = values[amountCol], values[dateCol]
}

func looksLikeDate(s string) bool {
	_, err := sgxdividends.ParseDate(s)
	return err == nil
}

// Tickers returns the distinct tickers announced in rows, in page order.
func Tickers(rows []sgxdividends.Row) []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, row := range rows {
		key := sgxdividends.TickerKey(row.Value("Ticker"))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		tickers = append(tickers, key)
	}
	return tickers
}

// UpcomingTable converts the scraped rows into the per-ticker summary and
// company-name tables the merge registry backfills from. The first row for
// a ticker wins.
func UpcomingTable(rows []sgxdividends.Row) (upcoming map[string]sgxdividends.UpcomingInfo, companies map[string]string) {
	upcoming = make(map[string]sgxdividends.UpcomingInfo)
	companies = make(map[string]string)
	for _, row := range rows {
		key := sgxdividends.TickerKey(row.Value("Ticker"))
		if key == "" {
			continue
		}
		if _, exists := upcoming[key]; exists {
			continue
		}
		if info, ok := sgxdividends.UpcomingFromRow(row); ok {
			upcoming[key] = info
		}
		if name := row.Value("Company Name"); name != "" {
			companies[key] = name
		}
	}
	return upcoming, companies
}
