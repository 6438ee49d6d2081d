package yahoo

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/seetoh/sgxdividends"
)

// This file contains functions to access the Yahoo Finance API.

// chartResponse is the subset of the v8 chart payload this package reads.
//
//	{
//	  "chart": {
//	    "result": [{
//	      "timestamp": [1577923200, ...],
//	      "indicators": {
//	        "quote":    [{"close": [3.21, null, ...]}],
//	        "adjclose": [{"adjclose": [3.19, null, ...]}]
//	      },
//	      "events": {
//	        "dividends": {"1592179200": {"amount": 0.105, "date": 1592179200}}
//	      }
//	    }],
//	    "error": null
//	  }
//	}
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		Adjclose []struct {
			Adjclose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
	Events struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
	} `json:"events"`
	Meta struct {
		Currency string `json:"currency"`
	} `json:"meta"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (c *Client) fetchChart(symbol string, rangeYears int) (*chartResult, error) {
	addr := fmt.Sprintf("/v8/finance/chart/%s?range=%dy&interval=1d&events=div&includeAdjustedClose=true",
		url.PathEscape(symbol), rangeYears)

	var payload chartResponse
	if err := c.getJSON(addr, &payload, false); err != nil {
		return nil, err
	}
	if e := payload.Chart.Error; e != nil {
		return nil, fmt.Errorf("chart error for %s: %s %s", symbol, e.Code, e.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart for %s has no result", symbol)
	}
	return &payload.Chart.Result[0], nil
}

// FetchDailySeries returns the raw daily closing prices for symbol over the
// last rangeYears years. Adjusted closes are preferred when present, so
// dividends and splits do not distort the window alignment.
func (c *Client) FetchDailySeries(symbol string, rangeYears int) ([]sgxdividends.PriceSample, error) {
	result, err := c.fetchChart(symbol, rangeYears)
	if err != nil {
		return nil, err
	}

	var closes []*float64
	if len(result.Indicators.Adjclose) > 0 && len(result.Indicators.Adjclose[0].Adjclose) == len(result.Timestamp) {
		closes = result.Indicators.Adjclose[0].Adjclose
	} else if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("chart for %s has %d timestamps but %d closes", symbol, len(result.Timestamp), len(closes))
	}

	samples := make([]sgxdividends.PriceSample, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		samples = append(samples, sgxdividends.PriceSample{Unix: ts, Price: closes[i]})
	}
	return samples, nil
}

// FetchDividendEvents returns the raw dividend records embedded in symbol's
// chart. The chart response is cached per day, so this does not cost a
// second network round trip after FetchDailySeries.
func (c *Client) FetchDividendEvents(symbol string) ([]sgxdividends.RawDividend, error) {
	result, err := c.fetchChart(symbol, 10)
	if err != nil {
		return nil, err
	}

	raws := make([]sgxdividends.RawDividend, 0, len(result.Events.Dividends))
	for _, d := range result.Events.Dividends {
		raws = append(raws, sgxdividends.RawDividend{
			Unix:     d.Date,
			Amount:   d.Amount,
			Currency: result.Meta.Currency,
		})
	}
	return raws, nil
}

// searchResponse is the subset of the v1 search payload this package reads.
type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		Shortname string `json:"shortname"`
		Longname  string `json:"longname"`
	} `json:"quotes"`
}

// ResolveSymbol maps a bare SGX ticker to its exchange-suffixed Yahoo symbol
// and company name, preferring an exact symbol match over a fuzzy one.
func (c *Client) ResolveSymbol(ticker string) (companyName, symbol string, err error) {
	for _, candidate := range sgxdividends.SymbolCandidates(ticker) {
		addr := fmt.Sprintf("/v1/finance/search?q=%s&quotesCount=5&newsCount=0", url.QueryEscape(candidate))

		var payload searchResponse
		if err := c.getJSON(addr, &payload, false); err != nil {
			return "", "", err
		}

		for _, q := range payload.Quotes {
			if strings.EqualFold(q.Symbol, candidate) {
				return quoteName(q.Longname, q.Shortname), strings.ToUpper(q.Symbol), nil
			}
		}
		// No exact hit: accept the first SGX-listed quote for this query.
		for _, q := range payload.Quotes {
			if strings.HasSuffix(strings.ToUpper(q.Symbol), ".SI") {
				return quoteName(q.Longname, q.Shortname), strings.ToUpper(q.Symbol), nil
			}
		}
	}
	return "", "", fmt.Errorf("no yahoo symbol found for %s", ticker)
}

func quoteName(longname, shortname string) string {
	if longname != "" {
		return longname
	}
	return shortname
}

// FetchUpcomingExDate asks the quoteSummary calendar for symbol's next
// announced ex-dividend date. Returns false without error when the calendar
// has none. This is the only endpoint that needs the crumb.
func (c *Client) FetchUpcomingExDate(symbol string) (sgxdividends.Date, bool, error) {
	addr := fmt.Sprintf("/v10/finance/quoteSummary/%s?modules=calendarEvents", url.PathEscape(symbol))

	var payload any
	if err := c.getJSON(addr, &payload, true); err != nil {
		return sgxdividends.Date{}, false, err
	}

	path := "$.quoteSummary.result[0].calendarEvents.exDividendDate.raw"
	jval, err := jsonpath.Get(path, payload)
	if err != nil {
		// Path absent: the calendar simply has nothing announced.
		return sgxdividends.Date{}, false, nil
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	sec, ok := jval.(float64)
	if !ok || sec <= 0 {
		return sgxdividends.Date{}, false, nil
	}
	return sgxdividends.DateOfUnix(int64(sec)), true, nil
}

// The Client satisfies the collection provider contract.
var _ sgxdividends.Provider = (*Client)(nil)
