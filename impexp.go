package sgxdividends

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// This file contains functions to handle the import/export formats: the
// human-readable master CSV, the dashboard summary CSV, and the machine-keyed
// JSONL export. Every format can be read back as merge fragments, which is
// how prior exports participate in a consolidation run.

// CSVHeader returns the master CSV column set, in order.
func CSVHeader() []string {
	header := []string{
		"Ticker",
		"Company Name",
		"Ex-Dividend Date",
		"Dividend Amount",
		"Upcoming Ex-Date",
		"Upcoming Dividend Pay Date",
		"Upcoming Dividend Yield",
		"Upcoming Dividend Amount",
		"Ex-Date Price",
	}
	for k := WindowBackward; k >= 1; k-- {
		header = append(header, fmt.Sprintf("Price D-%d", k))
	}
	for k := 1; k <= WindowForward; k++ {
		header = append(header, fmt.Sprintf("Price D+%d", k))
	}
	return header
}

// ExportCSV writes the master CSV: one row per dividend event, most recent
// first, or a single mostly-empty row for tickers without events so the
// upcoming summary still shows.
func ExportCSV(w io.Writer, records []*TickerRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader()); err != nil {
		return fmt.Errorf("cannot write master CSV header: %w", err)
	}

	for _, rec := range records {
		var upDate, upPayDate, upYield, upAmount string
		if up := rec.Upcoming; up != nil {
			if !up.Date.IsZero() {
				upDate = up.Date.String()
			}
			if !up.PayDate.IsZero() {
				upPayDate = up.PayDate.String()
			}
			upYield = up.YieldLabel
			upAmount = up.AmountLabel
		}

		events := make([]DividendEvent, len(rec.Events))
		copy(events, rec.Events)
		SortEventsDescending(events)

		if len(events) == 0 {
			row := []string{rec.Ticker, rec.CompanyName, "", "", upDate, upPayDate, upYield, upAmount, ""}
			for k := 0; k < WindowBackward+WindowForward; k++ {
				row = append(row, "")
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("cannot write master CSV row for %s: %w", rec.Ticker, err)
			}
			continue
		}

		for _, ev := range events {
			payDate := upPayDate
			if !ev.PayDate.IsZero() {
				payDate = ev.PayDate.String()
			}
			row := []string{
				rec.Ticker,
				rec.CompanyName,
				ev.ExDate.String(),
				FormatAmountLabel(ev.Amount),
				upDate,
				payDate,
				upYield,
				upAmount,
				FormatPrice(ev.Window.Anchor()),
			}
			for k := WindowBackward; k >= 1; k-- {
				row = append(row, FormatPrice(ev.Window.At(-k)))
			}
			for k := 1; k <= WindowForward; k++ {
				row = append(row, FormatPrice(ev.Window.At(k)))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("cannot write master CSV row for %s: %w", rec.Ticker, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportDashboardCSV writes the per-ticker upcoming summary.
func ExportDashboardCSV(w io.Writer, records []*TickerRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"Ticker", "Company Name", "Upcoming Dividend Ex Date", "Dividend Payment Date", "Dividend Yield", "Dividend Amount"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("cannot write dashboard CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{rec.Ticker, rec.CompanyName, "", "", "", ""}
		if up := rec.Upcoming; up != nil {
			if !up.Date.IsZero() {
				row[2] = up.Date.String()
			}
			if !up.PayDate.IsZero() {
				row[3] = up.PayDate.String()
			}
			row[4] = up.YieldLabel
			row[5] = up.AmountLabel
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cannot write dashboard CSV row for %s: %w", rec.Ticker, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSVRows reads any of the CSV artifacts back as header-normalized
// rows.
func ImportCSVRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse CSV source: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	header := all[0]
	rows := make([]Row, 0, len(all)-1)
	for _, values := range all[1:] {
		rows = append(rows, NewRow(header, values))
	}
	return rows, nil
}

// ExportJSONL writes the machine-keyed export: one JSON object per dividend
// event per line, field names in snake_case.
func ExportJSONL(w io.Writer, records []*TickerRecord) error {
	for _, rec := range records {
		events := make([]DividendEvent, len(rec.Events))
		copy(events, rec.Events)
		SortEventsDescending(events)

		for _, ev := range events {
			var jw jsonObjectWriter
			jw.Append("ticker", rec.Ticker)
			jw.Append("company_name", rec.CompanyName)
			jw.Append("ex_dividend_date", ev.ExDate)
			jw.Append("dividend_amount", FormatAmountLabel(ev.Amount))
			jw.Append("ex_dividend_price", FormatPrice(ev.Window.Anchor()))
			for k := WindowBackward; k >= 1; k-- {
				jw.Append(fmt.Sprintf("price_d_minus_%d", k), FormatPrice(ev.Window.At(-k)))
			}
			for k := 1; k <= WindowForward; k++ {
				jw.Append(fmt.Sprintf("price_d_plus_%d", k), FormatPrice(ev.Window.At(k)))
			}
			if up := rec.Upcoming; up != nil {
				if !up.Date.IsZero() {
					jw.Append("upcoming_ex_date", up.Date)
				}
				if !up.PayDate.IsZero() {
					jw.Append("upcoming_pay_date", up.PayDate)
				}
				jw.Optional("upcoming_yield", up.YieldLabel)
				jw.Optional("upcoming_amount", up.AmountLabel)
			}
			data, err := jw.MarshalJSON()
			if err != nil {
				return fmt.Errorf("cannot marshal export row for %s: %w", rec.Ticker, err)
			}
			if _, err := w.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("cannot write export row: %w", err)
			}
		}
	}
	return nil
}

// ImportJSONLRows reads a machine-keyed export (or any line-oriented JSON
// object stream) back as rows.
func ImportJSONLRows(r io.Reader) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		record := make(map[string]string)
		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("cannot parse export line %q: %w", line, err)
		}
		for k, v := range raw {
			switch t := v.(type) {
			case nil:
				record[k] = ""
			case string:
				record[k] = t
			case json.Number:
				record[k] = t.String()
			default:
				record[k] = fmt.Sprintf("%v", t)
			}
		}
		rows = append(rows, RowFromMap(record))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read export stream: %w", err)
	}
	return rows, nil
}

// EventFromRow rebuilds a dividend event from a tabular row, when the row
// carries one.
func EventFromRow(row Row) (DividendEvent, bool) {
	exDateText, ok := row.Get("Ex-Dividend Date", "ex_dividend_date")
	if !ok || exDateText == "" {
		return DividendEvent{}, false
	}
	exDate, err := ParseDate(exDateText)
	if err != nil {
		return DividendEvent{}, false
	}

	ev := DividendEvent{ExDate: exDate, Window: make(PriceWindow)}
	if amount, ok := ParseAmountLabel(row.Value("Dividend Amount", "dividend_amount")); ok {
		ev.Amount = amount
	}
	if price, ok := parseRowPrice(row, "Ex-Date Price", "ex_dividend_price"); ok {
		ev.Window[0] = price
	}
	for k := 1; k <= WindowBackward; k++ {
		if price, ok := parseRowPrice(row, fmt.Sprintf("Price D-%d", k), fmt.Sprintf("price_d_minus_%d", k)); ok {
			ev.Window[-k] = price
		}
	}
	for k := 1; k <= WindowForward; k++ {
		if price, ok := parseRowPrice(row, fmt.Sprintf("Price D+%d", k), fmt.Sprintf("price_d_plus_%d", k)); ok {
			ev.Window[k] = price
		}
	}
	if anchor, ok := ev.Window.Anchor(); ok && anchor > 0 && ev.Amount.IsPositive() {
		ev.YieldValue = ev.Amount.Div(decimal.NewFromFloat(anchor)).Mul(decimal.NewFromInt(100))
		ev.YieldLabel = FormatYieldLabel(ev.YieldValue)
	}
	return ev, true
}

// UpcomingFromRow rebuilds the upcoming summary carried by a row, if any.
func UpcomingFromRow(row Row) (UpcomingInfo, bool) {
	var up UpcomingInfo
	if text := row.Value("Upcoming Ex-Date", "Upcoming Dividend Ex Date", "upcoming_ex_date"); text != "" {
		if d, err := ParseDate(text); err == nil {
			up.Date = d
		}
	}
	if text := row.Value("Upcoming Dividend Pay Date", "dividend payment date", "upcoming_pay_date"); text != "" {
		if d, err := ParseDate(text); err == nil {
			up.PayDate = d
		}
	}
	if label := row.Value("Upcoming Dividend Yield", "dividend yield", "upcoming_yield"); label != "" {
		up.YieldLabel = label
		if v, ok := ParsePercentLabel(label); ok {
			up.YieldValue = v
		}
	}
	if label := row.Value("Upcoming Dividend Amount", "dividend amount", "upcoming_amount"); label != "" {
		up.AmountLabel = label
		if v, ok := ParseAmountLabel(label); ok {
			up.AmountValue = v
		}
	}
	return up, !up.IsZero()
}

// FragmentFromRow converts one tabular row into a merge fragment.
func FragmentFromRow(row Row) (ticker string, fragment Fragment, ok bool) {
	ticker = row.Value("Ticker")
	if ticker == "" {
		return "", Fragment{}, false
	}
	fragment.CompanyName = row.Value("Company Name", "company_name")
	if ev, ok := EventFromRow(row); ok {
		fragment.Events = append(fragment.Events, ev)
	}
	if up, ok := UpcomingFromRow(row); ok {
		fragment.Upcoming = &up
	}
	return ticker, fragment, true
}

func parseRowPrice(row Row, names ...string) (float64, bool) {
	text := row.Value(names...)
	if text == "" {
		return 0, false
	}
	d, ok := ParseAmountLabel(text)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}
