package sgxdividends

import (
	"iter"
	"math"
	"slices"
	"sort"
)

// PriceSample is one raw observation from a provider feed: an epoch timestamp
// and a closing (or adjusted closing) price. Price is nil on non-trading days,
// some feeds emit those rows anyway.
type PriceSample struct {
	Unix  int64
	Price *float64
}

// PriceSeries stores a chronological series of daily closing prices.
// It ensures that dates are unique and the series is always sorted.
type PriceSeries struct {
	days   []Date
	prices []float64
}

// BuildPriceSeries folds raw samples into a PriceSeries.
//
// Samples with an absent, negative or non-finite price are dropped. Timestamps
// are collapsed to their UTC calendar day; when two samples land on the same
// day the later one in the input wins. The result is sorted ascending.
// An empty input yields an empty series.
func BuildPriceSeries(samples []PriceSample) *PriceSeries {
	s := new(PriceSeries)
	for _, sample := range samples {
		if sample.Price == nil {
			continue
		}
		p := *sample.Price
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			continue
		}
		s.Append(DateOfUnix(sample.Unix), p)
	}
	return s
}

// Len returns the number of points in the series.
func (s *PriceSeries) Len() int { return len(s.days) }

// chronological is a private implementation to keep the series sorted by day.
type chronological struct{ *PriceSeries }

func (c chronological) Less(i, j int) bool { return c.days[i].Before(c.days[j]) }
func (c chronological) Swap(i, j int) {
	c.days[i], c.days[j] = c.days[j], c.days[i]
	c.prices[i], c.prices[j] = c.prices[j], c.prices[i]
}

func (s *PriceSeries) sort() { sort.Sort(chronological{s}) }

// Append adds a point to the series.
//
// An existing value at that date is overwritten: the last write has priority.
func (s *PriceSeries) Append(on Date, price float64) *PriceSeries {
	if i := slices.Index(s.days, on); i >= 0 {
		s.prices[i] = price
		return s
	}
	s.days, s.prices = append(s.days, on), append(s.prices, price)
	s.sort()
	return s
}

// Get returns the price at 'day' and true, or zero and false.
func (s *PriceSeries) Get(day Date) (float64, bool) {
	i := slices.Index(s.days, day)
	if i >= 0 {
		return s.prices[i], true
	}
	return 0, false
}

// Values returns an iterator over all date/price pairs in chronological order.
func (s *PriceSeries) Values() iter.Seq2[Date, float64] {
	return func(yield func(Date, float64) bool) {
		for i, on := range s.days {
			if !yield(on, s.prices[i]) {
				return
			}
		}
	}
}
