package sgxdividends

import (
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }

func TestBuildPriceSeries(t *testing.T) {
	day := func(d Date) int64 { return d.time().Unix() }

	samples := []PriceSample{
		{Unix: day(NewDate(2025, 10, 16)), Price: fp(17.50)},
		{Unix: day(NewDate(2025, 10, 15)), Price: fp(17.40)},
		{Unix: day(NewDate(2025, 10, 17)), Price: nil},          // non-trading row
		{Unix: day(NewDate(2025, 10, 20)), Price: fp(-1)},       // negative
		{Unix: day(NewDate(2025, 10, 21)), Price: fp(math.NaN())},
		{Unix: day(NewDate(2025, 10, 16)) + 6*3600, Price: fp(17.55)}, // same day, later sample wins
	}

	s := BuildPriceSeries(samples)
	if got, want := s.Len(), 2; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if p, ok := s.Get(NewDate(2025, 10, 16)); !ok || p != 17.55 {
		t.Errorf("Get(2025-10-16) = %v, %v, want 17.55, true", p, ok)
	}
	if p, ok := s.Get(NewDate(2025, 10, 15)); !ok || p != 17.40 {
		t.Errorf("Get(2025-10-15) = %v, %v, want 17.40, true", p, ok)
	}
	if _, ok := s.Get(NewDate(2025, 10, 17)); ok {
		t.Error("Get(2025-10-17) should be absent")
	}
}

func TestPriceSeries_AppendKeepsOrder(t *testing.T) {
	s := new(PriceSeries)
	s.Append(NewDate(2025, 10, 16), 2)
	s.Append(NewDate(2025, 10, 14), 1)
	s.Append(NewDate(2025, 10, 20), 3)

	var days []Date
	for on := range s.Values() {
		days = append(days, on)
	}
	for i := 1; i < len(days); i++ {
		if !days[i-1].Before(days[i]) {
			t.Fatalf("series out of order: %v before %v", days[i-1], days[i])
		}
	}
}

func TestPriceSeries_AppendOverwrites(t *testing.T) {
	s := new(PriceSeries)
	s.Append(NewDate(2025, 10, 16), 2)
	s.Append(NewDate(2025, 10, 16), 3)

	if got := s.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if p, _ := s.Get(NewDate(2025, 10, 16)); p != 3 {
		t.Errorf("Get() = %v, want 3 (last write wins)", p)
	}
}
