package sgxdividends

// This file implements the price window alignment around a dividend ex-date.
//
// Ex-dates frequently fall on non-trading days (weekends, SGX holidays).
// A strict exact-date lookup would silently drop most events, so every
// offset is resolved through the same bounded nearest-date fallback,
// independently, not by shifting the whole window.

// DefaultMaxLookback bounds the nearest-date walk in both directions.
const DefaultMaxLookback = 7

// Window offsets: 10 calendar days back, 30 forward.
const (
	WindowBackward = 10
	WindowForward  = 30
)

// FillPolicy selects how offsets without a directly resolvable price are
// treated after the per-offset resolution.
type FillPolicy int

const (
	// FillNone leaves unresolved offsets absent.
	FillNone FillPolicy = iota
	// FillCarry carries the nearest previously resolved price outward from
	// offset 0 in each direction ("last known value" fill). It is applied
	// strictly after the direct per-offset resolution.
	FillCarry
)

// WindowConfig parametrizes BuildWindow. The zero value is usable and maps
// to the default -10..+30 window with a 7 day lookback and no fill.
type WindowConfig struct {
	Backward    int // number of negative offsets, default WindowBackward
	Forward     int // number of positive offsets, default WindowForward
	MaxLookback int // nearest-date walk bound, default DefaultMaxLookback
	Fill        FillPolicy
}

func (c WindowConfig) backward() int {
	if c.Backward == 0 {
		return WindowBackward
	}
	return c.Backward
}

func (c WindowConfig) forward() int {
	if c.Forward == 0 {
		return WindowForward
	}
	return c.Forward
}

func (c WindowConfig) maxLookback() int {
	if c.MaxLookback == 0 {
		return DefaultMaxLookback
	}
	return c.MaxLookback
}

// PriceWindow maps a day offset relative to an event date to the nearest
// available trading-day price. Offsets with no resolvable price are absent
// from the map.
type PriceWindow map[int]float64

// At returns the price at the given offset and true, or zero and false.
func (w PriceWindow) At(offset int) (float64, bool) {
	p, ok := w[offset]
	return p, ok
}

// Anchor returns the ex-date price (offset 0) and true, or zero and false.
func (w PriceWindow) Anchor() (float64, bool) { return w.At(0) }

// PriceOnOrBefore walks backward one calendar day at a time from 'on',
// including 'on' itself, up to maxLookback steps, and returns the first
// price present in the series. It never returns a price dated after 'on'.
func PriceOnOrBefore(s *PriceSeries, on Date, maxLookback int) (float64, bool) {
	current := on
	for i := 0; i <= maxLookback; i++ {
		if p, ok := s.Get(current); ok {
			return p, true
		}
		current = current.Add(-1)
	}
	return 0, false
}

// PriceOnOrAfter is the symmetric forward walk.
func PriceOnOrAfter(s *PriceSeries, on Date, maxLookahead int) (float64, bool) {
	current := on
	for i := 0; i <= maxLookahead; i++ {
		if p, ok := s.Get(current); ok {
			return p, true
		}
		current = current.Add(1)
	}
	return 0, false
}

// BuildWindow computes the fixed-width price window around eventDate.
//
// Offset 0 anchors on the last trade at or before the ex-date. Negative
// offset -k resolves on-or-before eventDate-k, positive offset +k resolves
// on-or-after eventDate+k, each within the same lookback bound.
func BuildWindow(s *PriceSeries, eventDate Date, cfg WindowConfig) PriceWindow {
	w := make(PriceWindow, cfg.backward()+cfg.forward()+1)

	if p, ok := PriceOnOrBefore(s, eventDate, cfg.maxLookback()); ok {
		w[0] = p
	}
	for k := 1; k <= cfg.backward(); k++ {
		if p, ok := PriceOnOrBefore(s, eventDate.Add(-k), cfg.maxLookback()); ok {
			w[-k] = p
		}
	}
	for k := 1; k <= cfg.forward(); k++ {
		if p, ok := PriceOnOrAfter(s, eventDate.Add(k), cfg.maxLookback()); ok {
			w[k] = p
		}
	}

	if cfg.Fill == FillCarry {
		carryFill(w, cfg.backward(), cfg.forward())
	}
	return w
}

// carryFill fills gaps with the nearest previously resolved price, walking
// from offset 0 outward in each direction. Nothing is filled before a first
// resolved price exists in that direction (or at the anchor).
func carryFill(w PriceWindow, backward, forward int) {
	last, have := w.Anchor()
	for k := 1; k <= backward; k++ {
		if p, ok := w[-k]; ok {
			last, have = p, true
		} else if have {
			w[-k] = last
		}
	}
	last, have = w.Anchor()
	for k := 1; k <= forward; k++ {
		if p, ok := w[k]; ok {
			last, have = p, true
		} else if have {
			w[k] = last
		}
	}
}
