package period

import (
	"time"

	"github.com/shopspring/decimal"
)

// Window is an inclusive [From, To] time range. All windows are computed in
// the server's local timezone; no timezone parameter is accepted.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// StartOfDay returns midnight of the day containing now.
func StartOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StartOfYear returns midnight of January 1st of the year containing now.
func StartOfYear(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}

// CurrentMonth returns [first day of the month 00:00, last instant of the
// month] for the month containing now.
func CurrentMonth(now time.Time) Window {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{From: from, To: from.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

// LastMonth returns the window immediately preceding CurrentMonth(now).
func LastMonth(now time.Time) Window {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{From: first.AddDate(0, -1, 0), To: first.Add(-time.Nanosecond)}
}

// TrailingDays returns [now - n days, now]. Recomputed per request, never
// cached.
func TrailingDays(now time.Time, n int) Window {
	return Window{From: now.AddDate(0, 0, -n), To: now}
}

// PercentChange computes (current - previous) / previous * 100. A zero
// previous value has no meaningful baseline, so the result is the zero
// sentinel with ok=false instead of a non-finite number.
func PercentChange(current, previous decimal.Decimal) (decimal.Decimal, bool) {
	if previous.IsZero() {
		return decimal.Zero, false
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)), true
}

// WinRate computes wins / (wins + losses) * 100, returning 0 when there are
// no decided trades at all.
func WinRate(wins, losses int64) float64 {
	total := wins + losses
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}
