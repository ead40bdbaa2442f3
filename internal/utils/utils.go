package utils

import (
	"math"
	"strings"
	"time"
)

// DefaultAmountPerPoint is the spend that earns one loyalty point when no
// configuration is supplied
const DefaultAmountPerPoint = 10.0

// CalculatePoints calculates base loyalty points for an order total.
// One point is earned per full amountPerPoint spent.
func CalculatePoints(amount, amountPerPoint float64) int {
	if amount <= 0 {
		return 0
	}
	if amountPerPoint <= 0 {
		amountPerPoint = DefaultAmountPerPoint
	}
	return int(math.Floor(amount / amountPerPoint))
}

// ISOWeekday returns the day of the week with Monday=1 .. Sunday=7
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// MinuteOfDay returns minutes elapsed since midnight of t's wall clock
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseClock parses an HH:MM wall-clock value into minutes since midnight
func ParseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return MinuteOfDay(t), true
}

// SameMonthDay reports whether a and b fall on the same calendar month and day
func SameMonthDay(a, b time.Time) bool {
	return a.Month() == b.Month() && a.Day() == b.Day()
}

// Dedupe returns values with duplicates and empty strings removed, keeping first-seen order
func Dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
