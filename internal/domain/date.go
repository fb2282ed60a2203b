package domain

import "time"

// Day truncates a timestamp to its calendar day in UTC.
// All engine date comparisons operate on calendar days, never clock times.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// OnOrBefore reports whether t falls on the same calendar day as limit or earlier.
func OnOrBefore(t, limit time.Time) bool {
	return !Day(t).After(Day(limit))
}

// InRange reports whether t falls within [start, end], inclusive on both ends.
func InRange(t, start, end time.Time) bool {
	d := Day(t)
	return !d.Before(Day(start)) && !d.After(Day(end))
}

// DaysBetween returns the number of calendar days from a to b (b - a).
// Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// IsBusinessDay reports whether t is a weekday (Monday through Friday).
// Exchange holidays are not modeled; QC treats every weekday as a pricing day.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// IsMonthEnd reports whether t is the last calendar day of its month.
func IsMonthEnd(t time.Time) bool {
	return Day(t).AddDate(0, 0, 1).Day() == 1
}

// IsQuarterEnd reports whether t is the last calendar day of a quarter.
func IsQuarterEnd(t time.Time) bool {
	if !IsMonthEnd(t) {
		return false
	}
	switch t.Month() {
	case time.March, time.June, time.September, time.December:
		return true
	}
	return false
}

// IsYearEnd reports whether t is December 31.
func IsYearEnd(t time.Time) bool {
	return t.Month() == time.December && t.Day() == 31
}
