package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDay_TruncatesToUTCMidnight(t *testing.T) {
	ts := time.Date(2024, 3, 15, 16, 45, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), Day(ts))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 30, DaysBetween(a, b))
	assert.Equal(t, -30, DaysBetween(b, a))
}

func TestIsBusinessDay(t *testing.T) {
	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsBusinessDay(monday))
	assert.False(t, IsBusinessDay(saturday))
	assert.False(t, IsBusinessDay(sunday))
}

func TestCalendarBoundaries(t *testing.T) {
	assert.True(t, IsMonthEnd(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsMonthEnd(time.Date(2023, 2, 28, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -1)))

	assert.True(t, IsQuarterEnd(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsQuarterEnd(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)))

	assert.True(t, IsYearEnd(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsYearEnd(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)))
}
