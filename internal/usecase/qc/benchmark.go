package qc

import (
	"fmt"
	"sort"
	"time"

	"github.com/harborpoint/reporting-backend/internal/domain"
	"github.com/harborpoint/reporting-backend/internal/usecase/twr"
)

const checkBenchmarkDates = "benchmark_dates"

// benchmarkFailRatio is the missing-date share beyond which the check fails.
const benchmarkFailRatio = 0.10

// BenchmarkDatesData is the diagnostic payload of the benchmark alignment
// check. Extra dates are benchmark days with no portfolio return; they are
// reported but never block.
type BenchmarkDatesData struct {
	ReturnDates  int
	MissingDates []time.Time
	ExtraDates   []time.Time
	MissingRatio float64
}

// ValidateBenchmarkDates compares portfolio return dates with benchmark
// price dates. More than 10% of return dates missing a benchmark fails the
// check; any missing warns.
func ValidateBenchmarkDates(returns []twr.DailyReturn, benchmark []domain.Price) CheckResult {
	returnDates := make(map[string]time.Time)
	for _, r := range returns {
		d := domain.Day(r.Date)
		returnDates[d.Format(time.DateOnly)] = d
	}
	benchmarkDates := make(map[string]time.Time)
	for _, p := range benchmark {
		d := domain.Day(p.Date)
		benchmarkDates[d.Format(time.DateOnly)] = d
	}

	data := BenchmarkDatesData{ReturnDates: len(returnDates)}
	for key, d := range returnDates {
		if _, ok := benchmarkDates[key]; !ok {
			data.MissingDates = append(data.MissingDates, d)
		}
	}
	for key, d := range benchmarkDates {
		if _, ok := returnDates[key]; !ok {
			data.ExtraDates = append(data.ExtraDates, d)
		}
	}
	sortDates(data.MissingDates)
	sortDates(data.ExtraDates)

	if data.ReturnDates > 0 {
		data.MissingRatio = float64(len(data.MissingDates)) / float64(data.ReturnDates)
	}

	status := StatusPass
	var messages []string
	switch {
	case data.MissingRatio > benchmarkFailRatio:
		status = StatusFail
		messages = append(messages, fmt.Sprintf("%d of %d return dates missing benchmark data", len(data.MissingDates), data.ReturnDates))
	case len(data.MissingDates) > 0:
		status = StatusWarn
		messages = append(messages, fmt.Sprintf("%d return dates missing benchmark data", len(data.MissingDates)))
	default:
		messages = append(messages, "benchmark dates aligned")
	}
	if len(data.ExtraDates) > 0 {
		messages = append(messages, fmt.Sprintf("%d benchmark dates without portfolio returns", len(data.ExtraDates)))
	}

	return CheckResult{
		Check:    checkBenchmarkDates,
		Status:   status,
		Messages: messages,
		Data:     data,
	}
}

func sortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}
