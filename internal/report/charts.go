package report

import (
	"sort"
	"time"

	"echobot/internal/analytics"
)

// TimePoint is one sample of a time series.
type TimePoint struct {
	Time  time.Time
	Value float64
}

// Slice is one labeled value of a breakdown (pie/bar chart input).
type Slice struct {
	Label string
	Value int
}

// PassRateSeries returns launch pass rates ordered by start time.
// Launches without a start time or without decisive outcomes are skipped.
func PassRateSeries(launches []analytics.Launch) []TimePoint {
	var series []TimePoint
	for _, l := range launches {
		if l.StartTime == nil {
			continue
		}
		decisive := l.Passed + l.Failed
		if decisive == 0 {
			continue
		}
		series = append(series, TimePoint{
			Time:  *l.StartTime,
			Value: float64(l.Passed) / float64(decisive) * 100,
		})
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Time.Before(series[j].Time)
	})
	return series
}

// CategoryBreakdown turns a category count map into slices, dropping zero
// counts. Ordered by count descending, label ascending.
func CategoryBreakdown(categories map[string]int) []Slice {
	var slices []Slice
	for label, count := range categories {
		if count > 0 {
			slices = append(slices, Slice{Label: label, Value: count})
		}
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Label < slices[j].Label
	})
	return slices
}

// CoverageByAttribute sums launch test totals per value of the given
// attribute key (e.g. "ocpImage"). Launches without the attribute count
// under "Unknown". Ordered by total descending, label ascending.
func CoverageByAttribute(launches []analytics.Launch, key string) []Slice {
	totals := map[string]int{}
	for _, l := range launches {
		label := "Unknown"
		for _, a := range l.Attributes {
			if a.Key == key {
				label = a.Value
				break
			}
		}
		totals[label] += l.Total
	}

	slices := make([]Slice, 0, len(totals))
	for label, total := range totals {
		slices = append(slices, Slice{Label: label, Value: total})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Label < slices[j].Label
	})
	return slices
}
