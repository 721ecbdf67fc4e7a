package analytics

import "sort"

// slowestLimit caps the ranked slowest-test list.
const slowestLimit = 10

// DurationAnalytics computes duration statistics, in seconds, over every
// test item with a positive duration. Items without duration data are
// excluded; if none remain, the zero value is returned.
func (e *Engine) DurationAnalytics() DurationAnalytics {
	var durations []float64
	byTest := make(map[string][]float64)

	for _, launchID := range e.orderedLaunchIDs() {
		for _, item := range e.itemsByLaunch[launchID] {
			if item.Duration <= 0 {
				continue
			}
			secs := float64(item.Duration) / 1000
			durations = append(durations, secs)
			byTest[item.Name] = append(byTest[item.Name], secs)
		}
	}
	if len(durations) == 0 {
		return DurationAnalytics{}
	}

	min, max := durations[0], durations[0]
	for _, d := range durations[1:] {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}

	slowest := make([]SlowTest, 0, len(byTest))
	for name, ds := range byTest {
		slowest = append(slowest, SlowTest{TestName: name, AvgDuration: mean(ds)})
	}
	sort.Slice(slowest, func(i, j int) bool {
		if slowest[i].AvgDuration != slowest[j].AvgDuration {
			return slowest[i].AvgDuration > slowest[j].AvgDuration
		}
		return slowest[i].TestName < slowest[j].TestName
	})
	if len(slowest) > slowestLimit {
		slowest = slowest[:slowestLimit]
	}

	return DurationAnalytics{
		AvgTestDuration:        mean(durations),
		MedianTestDuration:     median(durations),
		MinTestDuration:        min,
		MaxTestDuration:        max,
		DurationStd:            sampleStdDev(durations),
		TotalTestsWithDuration: len(durations),
		SlowestTests:           slowest,
	}
}
