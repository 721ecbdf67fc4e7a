package analytics

import "sort"

// DetectFlakyTests reports tests whose outcome varies across occurrences.
// A test qualifies when it appears at least minOccurrences times (every
// occurrence counts, not distinct launches), shows more than one distinct
// status, and has both a PASSED and a FAILED occurrence. Tests that only
// alternate between PASSED and SKIPPED are deliberately not reported.
//
// Results are sorted by FlakyScore descending, ties broken by test name
// ascending. A non-positive minOccurrences falls back to
// DefaultMinOccurrences.
func (e *Engine) DetectFlakyTests(minOccurrences int) []FlakyTest {
	if minOccurrences <= 0 {
		minOccurrences = DefaultMinOccurrences
	}

	// Occurrence order is pinned by orderedLaunchIDs; the flaky score
	// depends on adjacency, so this must be deterministic.
	statusesByTest := make(map[string][]string)
	for _, launchID := range e.orderedLaunchIDs() {
		for _, item := range e.itemsByLaunch[launchID] {
			if item.Name == "" || item.Status == "" {
				continue
			}
			statusesByTest[item.Name] = append(statusesByTest[item.Name], item.Status)
		}
	}

	var flaky []FlakyTest
	for name, statuses := range statusesByTest {
		if len(statuses) < minOccurrences {
			continue
		}
		dist := make(map[string]int, 3)
		for _, s := range statuses {
			dist[s]++
		}
		if len(dist) < 2 || dist[StatusPassed] == 0 || dist[StatusFailed] == 0 {
			continue
		}

		switches := 0
		for i := 1; i < len(statuses); i++ {
			if statuses[i] != statuses[i-1] {
				switches++
			}
		}
		score := 0.0
		if len(statuses) > 1 {
			score = float64(switches) / float64(len(statuses)-1) * 100
		}

		flaky = append(flaky, FlakyTest{
			TestName:           name,
			TotalRuns:          len(statuses),
			Passed:             dist[StatusPassed],
			Failed:             dist[StatusFailed],
			Skipped:            dist[StatusSkipped],
			FlakyScore:         score,
			StatusDistribution: dist,
		})
	}

	sort.Slice(flaky, func(i, j int) bool {
		if flaky[i].FlakyScore != flaky[j].FlakyScore {
			return flaky[i].FlakyScore > flaky[j].FlakyScore
		}
		return flaky[i].TestName < flaky[j].TestName
	})
	return flaky
}
