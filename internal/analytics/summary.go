package analytics

import "fmt"

// Penalty caps applied by the quality score.
const (
	maxFlakyPenalty     = 20
	maxPatternPenalty   = 15
	maxStabilityPenalty = 10
)

// topFlakyLimit caps the flaky list embedded in the executive summary.
const topFlakyLimit = 5

// ExecutiveSummary runs every report once and blends the results with a
// derived 0-100 quality score.
func (e *Engine) ExecutiveSummary() ExecutiveSummary {
	exec := e.ExecutionMetrics()
	flaky := e.DetectFlakyTests(e.minOccurrences)
	failures := e.AnalyzeFailurePatterns()
	durations := e.DurationAnalytics()
	trends := e.HistoricalComparison(e.windowDays)

	topFlaky := flaky
	if len(topFlaky) > topFlakyLimit {
		topFlaky = topFlaky[:topFlakyLimit]
	}

	return ExecutiveSummary{
		Overview: Overview{
			TotalLaunches:   exec.TotalLaunches,
			TotalTests:      exec.TotalTestsExecuted,
			OverallPassRate: round2(exec.OverallPassRate),
			QualityScore:    qualityScore(exec, len(flaky), failures.TotalUniqueFailures),
		},
		TestStability: TestStability{
			FlakyTestsDetected: len(flaky),
			TopFlakyTests:      topFlaky,
			PassRateStability:  exec.PassRateStd,
		},
		FailureInsights: FailureInsights{
			UniqueFailurePatterns: failures.TotalUniqueFailures,
			TopFailureCategories:  failures.FailureCategories,
			CriticalIssues:        criticalIssues(failures),
		},
		Performance: durations,
		Trends:      trends,
	}
}

// qualityScore starts from the overall pass rate and deducts capped
// penalties for flakiness, failure-pattern diversity, and pass-rate
// instability. The result is rounded to 1 decimal and clamped to [0, 100].
func qualityScore(exec ExecutionMetrics, flakyCount, uniquePatterns int) float64 {
	score := exec.OverallPassRate

	if flakyCount > 0 {
		penalty := float64(flakyCount) * 2
		if penalty > maxFlakyPenalty {
			penalty = maxFlakyPenalty
		}
		score -= penalty
	}

	if uniquePatterns > 5 {
		penalty := float64(uniquePatterns-5) * 1.5
		if penalty > maxPatternPenalty {
			penalty = maxPatternPenalty
		}
		score -= penalty
	}

	if exec.PassRateStd > 10 {
		penalty := (exec.PassRateStd - 10) * 0.5
		if penalty > maxStabilityPenalty {
			penalty = maxStabilityPenalty
		}
		score -= penalty
	}

	score = round1(score)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// criticalIssues derives warning strings from the failure analysis. All
// checks are independent; zero to three issues may be emitted. No issue is
// emitted when there are no categorized failures.
func criticalIssues(fa FailureAnalysis) []string {
	total := 0
	for _, n := range fa.FailureCategories {
		total += n
	}
	if total == 0 {
		return nil
	}

	var issues []string
	if pct := float64(fa.FailureCategories[CategoryInfrastructure]) / float64(total) * 100; pct > 30 {
		issues = append(issues, fmt.Sprintf("High infrastructure failure rate (%.1f%%)", pct))
	}
	if pct := float64(fa.FailureCategories[CategoryTimeout]) / float64(total) * 100; pct > 20 {
		issues = append(issues, fmt.Sprintf("Frequent timeout issues (%.1f%%)", pct))
	}
	if fa.TotalUniqueFailures > 15 {
		issues = append(issues, fmt.Sprintf("High failure pattern diversity (%d unique patterns)", fa.TotalUniqueFailures))
	}
	return issues
}
