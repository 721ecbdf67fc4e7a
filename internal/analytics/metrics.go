package analytics

// ExecutionMetrics computes scalar aggregates over every launch in the
// snapshot. Returns the zero value when there are no launches.
func (e *Engine) ExecutionMetrics() ExecutionMetrics {
	if len(e.launches) == 0 {
		return ExecutionMetrics{}
	}

	totals := make([]float64, 0, len(e.launches))
	var totalTests, totalPassed, totalFailed, totalSkipped int
	for _, l := range e.launches {
		totals = append(totals, float64(l.Total))
		totalTests += l.Total
		totalPassed += l.Passed
		totalFailed += l.Failed
		totalSkipped += l.Skipped
	}

	// Per-launch pass rates, launches with no decisive outcomes excluded.
	var rates []float64
	for _, l := range e.launches {
		if l.Passed+l.Failed > 0 {
			rates = append(rates, passRate(l.Passed, l.Failed))
		}
	}

	return ExecutionMetrics{
		TotalLaunches:        len(e.launches),
		TotalTestsExecuted:   totalTests,
		AvgTestsPerLaunch:    mean(totals),
		MedianTestsPerLaunch: median(totals),
		TotalPassed:          totalPassed,
		TotalFailed:          totalFailed,
		TotalSkipped:         totalSkipped,
		OverallPassRate:      passRate(totalPassed, totalFailed),
		AvgPassRate:          mean(rates),
		PassRateStd:          sampleStdDev(rates),
		TestExecutionTrend:   e.executionTrend(),
	}
}

// executionTrend is the least-squares slope of test volume against launch
// index, launches ordered by ascending start time.
func (e *Engine) executionTrend() float64 {
	ordered := e.launchesByStartTime()
	if len(ordered) < 2 {
		return 0
	}
	ys := make([]float64, len(ordered))
	for i, l := range ordered {
		ys[i] = float64(l.Total)
	}
	return slope(ys)
}
