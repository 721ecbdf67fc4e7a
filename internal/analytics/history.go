package analytics

// HistoricalComparison splits launches into a recent window (start time at
// or after now-windowDays) and everything before it, then compares
// avg_pass_rate, avg_tests_per_launch, and total_tests between the two.
//
// Launches without a start time belong to neither partition. If either
// partition ends up empty the result is an empty map; a metric whose
// historical value is 0 is omitted since its percentage change is
// undefined. A non-positive windowDays falls back to DefaultWindowDays.
func (e *Engine) HistoricalComparison(windowDays int) HistoricalComparison {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	cutoff := e.now().AddDate(0, 0, -windowDays)

	var recent, historical []Launch
	for _, l := range e.launches {
		if l.StartTime == nil {
			continue
		}
		if l.StartTime.Before(cutoff) {
			historical = append(historical, l)
		} else {
			recent = append(recent, l)
		}
	}

	cmp := HistoricalComparison{}
	if len(recent) == 0 || len(historical) == 0 {
		return cmp
	}

	recentVals := partitionMetrics(recent)
	historicalVals := partitionMetrics(historical)
	for _, metric := range []string{MetricAvgPassRate, MetricAvgTestsPerLaunch, MetricTotalTests} {
		h := historicalVals[metric]
		if h == 0 {
			continue
		}
		r := recentVals[metric]
		cmp[metric] = MetricDelta{
			Recent:     r,
			Historical: h,
			ChangePct:  (r - h) / h * 100,
		}
	}
	return cmp
}

// partitionMetrics computes the compared metrics over one partition. Unlike
// ExecutionMetrics.AvgPassRate, launches with no decisive outcomes count
// here as a 0% pass rate rather than being excluded.
func partitionMetrics(launches []Launch) map[string]float64 {
	rates := make([]float64, 0, len(launches))
	totals := make([]float64, 0, len(launches))
	sum := 0.0
	for _, l := range launches {
		rates = append(rates, passRate(l.Passed, l.Failed))
		totals = append(totals, float64(l.Total))
		sum += float64(l.Total)
	}
	return map[string]float64{
		MetricAvgPassRate:       mean(rates),
		MetricAvgTestsPerLaunch: mean(totals),
		MetricTotalTests:        sum,
	}
}
