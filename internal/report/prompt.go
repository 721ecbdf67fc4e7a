package report

import (
	"fmt"
	"strings"

	"echobot/internal/analytics"
	"echobot/internal/llm"
)

// AnalysisMessages builds the chat turn asking the model to interpret an
// analytics run. The question is the user's original prompt.
func AnalysisMessages(question string, s *analytics.ExecutiveSummary, m analytics.ExecutionMetrics, rows []LaunchRow) []llm.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "The user asked: %q. Here is comprehensive test analysis data:\n\n", question)

	b.WriteString("## Executive Summary:\n")
	fmt.Fprintf(&b, "- Total Launches: %d\n", s.Overview.TotalLaunches)
	fmt.Fprintf(&b, "- Total Tests: %d\n", s.Overview.TotalTests)
	fmt.Fprintf(&b, "- Overall Pass Rate: %.1f%%\n", s.Overview.OverallPassRate)
	fmt.Fprintf(&b, "- Quality Score: %.1f/100\n", s.Overview.QualityScore)
	fmt.Fprintf(&b, "- Flaky Tests Detected: %d\n", s.TestStability.FlakyTestsDetected)
	fmt.Fprintf(&b, "- Unique Failure Patterns: %d\n\n", s.FailureInsights.UniqueFailurePatterns)

	b.WriteString("## Test Execution Metrics:\n")
	fmt.Fprintf(&b, "- Average tests per launch: %.1f\n", m.AvgTestsPerLaunch)
	fmt.Fprintf(&b, "- Pass rate stability (std dev): %.1f%%\n", m.PassRateStd)
	fmt.Fprintf(&b, "- Test volume trend: %s\n\n", trendWord(m.TestExecutionTrend))

	if len(s.TestStability.TopFlakyTests) > 0 {
		b.WriteString("## Top Flaky Tests:\n")
		top := s.TestStability.TopFlakyTests
		if len(top) > 3 {
			top = top[:3]
		}
		for _, ft := range top {
			fmt.Fprintf(&b, "- %s: %.1f%% flaky score (%d/%d pass rate)\n",
				ft.TestName, ft.FlakyScore, ft.Passed, ft.TotalRuns)
		}
		b.WriteString("\n")
	}

	if breakdown := CategoryBreakdown(s.FailureInsights.TopFailureCategories); len(breakdown) > 0 {
		b.WriteString("## Failure Categories:\n")
		for _, slice := range breakdown {
			fmt.Fprintf(&b, "- %s: %d failures\n", slice.Label, slice.Value)
		}
		b.WriteString("\n")
	}

	if len(s.FailureInsights.CriticalIssues) > 0 {
		b.WriteString("## Critical Issues:\n")
		for _, issue := range s.FailureInsights.CriticalIssues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}

	if len(s.Trends) > 0 {
		b.WriteString("## Historical Trends (Last 30 Days):\n")
		for _, name := range sortedMetricNames(s.Trends) {
			fmt.Fprintf(&b, "- %s: %+.1f%% change\n", metricTitle(name), s.Trends[name].ChangePct)
		}
		b.WriteString("\n")
	}

	if s.Performance.TotalTestsWithDuration > 0 {
		b.WriteString("## Performance Metrics:\n")
		fmt.Fprintf(&b, "- Average test duration: %.1fs\n", s.Performance.AvgTestDuration)
		fmt.Fprintf(&b, "- Median test duration: %.1fs\n", s.Performance.MedianTestDuration)
		if len(s.Performance.SlowestTests) > 0 {
			slowest := s.Performance.SlowestTests[0]
			fmt.Fprintf(&b, "- Slowest test: %s (%.1fs)\n", slowest.TestName, slowest.AvgDuration)
		}
		b.WriteString("\n")
	}

	for _, row := range rows {
		fmt.Fprintf(&b, "- Launch: %s, Pass Rate: %.1f%%\n", row.Name, row.PassRate)
	}

	b.WriteString("\nBased on this comprehensive analysis, please provide insights on test quality, stability, performance, and recommendations for improvement. Focus on identifying trends, root causes, and actionable next steps.")

	return llm.UserMessage(b.String())
}
