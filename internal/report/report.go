// Package report presents analytics output: Markdown/ASCII report text,
// chart-ready data series, and the LLM analysis prompt.
package report

import (
	"fmt"
	"sort"
	"strings"

	"echobot/internal/analytics"
	"echobot/internal/format"
)

// LaunchRow is one launch line in a chat listing.
type LaunchRow struct {
	Name     string
	PassRate float64
	URL      string
}

// IssueRow is one tracker issue line in a chat listing.
type IssueRow struct {
	Key      string
	Summary  string
	Status   string
	Priority string
	Assignee string
}

// Renderer renders report text in one output mode.
type Renderer struct {
	mode format.Mode
}

// NewRenderer returns a Renderer for the given table mode.
func NewRenderer(mode format.Mode) *Renderer {
	return &Renderer{mode: mode}
}

// Mode returns the table mode the Renderer was built with.
func (r *Renderer) Mode() format.Mode {
	return r.mode
}

// Launches renders the launch listing shown for "/rp list launches".
func (r *Renderer) Launches(rows []LaunchRow) string {
	if len(rows) == 0 {
		return "No launches found with the given filter."
	}
	t := format.NewTable(r.mode)
	t.Header("Launch Name", "Pass Rate", "URL")
	t.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	for _, row := range rows {
		t.Row(row.Name, format.Percent(row.PassRate), row.URL)
	}
	return "### ReportPortal Launches\n\n" + t.String()
}

// Issues renders the issue listing shown for "/jira query".
func (r *Renderer) Issues(rows []IssueRow) string {
	if len(rows) == 0 {
		return "No Jira issues found with the given query."
	}
	t := format.NewTable(r.mode)
	t.Header("Key", "Summary", "Status", "Priority", "Assignee")
	t.Columns(format.ColumnConfig{Number: 2, MaxWidth: 60})
	for _, row := range rows {
		t.Row(row.Key, row.Summary, row.Status, row.Priority, row.Assignee)
	}
	return "### Jira Issues\n\n" + t.String()
}

// Summary renders the full analytics report.
func (r *Renderer) Summary(s *analytics.ExecutiveSummary, m analytics.ExecutionMetrics) string {
	var b strings.Builder

	b.WriteString("## Executive Summary\n\n")
	overview := format.NewTable(r.mode)
	overview.Header("Metric", "Value")
	overview.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	overview.Row("Total Launches", s.Overview.TotalLaunches)
	overview.Row("Total Tests", s.Overview.TotalTests)
	overview.Row("Overall Pass Rate", format.Percent(s.Overview.OverallPassRate))
	overview.Row("Quality Score", fmt.Sprintf("%.1f/100", s.Overview.QualityScore))
	overview.Row("Flaky Tests Detected", s.TestStability.FlakyTestsDetected)
	overview.Row("Unique Failure Patterns", s.FailureInsights.UniqueFailurePatterns)
	b.WriteString(overview.String())
	b.WriteString("\n")

	b.WriteString("\n## Test Execution Metrics\n\n")
	fmt.Fprintf(&b, "- Average tests per launch: %.1f\n", m.AvgTestsPerLaunch)
	fmt.Fprintf(&b, "- Median tests per launch: %.1f\n", m.MedianTestsPerLaunch)
	fmt.Fprintf(&b, "- Total passed: %d\n", m.TotalPassed)
	fmt.Fprintf(&b, "- Total failed: %d\n", m.TotalFailed)
	fmt.Fprintf(&b, "- Total skipped: %d\n", m.TotalSkipped)
	fmt.Fprintf(&b, "- Average pass rate: %.1f%%\n", m.AvgPassRate)
	fmt.Fprintf(&b, "- Pass rate stability (std dev): %.1f%%\n", m.PassRateStd)
	fmt.Fprintf(&b, "- Test volume trend: %s\n", trendWord(m.TestExecutionTrend))

	if len(s.TestStability.TopFlakyTests) > 0 {
		b.WriteString("\n## Top Flaky Tests\n\n")
		flaky := format.NewTable(r.mode)
		flaky.Header("Test", "Flaky Score", "Runs", "Passed", "Failed")
		flaky.Columns(
			format.ColumnConfig{Number: 1, MaxWidth: 60},
			format.ColumnConfig{Number: 2, Align: format.AlignRight},
		)
		for _, ft := range s.TestStability.TopFlakyTests {
			flaky.Row(ft.TestName, format.Percent(ft.FlakyScore), ft.TotalRuns, ft.Passed, ft.Failed)
		}
		b.WriteString(flaky.String())
		b.WriteString("\n")
	}

	if countNonZero(s.FailureInsights.TopFailureCategories) > 0 {
		b.WriteString("\n## Failure Categories\n\n")
		for _, slice := range CategoryBreakdown(s.FailureInsights.TopFailureCategories) {
			fmt.Fprintf(&b, "- %s: %d\n", slice.Label, slice.Value)
		}
	}
	if len(s.FailureInsights.CriticalIssues) > 0 {
		b.WriteString("\n## Critical Issues\n\n")
		for _, issue := range s.FailureInsights.CriticalIssues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
	}

	if s.Performance.TotalTestsWithDuration > 0 {
		b.WriteString("\n## Performance\n\n")
		fmt.Fprintf(&b, "- Average duration: %s\n", format.Seconds(s.Performance.AvgTestDuration))
		fmt.Fprintf(&b, "- Median duration: %s\n", format.Seconds(s.Performance.MedianTestDuration))
		fmt.Fprintf(&b, "- Min duration: %s\n", format.Seconds(s.Performance.MinTestDuration))
		fmt.Fprintf(&b, "- Max duration: %s\n", format.Seconds(s.Performance.MaxTestDuration))
		if len(s.Performance.SlowestTests) > 0 {
			b.WriteString("\nSlowest tests:\n")
			for _, st := range s.Performance.SlowestTests {
				fmt.Fprintf(&b, "- %s: %s\n", st.TestName, format.Seconds(st.AvgDuration))
			}
		}
	}

	if len(s.Trends) > 0 {
		b.WriteString("\n## Historical Trends (Last 30 Days)\n\n")
		for _, name := range sortedMetricNames(s.Trends) {
			delta := s.Trends[name]
			fmt.Fprintf(&b, "- %s: %s change\n", metricTitle(name), format.SignedPercent(delta.ChangePct))
		}
	}

	return b.String()
}

func trendWord(trend float64) string {
	switch {
	case trend > 0:
		return "increasing"
	case trend < 0:
		return "decreasing"
	default:
		return "stable"
	}
}

func countNonZero(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		if c > 0 {
			n++
		}
	}
	return n
}

func sortedMetricNames(trends analytics.HistoricalComparison) []string {
	names := make([]string, 0, len(trends))
	for name := range trends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// metricTitle turns a metric key like "avg_pass_rate" into "Avg Pass Rate".
func metricTitle(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
