package analytics

import "time"

// Test item statuses with dedicated handling. Other status strings pass
// through the engine untouched.
const (
	StatusPassed  = "PASSED"
	StatusFailed  = "FAILED"
	StatusSkipped = "SKIPPED"
)

// Attribute is one key/value tag on a launch. Keys may repeat; order carries
// no meaning.
type Attribute struct {
	Key   string
	Value string
}

// Launch is the aggregate record of one test run. Counts are taken as
// supplied: Total is not required to equal Passed+Failed+Skipped.
type Launch struct {
	ID         string
	Name       string
	StartTime  *time.Time // nil when the upstream record has no start time
	Total      int
	Passed     int
	Failed     int
	Skipped    int
	Attributes []Attribute
}

// TestItem is a single test case result within a launch. Duration is in
// milliseconds; 0 means no duration data.
type TestItem struct {
	Name        string
	Status      string
	Description string
	Duration    int64
}

// ExecutionMetrics are scalar aggregates over all launches.
//
// OverallPassRate pools passed/failed counts across launches before
// dividing; AvgPassRate averages each launch's own pass rate, skipping
// launches with no decisive (passed+failed) outcomes. Both are kept because
// they answer different questions.
type ExecutionMetrics struct {
	TotalLaunches        int
	TotalTestsExecuted   int
	AvgTestsPerLaunch    float64
	MedianTestsPerLaunch float64
	TotalPassed          int
	TotalFailed          int
	TotalSkipped         int
	OverallPassRate      float64
	AvgPassRate          float64
	PassRateStd          float64
	TestExecutionTrend   float64
}

// FlakyTest describes one test name with inconsistent outcomes across
// launches. FlakyScore is the percentage of adjacent occurrence pairs whose
// status changed (0-100, higher = more flaky).
type FlakyTest struct {
	TestName           string
	TotalRuns          int
	Passed             int
	Failed             int
	Skipped            int
	FlakyScore         float64
	StatusDistribution map[string]int
}

// FailureOccurrence is one failed test item attributed to an error
// signature.
type FailureOccurrence struct {
	TestName    string
	LaunchID    string
	Description string
}

// PatternCount ranks an error signature by occurrence count.
type PatternCount struct {
	Pattern string
	Count   int
}

// Failure categories, in match-priority order. A description matching
// several keyword sets lands in the highest-priority category only.
const (
	CategoryInfrastructure = "Infrastructure"
	CategoryTimeout        = "Timeout"
	CategoryAssertion      = "Assertion"
	CategoryConfiguration  = "Configuration"
	CategoryData           = "Data"
	CategoryUnknown        = "Unknown"
)

// FailureAnalysis groups failed test items by extracted error signature and
// categorizes their descriptions.
type FailureAnalysis struct {
	FailurePatterns     map[string][]FailureOccurrence
	FailureCategories   map[string]int
	TopFailurePatterns  []PatternCount
	TotalUniqueFailures int
}

// SlowTest is a test name with its mean duration in seconds.
type SlowTest struct {
	TestName    string
	AvgDuration float64
}

// DurationAnalytics holds duration statistics in seconds over all items
// with usable duration data. The zero value means no item carried a
// duration.
type DurationAnalytics struct {
	AvgTestDuration        float64
	MedianTestDuration     float64
	MinTestDuration        float64
	MaxTestDuration        float64
	DurationStd            float64
	TotalTestsWithDuration int
	SlowestTests           []SlowTest
}

// Metric names used as HistoricalComparison keys.
const (
	MetricAvgPassRate       = "avg_pass_rate"
	MetricAvgTestsPerLaunch = "avg_tests_per_launch"
	MetricTotalTests        = "total_tests"
)

// MetricDelta compares one metric between the recent window and everything
// before it. ChangePct is 100*(recent-historical)/historical.
type MetricDelta struct {
	Recent     float64
	Historical float64
	ChangePct  float64
}

// HistoricalComparison maps metric name to its recent/historical delta.
// A metric is absent when its historical value is 0; the whole map is empty
// when either partition has no launches.
type HistoricalComparison map[string]MetricDelta

// Overview is the headline block of an executive summary.
type Overview struct {
	TotalLaunches   int
	TotalTests      int
	OverallPassRate float64 // rounded to 2 decimals
	QualityScore    float64 // 0-100, rounded to 1 decimal
}

// TestStability summarizes flakiness and pass-rate variance.
type TestStability struct {
	FlakyTestsDetected int
	TopFlakyTests      []FlakyTest
	PassRateStability  float64
}

// FailureInsights summarizes failure diversity and critical issues.
type FailureInsights struct {
	UniqueFailurePatterns int
	TopFailureCategories  map[string]int
	CriticalIssues        []string
}

// ExecutiveSummary is the composite report blending every other report with
// a derived quality score.
type ExecutiveSummary struct {
	Overview        Overview
	TestStability   TestStability
	FailureInsights FailureInsights
	Performance     DurationAnalytics
	Trends          HistoricalComparison
}
