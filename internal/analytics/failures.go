package analytics

import (
	"regexp"
	"sort"
	"strings"
)

// topPatternLimit caps the ranked signature list.
const topPatternLimit = 10

// unknownSignature is assigned when a description yields no recognizable
// error token.
const unknownSignature = "Unknown Error"

// knownPatterns are tried in order against a failure description; the first
// match wins and its name becomes the error signature.
var knownPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"TimeoutException", regexp.MustCompile(`(?i)TimeoutException`)},
	{"ConnectionError", regexp.MustCompile(`(?i)ConnectionError`)},
	{"AssertionError", regexp.MustCompile(`(?i)AssertionError`)},
	{"NullPointerException", regexp.MustCompile(`(?i)NullPointerException`)},
	{"FileNotFoundException", regexp.MustCompile(`(?i)FileNotFoundException`)},
	{`HTTP \d{3}`, regexp.MustCompile(`(?i)HTTP \d{3}`)},
	{`Database.*Error`, regexp.MustCompile(`(?i)Database.*Error`)},
	{`Authentication.*Failed`, regexp.MustCompile(`(?i)Authentication.*Failed`)},
	{`Permission.*Denied`, regexp.MustCompile(`(?i)Permission.*Denied`)},
}

// fallbackPattern extracts the first error-like token when no known
// pattern matches.
var fallbackPattern = regexp.MustCompile(`(?i)\b\w*(?:Error|Exception|Failed|Timeout)\b`)

// categoryKeywords maps each failure category to its containment keywords,
// in match-priority order.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryInfrastructure, []string{"connection", "network", "server", "http"}},
	{CategoryTimeout, []string{"timeout", "time out", "timed out"}},
	{CategoryAssertion, []string{"assert", "expected", "actual"}},
	{CategoryConfiguration, []string{"config", "property", "setting"}},
	{CategoryData, []string{"data", "database", "sql", "record"}},
}

// AnalyzeFailurePatterns extracts an error signature from every FAILED
// item's description, groups occurrences by signature, and independently
// categorizes each description. Failed items with an empty description
// contribute to neither grouping nor categorization.
func (e *Engine) AnalyzeFailurePatterns() FailureAnalysis {
	patterns := make(map[string][]FailureOccurrence)
	categories := map[string]int{
		CategoryInfrastructure: 0,
		CategoryTimeout:        0,
		CategoryAssertion:      0,
		CategoryConfiguration:  0,
		CategoryData:           0,
		CategoryUnknown:        0,
	}

	for _, launchID := range e.orderedLaunchIDs() {
		for _, item := range e.itemsByLaunch[launchID] {
			if item.Status != StatusFailed || item.Description == "" {
				continue
			}
			sig := extractSignature(item.Description)
			patterns[sig] = append(patterns[sig], FailureOccurrence{
				TestName:    item.Name,
				LaunchID:    launchID,
				Description: item.Description,
			})
			categories[categorize(item.Description)]++
		}
	}

	return FailureAnalysis{
		FailurePatterns:     patterns,
		FailureCategories:   categories,
		TopFailurePatterns:  topPatterns(patterns),
		TotalUniqueFailures: len(patterns),
	}
}

// extractSignature finds the error signature of a failure description.
func extractSignature(description string) string {
	for _, p := range knownPatterns {
		if p.re.MatchString(description) {
			return p.name
		}
	}
	if token := fallbackPattern.FindString(description); token != "" {
		return token
	}
	return unknownSignature
}

// categorize assigns a description to exactly one failure category; the
// first keyword set to match wins.
func categorize(description string) string {
	lower := strings.ToLower(description)
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(lower, kw) {
				return ck.category
			}
		}
	}
	return CategoryUnknown
}

// topPatterns ranks signatures by occurrence count descending, ties broken
// by signature ascending, capped at topPatternLimit.
func topPatterns(patterns map[string][]FailureOccurrence) []PatternCount {
	ranked := make([]PatternCount, 0, len(patterns))
	for sig, occurrences := range patterns {
		ranked = append(ranked, PatternCount{Pattern: sig, Count: len(occurrences)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Pattern < ranked[j].Pattern
	})
	if len(ranked) > topPatternLimit {
		ranked = ranked[:topPatternLimit]
	}
	return ranked
}
