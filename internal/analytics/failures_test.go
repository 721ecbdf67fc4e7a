package analytics

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func failedItem(name, description string) TestItem {
	return TestItem{Name: name, Status: StatusFailed, Description: description}
}

func TestExtractSignature_KnownPatternWins(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"java.util.concurrent.TimeoutException: waited 30s", "TimeoutException"},
		{"connectionerror while dialing", "ConnectionError"}, // case-insensitive
		{"AssertionError: values differ", "AssertionError"},
		{"got HTTP 503 from backend", `HTTP \d{3}`},
		{"Database deadlock Error on commit", `Database.*Error`},
		{"Authentication token Failed to refresh", `Authentication.*Failed`},
		{"Permission to /var/run Denied", `Permission.*Denied`},
	}
	for _, tc := range cases {
		if got := extractSignature(tc.description); got != tc.want {
			t.Errorf("extractSignature(%q) = %q, want %q", tc.description, got, tc.want)
		}
	}
}

func TestExtractSignature_FallbackToken(t *testing.T) {
	if got := extractSignature("step ValidationError raised in setup"); got != "ValidationError" {
		t.Errorf("fallback signature = %q, want ValidationError", got)
	}
	if got := extractSignature("the deploy Failed midway"); got != "Failed" {
		t.Errorf("fallback signature = %q, want Failed", got)
	}
}

func TestExtractSignature_Unknown(t *testing.T) {
	if got := extractSignature("something odd happened"); got != "Unknown Error" {
		t.Errorf("signature = %q, want Unknown Error", got)
	}
}

func TestCategorize_PriorityOrder(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		// "http" could suggest other categories too; Infrastructure wins.
		{"Connection refused to http server", CategoryInfrastructure},
		{"operation timed out after 60s", CategoryTimeout},
		{"assert failed: expected 3, actual 4", CategoryAssertion},
		{"missing property in config file", CategoryConfiguration},
		{"sql constraint violated on record", CategoryData},
		{"we have no idea", CategoryUnknown},
		// "timed out" also contains no infra keyword, Timeout wins over
		// Assertion even when "expected" appears later in the text.
		{"timed out waiting for expected state", CategoryTimeout},
	}
	for _, tc := range cases {
		if got := categorize(tc.description); got != tc.want {
			t.Errorf("categorize(%q) = %q, want %q", tc.description, got, tc.want)
		}
	}
}

func TestAnalyzeFailurePatterns_GroupsBySignature(t *testing.T) {
	items := map[string][]TestItem{
		"L1": {
			failedItem("t1", "TimeoutException in step 4"),
			failedItem("t2", "timeoutexception again"),
			{Name: "t3", Status: StatusPassed, Description: "TimeoutException mentioned but passed"},
		},
		"L2": {
			failedItem("t4", "got HTTP 404 fetching fixture"),
		},
	}
	got := New(nil, items).AnalyzeFailurePatterns()

	if got.TotalUniqueFailures != 2 {
		t.Fatalf("TotalUniqueFailures = %d, want 2", got.TotalUniqueFailures)
	}
	if n := len(got.FailurePatterns["TimeoutException"]); n != 2 {
		t.Errorf("TimeoutException occurrences = %d, want 2", n)
	}
	if n := len(got.FailurePatterns[`HTTP \d{3}`]); n != 1 {
		t.Errorf("HTTP pattern occurrences = %d, want 1", n)
	}
	wantTop := []PatternCount{
		{Pattern: "TimeoutException", Count: 2},
		{Pattern: `HTTP \d{3}`, Count: 1},
	}
	if diff := cmp.Diff(wantTop, got.TopFailurePatterns); diff != "" {
		t.Errorf("TopFailurePatterns mismatch:\n%s", diff)
	}
}

func TestAnalyzeFailurePatterns_OccurrenceCarriesLaunchID(t *testing.T) {
	items := map[string][]TestItem{
		"L9": {failedItem("t1", "AssertionError: boom")},
	}
	got := New(nil, items).AnalyzeFailurePatterns()
	occ := got.FailurePatterns["AssertionError"]
	if len(occ) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occ))
	}
	want := FailureOccurrence{TestName: "t1", LaunchID: "L9", Description: "AssertionError: boom"}
	if diff := cmp.Diff(want, occ[0]); diff != "" {
		t.Errorf("occurrence mismatch:\n%s", diff)
	}
}

func TestAnalyzeFailurePatterns_EmptyDescriptionSkipped(t *testing.T) {
	items := map[string][]TestItem{
		"L1": {failedItem("t1", "")},
	}
	got := New(nil, items).AnalyzeFailurePatterns()
	if got.TotalUniqueFailures != 0 {
		t.Errorf("TotalUniqueFailures = %d, want 0 for empty descriptions", got.TotalUniqueFailures)
	}
	for cat, n := range got.FailureCategories {
		if n != 0 {
			t.Errorf("category %s = %d, want 0", cat, n)
		}
	}
}

func TestAnalyzeFailurePatterns_CategoryCounts(t *testing.T) {
	items := map[string][]TestItem{
		"L1": {
			failedItem("t1", "connection reset by peer"),
			failedItem("t2", "network unreachable"),
			failedItem("t3", "timed out after 30s"),
			failedItem("t4", "assert: expected true"),
		},
	}
	got := New(nil, items).AnalyzeFailurePatterns()
	want := map[string]int{
		CategoryInfrastructure: 2,
		CategoryTimeout:        1,
		CategoryAssertion:      1,
		CategoryConfiguration:  0,
		CategoryData:           0,
		CategoryUnknown:        0,
	}
	if diff := cmp.Diff(want, got.FailureCategories); diff != "" {
		t.Errorf("FailureCategories mismatch:\n%s", diff)
	}
}

func TestAnalyzeFailurePatterns_TopTenCap(t *testing.T) {
	items := map[string][]TestItem{"L1": {}}
	for i := 0; i < 12; i++ {
		items["L1"] = append(items["L1"],
			failedItem(fmt.Sprintf("t%d", i), fmt.Sprintf("Custom%dError raised", i)))
	}
	got := New(nil, items).AnalyzeFailurePatterns()
	if got.TotalUniqueFailures != 12 {
		t.Fatalf("TotalUniqueFailures = %d, want 12", got.TotalUniqueFailures)
	}
	if len(got.TopFailurePatterns) != 10 {
		t.Errorf("TopFailurePatterns length = %d, want 10", len(got.TopFailurePatterns))
	}
}
