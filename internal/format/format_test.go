package format_test

import (
	"strings"
	"testing"

	"echobot/internal/format"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Launch", "Pass Rate", "Tests")
	tb.Row("nightly-4.2", "82.4%", 120)
	tb.Row("nightly-4.3", "91.0%", 115)
	out := tb.String()

	if !strings.Contains(out, "Launch") {
		t.Errorf("expected header 'Launch' in output:\n%s", out)
	}
	if !strings.Contains(out, "nightly-4.2") {
		t.Errorf("expected 'nightly-4.2' in output:\n%s", out)
	}
	if !strings.Contains(out, "82.4%") {
		t.Errorf("expected '82.4%%' in output:\n%s", out)
	}
	// ASCII uses box-drawing characters from StyleLight.
	if !strings.Contains(out, "───") {
		t.Errorf("expected box-drawing characters in ASCII output:\n%s", out)
	}
}

func TestMarkdown_BasicTable(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Test", "Flaky Score", "Runs")
	tb.Row("login_smoke", "100.0%", 3)
	tb.Row("checkout_e2e", "66.7%", 4)
	out := tb.String()

	if !strings.Contains(out, "| Test") {
		t.Errorf("expected markdown header with '| Test':\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("expected markdown separator '---':\n%s", out)
	}
	if !strings.Contains(out, "login_smoke") {
		t.Errorf("expected 'login_smoke' in output:\n%s", out)
	}
}

func TestMarkdown_WithFooter(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Category", "Failures")
	tb.Row("Infrastructure", 12)
	tb.Row("Timeout", 4)
	tb.Footer("TOTAL", 16)
	out := tb.String()

	if !strings.Contains(out, "TOTAL") {
		t.Errorf("expected footer 'TOTAL' in output:\n%s", out)
	}
	if !strings.Contains(out, "16") {
		t.Errorf("expected footer value '16' in output:\n%s", out)
	}
}

func TestColumns_RightAlign(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Name", "Value")
	tb.Row("tests", 12345)
	tb.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	out := tb.String()

	if !strings.Contains(out, "12345") {
		t.Errorf("expected '12345' in output:\n%s", out)
	}
}

func TestSameData_DualFormat(t *testing.T) {
	build := func(m format.Mode) string {
		tb := format.NewTable(m)
		tb.Header("A", "B")
		tb.Row("x", "y")
		return tb.String()
	}

	ascii := build(format.ASCII)
	md := build(format.Markdown)

	if ascii == md {
		t.Error("ASCII and Markdown output should differ")
	}
	for _, out := range []string{ascii, md} {
		if !strings.Contains(out, "x") || !strings.Contains(out, "y") {
			t.Errorf("expected data in output:\n%s", out)
		}
	}
}

// --- Helper tests ---

func TestPercent(t *testing.T) {
	if got := format.Percent(82.35); got != "82.3%" {
		t.Errorf("Percent(82.35) = %q, want 82.3%%", got)
	}
	if got := format.Percent(0); got != "0.0%" {
		t.Errorf("Percent(0) = %q, want 0.0%%", got)
	}
}

func TestSignedPercent(t *testing.T) {
	if got := format.SignedPercent(12.5); got != "+12.5%" {
		t.Errorf("SignedPercent(12.5) = %q, want +12.5%%", got)
	}
	if got := format.SignedPercent(-3.14); got != "-3.1%" {
		t.Errorf("SignedPercent(-3.14) = %q, want -3.1%%", got)
	}
}

func TestSeconds(t *testing.T) {
	if got := format.Seconds(1.5); got != "1.50s" {
		t.Errorf("Seconds(1.5) = %q, want 1.50s", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"ab", 3, "ab"},
		{"abcdef", 3, "abc"},
	}
	for _, tc := range tests {
		got := format.Truncate(tc.in, tc.maxLen)
		if got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}
