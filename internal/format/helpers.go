package format

import "fmt"

// Percent formats a 0-100 value as "82.4%".
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Seconds formats a duration in seconds as "12.34s".
func Seconds(v float64) string {
	return fmt.Sprintf("%.2fs", v)
}

// SignedPercent formats a percentage change with an explicit sign, e.g.
// "+12.5%" or "-3.1%".
func SignedPercent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
