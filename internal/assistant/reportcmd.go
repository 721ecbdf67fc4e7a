package assistant

import (
	"context"
	"fmt"
	"strings"

	"echobot/internal/analytics"
	"echobot/internal/report"
)

// handleReport serves natural-language report requests such as
// "test report for acm in release 2.12".
func (a *Assistant) handleReport(ctx context.Context, matches []string) (string, error) {
	component := matches[1]
	release := ""
	if len(matches) > 2 {
		release = matches[2]
	}

	filter := "component:" + component
	if release != "" {
		filter += ",release:" + release
	}
	return a.Analyze(ctx, filter, matches[0], true)
}

// handleRPList serves "/rp list launches key=value,key2:value2".
func (a *Assistant) handleRPList(ctx context.Context, matches []string) (string, error) {
	filter, err := parseAttrFilter(matches[1])
	if err != nil {
		return err.Error(), nil
	}
	return a.Analyze(ctx, filter, matches[0], false)
}

// parseAttrFilter normalizes a comma-separated attribute filter. Both
// key=value and key:value pairs are accepted.
func parseAttrFilter(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	var pairs []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sep := strings.IndexAny(part, "=:")
		if sep <= 0 || sep == len(part)-1 {
			return "", fmt.Errorf("invalid attribute filter %q, expected key=value or key:value", part)
		}
		key := strings.TrimSpace(part[:sep])
		value := strings.TrimSpace(part[sep+1:])
		pairs = append(pairs, key+":"+value)
	}
	return strings.Join(pairs, ","), nil
}

// Analyze fetches launches matching the attribute filter, runs the
// analytics engine over their test items, and renders the report. When
// withAI is set and a chat client is available, a model commentary
// section is appended.
func (a *Assistant) Analyze(ctx context.Context, attrFilter, question string, withAI bool) (string, error) {
	if a.rp == nil {
		return "ReportPortal is not configured. Please check your settings.", nil
	}

	summaries, err := a.rp.ListLaunches(ctx, attrFilter)
	if err != nil {
		return "", fmt.Errorf("list launches: %w", err)
	}
	if len(summaries) == 0 {
		return "No launches found with the given filter.", nil
	}

	rows := make([]report.LaunchRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, report.LaunchRow{Name: s.Name, PassRate: s.PassRate, URL: s.URL})
	}

	launches, items, err := a.rp.AnalyticsData(ctx, attrFilter)
	if err != nil {
		return "", fmt.Errorf("fetch analytics data: %w", err)
	}

	engine := analytics.New(launches, items,
		analytics.WithFlakyThreshold(a.flakyMin),
		analytics.WithHistoryWindow(a.windowDays),
	)
	summary := engine.ExecutiveSummary()
	metrics := engine.ExecutionMetrics()

	var out strings.Builder
	out.WriteString(a.renderer.Launches(rows))
	out.WriteString("\n\n")
	out.WriteString(a.renderer.Summary(&summary, metrics))

	if withAI && a.llm != nil {
		commentary, err := a.llm.Chat(ctx, report.AnalysisMessages(question, &summary, metrics, rows))
		if err != nil {
			a.logger.WarnContext(ctx, "analysis commentary failed", "error", err)
		} else {
			out.WriteString("\n\n### AI-Powered Analysis:\n\n")
			out.WriteString(commentary)
		}
	}
	return out.String(), nil
}
