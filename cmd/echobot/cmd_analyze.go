package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"echobot/internal/format"
)

var analyzeFlags struct {
	filter   string
	question string
	ai       bool
	markdown bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "One-shot analytics report for matching launches",
	Long: "Fetches every launch whose attributes match --filter, runs the\n" +
		"analytics over their test items, and prints the report.",
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.filter, "filter", "", "Attribute filter, e.g. component=acm,release=2.12")
	f.StringVar(&analyzeFlags.question, "question", "", "Question passed to the model commentary (implies --ai)")
	f.BoolVar(&analyzeFlags.ai, "ai", false, "Append model commentary to the report")
	f.BoolVar(&analyzeFlags.markdown, "markdown", false, "Render tables as Markdown instead of ASCII")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	mode := format.ASCII
	if analyzeFlags.markdown {
		mode = format.Markdown
	}
	bot, err := buildAssistant(cfg, mode, nil)
	if err != nil {
		return err
	}

	withAI := analyzeFlags.ai || analyzeFlags.question != ""
	question := analyzeFlags.question
	if question == "" {
		question = "Summarize the test quality for these launches."
	}

	filter, err := normalizeFilter(analyzeFlags.filter)
	if err != nil {
		return err
	}
	out, err := bot.Analyze(cmd.Context(), filter, question, withAI)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// normalizeFilter accepts key=value pairs on the command line and turns
// them into the key:value form the attribute filter uses.
func normalizeFilter(raw string) (string, error) {
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
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			key, value, ok = strings.Cut(part, ":")
		}
		if !ok || strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
			return "", fmt.Errorf("invalid filter %q, expected key=value", part)
		}
		pairs = append(pairs, strings.TrimSpace(key)+":"+strings.TrimSpace(value))
	}
	return strings.Join(pairs, ","), nil
}
