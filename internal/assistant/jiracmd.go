package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"echobot/internal/jira"
	"echobot/internal/llm"
	"echobot/internal/report"
)

const jqlPrompt = `Convert the following request into a JQL query. Respond with only the JQL, inside a fenced code block. Do not add a project clause.

Request: %s`

var (
	jqlFence      = regexp.MustCompile("(?s)```(?:jql)?\\s*(.*?)```")
	componentBugs = regexp.MustCompile(`([a-zA-Z\s]+) bugs`)
)

// handleJiraWhoami serves "/jira whoami".
func (a *Assistant) handleJiraWhoami(ctx context.Context, matches []string) (string, error) {
	if a.jira == nil {
		return "Jira is not configured. Please check your settings.", nil
	}
	user, err := a.jira.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch current user: %w", err)
	}
	return fmt.Sprintf("### Current Jira User:\n\n- **Display Name**: %s\n- **Email**: %s\n- **Time Zone**: %s",
		user.DisplayName, user.EmailAddress, user.TimeZone), nil
}

// handleJiraQuery serves "/jira query <natural language>": the model
// drafts the JQL, the assistant pins it to the configured project and
// patches in the clauses the model tends to leave out.
func (a *Assistant) handleJiraQuery(ctx context.Context, matches []string) (string, error) {
	if a.jira == nil {
		return "Jira is not configured. Please check your settings.", nil
	}
	if a.llm == nil {
		return "Chat client is not configured. Cannot process natural language Jira queries.", nil
	}

	query := strings.TrimSpace(matches[1])
	lower := strings.ToLower(query)

	var dateJQL string
	switch {
	case strings.Contains(lower, "last month"):
		dateJQL = "AND updated >= startOfMonth(-1) AND updated <= endOfMonth(-1)"
		lower = strings.ReplaceAll(lower, "last month", "")
	case strings.Contains(lower, "this month"):
		dateJQL = "AND updated >= startOfMonth()"
		lower = strings.ReplaceAll(lower, "this month", "")
	}

	raw, err := a.llm.Chat(ctx, llm.UserMessage(fmt.Sprintf(jqlPrompt, strings.TrimSpace(lower))))
	if err != nil {
		return "", fmt.Errorf("generate jql: %w", err)
	}
	base := extractJQL(raw)
	if base == "" {
		base = "ORDER BY created DESC"
	}
	base = stripProjectClauses(base)

	jql := fmt.Sprintf("project = %q", a.jiraProjectKey)
	if base != "" {
		jql += " AND " + base
	}
	if dateJQL != "" {
		jql += " " + dateJQL
	}

	if strings.Contains(lower, "to be fixed") && !strings.Contains(strings.ToLower(jql), "status") {
		jql += ` AND status != "Closed"`
	}
	if strings.Contains(lower, "assigned to me") && !strings.Contains(strings.ToLower(jql), "assignee") {
		user, err := a.jira.CurrentUser(ctx)
		if err != nil {
			return "", fmt.Errorf("fetch current user: %w", err)
		}
		jql += fmt.Sprintf(" AND assignee = %q", user.Name)
	}

	var components []string
	if m := componentBugs.FindStringSubmatch(lower); m != nil {
		components = append(components, strings.TrimSpace(m[1]))
	}

	issues, err := a.jira.QueryIssues(ctx, jql, jira.QueryOptions{
		ProjectKey: a.jiraProjectKey,
		Components: components,
	})
	if err != nil {
		return "", fmt.Errorf("query issues: %w", err)
	}
	rows := make([]report.IssueRow, 0, len(issues))
	for _, is := range issues {
		rows = append(rows, report.IssueRow{
			Key:      is.Key,
			Summary:  is.Summary,
			Status:   is.Status,
			Priority: is.Priority,
			Assignee: is.Assignee,
		})
	}
	return a.renderer.Issues(rows), nil
}

// extractJQL pulls the query out of a fenced code block, falling back to
// the whole response when the model skipped the fence.
func extractJQL(response string) string {
	if m := jqlFence.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(response)
}

// stripProjectClauses removes any project clause the model added anyway.
func stripProjectClauses(jql string) string {
	parts := strings.Split(jql, " AND ")
	kept := parts[:0]
	for _, p := range parts {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(p)), "project =") {
			continue
		}
		kept = append(kept, p)
	}
	return strings.TrimSpace(strings.Join(kept, " AND "))
}
