package assistant

import (
	"context"
	"fmt"
	"strings"

	"echobot/internal/format"
)

const jenkinsNotConfigured = "Jenkins is not configured. Please check your settings."

// handleJenkinsListJobs serves "list jobs" with an optional keyword filter.
func (a *Assistant) handleJenkinsListJobs(ctx context.Context, matches []string) (string, error) {
	if a.jenkins == nil {
		return jenkinsNotConfigured, nil
	}
	keyword := ""
	if len(matches) > 1 {
		keyword = strings.TrimSpace(matches[1])
	}
	names, err := a.jenkins.ListJobs(ctx, keyword)
	if err != nil {
		return "", fmt.Errorf("list jobs: %w", err)
	}
	if len(names) == 0 {
		if keyword != "" {
			return fmt.Sprintf("No Jenkins jobs found containing %q.", keyword), nil
		}
		return "No Jenkins jobs found.", nil
	}

	t := format.NewTable(a.renderer.Mode())
	t.Header("Job Name", "Status", "URL")
	for _, name := range names {
		status, err := a.jenkins.JobStatus(ctx, name)
		if err != nil {
			return "", fmt.Errorf("job status %q: %w", name, err)
		}
		t.Row(status.Name, status.Status, status.URL)
	}
	return "### Jenkins Jobs\n\n" + t.String(), nil
}

// handleJenkinsListViews serves "list views".
func (a *Assistant) handleJenkinsListViews(ctx context.Context, matches []string) (string, error) {
	if a.jenkins == nil {
		return jenkinsNotConfigured, nil
	}
	views, err := a.jenkins.ListViews(ctx)
	if err != nil {
		return "", fmt.Errorf("list views: %w", err)
	}
	if len(views) == 0 {
		return "No Jenkins views found.", nil
	}

	t := format.NewTable(a.renderer.Mode())
	t.Header("View Name", "Jobs", "URL")
	for _, v := range views {
		count, err := a.jenkins.ViewJobCount(ctx, v.Name)
		if err != nil {
			return "", fmt.Errorf("view job count %q: %w", v.Name, err)
		}
		t.Row(v.Name, count, v.URL)
	}
	return "### Jenkins Views\n\n" + t.String(), nil
}

// handleJenkinsCheckJob serves "status of job <name>".
func (a *Assistant) handleJenkinsCheckJob(ctx context.Context, matches []string) (string, error) {
	if a.jenkins == nil {
		return jenkinsNotConfigured, nil
	}
	name := strings.TrimSpace(matches[1])
	info, err := a.jenkins.JobInfo(ctx, name)
	if err != nil {
		return "", fmt.Errorf("job info %q: %w", name, err)
	}
	status, err := a.jenkins.JobStatus(ctx, name)
	if err != nil {
		return "", fmt.Errorf("job status %q: %w", name, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### Job: %s\n\n", info.Name)
	fmt.Fprintf(&b, "- **Status**: %s\n", status.Status)
	fmt.Fprintf(&b, "- **Buildable**: %t\n", info.Buildable)
	fmt.Fprintf(&b, "- **In Queue**: %t\n", info.InQueue)
	if info.Description != "" {
		fmt.Fprintf(&b, "- **Description**: %s\n", info.Description)
	}
	if info.LastBuild != nil {
		fmt.Fprintf(&b, "- **Last Build**: #%d (%s)\n", info.LastBuild.Number, info.LastBuild.URL)
	}
	fmt.Fprintf(&b, "- **URL**: %s", info.URL)
	return b.String(), nil
}

// handleJenkinsTriggerJob serves "trigger job <name> [with params k=v,...]".
func (a *Assistant) handleJenkinsTriggerJob(ctx context.Context, matches []string) (string, error) {
	if a.jenkins == nil {
		return jenkinsNotConfigured, nil
	}
	name := strings.TrimSpace(matches[1])
	params := map[string]string{}
	if len(matches) > 2 && strings.TrimSpace(matches[2]) != "" {
		for _, pair := range strings.Split(matches[2], ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Sprintf("Invalid parameter %q, expected name=value.", pair), nil
			}
			params[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	if err := a.jenkins.BuildJob(ctx, name, params); err != nil {
		return "", fmt.Errorf("trigger job %q: %w", name, err)
	}
	if len(params) > 0 {
		return fmt.Sprintf("Job '%s' triggered successfully with parameters.", name), nil
	}
	return fmt.Sprintf("Job '%s' triggered successfully.", name), nil
}
