// Package assistant wires the chat surface together: it routes user input
// to the Report Portal, Jenkins, and Jira handlers, falls through to the
// LLM for open questions, and records every turn in the session history.
package assistant

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"echobot/internal/analytics"
	"echobot/internal/format"
	"echobot/internal/jenkins"
	"echobot/internal/jira"
	"echobot/internal/llm"
	"echobot/internal/report"
	"echobot/internal/router"
	"echobot/internal/rp"
	"echobot/internal/session"
)

// RPBackend is the Report Portal surface the assistant consumes.
type RPBackend interface {
	ListLaunches(ctx context.Context, attrFilter string) ([]rp.LaunchSummary, error)
	AnalyticsData(ctx context.Context, attrFilter string) ([]analytics.Launch, map[string][]analytics.TestItem, error)
}

// JenkinsBackend is the Jenkins surface the assistant consumes.
type JenkinsBackend interface {
	ListJobs(ctx context.Context, filterKeyword string) ([]string, error)
	JobStatus(ctx context.Context, jobName string) (*jenkins.JobStatus, error)
	JobInfo(ctx context.Context, jobName string) (*jenkins.JobInfo, error)
	BuildJob(ctx context.Context, jobName string, parameters map[string]string) error
	ListViews(ctx context.Context) ([]jenkins.View, error)
	ViewJobCount(ctx context.Context, viewName string) (int, error)
}

// JiraBackend is the Jira surface the assistant consumes.
type JiraBackend interface {
	QueryIssues(ctx context.Context, jql string, opts jira.QueryOptions) ([]jira.Issue, error)
	CurrentUser(ctx context.Context) (*jira.User, error)
}

// Options configures an Assistant. Any backend may be nil; the matching
// commands then answer with a not-configured message.
type Options struct {
	RP       RPBackend
	Jenkins  JenkinsBackend
	Jira     JiraBackend
	LLM      llm.Client
	Sessions *session.Manager
	Renderer *report.Renderer

	JiraProjectKey      string
	FlakyMinOccurrences int
	HistoryWindowDays   int

	Logger *slog.Logger
}

// Assistant answers chat input.
type Assistant struct {
	rp       RPBackend
	jenkins  JenkinsBackend
	jira     JiraBackend
	llm      llm.Client
	sessions *session.Manager
	renderer *report.Renderer

	jiraProjectKey string
	flakyMin       int
	windowDays     int

	router *router.Router
	logger *slog.Logger
}

// New builds an Assistant and registers its routes.
func New(opts Options) *Assistant {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = report.NewRenderer(format.Markdown)
	}

	a := &Assistant{
		rp:             opts.RP,
		jenkins:        opts.Jenkins,
		jira:           opts.Jira,
		llm:            opts.LLM,
		sessions:       opts.Sessions,
		renderer:       renderer,
		jiraProjectKey: opts.JiraProjectKey,
		flakyMin:       opts.FlakyMinOccurrences,
		windowDays:     opts.HistoryWindowDays,
		logger:         logger,
	}
	a.router = a.buildRouter()
	return a
}

func (a *Assistant) buildRouter() *router.Router {
	r := router.New(a.logger)

	r.Handle("help", `^\s*/(help)?\s*$`, func(ctx context.Context, matches []string) (string, error) {
		return helpText, nil
	})
	r.Handle("rp-report",
		`(?:test report for|test report of|analysis for|data for)\s+(?:component\s*[=:]\s*)?([a-zA-Z0-9_.-]+)(?:\s+in\s+release\s*[=:]?\s*([a-zA-Z0-9_.-]+))?`,
		a.handleReport)
	r.Handle("rp-list", `^/rp\s+list launches\s*(.*)$`, a.handleRPList)
	r.Handle("rp-unknown", `^/rp\b`, func(ctx context.Context, matches []string) (string, error) {
		return "I didn't understand your ReportPortal command. Try 'list launches [attribute_key=attribute_value]'.", nil
	})
	r.Handle("jira-whoami", `^\s*/jira whoami\s*$`, a.handleJiraWhoami)
	r.Handle("jira-query", `^/jira query\s+(.+)$`, a.handleJiraQuery)
	r.Handle("jira-unknown", `^/jira\b`, func(ctx context.Context, matches []string) (string, error) {
		return "I didn't understand your Jira command. Try '/jira query <natural_language_query>' or '/jira whoami'.", nil
	})
	r.Handle("jenkins-list-jobs",
		`(?:/jenkins\s+)?(?:list|show me|get)\s+(?:all\s+)?jobs(?:\s+(?:related to|containing)\s+(.+))?`,
		a.handleJenkinsListJobs)
	r.Handle("jenkins-list-views",
		`(?:/jenkins\s+)?(?:list|show me|get)\s+(?:all\s+)?views`,
		a.handleJenkinsListViews)
	r.Handle("jenkins-check-job",
		`(?:check|get info for|status of)\s+job\s+(.+)`,
		a.handleJenkinsCheckJob)
	r.Handle("jenkins-trigger-job",
		`(?:trigger|run|start)\s+job\s+(.+?)(?:\s+with params\s+(.+))?$`,
		a.handleJenkinsTriggerJob)
	r.Handle("jenkins-unknown", `^/jenkins\b`, func(ctx context.Context, matches []string) (string, error) {
		return "I didn't understand your Jenkins command. Try 'list jobs', 'status of job <job_name>', or 'trigger job <job_name> [with params param1=value1,param2=value2]'.", nil
	})
	r.Fallback(a.handleFallback)

	return r
}

const helpText = `### Commands

- ` + "`/help`" + ` - show this message
- ` + "`/new-chat`" + ` - start a new chat session
- ` + "`/rp list launches [key=value,...]`" + ` - list Report Portal launches
- ` + "`test report for <component> in release <release>`" + ` - full analytics report
- ` + "`/jira whoami`" + ` - show the authenticated Jira user
- ` + "`/jira query <natural language>`" + ` - search Jira issues
- ` + "`list jobs [containing <keyword>]`" + ` - list Jenkins jobs
- ` + "`status of job <name>`" + ` - Jenkins job details
- ` + "`trigger job <name> [with params k=v,...]`" + ` - start a Jenkins build

Anything else goes to the model.`

// Respond handles one user turn: it persists the input, dispatches it,
// and persists the reply.
func (a *Assistant) Respond(ctx context.Context, input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if strings.EqualFold(trimmed, "/new-chat") {
		return a.newChat()
	}

	if a.sessions != nil {
		if err := a.sessions.Append("user", input); err != nil {
			return "", err
		}
	}
	reply, err := a.router.Dispatch(ctx, trimmed)
	if err != nil {
		return "", err
	}
	if a.sessions != nil {
		if err := a.sessions.Append("assistant", reply); err != nil {
			return "", err
		}
	}
	return reply, nil
}

func (a *Assistant) newChat() (string, error) {
	if a.sessions == nil {
		return "Chat history is not configured.", nil
	}
	if _, err := a.sessions.Create(); err != nil {
		return err.Error(), nil
	}
	return "Started a new chat.", nil
}

// handleFallback sends the full session history to the model.
func (a *Assistant) handleFallback(ctx context.Context, input string) (string, error) {
	if a.llm == nil {
		return "Chat client is not configured. Please check your settings.", nil
	}

	messages := llm.UserMessage(input)
	if a.sessions != nil {
		history, err := a.sessions.History()
		if err != nil {
			return "", err
		}
		if len(history) > 0 {
			messages = make([]llm.Message, 0, len(history))
			for _, m := range history {
				messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
			}
		}
	}
	return a.llm.Chat(ctx, messages)
}
