// Package jira is a read-only Jira REST client: JQL issue search and the
// current-user lookup the chat assistant exposes.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxResults caps issue search results when the caller does not.
const DefaultMaxResults = 50

// Client talks to a Jira instance using bearer token auth (PAT).
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
}

// New creates a new Client for the given Jira instance.
func New(baseURL, apiToken string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("jira: baseURL is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	cfg := &clientConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    baseURL,
		apiToken:   apiToken,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.timeout = d
		return nil
	}
}

func (c *Client) doJSON(ctx context.Context, method, u, operation string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	c.logger.DebugContext(ctx, "API request", "operation", operation, "method", method, "url", u)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "API response", "operation", operation, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("%s: HTTP %d: %s", operation, resp.StatusCode, msg)
	}

	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("%s: decode response: %w", operation, err)
		}
	}
	return nil
}

// Issue is the flattened issue view surfaced in chat responses.
type Issue struct {
	Key       string
	Summary   string
	Status    string
	Assignee  string
	Reporter  string
	Created   string
	Updated   string
	Priority  string
	IssueType string
	URL       string
}

// User describes the authenticated Jira user.
type User struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	TimeZone     string `json:"timeZone"`
}

// wire types for /rest/api/2/search
type searchResponse struct {
	Issues []issueResource `json:"issues"`
	Total  int             `json:"total"`
}

type issueResource struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  struct {
			Name string `json:"name"`
		} `json:"status"`
		Assignee *struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
		Reporter *struct {
			DisplayName string `json:"displayName"`
		} `json:"reporter"`
		Created  string `json:"created"`
		Updated  string `json:"updated"`
		Priority *struct {
			Name string `json:"name"`
		} `json:"priority"`
		IssueType struct {
			Name string `json:"name"`
		} `json:"issuetype"`
	} `json:"fields"`
}

// QueryOptions refines an issue search.
type QueryOptions struct {
	// ProjectKey is prepended as a project clause unless the query
	// already mentions one.
	ProjectKey string
	// Components are OR-joined and AND-ed with the rest of the query.
	Components []string
	// MaxResults caps the result count; 0 means DefaultMaxResults.
	MaxResults int
}

// QueryIssues searches issues with a JQL query, augmented per opts.
func (c *Client) QueryIssues(ctx context.Context, jql string, opts QueryOptions) ([]Issue, error) {
	fullJQL := BuildJQL(jql, opts.ProjectKey, opts.Components)
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	params := url.Values{}
	params.Set("jql", fullJQL)
	params.Set("maxResults", strconv.Itoa(maxResults))
	u := c.baseURL + "/rest/api/2/search?" + params.Encode()

	c.logger.DebugContext(ctx, "jira search", "jql", fullJQL, "maxResults", maxResults)

	var result searchResponse
	if err := c.doJSON(ctx, "GET", u, "search issues", &result); err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(result.Issues))
	for _, r := range result.Issues {
		issue := Issue{
			Key:       r.Key,
			Summary:   r.Fields.Summary,
			Status:    r.Fields.Status.Name,
			Assignee:  "Unassigned",
			Reporter:  "Unknown",
			Created:   r.Fields.Created,
			Updated:   r.Fields.Updated,
			Priority:  "N/A",
			IssueType: r.Fields.IssueType.Name,
			URL:       fmt.Sprintf("%s/browse/%s", c.baseURL, r.Key),
		}
		if r.Fields.Assignee != nil {
			issue.Assignee = r.Fields.Assignee.DisplayName
		}
		if r.Fields.Reporter != nil {
			issue.Reporter = r.Fields.Reporter.DisplayName
		}
		if r.Fields.Priority != nil {
			issue.Priority = r.Fields.Priority.Name
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// CurrentUser returns the authenticated user's details.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	u := c.baseURL + "/rest/api/2/myself"
	if err := c.doJSON(ctx, "GET", u, "get current user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// BuildJQL augments a JQL query with a project clause and component filters.
// The project is prepended only when the query does not already mention one.
func BuildJQL(jql, projectKey string, components []string) string {
	full := jql
	if projectKey != "" && !strings.Contains(strings.ToLower(jql), "project") {
		full = fmt.Sprintf("project = %q AND %s", projectKey, full)
	}
	if len(components) > 0 {
		clauses := make([]string, len(components))
		for i, comp := range components {
			clauses[i] = fmt.Sprintf("component = %q", comp)
		}
		full = fmt.Sprintf("(%s) AND (%s)", full, strings.Join(clauses, " OR "))
	}
	return full
}
