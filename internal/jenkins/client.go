// Package jenkins is a minimal Jenkins REST client covering the job and
// view queries the chat assistant exposes.
package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a Jenkins instance using basic auth (username + API token).
type Client struct {
	baseURL    string
	username   string
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

// New creates a new Client for the given Jenkins instance.
func New(baseURL, username, apiToken string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("jenkins: baseURL is required")
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
		username:   username,
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
	if c.username != "" {
		req.SetBasicAuth(c.username, c.apiToken)
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

// Job is a job entry as listed by the server root API.
type Job struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Color string `json:"color"`
}

// View is a view entry as listed by the server root API.
type View struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// JobInfo is the detailed job resource.
type JobInfo struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Buildable   bool   `json:"buildable"`
	InQueue     bool   `json:"inQueue"`
	LastBuild   *struct {
		Number int    `json:"number"`
		URL    string `json:"url"`
	} `json:"lastBuild"`
}

// JobStatus is the chat-facing job summary.
type JobStatus struct {
	Name   string
	Status string
	URL    string
}

// ListJobs returns the names of all jobs, optionally filtered by a
// case-insensitive keyword.
func (c *Client) ListJobs(ctx context.Context, filterKeyword string) ([]string, error) {
	var root struct {
		Jobs []Job `json:"jobs"`
	}
	u := c.baseURL + "/api/json?tree=" + url.QueryEscape("jobs[name,url,color]")
	if err := c.doJSON(ctx, "GET", u, "list jobs", &root); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(root.Jobs))
	keyword := strings.ToLower(filterKeyword)
	for _, job := range root.Jobs {
		if keyword != "" && !strings.Contains(strings.ToLower(job.Name), keyword) {
			continue
		}
		names = append(names, job.Name)
	}
	return names, nil
}

// JobInfo returns detailed information for a job.
func (c *Client) JobInfo(ctx context.Context, jobName string) (*JobInfo, error) {
	u := fmt.Sprintf("%s/job/%s/api/json", c.baseURL, url.PathEscape(jobName))

	var info JobInfo
	if err := c.doJSON(ctx, "GET", u, "get job info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// JobStatus returns the job's human-readable status and URL.
func (c *Client) JobStatus(ctx context.Context, jobName string) (*JobStatus, error) {
	info, err := c.JobInfo(ctx, jobName)
	if err != nil {
		return nil, err
	}
	return &JobStatus{
		Name:   jobName,
		Status: statusFromColor(info.Color),
		URL:    info.URL,
	}, nil
}

// BuildJob triggers a build. A non-empty parameters map uses the
// buildWithParameters endpoint.
func (c *Client) BuildJob(ctx context.Context, jobName string, parameters map[string]string) error {
	var u string
	if len(parameters) > 0 {
		values := url.Values{}
		for k, v := range parameters {
			values.Set(k, v)
		}
		u = fmt.Sprintf("%s/job/%s/buildWithParameters?%s",
			c.baseURL, url.PathEscape(jobName), values.Encode())
	} else {
		u = fmt.Sprintf("%s/job/%s/build", c.baseURL, url.PathEscape(jobName))
	}
	return c.doJSON(ctx, "POST", u, "trigger build", nil)
}

// ListViews returns all views on the server.
func (c *Client) ListViews(ctx context.Context) ([]View, error) {
	var root struct {
		Views []View `json:"views"`
	}
	u := c.baseURL + "/api/json?tree=" + url.QueryEscape("views[name,url]")
	if err := c.doJSON(ctx, "GET", u, "list views", &root); err != nil {
		return nil, err
	}
	return root.Views, nil
}

// ViewJobCount returns the number of jobs in a view.
func (c *Client) ViewJobCount(ctx context.Context, viewName string) (int, error) {
	var view struct {
		Jobs []Job `json:"jobs"`
	}
	u := fmt.Sprintf("%s/view/%s/api/json?tree=%s",
		c.baseURL, url.PathEscape(viewName), url.QueryEscape("jobs[name]"))
	if err := c.doJSON(ctx, "GET", u, "get view jobs", &view); err != nil {
		return 0, err
	}
	return len(view.Jobs), nil
}

// BuildParameters returns the parameters a specific build ran with.
func (c *Client) BuildParameters(ctx context.Context, jobName string, buildNumber int) (map[string]string, error) {
	var build struct {
		Actions []struct {
			Class      string `json:"_class"`
			Parameters []struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
			} `json:"parameters"`
		} `json:"actions"`
	}
	u := fmt.Sprintf("%s/job/%s/%d/api/json", c.baseURL, url.PathEscape(jobName), buildNumber)
	if err := c.doJSON(ctx, "GET", u, "get build info", &build); err != nil {
		return nil, err
	}

	parameters := map[string]string{}
	for _, action := range build.Actions {
		if !strings.Contains(action.Class, "ParametersAction") {
			continue
		}
		for _, p := range action.Parameters {
			if p.Name == "" || p.Value == nil {
				continue
			}
			var s string
			if err := json.Unmarshal(p.Value, &s); err == nil {
				parameters[p.Name] = s
			} else {
				parameters[p.Name] = string(p.Value)
			}
		}
		break
	}
	return parameters, nil
}

// statusFromColor maps the Jenkins "color" ball to a human status label.
// Unknown colors pass through as-is.
func statusFromColor(color string) string {
	switch color {
	case "red":
		return "Failed"
	case "blue":
		return "Success"
	case "yellow":
		return "Unstable"
	case "aborted":
		return "Aborted"
	case "notbuilt":
		return "Not Built"
	case "disabled":
		return "Disabled"
	case "grey":
		return "Not Run"
	case "red_anime":
		return "Building (Failed)"
	case "blue_anime":
		return "Building (Success)"
	case "yellow_anime":
		return "Building (Unstable)"
	case "aborted_anime":
		return "Building (Aborted)"
	case "grey_anime":
		return "Building (Not Run)"
	case "":
		return "Unknown"
	default:
		return color
	}
}
