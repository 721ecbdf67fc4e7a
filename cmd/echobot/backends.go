package main

import (
	"fmt"

	"echobot/internal/assistant"
	"echobot/internal/config"
	"echobot/internal/format"
	"echobot/internal/jenkins"
	"echobot/internal/jira"
	"echobot/internal/llm"
	"echobot/internal/logging"
	"echobot/internal/report"
	"echobot/internal/rp"
	"echobot/internal/session"
)

// buildAssistant wires the configured backends into an Assistant.
// Unconfigured integrations stay nil; the assistant answers their
// commands with a pointer at the settings.
func buildAssistant(c *config.Config, mode format.Mode, sessions *session.Manager) (*assistant.Assistant, error) {
	opts := assistant.Options{
		Sessions:            sessions,
		Renderer:            report.NewRenderer(mode),
		JiraProjectKey:      c.Jira.ProjectKey,
		FlakyMinOccurrences: c.Analytics.FlakyMinOccurrences,
		HistoryWindowDays:   c.Analytics.HistoryWindowDays,
		Logger:              logging.New("assistant"),
	}

	if c.HasRP() {
		client, err := rp.New(c.RP.Endpoint, c.RP.Token, rp.WithLogger(logging.New("rp")))
		if err != nil {
			return nil, fmt.Errorf("reportportal client: %w", err)
		}
		opts.RP = rp.NewFetcher(client, c.RP.Project)
	}
	if c.HasJenkins() {
		client, err := jenkins.New(c.Jenkins.URL, c.Jenkins.Username, c.Jenkins.APIToken, jenkins.WithLogger(logging.New("jenkins")))
		if err != nil {
			return nil, fmt.Errorf("jenkins client: %w", err)
		}
		opts.Jenkins = client
	}
	if c.HasJira() {
		client, err := jira.New(c.Jira.URL, c.Jira.APIToken, jira.WithLogger(logging.New("jira")))
		if err != nil {
			return nil, fmt.Errorf("jira client: %w", err)
		}
		opts.Jira = client
	}

	chat, err := buildChatClient(c)
	if err != nil {
		return nil, err
	}
	opts.LLM = chat

	return assistant.New(opts), nil
}

// buildChatClient returns the configured completion backend, or nil when
// the provider is missing its settings.
func buildChatClient(c *config.Config) (llm.Client, error) {
	switch c.LLM.Provider {
	case config.ProviderOpenAI:
		if c.LLM.ModelAPI == "" || c.LLM.ModelID == "" {
			return nil, nil
		}
		client, err := llm.NewOpenAI(c.LLM.ModelAPI, c.LLM.AccessToken, c.LLM.ModelID, llm.WithLogger(logging.New("llm")))
		if err != nil {
			return nil, fmt.Errorf("openai client: %w", err)
		}
		return client, nil
	case config.ProviderOllama:
		if c.LLM.OllamaModel == "" {
			return nil, nil
		}
		client, err := llm.NewOllama(c.LLM.OllamaHost, c.LLM.OllamaModel, llm.WithLogger(logging.New("llm")))
		if err != nil {
			return nil, fmt.Errorf("ollama client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
}
