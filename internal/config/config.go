// Package config loads assistant configuration from a YAML file, a .env
// file, and environment variables. Environment variables win over the
// YAML file; the env names match the original deployment (RP_ENDPOINT,
// JENKINS_URL, MODEL_API and so on).
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"echobot/internal/store"
)

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config is the full assistant configuration.
type Config struct {
	RP        RPConfig        `yaml:"reportportal"`
	Jenkins   JenkinsConfig   `yaml:"jenkins"`
	Jira      JiraConfig      `yaml:"jira"`
	LLM       LLMConfig       `yaml:"llm"`
	Store     StoreConfig     `yaml:"store"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Log       LogConfig       `yaml:"log"`
}

// RPConfig configures the Report Portal client.
type RPConfig struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
	Project  string `yaml:"project"`
}

// JenkinsConfig configures the Jenkins client.
type JenkinsConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	APIToken string `yaml:"api_token"`
}

// JiraConfig configures the Jira client.
type JiraConfig struct {
	URL        string `yaml:"url"`
	APIToken   string `yaml:"api_token"`
	ProjectKey string `yaml:"project_key"`
}

// LLMConfig selects and configures the completion backend.
type LLMConfig struct {
	Provider    string `yaml:"provider"`
	ModelAPI    string `yaml:"model_api"`
	ModelID     string `yaml:"model_id"`
	AccessToken string `yaml:"access_token"`
	OllamaHost  string `yaml:"ollama_host"`
	OllamaModel string `yaml:"ollama_model"`
}

// StoreConfig configures chat history persistence.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// AnalyticsConfig carries analytics defaults.
type AnalyticsConfig struct {
	FlakyMinOccurrences int `yaml:"flaky_min_occurrences"`
	HistoryWindowDays   int `yaml:"history_window_days"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenAI
	}
	if c.LLM.OllamaHost == "" {
		c.LLM.OllamaHost = "http://localhost:11434"
	}
	if c.Jira.ProjectKey == "" {
		c.Jira.ProjectKey = "ACM"
	}
	if c.Store.Path == "" {
		c.Store.Path = store.DefaultDBPath
	}
	if c.Analytics.FlakyMinOccurrences == 0 {
		c.Analytics.FlakyMinOccurrences = 3
	}
	if c.Analytics.HistoryWindowDays == 0 {
		c.Analytics.HistoryWindowDays = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Load builds the configuration: .env file (if present), then the YAML
// file at path (if non-empty and present), then environment overrides,
// then defaults.
func Load(path string) (*Config, error) {
	// Missing .env is fine; it only feeds os.Environ.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No config file; env and defaults carry it.
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config yaml: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.RP.Endpoint, "RP_ENDPOINT")
	setFromEnv(&c.RP.Token, "RP_UUID")
	setFromEnv(&c.RP.Project, "RP_PROJECT")

	setFromEnv(&c.Jenkins.URL, "JENKINS_URL")
	setFromEnv(&c.Jenkins.Username, "JENKINS_USERNAME")
	setFromEnv(&c.Jenkins.APIToken, "JENKINS_API_TOKEN")

	setFromEnv(&c.Jira.URL, "JIRA_URL")
	setFromEnv(&c.Jira.APIToken, "JIRA_API_TOKEN")
	setFromEnv(&c.Jira.ProjectKey, "JIRA_PROJECT_KEY")

	setFromEnv(&c.LLM.Provider, "LLM_PROVIDER")
	setFromEnv(&c.LLM.ModelAPI, "MODEL_API")
	setFromEnv(&c.LLM.ModelID, "MODEL_ID")
	setFromEnv(&c.LLM.AccessToken, "ACCESS_TOKEN")
	setFromEnv(&c.LLM.OllamaHost, "OLLAMA_HOST")
	setFromEnv(&c.LLM.OllamaModel, "OLLAMA_MODEL")

	setFromEnv(&c.Store.Path, "ECHOBOT_DB")
	setFromEnv(&c.Log.Level, "ECHOBOT_LOG_LEVEL")
	setFromEnv(&c.Log.Format, "ECHOBOT_LOG_FORMAT")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("config: unknown llm provider %q (want %q or %q)",
			c.LLM.Provider, ProviderOpenAI, ProviderOllama)
	}
	return nil
}

// HasRP reports whether the Report Portal integration is configured.
func (c *Config) HasRP() bool {
	return c.RP.Endpoint != "" && c.RP.Token != "" && c.RP.Project != ""
}

// HasJenkins reports whether the Jenkins integration is configured.
func (c *Config) HasJenkins() bool {
	return c.Jenkins.URL != "" && c.Jenkins.Username != "" && c.Jenkins.APIToken != ""
}

// HasJira reports whether the Jira integration is configured.
func (c *Config) HasJira() bool {
	return c.Jira.URL != "" && c.Jira.APIToken != ""
}
