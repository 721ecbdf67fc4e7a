package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "echobot.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.LLM.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q", cfg.LLM.Provider)
	}
	if cfg.LLM.OllamaHost != "http://localhost:11434" {
		t.Errorf("OllamaHost = %q", cfg.LLM.OllamaHost)
	}
	if cfg.Jira.ProjectKey != "ACM" {
		t.Errorf("ProjectKey = %q", cfg.Jira.ProjectKey)
	}
	if cfg.Analytics.FlakyMinOccurrences != 3 || cfg.Analytics.HistoryWindowDays != 30 {
		t.Errorf("Analytics = %+v", cfg.Analytics)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
reportportal:
  endpoint: https://rp.example.com
  token: rp-token
  project: demo
jenkins:
  url: https://ci.example.com
  username: ci-user
  api_token: ci-token
llm:
  provider: ollama
  ollama_model: llama3
analytics:
  flaky_min_occurrences: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.RP.Endpoint != "https://rp.example.com" || cfg.RP.Project != "demo" {
		t.Errorf("RP = %+v", cfg.RP)
	}
	if !cfg.HasRP() || !cfg.HasJenkins() || cfg.HasJira() {
		t.Errorf("integration flags: rp=%v jenkins=%v jira=%v", cfg.HasRP(), cfg.HasJenkins(), cfg.HasJira())
	}
	if cfg.LLM.Provider != ProviderOllama || cfg.LLM.OllamaModel != "llama3" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Analytics.FlakyMinOccurrences != 5 {
		t.Errorf("FlakyMinOccurrences = %d", cfg.Analytics.FlakyMinOccurrences)
	}
	// Unset fields still get defaults.
	if cfg.Analytics.HistoryWindowDays != 30 {
		t.Errorf("HistoryWindowDays = %d", cfg.Analytics.HistoryWindowDays)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
reportportal:
  endpoint: https://rp.example.com
  project: from-yaml
`)
	t.Setenv("RP_PROJECT", "from-env")
	t.Setenv("RP_UUID", "env-token")
	t.Setenv("JIRA_PROJECT_KEY", "ODF")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RP.Project != "from-env" {
		t.Errorf("RP.Project = %q, want from-env", cfg.RP.Project)
	}
	if cfg.RP.Token != "env-token" {
		t.Errorf("RP.Token = %q", cfg.RP.Token)
	}
	if cfg.RP.Endpoint != "https://rp.example.com" {
		t.Errorf("RP.Endpoint = %q", cfg.RP.Endpoint)
	}
	if cfg.Jira.ProjectKey != "ODF" {
		t.Errorf("Jira.ProjectKey = %q", cfg.Jira.ProjectKey)
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("JENKINS_URL", "https://ci.example.com")
	t.Setenv("JENKINS_USERNAME", "ci-user")
	t.Setenv("JENKINS_API_TOKEN", "ci-token")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.HasJenkins() {
		t.Errorf("HasJenkins = false, cfg = %+v", cfg.Jenkins)
	}
}

func TestLoadInvalidProvider(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: watson
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "::: not yaml {{{")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}
