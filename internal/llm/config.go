package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of model task being performed.
type TaskType string

const (
	TaskParse     TaskType = "parse"      // intent classification plus slot extraction
	TaskExtract   TaskType = "extract"    // single-variable extraction
	TaskMatchFund TaskType = "match_fund" // fund name resolution
	TaskClarify   TaskType = "clarify"    // clarification phrasing
)

// TaskConfig holds per-task model parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// Config holds all configuration for the model subsystem.
type Config struct {
	Enabled    bool
	LogCalls   bool
	APIKey     string
	BaseURL    string // overrides the provider default, mainly for tests
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns a Config with sensible defaults. The model is
// disabled until an API key is configured.
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		LogCalls:   false,
		Model:      "gpt-4o-mini",
		TimeoutMs:  30000,
		MaxRetries: 4,
		Tasks: map[TaskType]TaskConfig{
			TaskParse:     {Temperature: 0.0, MaxTokens: 512, TimeoutMs: 30000},
			TaskExtract:   {Temperature: 0.0, MaxTokens: 256, TimeoutMs: 15000},
			TaskMatchFund: {Temperature: 0.0, MaxTokens: 64, TimeoutMs: 10000},
			TaskClarify:   {Temperature: 0.3, MaxTokens: 256, TimeoutMs: 15000},
		},
	}
}

// LoadConfig reads model configuration from environment variables,
// falling back to defaults for any unset values. A present API key
// enables the model unless ADVISOR_LLM_ENABLED says otherwise.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("ADVISOR_OPENAI_API_KEY"); v != "" {
		cfg.APIKey = v
	} else if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	cfg.Enabled = cfg.APIKey != ""

	if v := os.Getenv("ADVISOR_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("ADVISOR_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("ADVISOR_LLM_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ADVISOR_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("ADVISOR_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("ADVISOR_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskParse, "ADVISOR_LLM_PARSE_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskExtract, "ADVISOR_LLM_EXTRACT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskMatchFund, "ADVISOR_LLM_MATCH_FUND_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskClarify, "ADVISOR_LLM_CLARIFY_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *Config, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
