package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ADVISOR_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 4, cfg.MaxRetries)
}

func TestLoadConfig_KeyEnables(t *testing.T) {
	t.Setenv("ADVISOR_OPENAI_API_KEY", "sk-test")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestLoadConfig_ExplicitDisableWins(t *testing.T) {
	t.Setenv("ADVISOR_OPENAI_API_KEY", "sk-test")
	t.Setenv("ADVISOR_LLM_ENABLED", "false")

	assert.False(t, LoadConfig().Enabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ADVISOR_LLM_MODEL", "gpt-4o")
	t.Setenv("ADVISOR_LLM_TIMEOUT_MS", "5000")
	t.Setenv("ADVISOR_LLM_PARSE_TIMEOUT_MS", "1234")

	cfg := LoadConfig()
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 5000, cfg.TimeoutMs)
	assert.Equal(t, 1234, cfg.TaskTimeout(TaskParse))
	assert.Equal(t, 5000, cfg.TaskTimeout(TaskType("other")))
}
