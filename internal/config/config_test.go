package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("CONTEXT_STORE", "redis")
	t.Setenv("CONTEXT_TTL", "45m")
	t.Setenv("PENDING_OPTION_LIMIT", "3")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("LLM_GENERATION_TIMEOUT", "not-a-duration")

	cfg := Load()
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "redis", cfg.Assistant.ContextStore)
	assert.Equal(t, 45*time.Minute, cfg.Assistant.ContextTTL)
	assert.Equal(t, 3, cfg.Assistant.PendingLimit)
	assert.True(t, cfg.App.OtelEnabled)
	assert.Equal(t, 8*time.Second, cfg.Ai.GenerationTimeout)
	assert.False(t, cfg.IsProduction())
}
