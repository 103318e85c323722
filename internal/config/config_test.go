package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "STORE_BACKEND", "API_KEY", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_TEMPERATURE", "ACTIVITY_WINDOW"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "file", cfg.StoreBackend)
	assert.Equal(t, "attendance_pro_records", cfg.SlotName)
	assert.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 7, cfg.ActivityWindow)
	assert.Equal(t, time.Duration(0), cfg.GeminiTimeout)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "from-gemini-var")
	t.Setenv("GEMINI_TEMPERATURE", "0.2")
	t.Setenv("GEMINI_TIMEOUT", "45s")
	t.Setenv("ACTIVITY_WINDOW", "nope")
	t.Setenv("STORE_BACKEND", "redis")

	cfg := Load()
	assert.True(t, cfg.Production())
	assert.Equal(t, "from-gemini-var", cfg.GeminiAPIKey)
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, 45*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, 7, cfg.ActivityWindow)
	assert.Equal(t, "redis", cfg.StoreOptions().Backend)

	t.Setenv("API_KEY", "primary")
	assert.Equal(t, "primary", Load().GeminiAPIKey)
}
