package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/omarshaarawi/fcbot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("NEXON_API_KEY", "nexon-key")
	t.Setenv("YOUTUBE_API_KEY", "yt-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
}

func TestNew_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, "nexon-key", cfg.NexonAPI.APIKey)
	assert.Equal(t, "https://open.api.nexon.com/fconline/v1", cfg.NexonAPI.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.NexonAPI.Timeout)
	assert.Equal(t, "KR", cfg.YouTubeAPI.RegionCode)
	assert.Equal(t, 5, cfg.YouTubeAPI.MaxResults)
	assert.Equal(t, "weighted", cfg.Stats.Policy)
	assert.Equal(t, 4, cfg.Stats.Concurrency)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Empty(t, cfg.TelegramBot.Token)
}

func TestNew_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("STATS_POLICY", "distribution")
	t.Setenv("STATS_CONCURRENCY", "1")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("CHAT_ID", "42")

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, "distribution", cfg.Stats.Policy)
	assert.Equal(t, 1, cfg.Stats.Concurrency)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, int64(42), cfg.TelegramBot.ChatID)
}

func TestNew_MissingRequired(t *testing.T) {
	setRequired(t)
	require.NoError(t, os.Unsetenv("NEXON_API_KEY"))

	_, err := config.New()
	assert.Error(t, err)
}
