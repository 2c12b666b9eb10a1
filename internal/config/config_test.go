package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Len(t, cfg.Providers, 3)
	assert.Equal(t, "groq", cfg.Providers[0].Name)
	assert.Equal(t, "github", cfg.Providers[1].Name)
	assert.Equal(t, "openai", cfg.Providers[2].Name)
	assert.Equal(t, "llama3-8b-8192", cfg.Providers[0].Model)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "https://api.elevenlabs.io/v1", cfg.TTS.BaseURL)
	assert.Equal(t, "eleven_monolingual_v1", cfg.TTS.ModelID)
	assert.InDelta(t, 0.5, cfg.TTS.Stability, 0.001)

	voices := cfg.DefaultVoices()
	assert.Equal(t, defaultVoiceID, voices.Narrator)
	assert.Equal(t, defaultVoiceID, voices.Host)
	assert.Equal(t, defaultVoiceID, voices.Guest)
}

func TestLoad(t *testing.T) {
	t.Run("no file keeps defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default().Server, cfg.Server)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})

	t.Run("yaml file overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		body := `
server:
  port: 8080
log_level: debug
voices:
  host: custom-host-voice
`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "custom-host-voice", cfg.Voices.Host)
		// untouched sections keep their defaults
		assert.Equal(t, "https://api.elevenlabs.io/v1", cfg.TTS.BaseURL)
		assert.Len(t, cfg.Providers, 3)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("environment overrides file and defaults", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("LOG_LEVEL", "warn")
		t.Setenv("GROQ_API_KEY", "gk-test")
		t.Setenv("ELEVEN_LABS_API_KEY", "el-test")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "gk-test", cfg.Providers[0].APIKey)
		assert.Equal(t, "el-test", cfg.TTS.APIKey)
	})

	t.Run("credentials never come from yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		body := `
providers:
  - name: groq
    endpoint: https://api.groq.com/openai/v1/chat/completions
    model: llama3-8b-8192
`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Len(t, cfg.Providers, 1)
		assert.Empty(t, cfg.Providers[0].APIKey)
	})

	t.Run("invalid port is rejected", func(t *testing.T) {
		t.Setenv("PORT", "-1")

		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, NewLogger("debug").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger("bogus").GetLevel())
}
