package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 6, cfg.Pipeline.DefaultQuestions)
	assert.Equal(t, 5, cfg.Pipeline.MaxSubmissionAttempts)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.BaseDelay())
	assert.Equal(t, 30*time.Second, cfg.Retry.MaxDelay())
}

func TestLoadValidYAML(t *testing.T) {
	content := `
server:
  port: 9090
pipeline:
  default_questions: 4
  max_questions: 8
synthesis:
  endpoint: http://tts.local/synthesize
transcription:
  endpoint: http://stt.local/transcribe
  language: uk
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Pipeline.DefaultQuestions)
	assert.Equal(t, 8, cfg.Pipeline.MaxQuestions)
	assert.Equal(t, "http://tts.local/synthesize", cfg.Synthesis.Endpoint)
	assert.Equal(t, "uk", cfg.Transcription.Language)
	// Untouched sections keep their defaults.
	assert.Equal(t, 5, cfg.Pipeline.MaxSubmissionAttempts)
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(tmpFile, []byte("server: [not a mapping"), 0644)
	require.NoError(t, err)

	cfg, err := Load(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFileNotFound(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key-from-env")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("SYNTHESIS_API_KEY", "tts-key")
	t.Setenv("TRANSCRIPTION_API_KEY", "stt-key")
	t.Setenv("PORT", "3000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-key-from-env", cfg.LLM.APIKey)
	assert.Equal(t, "postgres://env/db", cfg.Storage.DatabaseURL)
	// DATABASE_URL in the environment selects the postgres backend.
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "tts-key", cfg.Synthesis.APIKey)
	assert.Equal(t, "stt-key", cfg.Transcription.APIKey)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "port must be between",
		},
		{
			name:    "zero questions",
			mutate:  func(c *Config) { c.Pipeline.DefaultQuestions = 0 },
			wantErr: "default_questions",
		},
		{
			name:    "max below default",
			mutate:  func(c *Config) { c.Pipeline.MaxQuestions = 2 },
			wantErr: "max_questions",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "s3" },
			wantErr: "backend must be",
		},
		{
			name:    "unknown analysis provider",
			mutate:  func(c *Config) { c.Analysis.Provider = "gpt" },
			wantErr: "provider must be",
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.Storage.Backend = "postgres" },
			wantErr: "database_url is required",
		},
		{
			name:    "zero retry attempts",
			mutate:  func(c *Config) { c.Retry.MaxAttempts = 0 },
			wantErr: "max_attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
