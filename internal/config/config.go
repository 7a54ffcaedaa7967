// Package config provides configuration loading and validation for the
// interview service. Values come from a YAML file layered over defaults, with
// secrets and connection URLs overridable from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	LLM           LLMConfig           `yaml:"llm"`
	Synthesis     SynthesisConfig     `yaml:"synthesis"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Analysis      AnalysisConfig      `yaml:"analysis"`
	Storage       StorageConfig       `yaml:"storage"`
	Retry         RetryConfig         `yaml:"retry"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Address        string `yaml:"address"`
	Port           int    `yaml:"port"`
	ReadTimeout    int    `yaml:"read_timeout"`     // seconds
	WriteTimeout   int    `yaml:"write_timeout"`    // seconds
	IdleTimeout    int    `yaml:"idle_timeout"`     // seconds
	MaxUploadBytes int64  `yaml:"max_upload_bytes"` // per-file cap for resume and answer uploads
}

// PipelineConfig contains interview pipeline parameters.
type PipelineConfig struct {
	DefaultQuestions      int `yaml:"default_questions"`
	MaxQuestions          int `yaml:"max_questions"`
	MaxSubmissionAttempts int `yaml:"max_submission_attempts"` // per question id
	SessionTTL            int `yaml:"session_ttl"`             // seconds of idleness before expiry
	CleanupInterval       int `yaml:"cleanup_interval"`        // seconds
}

// LLMConfig contains Gemini model configuration.
type LLMConfig struct {
	APIKey        string  `yaml:"api_key"`
	ModelLite     string  `yaml:"model_lite"`     // resume parsing
	ModelStandard string  `yaml:"model_standard"` // question generation
	ModelAdvanced string  `yaml:"model_advanced"` // answer analysis
	Temperature   float32 `yaml:"temperature"`
}

// SynthesisConfig contains the text-to-speech service configuration.
type SynthesisConfig struct {
	Endpoint      string `yaml:"endpoint"`
	APIKey        string `yaml:"api_key"`
	Voice         string `yaml:"voice"`
	Timeout       int    `yaml:"timeout"` // seconds
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// TranscriptionConfig contains the speech-to-text service configuration.
type TranscriptionConfig struct {
	Endpoint      string `yaml:"endpoint"`
	APIKey        string `yaml:"api_key"`
	Language      string `yaml:"language"`
	Timeout       int    `yaml:"timeout"` // seconds
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// AnalysisConfig selects who grades the answers.
type AnalysisConfig struct {
	Provider string `yaml:"provider"` // gemini | heuristic
}

// StorageConfig selects the blob store backend.
type StorageConfig struct {
	Backend     string `yaml:"backend"` // memory | postgres
	DatabaseURL string `yaml:"database_url"`
}

// RetryConfig bounds retries of transient adapter failures.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	BaseDelayMS int `yaml:"base_delay_ms"`
	MaxDelaySec int `yaml:"max_delay_sec"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	JSON  bool `yaml:"json"`
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        "0.0.0.0",
			Port:           8080,
			ReadTimeout:    60,
			WriteTimeout:   120,
			IdleTimeout:    60,
			MaxUploadBytes: 32 << 20,
		},
		Pipeline: PipelineConfig{
			DefaultQuestions:      6,
			MaxQuestions:          12,
			MaxSubmissionAttempts: 5,
			SessionTTL:            3600,
			CleanupInterval:       60,
		},
		LLM: LLMConfig{
			ModelLite:     "gemini-2.0-flash-lite",
			ModelStandard: "gemini-2.0-flash",
			ModelAdvanced: "gemini-2.5-pro",
			Temperature:   0.1,
		},
		Synthesis: SynthesisConfig{
			Voice:         "en-US-neutral",
			Timeout:       60,
			MaxConcurrent: 4,
		},
		Transcription: TranscriptionConfig{
			Language:      "en",
			Timeout:       120,
			MaxConcurrent: 4,
		},
		Analysis: AnalysisConfig{
			Provider: "gemini",
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelayMS: 500,
			MaxDelaySec: 30,
		},
		Logging: LoggingConfig{
			JSON: true,
		},
	}
}

// Load reads the configuration file at path, layered over Default. An empty
// path yields defaults. Environment overrides are applied either way.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// applyEnv overlays values that are conventionally supplied through the
// environment rather than committed to a config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		// A database URL in the environment switches blob storage to it.
		c.Storage.DatabaseURL = v
		c.Storage.Backend = "postgres"
	}
	if v := os.Getenv("SYNTHESIS_URL"); v != "" {
		c.Synthesis.Endpoint = v
	}
	if v := os.Getenv("SYNTHESIS_API_KEY"); v != "" {
		c.Synthesis.APIKey = v
	}
	if v := os.Getenv("TRANSCRIPTION_URL"); v != "" {
		c.Transcription.Endpoint = v
	}
	if v := os.Getenv("TRANSCRIPTION_API_KEY"); v != "" {
		c.Transcription.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

// Validate performs validation of the full configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline config: %w", err)
	}
	if err := c.Synthesis.Validate(); err != nil {
		return fmt.Errorf("synthesis config: %w", err)
	}
	if err := c.Transcription.Validate(); err != nil {
		return fmt.Errorf("transcription config: %w", err)
	}
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	if err := c.Retry.Validate(); err != nil {
		return fmt.Errorf("retry config: %w", err)
	}
	return nil
}

// Validate validates server configuration.
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if s.MaxUploadBytes < 1024 {
		return fmt.Errorf("max_upload_bytes must be at least 1024, got %d", s.MaxUploadBytes)
	}
	return nil
}

// Validate validates pipeline configuration.
func (p *PipelineConfig) Validate() error {
	if p.DefaultQuestions < 1 {
		return fmt.Errorf("default_questions must be at least 1, got %d", p.DefaultQuestions)
	}
	if p.MaxQuestions < p.DefaultQuestions {
		return fmt.Errorf("max_questions (%d) must be at least default_questions (%d)",
			p.MaxQuestions, p.DefaultQuestions)
	}
	if p.MaxSubmissionAttempts < 1 {
		return fmt.Errorf("max_submission_attempts must be at least 1, got %d", p.MaxSubmissionAttempts)
	}
	if p.SessionTTL < 0 {
		return fmt.Errorf("session_ttl cannot be negative, got %d", p.SessionTTL)
	}
	if p.CleanupInterval < 1 {
		return fmt.Errorf("cleanup_interval must be at least 1 second, got %d", p.CleanupInterval)
	}
	return nil
}

// Validate validates synthesis configuration.
func (s *SynthesisConfig) Validate() error {
	if s.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", s.Timeout)
	}
	if s.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1, got %d", s.MaxConcurrent)
	}
	return nil
}

// Validate validates transcription configuration.
func (t *TranscriptionConfig) Validate() error {
	if t.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", t.Timeout)
	}
	if t.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1, got %d", t.MaxConcurrent)
	}
	return nil
}

// Validate validates analysis configuration.
func (a *AnalysisConfig) Validate() error {
	switch a.Provider {
	case "gemini", "heuristic":
		return nil
	default:
		return fmt.Errorf("provider must be 'gemini' or 'heuristic', got '%s'", a.Provider)
	}
}

// Validate validates storage configuration.
func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case "memory":
	case "postgres":
		if s.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("backend must be 'memory' or 'postgres', got '%s'", s.Backend)
	}
	return nil
}

// Validate validates retry configuration.
func (r *RetryConfig) Validate() error {
	if r.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", r.MaxAttempts)
	}
	if r.BaseDelayMS < 1 {
		return fmt.Errorf("base_delay_ms must be at least 1, got %d", r.BaseDelayMS)
	}
	if r.MaxDelaySec < 1 {
		return fmt.Errorf("max_delay_sec must be at least 1, got %d", r.MaxDelaySec)
	}
	return nil
}

// ReadTimeoutDuration returns the server read timeout as a time.Duration.
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns the server write timeout as a time.Duration.
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// IdleTimeoutDuration returns the server idle timeout as a time.Duration.
func (s *ServerConfig) IdleTimeoutDuration() time.Duration {
	return time.Duration(s.IdleTimeout) * time.Second
}

// SessionTTLDuration returns the session TTL as a time.Duration.
func (p *PipelineConfig) SessionTTLDuration() time.Duration {
	return time.Duration(p.SessionTTL) * time.Second
}

// CleanupIntervalDuration returns the cleanup interval as a time.Duration.
func (p *PipelineConfig) CleanupIntervalDuration() time.Duration {
	return time.Duration(p.CleanupInterval) * time.Second
}

// TimeoutDuration returns the synthesis timeout as a time.Duration.
func (s *SynthesisConfig) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// TimeoutDuration returns the transcription timeout as a time.Duration.
func (t *TranscriptionConfig) TimeoutDuration() time.Duration {
	return time.Duration(t.Timeout) * time.Second
}

// BaseDelay returns the first retry delay.
func (r *RetryConfig) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMS) * time.Millisecond
}

// MaxDelay returns the retry delay ceiling.
func (r *RetryConfig) MaxDelay() time.Duration {
	return time.Duration(r.MaxDelaySec) * time.Second
}
