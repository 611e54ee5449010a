// Package config provides the configuration structure for the ad-voice-service.
package config

import (
	"fmt"
	"os"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Environment variables carrying backend credentials. Credentials never live
// in the TOML tree.
const (
	textAPIKeyEnv   = "ANTHROPIC_API_KEY"
	speechAPIKeyEnv = "ELEVENLABS_API_KEY"
)

// Defaults applied after load for fields left empty in the TOML tree.
const (
	defaultCheapModel     = "claude-3-haiku-20240307"
	defaultExpensiveModel = "claude-3-5-sonnet-20241022"

	defaultCheapInputCostPer1K      = 0.00025
	defaultCheapOutputCostPer1K     = 0.00125
	defaultExpensiveInputCostPer1K  = 0.003
	defaultExpensiveOutputCostPer1K = 0.015

	defaultGenerationBaseURL = "https://api.anthropic.com"
	defaultGenerationTimeout = 30
	defaultMaxOutputTokens   = 1024
	defaultOutputTokenRatio  = 1.3
	defaultCacheTTLSeconds   = 3600
	defaultSpeechBaseURL     = "https://api.elevenlabs.io"
	defaultSpeechModel       = "eleven_monolingual_v1"
	defaultSpeechCostPer1K   = 0.10
	defaultSpeechTimeout     = 30
	defaultTrackerDBPath     = "usage.db"
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                    string `toml:"url"`
	AdStreamName           string `toml:"ad_stream_name"`
	AdConsumerName         string `toml:"ad_consumer_name"`
	AdJobSubject           string `toml:"ad_job_subject"`
	AdReadySubject         string `toml:"ad_ready_subject"`
	AudioObjectStoreBucket string `toml:"audio_object_store_bucket"`
}

// GenerationConfig holds the cost model and backend settings for ad copy
// generation. The two tiers carry distinct per-1k-token rate pairs.
type GenerationConfig struct {
	CheapModel               string  `toml:"cheap_model"`
	ExpensiveModel           string  `toml:"expensive_model"`
	CheapInputCostPer1K      float64 `toml:"cheap_input_cost_per_1k"`
	CheapOutputCostPer1K     float64 `toml:"cheap_output_cost_per_1k"`
	ExpensiveInputCostPer1K  float64 `toml:"expensive_input_cost_per_1k"`
	ExpensiveOutputCostPer1K float64 `toml:"expensive_output_cost_per_1k"`
	BaseURL                  string  `toml:"base_url"`
	TimeoutSeconds           int     `toml:"timeout_seconds"`
	MaxOutputTokens          int     `toml:"max_output_tokens"`
	OutputTokenRatio         float64 `toml:"output_token_ratio"`
}

// CacheConfig holds the response cache settings.
type CacheConfig struct {
	Enabled    bool `toml:"enabled"`
	TTLSeconds int  `toml:"ttl_seconds"`
}

// SpeechConfig holds the speech synthesis backend settings.
type SpeechConfig struct {
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	CostPer1KChars float64 `toml:"cost_per_1k_chars"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// TrackerConfig holds the usage tracker settings.
type TrackerConfig struct {
	DBPath string `toml:"db_path"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	NATS       NATSConfig       `toml:"nats"`
	Generation GenerationConfig `toml:"generation"`
	Cache      CacheConfig      `toml:"cache"`
	Speech     SpeechConfig     `toml:"speech"`
	Tracker    TrackerConfig    `toml:"tracker"`
	Paths      PathsConfig      `toml:"paths"`
}

// Load loads the configuration for the ad-voice-service and applies defaults
// for unset fields.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults fills unset fields with the built-in defaults.
func (c *Config) ApplyDefaults() {
	applyGenerationDefaults(&c.Generation)
	applySpeechDefaults(&c.Speech)

	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = defaultCacheTTLSeconds
	}

	if c.Tracker.DBPath == "" {
		c.Tracker.DBPath = defaultTrackerDBPath
	}
}

// TextAPIKey returns the text-generation backend credential from the
// environment.
func (c *Config) TextAPIKey() string {
	return os.Getenv(textAPIKeyEnv)
}

// SpeechAPIKey returns the speech backend credential from the environment.
// An empty value selects the mock synthesis strategy.
func (c *Config) SpeechAPIKey() string {
	return os.Getenv(speechAPIKeyEnv)
}

func applyGenerationDefaults(g *GenerationConfig) {
	if g.CheapModel == "" {
		g.CheapModel = defaultCheapModel
	}

	if g.ExpensiveModel == "" {
		g.ExpensiveModel = defaultExpensiveModel
	}

	if g.CheapInputCostPer1K == 0 {
		g.CheapInputCostPer1K = defaultCheapInputCostPer1K
	}

	if g.CheapOutputCostPer1K == 0 {
		g.CheapOutputCostPer1K = defaultCheapOutputCostPer1K
	}

	if g.ExpensiveInputCostPer1K == 0 {
		g.ExpensiveInputCostPer1K = defaultExpensiveInputCostPer1K
	}

	if g.ExpensiveOutputCostPer1K == 0 {
		g.ExpensiveOutputCostPer1K = defaultExpensiveOutputCostPer1K
	}

	if g.BaseURL == "" {
		g.BaseURL = defaultGenerationBaseURL
	}

	if g.TimeoutSeconds == 0 {
		g.TimeoutSeconds = defaultGenerationTimeout
	}

	if g.MaxOutputTokens == 0 {
		g.MaxOutputTokens = defaultMaxOutputTokens
	}

	if g.OutputTokenRatio == 0 {
		g.OutputTokenRatio = defaultOutputTokenRatio
	}
}

func applySpeechDefaults(s *SpeechConfig) {
	if s.BaseURL == "" {
		s.BaseURL = defaultSpeechBaseURL
	}

	if s.Model == "" {
		s.Model = defaultSpeechModel
	}

	if s.CostPer1KChars == 0 {
		s.CostPer1KChars = defaultSpeechCostPer1K
	}

	if s.TimeoutSeconds == 0 {
		s.TimeoutSeconds = defaultSpeechTimeout
	}
}
