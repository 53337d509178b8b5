package model

import "time"

// Config holds the complete Credence configuration
type Config struct {
	Pipeline     PipelineConfig     `yaml:"pipeline" mapstructure:"pipeline"`
	Scoring      ScoringConfig      `yaml:"scoring" mapstructure:"scoring"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	History      HistoryConfig      `yaml:"history" mapstructure:"history"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// PipelineConfig controls the staged analysis run
type PipelineConfig struct {
	MinStageDelay time.Duration `yaml:"min_stage_delay" mapstructure:"min_stage_delay"`
	MaxStageDelay time.Duration `yaml:"max_stage_delay" mapstructure:"max_stage_delay"`
	SingleFlight  bool          `yaml:"single_flight" mapstructure:"single_flight"` // Reject concurrent runs
}

// ScoringConfig selects the score model backend
type ScoringConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // random, llm
}

// LLMConfig configures the inference backed score model
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"` // Else from OPENAI_API_KEY or ANTHROPIC_API_KEY; never written to disk
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// HTTPConfig configures URL intake
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`

	// URL submissions may target loopback, private and link-local hosts
	AllowPrivateAddresses bool `yaml:"allow_private_addresses" mapstructure:"allow_private_addresses"`
}

// CacheConfig configures the fetched page cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitingConfig limits outbound fetches per host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr              string   `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins    []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RequestsPerSecond float64  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int      `yaml:"burst" mapstructure:"burst"`
}

// HistoryConfig configures the in-memory history
type HistoryConfig struct {
	SeedDemo bool `yaml:"seed_demo" mapstructure:"seed_demo"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Mode  string `yaml:"mode" mapstructure:"mode"` // dev, prod
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			MinStageDelay: 600 * time.Millisecond,
			MaxStageDelay: 900 * time.Millisecond,
		},
		Scoring: ScoringConfig{
			Backend: "random",
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 500,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Credence/1.0 (+https://github.com/ppiankov/credence)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			Dir:       ".credence-cache",
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			AllowedOrigins:    []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			RequestsPerSecond: 20,
			Burst:             40,
		},
		History: HistoryConfig{
			SeedDemo: true,
		},
		Log: LogConfig{
			Mode:  "dev",
			Level: "info",
		},
	}
}
