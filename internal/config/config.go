// ABOUTME: Centralized configuration for the answering engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the answering system
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	RequestTimeout time.Duration
	Temperature    float32
	MaxTokens      int

	// Embedding settings
	EmbeddingDim      int
	MaxEmbedInputLen  int
	MemoryThresholdMB float64
	ModeCooldown      time.Duration

	// Chunking settings
	MaxChunkLen int
	MinChunkLen int

	// Retrieval settings
	TopK int

	// Prompt settings
	TokenBudget    int
	ReservedTokens int

	// Fallback handler settings
	FallbackRetries    int
	FallbackRetryDelay time.Duration

	// Conversation settings
	HistoryWindow time.Duration

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("VERSO_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("VERSO_EMBEDDING_MODEL", "text-embedding-3-small"),
		RequestTimeout: getEnvDuration("VERSO_REQUEST_TIMEOUT", 30*time.Second),
		Temperature:    float32(getEnvFloat("VERSO_TEMPERATURE", 0.3)),
		MaxTokens:      getEnvInt("VERSO_MAX_TOKENS", 1024),

		EmbeddingDim:      getEnvInt("VERSO_EMBEDDING_DIM", 1536),
		MaxEmbedInputLen:  getEnvInt("VERSO_MAX_EMBED_INPUT", 8192),
		MemoryThresholdMB: getEnvFloat("VERSO_MEMORY_THRESHOLD_MB", 1024),
		ModeCooldown:      getEnvDuration("VERSO_MODE_COOLDOWN", 30*time.Second),

		MaxChunkLen: getEnvInt("VERSO_MAX_CHUNK_LEN", 1000),
		MinChunkLen: getEnvInt("VERSO_MIN_CHUNK_LEN", 50),

		TopK: getEnvInt("VERSO_TOP_K", 4),

		TokenBudget:    getEnvInt("VERSO_TOKEN_BUDGET", 3000),
		ReservedTokens: getEnvInt("VERSO_RESERVED_TOKENS", 500),

		FallbackRetries:    getEnvInt("VERSO_FALLBACK_RETRIES", 2),
		FallbackRetryDelay: getEnvDuration("VERSO_FALLBACK_RETRY_DELAY", time.Second),

		HistoryWindow: getEnvDuration("VERSO_HISTORY_WINDOW", 24*time.Hour),

		CharmHost:   getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName: getEnv("CHARM_DB", "verso"),
		AutoSync:    getEnvBool("CHARM_AUTO_SYNC", false),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxChunkLen <= 0 {
		return fmt.Errorf("VERSO_MAX_CHUNK_LEN must be positive, got %d", c.MaxChunkLen)
	}
	if c.MinChunkLen < 0 || c.MinChunkLen >= c.MaxChunkLen {
		return fmt.Errorf("VERSO_MIN_CHUNK_LEN must be in [0, max chunk len), got %d", c.MinChunkLen)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("VERSO_TOP_K must be positive, got %d", c.TopK)
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("VERSO_EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim)
	}
	if c.TokenBudget <= c.ReservedTokens {
		return fmt.Errorf("VERSO_TOKEN_BUDGET (%d) must exceed VERSO_RESERVED_TOKENS (%d)", c.TokenBudget, c.ReservedTokens)
	}
	if c.FallbackRetries < 0 || c.FallbackRetries > 10 {
		return fmt.Errorf("VERSO_FALLBACK_RETRIES must be 0-10, got %d", c.FallbackRetries)
	}
	if c.MemoryThresholdMB <= 0 {
		return fmt.Errorf("VERSO_MEMORY_THRESHOLD_MB must be positive, got %f", c.MemoryThresholdMB)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
