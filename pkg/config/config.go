// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Loads .env files through godotenv, then builds typed sections from the environment

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Cache       CacheConfig
	Log         LogConfig
	Channel     ChannelConfig
	Correlation CorrelationConfig
	Discovery   DiscoveryConfig
	Generator   GeneratorConfig
	Agenda      AgendaConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RateLimit is the number of API requests allowed per RateWindow per client
	RateLimit int

	// RateWindow is the rate limiting window
	RateWindow time.Duration

	// RequestTimeout bounds a single API request, including script generation
	RequestTimeout time.Duration
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig

	// SearchTTL is how long backend search results are cached
	SearchTTL time.Duration

	// InspectionTTL is how long page inspections are cached
	InspectionTTL time.Duration
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int

	// CleanupInterval is how often expired entries are purged, in seconds
	CleanupInterval int
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ChannelConfig configures the messaging transport used for scripts and visuals
type ChannelConfig struct {
	// Type is "redis" for Redis Pub/Sub or "memory" for an in-process hub
	Type string

	// Recipient is the counterparty address requests are sent to
	Recipient string

	// OutboundTopic and InboundTopic are the Pub/Sub channel names
	OutboundTopic string
	InboundTopic  string

	// OutboundURL is the gateway webhook the in-process hub POSTs requests to.
	// Without it requests are only available from GET /channel/outbound.
	OutboundURL string

	// OutboundToken is sent as a bearer token to OutboundURL
	OutboundToken string

	// CounterpartyIDs identify the counterparty for legacy reply matching
	CounterpartyIDs []string
}

// CorrelationConfig tunes the request/reply protocol
type CorrelationConfig struct {
	MaxAttempts   int
	ReplyTimeout  time.Duration
	GuardDelay    time.Duration
	MinScriptLen  int
	LegacyMatcher bool
}

// DiscoveryConfig holds discovery backend credentials and limits
type DiscoveryConfig struct {
	YouTubeAPIKey    string
	GoogleCSEAPIKey  string
	GoogleCSEID      string
	PerplexityAPIKey string
	PerplexityModel  string
	GoogleNewsRegion string

	HTTPTimeout       time.Duration
	RequestsPerSecond float64
	ValidationWorkers int
}

// GeneratorConfig configures the direct script generator
type GeneratorConfig struct {
	GeminiAPIKey string
	Model        string
}

// AgendaConfig configures the news agenda
type AgendaConfig struct {
	NewsAPIKey   string
	SnapshotPath string
}

// LoadEnvFiles loads .env files in priority order:
// ENV_FILE when set (and nothing else), otherwise .env.local then .env.
// Variables already present in the environment are never overwritten.
func LoadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(".env.local"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env.local: %w", err)
	}
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads .env files and then the environment
func Load() (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}
	return LoadFromEnv()
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8000"),
			RateLimit:      getEnvAsIntOrDefault("RATE_LIMIT", 60),
			RateWindow:     getEnvAsDurationOrDefault("RATE_WINDOW", time.Minute),
			RequestTimeout: getEnvAsDurationOrDefault("REQUEST_TIMEOUT", 5*time.Minute),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			Memory: MemoryConfig{
				DefaultExpiration: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", 3600),
				CleanupInterval:   getEnvAsIntOrDefault("MEMORY_CACHE_CLEANUP", 600),
			},
			SearchTTL:     getEnvAsDurationOrDefault("SEARCH_CACHE_TTL", 30*time.Minute),
			InspectionTTL: getEnvAsDurationOrDefault("INSPECTION_CACHE_TTL", 24*time.Hour),
		},
		Log: LogConfig{
			Level:      getEnvOrDefault("LOG_LEVEL", "info"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
			File:       getEnvOrDefault("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsIntOrDefault("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsIntOrDefault("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsIntOrDefault("LOG_MAX_AGE_DAYS", 28),
		},
		Channel: ChannelConfig{
			Type:            getEnvOrDefault("CHANNEL_TYPE", "memory"),
			Recipient:       getEnvOrDefault("CHANNEL_RECIPIENT", "perplexity"),
			OutboundTopic:   getEnvOrDefault("CHANNEL_OUTBOUND_TOPIC", "newsdesk:outbound"),
			InboundTopic:    getEnvOrDefault("CHANNEL_INBOUND_TOPIC", "newsdesk:inbound"),
			OutboundURL:     getEnvOrDefault("CHANNEL_OUTBOUND_URL", ""),
			OutboundToken:   getEnvOrDefault("CHANNEL_OUTBOUND_TOKEN", ""),
			CounterpartyIDs: getEnvAsListOrDefault("CHANNEL_COUNTERPARTY_IDS", []string{"perplexity"}),
		},
		Correlation: CorrelationConfig{
			MaxAttempts:   getEnvAsIntOrDefault("CORRELATION_MAX_ATTEMPTS", 3),
			ReplyTimeout:  getEnvAsDurationOrDefault("CORRELATION_REPLY_TIMEOUT", 60*time.Second),
			GuardDelay:    getEnvAsDurationOrDefault("CORRELATION_GUARD_DELAY", 500*time.Millisecond),
			MinScriptLen:  getEnvAsIntOrDefault("CORRELATION_MIN_SCRIPT_LEN", 200),
			LegacyMatcher: getEnvAsBoolOrDefault("CORRELATION_LEGACY_MATCHER", false),
		},
		Discovery: DiscoveryConfig{
			YouTubeAPIKey:     getEnvOrDefault("YOUTUBE_API_KEY", ""),
			GoogleCSEAPIKey:   getEnvOrDefault("GOOGLE_CSE_API_KEY", ""),
			GoogleCSEID:       getEnvOrDefault("GOOGLE_CSE_ID", ""),
			PerplexityAPIKey:  getEnvOrDefault("PERPLEXITY_API_KEY", ""),
			PerplexityModel:   getEnvOrDefault("PERPLEXITY_MODEL", "sonar"),
			GoogleNewsRegion:  getEnvOrDefault("GOOGLE_NEWS_REGION", "PK"),
			HTTPTimeout:       getEnvAsDurationOrDefault("DISCOVERY_HTTP_TIMEOUT", 10*time.Second),
			RequestsPerSecond: getEnvAsFloatOrDefault("DISCOVERY_RPS", 10),
			ValidationWorkers: getEnvAsIntOrDefault("VALIDATION_WORKERS", 8),
		},
		Generator: GeneratorConfig{
			GeminiAPIKey: getEnvOrDefault("GEMINI_API_KEY", ""),
			Model:        getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Agenda: AgendaConfig{
			NewsAPIKey:   getEnvOrDefault("NEWSAPI_KEY", ""),
			SnapshotPath: getEnvOrDefault("AGENDA_SNAPSHOT_PATH", "agenda.json"),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go duration strings ("45s") or bare seconds ("45")
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimit < 1 {
		return errors.New("rate limit must be at least 1")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Channel.Type != "redis" && c.Channel.Type != "memory" {
		return errors.New("channel type must be 'redis' or 'memory'")
	}

	if c.Channel.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis channel")
	}

	if c.Channel.Recipient == "" {
		return errors.New("channel recipient cannot be empty")
	}

	if c.Correlation.MaxAttempts < 1 {
		return errors.New("correlation max attempts must be at least 1")
	}

	if c.Correlation.ReplyTimeout <= 0 {
		return errors.New("correlation reply timeout must be positive")
	}

	if c.Correlation.GuardDelay < 0 {
		return errors.New("correlation guard delay cannot be negative")
	}

	if c.Discovery.ValidationWorkers < 1 {
		return errors.New("validation workers must be at least 1")
	}

	if c.Agenda.SnapshotPath == "" {
		return errors.New("agenda snapshot path cannot be empty")
	}

	return nil
}
