package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port     string
	LogLevel string // debug, info, warn, error

	// Agent
	SystemMessage   string
	Stateful        bool
	EnableDemoTools bool
	EmitRunErrors   bool
	ChannelBuffer   int

	ShutdownTimeout time.Duration
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		Port:            getEnvOrDefault("AGENTWIRE_PORT", "8000"),
		LogLevel:        getEnvOrDefault("AGENTWIRE_LOG_LEVEL", "info"),
		SystemMessage:   getEnvOrDefault("AGENTWIRE_SYSTEM_MESSAGE", "You are a helpful assistant."),
		Stateful:        getEnvBoolOrDefault("AGENTWIRE_STATEFUL", false),
		EnableDemoTools: getEnvBoolOrDefault("AGENTWIRE_DEMO_TOOLS", true),
		EmitRunErrors:   getEnvBoolOrDefault("AGENTWIRE_RUN_ERROR_EVENTS", true),
		ChannelBuffer:   getEnvIntOrDefault("AGENTWIRE_CHANNEL_BUFFER", 64),
		ShutdownTimeout: getEnvDurationOrDefault("AGENTWIRE_SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ChannelBuffer < 0 {
		return fmt.Errorf("AGENTWIRE_CHANNEL_BUFFER must be non-negative, got %d", c.ChannelBuffer)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	return nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
