package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/osartun/game-of-three/internal/domain"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port string

	// Informational labels for the startup log line
	HostLabel       string
	SocketPortLabel string

	// Security
	AllowedOrigins []string

	// Rate Limiting
	RateLimitAPI rate.Limit
	RateLimitWS  rate.Limit

	// Logging
	LogLevel string

	// WebSocket
	MaxMessageSize int

	// Game
	CPUMoveDelay     time.Duration
	OpeningNumberMin int
	OpeningNumberMax int
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:             "8082",
		AllowedOrigins:   []string{"http://localhost:8082", "http://localhost:3000"},
		RateLimitAPI:     domain.DefaultRateLimitAPI,
		RateLimitWS:      domain.DefaultRateLimitWS,
		LogLevel:         "info", // Options: debug, info, warn, error, silent
		MaxMessageSize:   domain.MaxMessageSize,
		CPUMoveDelay:     domain.CPUMoveDelay,
		OpeningNumberMin: domain.OpeningNumberMin,
		OpeningNumberMax: domain.OpeningNumberMax,
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	// Server
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	// HOST_LOCAL and SOCKET_PORT are informational only, used in the
	// startup log line
	cfg.HostLabel = os.Getenv("HOST_LOCAL")
	cfg.SocketPortLabel = os.Getenv("SOCKET_PORT")

	// Security
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}

	// Rate Limiting
	if rl := os.Getenv("RATE_LIMIT_API"); rl != "" {
		if val, err := strconv.Atoi(rl); err == nil && val > 0 {
			cfg.RateLimitAPI = rate.Limit(val)
		}
	}

	if rl := os.Getenv("RATE_LIMIT_WS"); rl != "" {
		if val, err := strconv.Atoi(rl); err == nil && val > 0 {
			cfg.RateLimitWS = rate.Limit(val)
		}
	}

	// Logging
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	// WebSocket
	if size := os.Getenv("MAX_MESSAGE_SIZE"); size != "" {
		if val, err := strconv.Atoi(size); err == nil && val > 0 {
			cfg.MaxMessageSize = val
		}
	}

	// Game
	if ms := os.Getenv("CPU_MOVE_DELAY_MS"); ms != "" {
		if val, err := strconv.Atoi(ms); err == nil && val > 0 {
			cfg.CPUMoveDelay = time.Duration(val) * time.Millisecond
		}
	}

	return cfg
}

// parseOrigins parses comma-separated origins
func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Global configuration instance
var AppConfig = LoadFromEnv()
