package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Chart   ChartConfig
	Session SessionConfig
	Metrics MetricsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// ChartConfig holds chart image dimensions in pixels
type ChartConfig struct {
	Width  int
	Height int
}

// SessionConfig holds calculator page session configuration
type SessionConfig struct {
	TTL time.Duration
	Max int
}

// MetricsConfig holds Prometheus endpoint configuration
type MetricsConfig struct {
	Enabled bool
}

// Load loads configuration from environment variables.
// There is no config file; every setting has a default.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:8080,http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CHART_WIDTH", 800)
	v.SetDefault("CHART_HEIGHT", 360)
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("SESSION_MAX", 1000)
	v.SetDefault("METRICS_ENABLED", true)

	v.AutomaticEnv()

	// Bind specific environment variable names
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "ALLOWED_ORIGINS", "LOG_LEVEL",
		"CHART_WIDTH", "CHART_HEIGHT", "SESSION_TTL", "SESSION_MAX", "METRICS_ENABLED",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var config Config
	config.Server.Port = v.GetString("PORT")
	config.Server.Env = v.GetString("ENVIRONMENT")
	config.Server.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))
	config.Log.Level = strings.ToLower(v.GetString("LOG_LEVEL"))
	config.Chart.Width = v.GetInt("CHART_WIDTH")
	config.Chart.Height = v.GetInt("CHART_HEIGHT")
	config.Session.TTL = v.GetDuration("SESSION_TTL")
	config.Session.Max = v.GetInt("SESSION_MAX")
	config.Metrics.Enabled = v.GetBool("METRICS_ENABLED")

	if config.Server.Port == "" {
		return nil, fmt.Errorf("PORT must not be empty")
	}
	if config.Chart.Width <= 0 || config.Chart.Height <= 0 {
		return nil, fmt.Errorf("chart size must be positive, got %dx%d", config.Chart.Width, config.Chart.Height)
	}
	if config.Session.TTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", config.Session.TTL)
	}

	if config.Session.Max <= 0 {
		return nil, fmt.Errorf("SESSION_MAX must be positive, got %d", config.Session.Max)
	}

	log.Debug().
		Str("env", config.Server.Env).
		Strs("allowed_origins", config.Server.AllowedOrigins).
		Dur("session_ttl", config.Session.TTL).
		Int("session_max", config.Session.Max).
		Msg("Configuration loaded")

	return &config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
