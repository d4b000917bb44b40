package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Supabase   SupabaseConfig   `mapstructure:"supabase"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Prediction PredictionConfig `mapstructure:"prediction"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port               string   `mapstructure:"port"`
	Env                string   `mapstructure:"env"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// IsProduction reports whether the server runs in production mode
func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

// SupabaseConfig holds Supabase-specific configuration
type SupabaseConfig struct {
	URL            string `mapstructure:"url"`
	ServiceKey     string `mapstructure:"service_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// OpenAIConfig configures the text-generation collaborator.
// An empty APIKey disables generation; callers fall back to canned replies.
type OpenAIConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	BaseURL        string  `mapstructure:"base_url"`
	Model          string  `mapstructure:"model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float32 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"` // json or text
	AddSource bool   `mapstructure:"add_source"`
}

// PredictionConfig tunes how much history is fed to the predictor and how
// forecasts are gated for free users
type PredictionConfig struct {
	Timezone         string `mapstructure:"timezone"`
	HistoryDays      int    `mapstructure:"history_days"`
	FreeForecastDays int    `mapstructure:"free_forecast_days"`
	PremiumGating    bool   `mapstructure:"premium_gating"`
}

// Location resolves the configured timezone
func (p PredictionConfig) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid prediction timezone %q: %w", p.Timezone, err)
	}
	return loc, nil
}

// RateLimitConfig holds per-client request budgets
type RateLimitConfig struct {
	RequestsPerMinute     int `mapstructure:"requests_per_minute"`
	ChatRequestsPerMinute int `mapstructure:"chat_requests_per_minute"`
}

// Load reads configuration from .env, environment variables and an optional
// config file
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DAILYMOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Non-prefixed names used by the hosting platform and the web app
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("supabase.url", "SUPABASE_URL")
	_ = v.BindEnv("supabase.service_key", "SUPABASE_SERVICE_KEY")
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("server.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.Server.CORSAllowedOrigins = splitOrigins(config.Server.CORSAllowedOrigins)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.cors_allowed_origins", []string{})

	v.SetDefault("supabase.timeout_seconds", 15)

	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 200)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.timeout_seconds", 20)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.add_source", false)

	v.SetDefault("prediction.timezone", "UTC")
	v.SetDefault("prediction.history_days", 90)
	v.SetDefault("prediction.free_forecast_days", 3)
	v.SetDefault("prediction.premium_gating", true)

	v.SetDefault("ratelimit.requests_per_minute", 300)
	v.SetDefault("ratelimit.chat_requests_per_minute", 10)
}

// splitOrigins accepts both a YAML list and a single comma-separated env value
func splitOrigins(raw []string) []string {
	origins := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	return origins
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Supabase.ServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if _, err := c.Prediction.Location(); err != nil {
		return err
	}
	if c.Prediction.HistoryDays <= 0 {
		return fmt.Errorf("prediction.history_days must be positive")
	}
	if c.Prediction.FreeForecastDays < 1 || c.Prediction.FreeForecastDays > 7 {
		return fmt.Errorf("prediction.free_forecast_days must be between 1 and 7")
	}
	return nil
}
