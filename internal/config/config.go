package config

import (
	"os"
	"strconv"
	"time"

	"prompt-polish/internal/domain"
)

// Enhancer provider names accepted in ENHANCER_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderDemo   = "demo"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort string
	LogLevel   string

	SupabaseURL string
	SupabaseKey string

	EnhancerProvider string
	GoogleProjectID  string
	GoogleLocation   string
	GeminiModel      string
	OpenAIKey        string
	OpenAIModel      string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceID       string
	AppURL              string

	StatePath         string
	StreamIdleTimeout time.Duration
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort: getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),

		SupabaseURL: getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey: getEnvOrDefault("SUPABASE_ANON_KEY", ""),

		EnhancerProvider: getEnvOrDefault("ENHANCER_PROVIDER", ""),
		GoogleProjectID:  getEnvOrDefault("GOOGLE_PROJECT_ID", ""),
		GoogleLocation:   getEnvOrDefault("GOOGLE_LOCATION", "us-central1"),
		GeminiModel:      getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIKey:        getEnvOrDefault("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnvOrDefault("OPENAI_MODEL", "gpt-4"),

		StripeSecretKey:     getEnvOrDefault("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnvOrDefault("STRIPE_WEBHOOK_SECRET", ""),
		StripePriceID:       getEnvOrDefault("STRIPE_PRICE_ID", ""),
		AppURL:              getEnvOrDefault("APP_URL", "http://localhost:3000"),

		StatePath:         getEnvOrDefault("STATE_PATH", "./state"),
		StreamIdleTimeout: getEnvSecondsOrDefault("STREAM_IDLE_TIMEOUT", 60*time.Second),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetEnhancerProvider returns the configured enhancer provider name. Empty
// means auto-select based on which credentials are present.
func (c *AppConfig) GetEnhancerProvider() string {
	return c.EnhancerProvider
}

func (c *AppConfig) GetGoogleProjectID() string {
	return c.GoogleProjectID
}

func (c *AppConfig) GetGoogleLocation() string {
	return c.GoogleLocation
}

func (c *AppConfig) GetGeminiModel() string {
	return c.GeminiModel
}

func (c *AppConfig) GetOpenAIKey() string {
	return c.OpenAIKey
}

func (c *AppConfig) GetOpenAIModel() string {
	return c.OpenAIModel
}

func (c *AppConfig) GetStripeSecretKey() string {
	return c.StripeSecretKey
}

func (c *AppConfig) GetStripeWebhookSecret() string {
	return c.StripeWebhookSecret
}

func (c *AppConfig) GetStripePriceID() string {
	return c.StripePriceID
}

// GetAppURL returns the public frontend URL used for checkout redirects.
func (c *AppConfig) GetAppURL() string {
	return c.AppURL
}

// GetStatePath returns the directory for local fallback state files.
func (c *AppConfig) GetStatePath() string {
	return c.StatePath
}

// GetStreamIdleTimeout returns the maximum silence tolerated between
// upstream chunks before a relay request is abandoned.
func (c *AppConfig) GetStreamIdleTimeout() time.Duration {
	return c.StreamIdleTimeout
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
