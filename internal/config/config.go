package config

import "os"

// Config holds all configuration for the application
type Config struct {
	DatabasePath   string
	LogLevel       string
	Port           string
	PrometheusPort string
	ExportDir      string
	TelegramToken  string
}

// Load loads configuration from environment variables. Only the Telegram
// token has no default: when it is empty the bot surface stays disabled and
// the application runs with the HTTP API alone.
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath:   getEnvOrDefault("DATABASE_PATH", "compras.db"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		Port:           getEnvOrDefault("PORT", "8080"),
		PrometheusPort: getEnvOrDefault("PROMETHEUS_PORT", "9090"),
		ExportDir:      os.Getenv("EXPORT_DIR"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	return cfg, nil
}

// BotEnabled reports whether a Telegram token was configured.
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
