package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	KalshiConfig       KalshiConfig       `json:"kalshi"`
	HedgeConfig        HedgeConfig        `json:"hedge"`
	DatabaseConfig     DatabaseConfig     `json:"database"`
	RedisConfig        RedisConfig        `json:"redis"`
	NotificationConfig NotificationConfig `json:"notification"`
	VaultConfig        VaultConfig        `json:"vault"`
	LoggingConfig      LoggingConfig      `json:"logging"`
}

// KalshiConfig holds Kalshi API configuration
type KalshiConfig struct {
	APIKeyID      string `json:"api_key_id"`
	PrivateKeyPEM string `json:"private_key_pem"`
	Demo          bool   `json:"demo"`      // Use the demo endpoint instead of production
	MockMode      bool   `json:"mock_mode"` // Use simulated data, no live API calls
}

// HedgeConfig holds hedge strategy configuration
type HedgeConfig struct {
	TriggerPercent float64 `json:"trigger_percent"` // Gain fraction that fires the hedge (0.50 = 50%)
	MinNotional    float64 `json:"min_notional"`    // Ignore positions invested below this dollar amount
	PositionSource string  `json:"position_source"` // "portfolio" or "database"
}

// DatabaseConfig holds PostgreSQL configuration for tracked positions
type DatabaseConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"ssl_mode"`
}

// RedisConfig holds Redis configuration for the hedge registry
type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type NotificationConfig struct {
	Enabled  bool           `json:"enabled"`
	Discord  DiscordConfig  `json:"discord"`
	Telegram TelegramConfig `json:"telegram"`
}

type DiscordConfig struct {
	Enabled    bool   `json:"enabled"`
	WebhookURL string `json:"webhook_url"`
}

type TelegramConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

// VaultConfig holds HashiCorp Vault configuration for credential storage
type VaultConfig struct {
	Enabled    bool   `json:"enabled"`
	Address    string `json:"address"`
	Token      string `json:"token"`
	SecretPath string `json:"secret_path"`
	TLSEnabled bool   `json:"tls_enabled"`
	CACert     string `json:"ca_cert"`
}

type LoggingConfig struct {
	Level  string `json:"level"`  // DEBUG, INFO, WARN, ERROR
	Pretty bool   `json:"pretty"` // Console output instead of JSON
}

// Position source values
const (
	SourcePortfolio = "portfolio"
	SourceDatabase  = "database"
)

// Load reads configuration from an optional JSON file (CONFIG_FILE, default
// config.json) and applies environment variable overrides on top.
func Load() (*Config, error) {
	cfg := defaultConfig()

	filename := getEnvOrDefault("CONFIG_FILE", "config.json")
	if _, err := os.Stat(filename); err == nil {
		fileCfg, err := loadFromFile(filename)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Validate checks that every required credential is present. Any missing one
// is a startup-fatal configuration error, reported before any position is
// processed.
func (c *Config) Validate() error {
	var missing []string

	if !c.KalshiConfig.MockMode && !c.VaultConfig.Enabled {
		if c.KalshiConfig.APIKeyID == "" {
			missing = append(missing, "KALSHI_KEY")
		}
		if c.KalshiConfig.PrivateKeyPEM == "" {
			missing = append(missing, "KALSHI_SECRET")
		}
	}

	if c.VaultConfig.Enabled {
		if c.VaultConfig.Address == "" {
			missing = append(missing, "VAULT_ADDR")
		}
		if c.VaultConfig.Token == "" {
			missing = append(missing, "VAULT_TOKEN")
		}
	}

	if c.HedgeConfig.PositionSource == SourceDatabase && !c.DatabaseConfig.Enabled {
		return fmt.Errorf("position source 'database' requires DB_ENABLED=true")
	}

	if c.DatabaseConfig.Enabled {
		if c.DatabaseConfig.Password == "" {
			missing = append(missing, "DB_PASSWORD")
		}
	}

	if c.NotificationConfig.Enabled && c.NotificationConfig.Discord.Enabled {
		if c.NotificationConfig.Discord.WebhookURL == "" {
			missing = append(missing, "DISCORD_URL")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.HedgeConfig.PositionSource {
	case SourcePortfolio, SourceDatabase:
	default:
		return fmt.Errorf("invalid position source %q (want %q or %q)",
			c.HedgeConfig.PositionSource, SourcePortfolio, SourceDatabase)
	}

	if c.HedgeConfig.TriggerPercent <= 0 {
		return fmt.Errorf("trigger percent must be positive, got %v", c.HedgeConfig.TriggerPercent)
	}

	return nil
}

func defaultConfig() *Config {
	return &Config{
		KalshiConfig: KalshiConfig{
			Demo: true,
		},
		HedgeConfig: HedgeConfig{
			TriggerPercent: 0.50,
			MinNotional:    10.0,
			PositionSource: SourcePortfolio,
		},
		DatabaseConfig: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "hedge_bot",
			Database: "hedge_bot",
			SSLMode:  "disable",
		},
		RedisConfig: RedisConfig{
			Addr: "localhost:6379",
		},
		LoggingConfig: LoggingConfig{
			Level:  "INFO",
			Pretty: true,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	// Kalshi credentials (same variable names as the original deployment)
	cfg.KalshiConfig.APIKeyID = getEnvOrDefault("KALSHI_KEY", cfg.KalshiConfig.APIKeyID)
	cfg.KalshiConfig.PrivateKeyPEM = getEnvOrDefault("KALSHI_SECRET", cfg.KalshiConfig.PrivateKeyPEM)
	cfg.KalshiConfig.Demo = getEnvBoolOrDefault("KALSHI_DEMO", cfg.KalshiConfig.Demo)
	cfg.KalshiConfig.MockMode = getEnvBoolOrDefault("KALSHI_MOCK_MODE", cfg.KalshiConfig.MockMode)

	// Hedge strategy
	cfg.HedgeConfig.TriggerPercent = getEnvFloatOrDefault("HEDGE_TRIGGER_PERCENT", cfg.HedgeConfig.TriggerPercent)
	cfg.HedgeConfig.MinNotional = getEnvFloatOrDefault("HEDGE_MIN_NOTIONAL", cfg.HedgeConfig.MinNotional)
	cfg.HedgeConfig.PositionSource = getEnvOrDefault("HEDGE_POSITION_SOURCE", cfg.HedgeConfig.PositionSource)

	// Database
	cfg.DatabaseConfig.Enabled = getEnvBoolOrDefault("DB_ENABLED", cfg.DatabaseConfig.Enabled)
	cfg.DatabaseConfig.Host = getEnvOrDefault("DB_HOST", cfg.DatabaseConfig.Host)
	cfg.DatabaseConfig.Port = getEnvIntOrDefault("DB_PORT", cfg.DatabaseConfig.Port)
	cfg.DatabaseConfig.User = getEnvOrDefault("DB_USER", cfg.DatabaseConfig.User)
	cfg.DatabaseConfig.Password = getEnvOrDefault("DB_PASSWORD", cfg.DatabaseConfig.Password)
	cfg.DatabaseConfig.Database = getEnvOrDefault("DB_NAME", cfg.DatabaseConfig.Database)
	cfg.DatabaseConfig.SSLMode = getEnvOrDefault("DB_SSLMODE", cfg.DatabaseConfig.SSLMode)

	// Redis
	cfg.RedisConfig.Enabled = getEnvBoolOrDefault("REDIS_ENABLED", cfg.RedisConfig.Enabled)
	cfg.RedisConfig.Addr = getEnvOrDefault("REDIS_ADDR", cfg.RedisConfig.Addr)
	cfg.RedisConfig.Password = getEnvOrDefault("REDIS_PASSWORD", cfg.RedisConfig.Password)
	cfg.RedisConfig.DB = getEnvIntOrDefault("REDIS_DB", cfg.RedisConfig.DB)

	// Notifications
	cfg.NotificationConfig.Enabled = getEnvBoolOrDefault("NOTIFICATIONS_ENABLED", cfg.NotificationConfig.Enabled)
	if url := os.Getenv("DISCORD_URL"); url != "" {
		cfg.NotificationConfig.Enabled = true
		cfg.NotificationConfig.Discord.Enabled = true
		cfg.NotificationConfig.Discord.WebhookURL = url
	}
	cfg.NotificationConfig.Telegram.BotToken = getEnvOrDefault("TELEGRAM_BOT_TOKEN", cfg.NotificationConfig.Telegram.BotToken)
	cfg.NotificationConfig.Telegram.ChatID = getEnvOrDefault("TELEGRAM_CHAT_ID", cfg.NotificationConfig.Telegram.ChatID)
	cfg.NotificationConfig.Telegram.Enabled = getEnvBoolOrDefault("TELEGRAM_ENABLED", cfg.NotificationConfig.Telegram.Enabled)

	// Vault
	cfg.VaultConfig.Enabled = getEnvBoolOrDefault("VAULT_ENABLED", cfg.VaultConfig.Enabled)
	cfg.VaultConfig.Address = getEnvOrDefault("VAULT_ADDR", cfg.VaultConfig.Address)
	cfg.VaultConfig.Token = getEnvOrDefault("VAULT_TOKEN", cfg.VaultConfig.Token)
	cfg.VaultConfig.SecretPath = getEnvOrDefault("VAULT_SECRET_PATH", cfg.VaultConfig.SecretPath)

	// Logging
	cfg.LoggingConfig.Level = getEnvOrDefault("LOG_LEVEL", cfg.LoggingConfig.Level)
	cfg.LoggingConfig.Pretty = getEnvBoolOrDefault("LOG_PRETTY", cfg.LoggingConfig.Pretty)
}

func loadFromFile(filename string) (*Config, error) {
	file, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := defaultConfig()
	if err := json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
