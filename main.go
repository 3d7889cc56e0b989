package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"kalshi-hedge-bot/config"
	"kalshi-hedge-bot/internal/bot"
	"kalshi-hedge-bot/internal/database"
	"kalshi-hedge-bot/internal/hedge"
	"kalshi-hedge-bot/internal/kalshi"
	"kalshi-hedge-bot/internal/logging"
	"kalshi-hedge-bot/internal/market"
	"kalshi-hedge-bot/internal/notification"
	"kalshi-hedge-bot/internal/orders"
	"kalshi-hedge-bot/internal/positions"
	"kalshi-hedge-bot/internal/vault"
)

func main() {
	// Best-effort .env loading for local runs
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LoggingConfig.Level,
		Pretty: cfg.LoggingConfig.Pretty,
	})
	logger.Info().Bool("demo", cfg.KalshiConfig.Demo).
		Str("position_source", cfg.HedgeConfig.PositionSource).
		Msg("Starting Kalshi hedge bot")

	ctx := context.Background()

	// Resolve Kalshi credentials, from Vault when enabled
	apiKeyID := cfg.KalshiConfig.APIKeyID
	privateKeyPEM := cfg.KalshiConfig.PrivateKeyPEM
	if cfg.VaultConfig.Enabled {
		vaultClient, err := vault.NewClient(cfg.VaultConfig)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create Vault client")
		}
		creds, err := vaultClient.GetCredentials(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to retrieve Kalshi credentials from Vault")
		}
		apiKeyID = creds.APIKeyID
		privateKeyPEM = creds.PrivateKeyPEM
		logger.Info().Msg("Kalshi credentials loaded from Vault")
	}

	// Kalshi API client
	var kalshiClient kalshi.KalshiClient
	if cfg.KalshiConfig.MockMode {
		logger.Warn().Msg("Mock mode enabled, no live API calls will be made")
		kalshiClient = kalshi.NewMockClient()
	} else {
		baseURL := kalshi.ProductionBaseURL
		if cfg.KalshiConfig.Demo {
			baseURL = kalshi.DemoBaseURL
		}
		client, err := kalshi.NewClient(apiKeyID, privateKeyPEM, baseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize Kalshi client")
		}
		kalshiClient = client
		logger.Info().Msg("Kalshi client authenticated")
	}

	// Notification manager
	notifyManager := notification.NewManager()
	if cfg.NotificationConfig.Enabled {
		if cfg.NotificationConfig.Discord.Enabled {
			notifyManager.AddNotifier(notification.NewDiscordNotifier(notification.DiscordConfig{
				WebhookURL: cfg.NotificationConfig.Discord.WebhookURL,
				Enabled:    cfg.NotificationConfig.Discord.Enabled,
			}))
			logger.Info().Msg("Discord notifications enabled")
		}
		if cfg.NotificationConfig.Telegram.Enabled {
			notifyManager.AddNotifier(notification.NewTelegramNotifier(notification.TelegramConfig{
				BotToken: cfg.NotificationConfig.Telegram.BotToken,
				ChatID:   cfg.NotificationConfig.Telegram.ChatID,
				Enabled:  cfg.NotificationConfig.Telegram.Enabled,
			}))
			logger.Info().Msg("Telegram notifications enabled")
		}
	}

	minNotional := decimal.NewFromFloat(cfg.HedgeConfig.MinNotional)

	// Position source and status sink
	var source positions.Source
	var sink bot.StatusSink
	if cfg.HedgeConfig.PositionSource == config.SourceDatabase {
		db, err := database.NewDB(database.Config{
			Host:     cfg.DatabaseConfig.Host,
			Port:     cfg.DatabaseConfig.Port,
			User:     cfg.DatabaseConfig.User,
			Password: cfg.DatabaseConfig.Password,
			Database: cfg.DatabaseConfig.Database,
			SSLMode:  cfg.DatabaseConfig.SSLMode,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := db.RunMigrations(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to run migrations")
		}

		repo := database.NewRepository(db)
		source = database.NewSource(repo, minNotional)
		sink = repo
	} else {
		source = positions.NewPortfolioSource(kalshiClient, minNotional, logger)
	}

	// Cross-run hedge registry (optional)
	var registry bot.HedgeRegistry
	if cfg.RedisConfig.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, running without cross-run hedge exclusion")
		} else {
			registry = database.NewHedgeRegistry(redisClient, database.DefaultHedgeTTL)
			logger.Info().Msg("Hedge registry enabled")
		}
	}

	engine := hedge.NewEngine(decimal.NewFromFloat(cfg.HedgeConfig.TriggerPercent))
	oracle := market.NewKalshiOracle(kalshiClient, logger)
	executor := orders.NewKalshiExecutor(kalshiClient, logger)

	hedgeBot := bot.New(source, oracle, engine, executor, sink, registry, notifyManager, logger)

	if _, err := hedgeBot.Run(ctx); err != nil {
		// Per-position failures are absorbed inside Run; reaching here means
		// the run itself could not proceed
		logger.Error().Err(err).Msg("Hedge run failed")
		os.Exit(1)
	}
}
