package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"alert-srv/config"
	"alert-srv/config/postgre"
	configRedis "alert-srv/config/redis"
	"alert-srv/internal/httpserver"
	"alert-srv/pkg/discord"
	"alert-srv/pkg/log"
	pkgRedis "alert-srv/pkg/redis"
	"alert-srv/pkg/scope"
)

// @title       Hospital Alert Service
// @description Alert lifecycle and real-time push for hospital operations.
// @version     1.0
// @host        localhost:8080
// @schemes     http ws
// @BasePath    /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Bearer token authentication. Format: "Bearer {token}"
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		return
	}

	// Initialize logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	// Create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting alert service...")

	// Initialize Discord webhook (optional)
	var discordClient discord.IDiscord
	if cfg.Discord.WebhookURL != "" {
		discordClient, err = discord.New(logger, cfg.Discord.WebhookURL)
		if err != nil {
			logger.Warnf(ctx, "Discord webhook not configured (optional): %v", err)
		} else {
			logger.Info(ctx, "Discord webhook initialized")
		}
	}

	// PostgreSQL - alert storage
	var postgresDB *sql.DB
	if cfg.Alert.Storage == config.StoragePostgres {
		postgresDB, err = postgre.Connect(ctx, cfg.Postgres)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to PostgreSQL: %v", err)
			return
		}
		defer postgre.Disconnect(ctx, postgresDB)
		logger.Infof(ctx, "PostgreSQL connected successfully to %s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	} else {
		logger.Warn(ctx, "Alert storage is in memory; alerts do not survive a restart")
	}

	// Redis - cross-instance fanout
	var redisClient pkgRedis.IRedis
	if cfg.Fanout.Mode == config.FanoutRedis {
		redisClient, err = configRedis.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to Redis: %v", err)
			return
		}
		defer configRedis.Disconnect(redisClient)
		logger.Infof(ctx, "Redis connected successfully to %s:%d", cfg.Redis.Host, cfg.Redis.Port)
	}

	// Initialize HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		// Server configuration
		Host: cfg.HTTPServer.Host,
		Port: cfg.HTTPServer.Port,
		Mode: cfg.HTTPServer.Mode,

		// Alert & push configuration
		Alert:     cfg.Alert,
		Sweeper:   cfg.Sweeper,
		WebSocket: cfg.WebSocket,
		Fanout:    cfg.Fanout,
		CORS:      cfg.CORS,

		// Database & bus
		PostgresDB: postgresDB,
		Redis:      redisClient,

		// Auth & monitoring
		JWTManager: scope.New(cfg.JWT.SecretKey),
		Discord:    discordClient,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		return
	}

	if err := httpServer.Run(ctx); err != nil {
		logger.Errorf(ctx, "Failed to run server: %v", err)
		return
	}
}
