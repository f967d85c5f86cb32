package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	FanoutLocal = "local"
	FanoutRedis = "redis"
)

// Config holds all service configuration.
type Config struct {
	// Server Configuration
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Database Configuration
	Postgres PostgresConfig
	Redis    RedisConfig

	// Alert Configuration
	Alert   AlertConfig
	Sweeper SweeperConfig

	// Push Configuration
	WebSocket WebSocketConfig
	Fanout    FanoutConfig
	CORS      CORSConfig

	// Authentication & Security Configuration
	JWT JWTConfig

	// Monitoring & Notification Configuration
	Discord DiscordConfig
}

// HTTPServerConfig is the configuration for the HTTP server
type HTTPServerConfig struct {
	Host string
	Port int
	Mode string
}

// LoggerConfig is the configuration for the logger
type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// PostgresConfig is the configuration for Postgres
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig is the configuration for Redis
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// AlertConfig selects the alert store and its defaults
type AlertConfig struct {
	Storage    string
	DefaultTTL time.Duration
}

// SweeperConfig is the configuration for the expiration sweeper
type SweeperConfig struct {
	Interval  time.Duration
	BatchSize int
}

// WebSocketConfig is the configuration for WebSocket connections
type WebSocketConfig struct {
	PingInterval    time.Duration
	PongWait        time.Duration
	WriteWait       time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int

	// Per-user session limits
	MaxSessionsPerUser int
	ConnectRateLimit   int
	ConnectRateWindow  time.Duration
}

// FanoutConfig selects how routed events reach the sessions
type FanoutConfig struct {
	Mode      string
	Prefix    string
	QueueSize int
}

// CORSConfig is the configuration for cross-origin requests
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig is the configuration for the JWT
type JWTConfig struct {
	SecretKey string `env:"JWT_SECRET_KEY"`
}

// DiscordConfig is the configuration for Discord webhook notifications
type DiscordConfig struct {
	WebhookURL string `env:"DISCORD_WEBHOOK_URL"`
}

// secrets are read from the environment only, so they never have to live in a file.
type secrets struct {
	JWT      JWTConfig
	Postgres struct {
		Password string `env:"POSTGRES_PASSWORD"`
	}
	Redis struct {
		Password string `env:"REDIS_PASSWORD"`
	}
	Discord DiscordConfig
}

// Load loads configuration using Viper, then overlays secrets from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("alert-config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/alert-srv/")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := fromViper(v)

	var sec secrets
	if err := env.Parse(&sec); err != nil {
		return nil, fmt.Errorf("error parsing secrets: %w", err)
	}
	applySecrets(cfg, sec)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	// HTTP Server
	cfg.HTTPServer.Host = v.GetString("http_server.host")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")

	// Logger
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// Postgres
	cfg.Postgres.Host = v.GetString("postgres.host")
	cfg.Postgres.Port = v.GetInt("postgres.port")
	cfg.Postgres.User = v.GetString("postgres.user")
	cfg.Postgres.Password = v.GetString("postgres.password")
	cfg.Postgres.DBName = v.GetString("postgres.dbname")
	cfg.Postgres.SSLMode = v.GetString("postgres.sslmode")
	cfg.Postgres.MaxOpenConns = v.GetInt("postgres.max_open_conns")
	cfg.Postgres.MaxIdleConns = v.GetInt("postgres.max_idle_conns")
	cfg.Postgres.ConnMaxLifetime = v.GetDuration("postgres.conn_max_lifetime")
	cfg.Postgres.ConnMaxIdleTime = v.GetDuration("postgres.conn_max_idle_time")

	// Redis
	cfg.Redis.Host = v.GetString("redis.host")
	cfg.Redis.Port = v.GetInt("redis.port")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.PoolSize = v.GetInt("redis.pool_size")
	cfg.Redis.MinIdleConns = v.GetInt("redis.min_idle_conns")

	// Alert
	cfg.Alert.Storage = v.GetString("alert.storage")
	cfg.Alert.DefaultTTL = v.GetDuration("alert.default_ttl")

	// Sweeper
	cfg.Sweeper.Interval = v.GetDuration("sweeper.interval")
	cfg.Sweeper.BatchSize = v.GetInt("sweeper.batch_size")

	// WebSocket
	cfg.WebSocket.PingInterval = v.GetDuration("websocket.ping_interval")
	cfg.WebSocket.PongWait = v.GetDuration("websocket.pong_wait")
	cfg.WebSocket.WriteWait = v.GetDuration("websocket.write_wait")
	cfg.WebSocket.MaxMessageSize = v.GetInt64("websocket.max_message_size")
	cfg.WebSocket.ReadBufferSize = v.GetInt("websocket.read_buffer_size")
	cfg.WebSocket.WriteBufferSize = v.GetInt("websocket.write_buffer_size")
	cfg.WebSocket.SendBufferSize = v.GetInt("websocket.send_buffer_size")
	cfg.WebSocket.MaxSessionsPerUser = v.GetInt("websocket.max_sessions_per_user")
	cfg.WebSocket.ConnectRateLimit = v.GetInt("websocket.connect_rate_limit")
	cfg.WebSocket.ConnectRateWindow = v.GetDuration("websocket.connect_rate_window")

	// Fanout
	cfg.Fanout.Mode = v.GetString("fanout.mode")
	cfg.Fanout.Prefix = v.GetString("fanout.prefix")
	cfg.Fanout.QueueSize = v.GetInt("fanout.queue_size")

	// CORS
	cfg.CORS.AllowedOrigins = v.GetStringSlice("cors.allowed_origins")

	// JWT
	cfg.JWT.SecretKey = v.GetString("jwt.secret_key")

	// Discord
	cfg.Discord.WebhookURL = v.GetString("discord.webhook_url")

	return cfg
}

func applySecrets(cfg *Config, sec secrets) {
	if sec.JWT.SecretKey != "" {
		cfg.JWT.SecretKey = sec.JWT.SecretKey
	}
	if sec.Postgres.Password != "" {
		cfg.Postgres.Password = sec.Postgres.Password
	}
	if sec.Redis.Password != "" {
		cfg.Redis.Password = sec.Redis.Password
	}
	if sec.Discord.WebhookURL != "" {
		cfg.Discord.WebhookURL = sec.Discord.WebhookURL
	}
}

func setDefaults(v *viper.Viper) {
	// HTTP Server
	v.SetDefault("http_server.host", "0.0.0.0")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "release")

	// Logger
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", "production")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("logger.color_enabled", false)

	// Postgres
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.dbname", "alerts")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 50)
	v.SetDefault("postgres.max_idle_conns", 10)
	v.SetDefault("postgres.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("postgres.conn_max_idle_time", 5*time.Minute)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 100)
	v.SetDefault("redis.min_idle_conns", 10)

	// Alert
	v.SetDefault("alert.storage", StoragePostgres)
	v.SetDefault("alert.default_ttl", 24*time.Hour)

	// Sweeper
	v.SetDefault("sweeper.interval", 60*time.Second)
	v.SetDefault("sweeper.batch_size", 100)

	// WebSocket
	v.SetDefault("websocket.ping_interval", 54*time.Second)
	v.SetDefault("websocket.pong_wait", 60*time.Second)
	v.SetDefault("websocket.write_wait", 10*time.Second)
	v.SetDefault("websocket.max_message_size", 512)
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.send_buffer_size", 256)
	v.SetDefault("websocket.max_sessions_per_user", 10)
	v.SetDefault("websocket.connect_rate_limit", 20)
	v.SetDefault("websocket.connect_rate_window", time.Minute)

	// Fanout
	v.SetDefault("fanout.mode", FanoutLocal)
	v.SetDefault("fanout.prefix", "alert-srv:fanout")
	v.SetDefault("fanout.queue_size", 1024)
}

func validate(cfg *Config) error {
	// Validate HTTP server
	if cfg.HTTPServer.Port <= 0 || cfg.HTTPServer.Port > 65535 {
		return fmt.Errorf("http_server.port is invalid: %d", cfg.HTTPServer.Port)
	}

	// Validate JWT
	if cfg.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key is required")
	}
	if len(cfg.JWT.SecretKey) < 32 {
		return fmt.Errorf("jwt.secret_key must be at least 32 characters for security")
	}

	// Validate Alert
	switch cfg.Alert.Storage {
	case StoragePostgres:
		if cfg.Postgres.Host == "" {
			return fmt.Errorf("postgres.host is required")
		}
		if cfg.Postgres.DBName == "" {
			return fmt.Errorf("postgres.dbname is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("alert.storage must be %q or %q", StoragePostgres, StorageMemory)
	}
	if cfg.Alert.DefaultTTL <= 0 {
		return fmt.Errorf("alert.default_ttl must be positive")
	}

	// Validate Sweeper
	if cfg.Sweeper.Interval <= 0 {
		return fmt.Errorf("sweeper.interval must be positive")
	}
	if cfg.Sweeper.BatchSize <= 0 {
		return fmt.Errorf("sweeper.batch_size must be positive")
	}

	// Validate Fanout
	switch cfg.Fanout.Mode {
	case FanoutRedis:
		if cfg.Redis.Host == "" {
			return fmt.Errorf("redis.host is required")
		}
		if cfg.Redis.Port == 0 {
			return fmt.Errorf("redis.port is required")
		}
	case FanoutLocal:
	default:
		return fmt.Errorf("fanout.mode must be %q or %q", FanoutLocal, FanoutRedis)
	}

	return nil
}
