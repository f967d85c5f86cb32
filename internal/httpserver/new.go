package httpserver

import (
	"database/sql"
	"errors"
	"time"

	"alert-srv/config"
	"alert-srv/pkg/discord"
	"alert-srv/pkg/log"
	pkgRedis "alert-srv/pkg/redis"
	"alert-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

const defaultShutdownTimeout = 30 * time.Second

// HTTPServer represents the HTTP server with all dependencies.
// New() only wires dependencies and validates them.
// Run() (in httpserver.go) is responsible for starting background services and HTTP serving.
type HTTPServer struct {
	// Server configuration
	gin             *gin.Engine
	l               log.Logger
	host            string
	port            int
	shutdownTimeout time.Duration

	// Alert & push configuration
	alertCfg   config.AlertConfig
	sweeperCfg config.SweeperConfig
	wsCfg      config.WebSocketConfig
	fanoutCfg  config.FanoutConfig
	corsCfg    config.CORSConfig

	// Database & bus
	postgresDB *sql.DB
	redis      pkgRedis.IRedis

	// Auth & monitoring
	jwtManager scope.Manager
	discord    discord.IDiscord

	// Built by mapHandlers
	services services
}

// Config is the constructor input for HTTPServer.
type Config struct {
	// Server configuration
	Host string
	Port int
	Mode string

	// Alert & push configuration
	Alert     config.AlertConfig
	Sweeper   config.SweeperConfig
	WebSocket config.WebSocketConfig
	Fanout    config.FanoutConfig
	CORS      config.CORSConfig

	// Database & bus. PostgresDB is required for postgres storage, Redis for redis fanout.
	PostgresDB *sql.DB
	Redis      pkgRedis.IRedis

	// Auth & monitoring. Discord is optional.
	JWTManager scope.Manager
	Discord    discord.IDiscord
}

// New creates a new HTTPServer instance with the provided configuration.
// Note: This does NOT start any goroutines. Use (*HTTPServer).Run() to start the service.
func New(l log.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &HTTPServer{
		gin:             gin.New(),
		l:               l,
		host:            cfg.Host,
		port:            cfg.Port,
		shutdownTimeout: defaultShutdownTimeout,

		alertCfg:   cfg.Alert,
		sweeperCfg: cfg.Sweeper,
		wsCfg:      cfg.WebSocket,
		fanoutCfg:  cfg.Fanout,
		corsCfg:    cfg.CORS,

		postgresDB: cfg.PostgresDB,
		redis:      cfg.Redis,

		jwtManager: cfg.JWTManager,
		discord:    cfg.Discord,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

// validate ensures all required dependencies are provided.
func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.jwtManager == nil {
		return errors.New("JWTManager is required")
	}
	if srv.alertCfg.Storage == config.StoragePostgres && srv.postgresDB == nil {
		return errors.New("PostgresDB is required for postgres storage")
	}
	if srv.fanoutCfg.Mode == config.FanoutRedis && srv.redis == nil {
		return errors.New("Redis client is required for redis fanout")
	}

	return nil
}
