package httpserver

import (
	"alert-srv/config"
	alertHTTP "alert-srv/internal/alert/delivery/http"
	"alert-srv/internal/alert/delivery/job"
	"alert-srv/internal/alert/repository"
	alertMemory "alert-srv/internal/alert/repository/memory"
	alertPostgre "alert-srv/internal/alert/repository/postgre"
	alertUC "alert-srv/internal/alert/usecase"
	"alert-srv/internal/middleware"
	ws "alert-srv/internal/websocket"
	wsHTTP "alert-srv/internal/websocket/delivery/http"
	wsRedis "alert-srv/internal/websocket/delivery/redis"
	wsUC "alert-srv/internal/websocket/usecase"

	// Import this to execute the init function in docs.go which setups the Swagger docs.
	_ "alert-srv/docs"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	Api = "/api/v1"
)

// services are the long-running parts that Run starts and stops.
type services struct {
	router     wsUC.Router
	sweeper    job.Sweeper
	wsUC       ws.UseCase
	subscriber wsRedis.Subscriber // nil in local fanout mode
}

func (srv *HTTPServer) mapHandlers() error {
	// Repositories
	var repo repository.Repository
	if srv.alertCfg.Storage == config.StorageMemory {
		repo = alertMemory.New(srv.l)
	} else {
		repo = alertPostgre.New(srv.l, srv.postgresDB)
	}

	// Push path: registry, publisher, router
	registry := wsUC.NewRegistry(srv.l)
	var publisher ws.Publisher
	if srv.fanoutCfg.Mode == config.FanoutRedis {
		publisher = wsRedis.NewPublisher(srv.l, srv.redis, srv.fanoutCfg.Prefix)
		srv.services.subscriber = wsRedis.New(srv.l, srv.redis, registry, srv.fanoutCfg.Prefix)
	} else {
		publisher = wsUC.NewLocalPublisher(registry)
	}
	srv.services.router = wsUC.NewRouter(srv.l, publisher, srv.fanoutCfg.QueueSize)
	srv.services.wsUC = wsUC.New(srv.l, registry, wsUC.Config{
		PongWait:       srv.wsCfg.PongWait,
		PingPeriod:     srv.wsCfg.PingInterval,
		WriteWait:      srv.wsCfg.WriteWait,
		MaxMessageSize: srv.wsCfg.MaxMessageSize,
		SendBufferSize: srv.wsCfg.SendBufferSize,
		Limits: wsUC.Limits{
			MaxSessionsPerUser: srv.wsCfg.MaxSessionsPerUser,
			ConnectRate:        srv.wsCfg.ConnectRateLimit,
			RateWindow:         srv.wsCfg.ConnectRateWindow,
		},
	})

	// Usecases
	alertUsecase := alertUC.New(srv.l, repo, srv.services.router, srv.discord, srv.alertCfg.DefaultTTL)
	srv.services.sweeper = job.New(srv.l, alertUsecase, job.Config{
		Interval:  srv.sweeperCfg.Interval,
		BatchSize: srv.sweeperCfg.BatchSize,
	})

	// Middleware
	mw := middleware.New(srv.l, srv.jwtManager, srv.discord)
	corsConfig := middleware.DefaultCORSConfig()
	if len(srv.corsCfg.AllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = srv.corsCfg.AllowedOrigins
	}
	srv.gin.Use(mw.Recovery(), mw.Metrics(), middleware.CORS(corsConfig))

	// Health check endpoints (no auth required)
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
	srv.gin.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger UI
	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := srv.gin.Group(Api)
	alertHTTP.New(srv.l, alertUsecase, srv.discord).RegisterRoutes(api, mw)

	// Websocket
	wsHTTP.New(srv.l, srv.services.wsUC, srv.jwtManager, wsHTTP.WSConfig{
		ReadBufferSize:  srv.wsCfg.ReadBufferSize,
		WriteBufferSize: srv.wsCfg.WriteBufferSize,
		AllowedOrigins:  srv.corsCfg.AllowedOrigins,
	}).RegisterRoutes(srv.gin.Group(""))

	return nil
}
