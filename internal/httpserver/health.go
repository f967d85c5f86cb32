package httpserver

import (
	"net/http"

	"alert-srv/pkg/errors"
	"alert-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

const serviceName = "alert-srv"

// healthCheck handles health check requests
// @Summary Health Check
// @Description Report service status and live push session counts
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is healthy"
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	stats := srv.services.wsUC.Stats(c.Request.Context())

	response.OK(c, gin.H{
		"status":   "healthy",
		"service":  serviceName,
		"storage":  srv.alertCfg.Storage,
		"fanout":   srv.fanoutCfg.Mode,
		"sessions": stats.Sessions,
		"channels": stats.Channels,
	})
}

// readyCheck handles readiness check requests
// @Summary Readiness Check
// @Description Check that the configured Postgres and Redis backends answer
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is ready"
// @Failure 503 {object} response.Resp "Service is not ready"
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()
	deps := gin.H{}

	if srv.postgresDB != nil {
		if err := srv.postgresDB.PingContext(ctx); err != nil {
			srv.l.Warnf(ctx, "internal.httpserver.readyCheck.postgres: %v", err)
			response.HttpError(c, errors.NewHTTPError(503, "Postgres connection not available", http.StatusServiceUnavailable))
			return
		}
		deps["postgres"] = "connected"
	}

	if srv.redis != nil {
		if err := srv.redis.Ping(ctx); err != nil {
			srv.l.Warnf(ctx, "internal.httpserver.readyCheck.redis: %v", err)
			response.HttpError(c, errors.NewHTTPError(503, "Redis connection not available", http.StatusServiceUnavailable))
			return
		}
		deps["redis"] = "connected"
	}

	response.OK(c, gin.H{
		"status":       "ready",
		"service":      serviceName,
		"dependencies": deps,
	})
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is alive"
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"service": serviceName,
	})
}
