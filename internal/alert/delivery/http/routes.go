package http

import (
	"alert-srv/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	alerts := r.Group("/alerts", mw.Auth())
	{
		alerts.GET("", h.List)
		alerts.GET("/:id", h.Detail)
		alerts.PUT("/:id/acknowledge", h.Acknowledge)
		alerts.PUT("/:id/actions/:index/complete", h.CompleteAction)

		alerts.POST("", mw.AdminOnly(), h.Create)
		alerts.PUT("/:id/resolve", mw.AdminOnly(), h.Resolve)
		alerts.POST("/sweep", mw.AdminOnly(), h.Sweep)
	}
}
