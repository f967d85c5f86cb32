package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /ws. Browsers cannot set headers on a websocket handshake,
// so authentication happens inside the handler rather than in middleware.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws", h.HandleWebSocket)
}
