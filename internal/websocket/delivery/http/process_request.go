package http

import (
	"alert-srv/internal/middleware"
	ws "alert-srv/internal/websocket"
	"alert-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

// processUpgradeRequest authenticates the handshake. The token comes from the
// "token" query parameter, or from an Authorization header for non-browser clients.
func (h *Handler) processUpgradeRequest(c *gin.Context) (upgradeReq, scope.Payload, error) {
	var req upgradeReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return upgradeReq{}, scope.Payload{}, ws.ErrMissingToken
	}
	if req.Token == "" {
		if tok, ok := middleware.BearerToken(c.GetHeader("Authorization")); ok {
			req.Token = tok
		}
	}
	if err := req.validate(); err != nil {
		return upgradeReq{}, scope.Payload{}, err
	}

	payload, err := h.jwtManager.Verify(req.Token)
	if err != nil {
		h.l.Warnf(c.Request.Context(), "internal.websocket.delivery.http.processUpgradeRequest.Verify: %v", err)
		return upgradeReq{}, scope.Payload{}, ws.ErrInvalidToken
	}
	return req, payload, nil
}
