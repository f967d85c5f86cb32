package http

import (
	"errors"
	"net/http"

	"alert-srv/internal/middleware"
	ws "alert-srv/internal/websocket"
	"alert-srv/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleWebSocket upgrades the request to a push session.
// @Summary Connect to alert push
// @Description Upgrade to a websocket. The session joins user:<id> and its area channel; further channels are joined with subscribe-* frames.
// @Tags Notification
// @Param token query string false "JWT token, alternatively sent as Bearer header"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} response.Resp "Unauthorized"
// @Router /ws [GET]
func (h *Handler) HandleWebSocket(c *gin.Context) {
	ctx := c.Request.Context()

	req, payload, err := h.processUpgradeRequest(c)
	if err != nil {
		response.ErrorWithMap(c, err, errMap, nil)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  h.cfg.ReadBufferSize,
		WriteBufferSize: h.cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		h.l.Warnf(ctx, "internal.websocket.delivery.http.HandleWebSocket.Upgrade: %v", err)
		return
	}

	if err := h.uc.Register(ctx, req.toInput(conn, payload)); err != nil {
		// a refused session has already been closed with a policy-violation frame
		if !errors.Is(err, ws.ErrSessionLimited) {
			h.l.Errorf(ctx, "internal.websocket.delivery.http.HandleWebSocket.Register: %v", err)
			conn.Close()
		}
	}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || middleware.OriginAllowed(origin, h.cfg.AllowedOrigins)
}
