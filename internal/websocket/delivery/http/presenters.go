package http

import (
	ws "alert-srv/internal/websocket"
	"alert-srv/pkg/scope"

	"github.com/gorilla/websocket"
)

type WSConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	// AllowedOrigins empty accepts any origin.
	AllowedOrigins []string
}

type upgradeReq struct {
	Token string `form:"token"`
}

func (r upgradeReq) validate() error {
	if r.Token == "" {
		return ws.ErrMissingToken
	}
	return nil
}

func (r upgradeReq) toInput(conn *websocket.Conn, payload scope.Payload) ws.RegisterInput {
	return ws.RegisterInput{
		Conn:  conn,
		Scope: scope.NewScope(payload),
	}
}
