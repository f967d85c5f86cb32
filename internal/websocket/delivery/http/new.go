package http

import (
	ws "alert-srv/internal/websocket"
	"alert-srv/pkg/log"
	"alert-srv/pkg/scope"
)

type Handler struct {
	l          log.Logger
	uc         ws.UseCase
	jwtManager scope.Manager
	cfg        WSConfig
}

func New(l log.Logger, uc ws.UseCase, jwtManager scope.Manager, cfg WSConfig) *Handler {
	return &Handler{
		l:          l,
		uc:         uc,
		jwtManager: jwtManager,
		cfg:        cfg,
	}
}
