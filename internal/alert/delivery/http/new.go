package http

import (
	"alert-srv/internal/alert"
	"alert-srv/pkg/discord"
	"alert-srv/pkg/log"
)

type Handler struct {
	l       log.Logger
	uc      alert.UseCase
	discord discord.IDiscord
}

// New builds the alert REST handler. d receives reports of unexpected errors and may be nil.
func New(l log.Logger, uc alert.UseCase, d discord.IDiscord) *Handler {
	return &Handler{
		l:       l,
		uc:      uc,
		discord: d,
	}
}
