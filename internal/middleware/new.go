package middleware

import (
	"alert-srv/pkg/discord"
	"alert-srv/pkg/log"
	"alert-srv/pkg/scope"
)

type Middleware struct {
	l          log.Logger
	jwtManager scope.Manager
	discord    discord.IDiscord
}

// New builds the shared middleware set. d may be nil when no webhook is configured.
func New(l log.Logger, jwtManager scope.Manager, d discord.IDiscord) Middleware {
	return Middleware{
		l:          l,
		jwtManager: jwtManager,
		discord:    d,
	}
}
