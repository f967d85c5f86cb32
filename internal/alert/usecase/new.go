package usecase

import (
	"time"

	"alert-srv/internal/alert"
	"alert-srv/internal/alert/repository"
	"alert-srv/pkg/discord"
	"alert-srv/pkg/log"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type implUseCase struct {
	l        log.Logger
	repo     repository.Repository
	notifier alert.Notifier
	discord  discord.IDiscord
	clock    func() time.Time
	newID    func() string
	ttl      time.Duration
	sweeps   singleflight.Group
}

// New wires the alert usecase. notifier and d may be nil.
func New(l log.Logger, repo repository.Repository, notifier alert.Notifier, d discord.IDiscord, ttl time.Duration) alert.UseCase {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &implUseCase{
		l:        l,
		repo:     repo,
		notifier: notifier,
		discord:  d,
		clock:    time.Now,
		newID:    uuid.NewString,
		ttl:      ttl,
	}
}
