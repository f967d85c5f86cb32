package usecase

import (
	"context"
	"sync"
	"time"

	"alert-srv/internal/alert"
	"alert-srv/internal/alert/repository/memory"
	"alert-srv/internal/model"
	"alert-srv/pkg/discord"
	"alert-srv/pkg/log"
)

var (
	adminScope = model.Scope{UserID: "admin-1", Role: model.RoleAdmin}
	nurseNorth = model.Scope{UserID: "7", Role: model.RoleNurse, Area: model.AreaNorth}
	doctorEast = model.Scope{UserID: "9", Role: model.RoleDoctor, Area: model.AreaEast}
)

type fakeNotifier struct {
	mu      sync.Mutex
	created []model.Alert
}

func (n *fakeNotifier) AlertCreated(ctx context.Context, a model.Alert) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, a)
}

func (n *fakeNotifier) all() []model.Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Alert(nil), n.created...)
}

type fakeDiscord struct {
	sent chan discord.MessageOptions
}

func (d *fakeDiscord) SendEmbed(ctx context.Context, o discord.MessageOptions) error {
	d.sent <- o
	return nil
}
func (d *fakeDiscord) ReportBug(ctx context.Context, message string) error { return nil }
func (d *fakeDiscord) Close() error                                        { return nil }

type fixture struct {
	uc       *implUseCase
	notifier *fakeNotifier
	discord  *fakeDiscord
	now      time.Time
}

func newFixture() *fixture {
	f := &fixture{
		notifier: &fakeNotifier{},
		discord:  &fakeDiscord{sent: make(chan discord.MessageOptions, 4)},
		now:      time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	f.uc = New(log.NewNop(), memory.New(log.NewNop()), f.notifier, f.discord, 0).(*implUseCase)
	f.uc.clock = func() time.Time { return f.now }
	return f
}

func (f *fixture) create(area model.Area) model.Alert {
	out, err := f.uc.Create(context.Background(), adminScope, alert.CreateInput{
		Type:     model.AlertTypeSurgeWarning,
		Severity: model.SeverityHigh,
		Title:    "Surge expected",
		Message:  "ER load rising",
		Area:     area,
	})
	if err != nil {
		panic(err)
	}
	return out.Alert
}
