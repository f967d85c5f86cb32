package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alert-srv/internal/metrics"
	"alert-srv/internal/model"
	ws "alert-srv/internal/websocket"
	"alert-srv/pkg/log"

	"github.com/gorilla/websocket"
)

type Config struct {
	PongWait       time.Duration
	PingPeriod     time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
	SendBufferSize int
	// Limits apply per user. The zero value disables them.
	Limits Limits
}

func DefaultConfig() Config {
	return Config{
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 512,
		SendBufferSize: 256,
		Limits:         DefaultLimits(),
	}
}

type implUseCase struct {
	l       log.Logger
	reg     ws.Registry
	cfg     Config
	limiter *connectionLimiter
}

func New(l log.Logger, reg ws.Registry, cfg Config) ws.UseCase {
	def := DefaultConfig()
	if cfg.PongWait <= 0 {
		cfg.PongWait = def.PongWait
	}
	if cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongWait {
		cfg.PingPeriod = cfg.PongWait * 9 / 10
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = def.WriteWait
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = def.MaxMessageSize
	}
	if cfg.SendBufferSize <= 0 {
		cfg.SendBufferSize = def.SendBufferSize
	}
	return &implUseCase{l: l, reg: reg, cfg: cfg, limiter: newConnectionLimiter(cfg.Limits)}
}

// Register takes ownership of an upgraded connection. The session joins its own
// user channel and, when the caller belongs to a specific area, that area's channel.
func (uc *implUseCase) Register(ctx context.Context, ip ws.RegisterInput) error {
	conn, ok := ip.Conn.(*websocket.Conn)
	if !ok {
		return fmt.Errorf("internal.websocket.usecase.Register: unexpected connection type %T", ip.Conn)
	}

	userID := ip.Scope.UserID
	if err := uc.limiter.acquire(userID); err != nil {
		var le *ws.LimitError
		if errors.As(err, &le) {
			metrics.SessionsRejectedTotal.WithLabelValues(le.Limit).Inc()
		}
		uc.l.Warnf(ctx, "internal.websocket.usecase.Register.acquire: %v", err)
		deadline := time.Now().Add(uc.cfg.WriteWait)
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too many sessions"), deadline)
		conn.Close()
		return err
	}

	c := newConnection(uc.l, uc.reg, conn, ip.Scope, uc.cfg, func() { uc.limiter.release(userID) })
	uc.reg.Register(c)
	uc.reg.Join(c, ws.UserChannel(ip.Scope.UserID))
	if ip.Scope.Area.IsValid() && ip.Scope.Area != model.AreaHospitalWide {
		uc.reg.Join(c, ws.AreaChannel(ip.Scope.Area))
	}
	c.start()

	uc.l.Infof(ctx, "internal.websocket.usecase.Register: session %s for user %s (role %s)", c.ID(), ip.Scope.UserID, ip.Scope.Role)
	return nil
}

func (uc *implUseCase) Stats(ctx context.Context) ws.Stats {
	return uc.reg.Stats()
}

// Shutdown closes every session and waits until they have all left the registry.
func (uc *implUseCase) Shutdown(ctx context.Context) error {
	uc.reg.CloseAll()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for uc.reg.Stats().Sessions > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
