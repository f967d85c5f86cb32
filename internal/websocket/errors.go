package websocket

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrMissingToken     = errors.New("missing token")
	ErrInvalidFrame     = errors.New("invalid client frame")
	ErrUnknownEvent     = errors.New("unknown client event")
	ErrChannelForbidden = errors.New("channel not permitted for caller")
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("send buffer full")
	ErrSessionLimited   = errors.New("session limit exceeded")
)

// Limit names reported by LimitError.
const (
	LimitSessionsPerUser = "max_sessions_per_user"
	LimitConnectRate     = "connect_rate"
)

// LimitError reports a session refused by a per-user connection limit.
type LimitError struct {
	UserID  string
	Limit   string
	Current int
	Max     int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s for user %s: %s (current: %d, max: %d)", ErrSessionLimited, e.UserID, e.Limit, e.Current, e.Max)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrSessionLimited
}

// DeliveryError reports a push that did not reach one session. It is logged and dropped.
type DeliveryError struct {
	SessionID string
	Channel   string
	Event     string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s on %s to session %s: %v", e.Event, e.Channel, e.SessionID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
