package websocket

import (
	"context"
)

// Session is one live push connection.
type Session interface {
	ID() string
	UserID() string
	// Send queues msg without blocking.
	Send(msg []byte) error
	Close()
}

// Registry maps channel names to the sessions currently joined to them.
type Registry interface {
	Register(s Session)
	// Join adds s to channel. It is a no-op once s has been dropped or if s was never registered.
	Join(s Session, channel string)
	Leave(s Session, channel string)
	// DropAll removes s from every channel and from the registry.
	DropAll(s Session)
	// Publish delivers msg to every member of channel at call time and returns the delivered count.
	Publish(ctx context.Context, channel string, msg Message) int
	// Broadcast delivers msg once to every registered session.
	Broadcast(ctx context.Context, msg Message) int
	Stats() Stats
	CloseAll()
}

// Publisher carries routed events to the registries that hold the sessions.
type Publisher interface {
	Publish(ctx context.Context, channel string, msg Message) error
	Broadcast(ctx context.Context, msg Message) error
}

// UseCase accepts upgraded connections and owns their lifecycle.
type UseCase interface {
	Register(ctx context.Context, ip RegisterInput) error
	Stats(ctx context.Context) Stats
	Shutdown(ctx context.Context) error
}
