package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"alert-srv/internal/model"
	ws "alert-srv/internal/websocket"
	"alert-srv/pkg/log"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Connection is one upgraded websocket session.
type Connection struct {
	id    string
	scope model.Scope
	conn  *websocket.Conn
	reg   ws.Registry
	l     log.Logger
	cfg   Config

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	onClose   func()
}

func newConnection(l log.Logger, reg ws.Registry, conn *websocket.Conn, sc model.Scope, cfg Config, onClose func()) *Connection {
	return &Connection{
		id:    uuid.NewString(),
		scope: sc,
		conn:  conn,
		reg:   reg,
		l:     l,
		cfg:   cfg,
		send:  make(chan []byte, cfg.SendBufferSize),
		done:  make(chan struct{}),

		onClose: onClose,
	}
}

func (c *Connection) ID() string     { return c.id }
func (c *Connection) UserID() string { return c.scope.UserID }

// Send queues msg for the write pump. It never blocks: a slow client loses the message.
func (c *Connection) Send(msg []byte) error {
	select {
	case <-c.done:
		return ws.ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.done:
		return ws.ErrConnectionClosed
	default:
		return ws.ErrSendBufferFull
	}
}

// Close leaves every channel, then stops the pumps. The socket itself is released
// by the pumps, so membership is always gone before the connection is.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.reg.DropAll(c)
		close(c.done)
		if c.onClose != nil {
			c.onClose()
		}
	})
}

func (c *Connection) start() {
	go c.writePump()
	go c.readPump()
}

// readPump owns all reads.
func (c *Connection) readPump() {
	ctx := c.l.With(context.Background(), "session_id", c.id, "user_id", c.scope.UserID)
	defer func() {
		c.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.l.Warnf(ctx, "internal.websocket.usecase.readPump: %v", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		c.handleFrame(ctx, data)
	}
}

// writePump owns all writes and keeps the peer alive with pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.cfg.WriteWait))
			return
		}
	}
}

func (c *Connection) handleFrame(ctx context.Context, data []byte) {
	var f ws.ClientFrame
	if err := json.Unmarshal(data, &f); err != nil {
		c.reply(ctx, ws.EventError, ws.ErrorPayload{Message: ws.ErrInvalidFrame.Error()})
		return
	}

	switch f.Event {
	case ws.ClientSubscribeSelf:
		c.join(ctx, ws.UserChannel(c.scope.UserID))

	case ws.ClientSubscribeAdmin:
		if !c.scope.IsAdmin() {
			c.reply(ctx, ws.EventError, ws.ErrorPayload{Message: ws.ErrChannelForbidden.Error()})
			return
		}
		c.join(ctx, ws.ChannelAdmin)

	case ws.ClientSubscribeArea:
		channel, err := c.areaChannel(model.Area(f.Area))
		if err != nil {
			c.reply(ctx, ws.EventError, ws.ErrorPayload{Message: err.Error()})
			return
		}
		c.join(ctx, channel)

	case ws.ClientLeave:
		if f.Channel == "" {
			c.reply(ctx, ws.EventError, ws.ErrorPayload{Message: ws.ErrInvalidFrame.Error()})
			return
		}
		c.reg.Leave(c, f.Channel)
		c.reply(ctx, ws.EventUnsubscribed, ws.ChannelPayload{Channel: f.Channel})

	default:
		c.reply(ctx, ws.EventError, ws.ErrorPayload{Message: ws.ErrUnknownEvent.Error()})
	}
}

// areaChannel allows admins any area and everyone else only their own.
func (c *Connection) areaChannel(area model.Area) (string, error) {
	if !area.IsValid() || area == model.AreaHospitalWide {
		return "", ws.ErrInvalidFrame
	}
	if !c.scope.IsAdmin() && area != c.scope.Area {
		return "", ws.ErrChannelForbidden
	}
	return ws.AreaChannel(area), nil
}

func (c *Connection) join(ctx context.Context, channel string) {
	c.reg.Join(c, channel)
	c.reply(ctx, ws.EventSubscribed, ws.ChannelPayload{Channel: channel})
}

func (c *Connection) reply(ctx context.Context, event string, payload any) {
	msg, err := ws.NewMessage(event, payload, time.Now())
	if err != nil {
		return
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := c.Send(b); err != nil {
		c.l.Warnf(ctx, "internal.websocket.usecase.reply(%s): %v", event, err)
	}
}
