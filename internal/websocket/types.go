package websocket

import (
	"encoding/json"
	"strings"
	"time"

	"alert-srv/internal/model"
)

// Server events.
const (
	EventNewAlert     = "new-alert"
	EventAreaAlert    = "area-alert"
	EventSubscribed   = "subscribed"
	EventUnsubscribed = "unsubscribed"
	EventError        = "error"
)

// Client events.
const (
	ClientSubscribeSelf  = "subscribe-self"
	ClientSubscribeAdmin = "subscribe-admin"
	ClientSubscribeArea  = "subscribe-area"
	ClientLeave          = "leave"
)

const (
	ChannelAdmin = "admin"

	userChannelPrefix = "user:"
	areaChannelPrefix = "area:"
)

func UserChannel(userID string) string {
	return userChannelPrefix + userID
}

func AreaChannel(area model.Area) string {
	return areaChannelPrefix + string(area)
}

// ChannelArea returns the area of an area channel name.
func ChannelArea(channel string) (model.Area, bool) {
	if !strings.HasPrefix(channel, areaChannelPrefix) {
		return "", false
	}
	area := model.Area(strings.TrimPrefix(channel, areaChannelPrefix))
	return area, area.IsValid()
}

// Message is one server frame.
type Message struct {
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewMessage(event string, payload any, ts time.Time) (Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Event:     event,
		Payload:   b,
		Timestamp: ts,
	}, nil
}

// AreaEnvelope is the payload of an area-alert.
type AreaEnvelope struct {
	Area  model.Area  `json:"area"`
	Alert model.Alert `json:"alert"`
}

// ClientFrame is one frame sent by a client.
type ClientFrame struct {
	Event   string `json:"event"`
	Area    string `json:"area,omitempty"`
	Channel string `json:"channel,omitempty"`
}

type ChannelPayload struct {
	Channel string `json:"channel"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type RegisterInput struct {
	Conn  any
	Scope model.Scope
}

type Stats struct {
	Sessions int `json:"sessions"`
	Channels int `json:"channels"`
}
