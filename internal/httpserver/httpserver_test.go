package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"alert-srv/config"
	"alert-srv/internal/model"
	ws "alert-srv/internal/websocket"
	wsUC "alert-srv/internal/websocket/usecase"
	"alert-srv/pkg/log"
	"alert-srv/pkg/scope"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv *HTTPServer
	ts  *httptest.Server
	jwt scope.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	jwt := scope.New("httpserver-test-secret-0123456789abcdef")
	srv, err := New(log.NewNop(), Config{
		Port:    8080,
		Mode:    gin.TestMode,
		Alert:   config.AlertConfig{Storage: config.StorageMemory, DefaultTTL: time.Hour},
		Sweeper: config.SweeperConfig{Interval: time.Hour, BatchSize: 10},
		WebSocket: config.WebSocketConfig{
			PongWait:  5 * time.Second,
			WriteWait: time.Second,
		},
		Fanout:     config.FanoutConfig{Mode: config.FanoutLocal},
		JWTManager: jwt,
	})
	require.NoError(t, err)
	require.NoError(t, srv.mapHandlers())

	srv.services.router.Start()
	ts := httptest.NewServer(srv.gin)
	t.Cleanup(func() {
		ts.Close()
		srv.shutdown(&http.Server{})
	})
	return &harness{srv: srv, ts: ts, jwt: jwt}
}

func (h *harness) token(t *testing.T, p scope.Payload) string {
	t.Helper()
	tok, err := h.jwt.CreateToken(p)
	require.NoError(t, err)
	return tok
}

func (h *harness) dial(t *testing.T, tok string) *websocket.Conn {
	t.Helper()
	before := h.srv.services.wsUC.Stats(context.Background()).Sessions

	url := "ws" + strings.TrimPrefix(h.ts.URL, "http") + "/ws?token=" + tok
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool {
		return h.srv.services.wsUC.Stats(context.Background()).Sessions == before+1
	}, time.Second, 5*time.Millisecond)
	return conn
}

func (h *harness) createAlert(t *testing.T, tok string, area model.Area) {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"type":     "surge_warning",
		"severity": "high",
		"title":    "ED surge",
		"message":  "Arrivals above forecast",
		"area":     area,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, h.ts.URL+Api+"/alerts", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func readMessage(t *testing.T, conn *websocket.Conn) ws.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestNew_Validate(t *testing.T) {
	jwt := scope.New("secret")

	_, err := New(log.NewNop(), Config{JWTManager: jwt})
	assert.Error(t, err, "port")

	_, err = New(log.NewNop(), Config{Port: 1, JWTManager: jwt, Alert: config.AlertConfig{Storage: config.StoragePostgres}})
	assert.Error(t, err, "postgres storage without db")

	_, err = New(log.NewNop(), Config{Port: 1, JWTManager: jwt, Fanout: config.FanoutConfig{Mode: config.FanoutRedis}})
	assert.Error(t, err, "redis fanout without client")

	_, err = New(log.NewNop(), Config{Port: 1, JWTManager: jwt, Alert: config.AlertConfig{Storage: config.StorageMemory}})
	assert.NoError(t, err)
}

type stoppedRouter struct {
	wsUC.Router
	stopped atomic.Bool
}

func (r *stoppedRouter) Shutdown(ctx context.Context) error {
	r.stopped.Store(true)
	return r.Router.Shutdown(ctx)
}

type refusingSubscriber struct{}

func (refusingSubscriber) Start(ctx context.Context) error {
	return errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
}
func (refusingSubscriber) Shutdown(ctx context.Context) error { return nil }

func TestStartServices_SubscriberFailureStopsRouter(t *testing.T) {
	srv, err := New(log.NewNop(), Config{
		Port:       8080,
		Mode:       gin.TestMode,
		Alert:      config.AlertConfig{Storage: config.StorageMemory, DefaultTTL: time.Hour},
		Sweeper:    config.SweeperConfig{Interval: time.Hour, BatchSize: 10},
		Fanout:     config.FanoutConfig{Mode: config.FanoutLocal},
		JWTManager: scope.New("httpserver-test-secret-0123456789abcdef"),
	})
	require.NoError(t, err)
	require.NoError(t, srv.mapHandlers())

	router := &stoppedRouter{Router: srv.services.router}
	srv.services.router = router
	srv.services.subscriber = refusingSubscriber{}

	assert.Error(t, srv.startServices(context.Background()))
	assert.True(t, router.stopped.Load())
}

func TestProbes(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		resp, err := http.Get(h.ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestCreatePushesToSubscribers(t *testing.T) {
	h := newHarness(t)
	adminTok := h.token(t, scope.Payload{UserID: "admin-1", Role: model.RoleAdmin})

	admin := h.dial(t, adminTok)
	require.NoError(t, admin.WriteJSON(ws.ClientFrame{Event: ws.ClientSubscribeAdmin}))
	assert.Equal(t, ws.EventSubscribed, readMessage(t, admin).Event)

	north := h.dial(t, h.token(t, scope.Payload{UserID: "7", Role: model.RoleNurse, Area: "north"}))
	east := h.dial(t, h.token(t, scope.Payload{UserID: "9", Role: model.RoleDoctor, Area: "east"}))

	h.createAlert(t, adminTok, model.AreaNorth)

	msg := readMessage(t, admin)
	assert.Equal(t, ws.EventNewAlert, msg.Event)

	msg = readMessage(t, north)
	require.Equal(t, ws.EventAreaAlert, msg.Event)
	var env ws.AreaEnvelope
	require.NoError(t, json.Unmarshal(msg.Payload, &env))
	assert.Equal(t, model.AreaNorth, env.Area)
	assert.Equal(t, "ED surge", env.Alert.Title)

	h.createAlert(t, adminTok, model.AreaHospitalWide)

	// east saw nothing of the north alert, so the broadcast is its first frame
	assert.Equal(t, ws.EventNewAlert, readMessage(t, east).Event)
	assert.Equal(t, ws.EventNewAlert, readMessage(t, north).Event)
	assert.Equal(t, ws.EventNewAlert, readMessage(t, admin).Event)
}
