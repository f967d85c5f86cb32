package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"alert-srv/internal/model"
	ws "alert-srv/internal/websocket"
	"alert-srv/pkg/log"
	"alert-srv/pkg/scope"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUseCase struct {
	mu     sync.Mutex
	scopes []model.Scope
}

func (f *fakeUseCase) Register(ctx context.Context, ip ws.RegisterInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes = append(f.scopes, ip.Scope)
	if conn, ok := ip.Conn.(*websocket.Conn); ok {
		conn.Close()
	}
	return nil
}

func (f *fakeUseCase) Stats(ctx context.Context) ws.Stats { return ws.Stats{} }
func (f *fakeUseCase) Shutdown(ctx context.Context) error { return nil }

func (f *fakeUseCase) registered() []model.Scope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Scope(nil), f.scopes...)
}

func newServer(t *testing.T, cfg WSConfig) (*httptest.Server, *fakeUseCase, scope.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwt := scope.New("ws-handler-secret")
	uc := &fakeUseCase{}
	r := gin.New()
	New(log.NewNop(), uc, jwt, cfg).RegisterRoutes(r.Group(""))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, uc, jwt
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func TestHandleWebSocket_Unauthorized(t *testing.T) {
	srv, uc, _ := newServer(t, WSConfig{})

	for _, q := range []string{"", "?token=garbage"} {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, q), nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, q)
	}
	assert.Empty(t, uc.registered())
}

func TestHandleWebSocket_QueryToken(t *testing.T) {
	srv, uc, jwt := newServer(t, WSConfig{})
	tok, err := jwt.CreateToken(scope.Payload{UserID: "7", Role: model.RoleNurse, Area: "north"})
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+tok), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return len(uc.registered()) == 1 }, time.Second, 5*time.Millisecond)
	sc := uc.registered()[0]
	assert.Equal(t, "7", sc.UserID)
	assert.Equal(t, model.AreaNorth, sc.Area)
}

func TestHandleWebSocket_BearerHeaderAndOrigin(t *testing.T) {
	srv, uc, jwt := newServer(t, WSConfig{AllowedOrigins: []string{"https://ops.hospital.local"}})
	tok, err := jwt.CreateToken(scope.Payload{UserID: "admin-1", Role: model.RoleAdmin})
	require.NoError(t, err)

	h := http.Header{}
	h.Set("Authorization", "Bearer "+tok)
	h.Set("Origin", "https://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), h)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	h.Set("Origin", "https://ops.hospital.local")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), h)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return len(uc.registered()) == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, uc.registered()[0].IsAdmin())
}
