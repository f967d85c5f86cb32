package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	ws "alert-srv/internal/websocket"
	"alert-srv/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	id     string
	userID string

	mu     sync.Mutex
	frames []ws.Message
	err    error
	closed bool
}

func newFakeSession(id string) *fakeSession {
	return &fakeSession{id: id, userID: id}
}

func (s *fakeSession) ID() string     { return s.id }
func (s *fakeSession) UserID() string { return s.userID }

func (s *fakeSession) Send(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	var m ws.Message
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	s.frames = append(s.frames, m)
	return nil
}

func (s *fakeSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *fakeSession) received() []ws.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ws.Message(nil), s.frames...)
}

func (s *fakeSession) events() []string {
	var out []string
	for _, m := range s.received() {
		out = append(out, m.Event)
	}
	return out
}

func testMessage(t *testing.T, event string, payload any) ws.Message {
	t.Helper()
	m, err := ws.NewMessage(event, payload, time.Now())
	require.NoError(t, err)
	return m
}

func TestRegistry_PublishReachesMembersOnly(t *testing.T) {
	reg := NewRegistry(log.NewNop())
	a, b, c := newFakeSession("a"), newFakeSession("b"), newFakeSession("c")
	for _, s := range []*fakeSession{a, b, c} {
		reg.Register(s)
	}
	reg.Join(a, "admin")
	reg.Join(b, "admin")
	reg.Join(b, "area:north")
	reg.Join(c, "area:south")

	n := reg.Publish(context.Background(), "admin", testMessage(t, ws.EventNewAlert, map[string]string{"id": "1"}))
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{ws.EventNewAlert}, a.events())
	assert.Equal(t, []string{ws.EventNewAlert}, b.events())
	assert.Empty(t, c.events())

	assert.Zero(t, reg.Publish(context.Background(), "area:east", testMessage(t, ws.EventAreaAlert, nil)))
}

func TestRegistry_NoRetroactiveDelivery(t *testing.T) {
	reg := NewRegistry(log.NewNop())
	early, late := newFakeSession("early"), newFakeSession("late")
	reg.Register(early)
	reg.Register(late)

	reg.Join(early, "admin")
	reg.Publish(context.Background(), "admin", testMessage(t, ws.EventNewAlert, nil))
	reg.Join(late, "admin")

	assert.Len(t, early.received(), 1)
	assert.Empty(t, late.received())
}

func TestRegistry_LeaveAndDropAll(t *testing.T) {
	reg := NewRegistry(log.NewNop())
	s := newFakeSession("s")
	reg.Register(s)
	reg.Join(s, "admin")
	reg.Join(s, "user:s")
	reg.Join(s, "area:north")
	assert.Equal(t, ws.Stats{Sessions: 1, Channels: 3}, reg.Stats())

	reg.Leave(s, "admin")
	assert.Zero(t, reg.Publish(context.Background(), "admin", testMessage(t, ws.EventNewAlert, nil)))
	assert.Equal(t, 1, reg.Publish(context.Background(), "user:s", testMessage(t, ws.EventNewAlert, nil)))

	reg.DropAll(s)
	assert.Equal(t, ws.Stats{}, reg.Stats())
	assert.Zero(t, reg.Publish(context.Background(), "area:north", testMessage(t, ws.EventAreaAlert, nil)))
	assert.Zero(t, reg.Broadcast(context.Background(), testMessage(t, ws.EventNewAlert, nil)))

	reg.DropAll(s)
	reg.Leave(s, "nowhere")
}

func TestRegistry_FailedDeliveryIsContained(t *testing.T) {
	reg := NewRegistry(log.NewNop())
	slow, ok := newFakeSession("slow"), newFakeSession("ok")
	slow.err = ws.ErrSendBufferFull
	for _, s := range []*fakeSession{slow, ok} {
		reg.Register(s)
		reg.Join(s, "admin")
	}

	assert.Equal(t, 1, reg.Publish(context.Background(), "admin", testMessage(t, ws.EventNewAlert, nil)))
	assert.Len(t, ok.received(), 1)
	assert.Equal(t, 1, reg.Broadcast(context.Background(), testMessage(t, ws.EventNewAlert, nil)))
}

func TestRegistry_JoinAfterDropIsRefused(t *testing.T) {
	reg := NewRegistry(log.NewNop())
	s := newFakeSession("s")
	reg.Register(s)
	reg.Join(s, "user:s")
	reg.DropAll(s)

	reg.Join(s, "admin")
	assert.Equal(t, ws.Stats{Sessions: 0, Channels: 0}, reg.Stats())
	assert.Zero(t, reg.Publish(context.Background(), "admin", testMessage(t, ws.EventNewAlert, nil)))

	stranger := newFakeSession("stranger")
	reg.Join(stranger, "admin")
	assert.Equal(t, ws.Stats{Sessions: 0, Channels: 0}, reg.Stats())
	assert.Empty(t, s.received())
	assert.Empty(t, stranger.received())
}

func TestRegistry_JoinRacingDropLeavesNothing(t *testing.T) {
	reg := NewRegistry(log.NewNop())
	for i := 0; i < 200; i++ {
		s := newFakeSession(fmt.Sprintf("s%d", i))
		reg.Register(s)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.Join(s, "admin")
			reg.Join(s, "area:north")
		}()
		go func() {
			defer wg.Done()
			reg.DropAll(s)
		}()
		wg.Wait()
	}

	assert.Equal(t, ws.Stats{Sessions: 0, Channels: 0}, reg.Stats())
}

func TestRegistry_BroadcastOncePerSession(t *testing.T) {
	reg := NewRegistry(log.NewNop())
	s := newFakeSession("s")
	reg.Register(s)
	reg.Join(s, "admin")
	reg.Join(s, "user:s")

	assert.Equal(t, 1, reg.Broadcast(context.Background(), testMessage(t, ws.EventNewAlert, nil)))
	assert.Len(t, s.received(), 1)
}

func TestRegistry_CloseAll(t *testing.T) {
	reg := NewRegistry(log.NewNop())
	a, b := newFakeSession("a"), newFakeSession("b")
	reg.Register(a)
	reg.Register(b)

	reg.CloseAll()
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestRegistry_ConcurrentMembershipAndPublish(t *testing.T) {
	reg := NewRegistry(log.NewNop())
	stable := newFakeSession("stable")
	reg.Register(stable)
	reg.Join(stable, "admin")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := newFakeSession(fmt.Sprintf("s%d", i))
			reg.Register(s)
			for j := 0; j < 50; j++ {
				reg.Join(s, "admin")
				reg.Join(s, fmt.Sprintf("area:%d", j%3))
				reg.Leave(s, fmt.Sprintf("area:%d", j%3))
			}
			reg.DropAll(s)
		}(i)
	}

	const publishes = 200
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < publishes; i++ {
			reg.Publish(context.Background(), "admin", testMessage(t, ws.EventNewAlert, i))
		}
	}()
	wg.Wait()

	got := stable.received()
	require.Len(t, got, publishes)
	for i, m := range got {
		assert.JSONEq(t, fmt.Sprint(i), string(m.Payload))
	}
	assert.Equal(t, ws.Stats{Sessions: 1, Channels: 1}, reg.Stats())
}
