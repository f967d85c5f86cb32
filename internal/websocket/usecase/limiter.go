package usecase

import (
	"sync"
	"time"

	ws "alert-srv/internal/websocket"
)

// Limits bound how many sessions one user may hold and how fast they may open them.
// A zero field disables that limit.
type Limits struct {
	MaxSessionsPerUser int
	ConnectRate        int
	RateWindow         time.Duration
}

func DefaultLimits() Limits {
	return Limits{
		MaxSessionsPerUser: 10,
		ConnectRate:        20,
		RateWindow:         time.Minute,
	}
}

// connectionLimiter tracks live sessions and recent connect attempts per user.
type connectionLimiter struct {
	mu        sync.Mutex
	limits    Limits
	clock     func() time.Time
	sessions  map[string]int
	attempts  map[string][]time.Time
	lastPrune time.Time
}

func newConnectionLimiter(limits Limits) *connectionLimiter {
	if limits.ConnectRate > 0 && limits.RateWindow <= 0 {
		limits.RateWindow = time.Minute
	}
	return &connectionLimiter{
		limits:   limits,
		clock:    time.Now,
		sessions: make(map[string]int),
		attempts: make(map[string][]time.Time),
	}
}

// acquire counts one connect attempt and reserves a session slot for userID.
// Every successful acquire must be paired with one release.
func (cl *connectionLimiter) acquire(userID string) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.clock()
	cl.pruneLocked(now)

	if cl.limits.ConnectRate > 0 {
		recent := cl.recentLocked(userID, now)
		if len(recent) >= cl.limits.ConnectRate {
			return &ws.LimitError{UserID: userID, Limit: ws.LimitConnectRate, Current: len(recent), Max: cl.limits.ConnectRate}
		}
		cl.attempts[userID] = append(recent, now)
	}

	if limit := cl.limits.MaxSessionsPerUser; limit > 0 && cl.sessions[userID] >= limit {
		return &ws.LimitError{UserID: userID, Limit: ws.LimitSessionsPerUser, Current: cl.sessions[userID], Max: limit}
	}

	cl.sessions[userID]++
	return nil
}

func (cl *connectionLimiter) release(userID string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.sessions[userID] <= 1 {
		delete(cl.sessions, userID)
		return
	}
	cl.sessions[userID]--
}

func (cl *connectionLimiter) recentLocked(userID string, now time.Time) []time.Time {
	ts := cl.attempts[userID]
	cut := 0
	for cut < len(ts) && !ts[cut].After(now.Add(-cl.limits.RateWindow)) {
		cut++
	}
	return ts[cut:]
}

// pruneLocked forgets users with no attempt inside the window, at most once per window.
func (cl *connectionLimiter) pruneLocked(now time.Time) {
	if cl.limits.ConnectRate <= 0 || now.Sub(cl.lastPrune) < cl.limits.RateWindow {
		return
	}
	cl.lastPrune = now
	for userID := range cl.attempts {
		if len(cl.recentLocked(userID, now)) == 0 {
			delete(cl.attempts, userID)
		}
	}
}
