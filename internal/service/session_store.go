package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vcscsvcscs/fitai-planner/internal/observability"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned when a session ID is unknown or expired
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps sessions in memory and expires idle ones
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewSessionStore creates a new SessionStore. A zero ttl disables expiry.
func NewSessionStore(ttl time.Duration, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Create registers a new empty session
func (st *SessionStore) Create() *Session {
	sess := NewSession(st.now())

	st.mu.Lock()
	st.sessions[sess.ID()] = sess
	count := len(st.sessions)
	st.mu.Unlock()

	observability.SetActiveSessions(count)
	st.logger.Info("session created",
		zap.String("session_id", sess.ID()),
		zap.Int("active_sessions", count),
	)
	return sess
}

// Get returns the session and refreshes its idle timer
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(st.now())
	return sess, nil
}

// Delete removes a session
func (st *SessionStore) Delete(id string) error {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	if ok {
		delete(st.sessions, id)
	}
	count := len(st.sessions)
	st.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	// A generation still running for this session must not land anywhere
	sess.Dismiss()

	observability.SetActiveSessions(count)
	st.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many were removed
func (st *SessionStore) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	var expired []*Session
	for id, sess := range st.sessions {
		if sess.idleSince().Before(cutoff) {
			expired = append(expired, sess)
			delete(st.sessions, id)
		}
	}
	count := len(st.sessions)
	st.mu.Unlock()

	for _, sess := range expired {
		sess.Dismiss()
	}

	if len(expired) > 0 {
		observability.SetActiveSessions(count)
		st.logger.Info("expired idle sessions",
			zap.Int("expired", len(expired)),
			zap.Int("active_sessions", count),
		)
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is cancelled
func (st *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if st.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}
