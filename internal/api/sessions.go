package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"product-catalog-admin/internal/listing"
	"product-catalog-admin/internal/metrics"
)

// SessionCookie names the cookie that selects a browser's controller.
const SessionCookie = "admin_session"

// DefaultMaxSessions bounds the registry unless WithMaxSessions says otherwise.
const DefaultMaxSessions = 1000

// NewControllerFunc builds the controller of a new session.
type NewControllerFunc func() *listing.Controller

// SessionsOption configures a Sessions registry.
type SessionsOption func(*Sessions)

// WithMaxSessions caps the number of live sessions. Creating one more evicts
// the least recently used.
func WithMaxSessions(n int) SessionsOption {
	return func(s *Sessions) {
		if n > 0 {
			s.max = n
		}
	}
}

type sessionEntry struct {
	ctrl     *listing.Controller
	lastSeen time.Time
}

// Sessions keeps one list controller per browser session and evicts the
// ones that have been idle for too long.
type Sessions struct {
	newController NewControllerFunc
	idle          time.Duration
	max           int
	now           func() time.Time
	log           zerolog.Logger

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

// NewSessions creates an empty session registry.
func NewSessions(newController NewControllerFunc, idle time.Duration, log zerolog.Logger, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		newController: newController,
		idle:          idle,
		max:           DefaultMaxSessions,
		now:           time.Now,
		log:           log,
		entries:       map[string]*sessionEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the controller of session id and marks it as used.
func (s *Sessions) Get(id string) (*listing.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.ctrl, true
}

// Create starts a new session and begins its initial load in the
// background. The load is not tied to any request. At capacity the least
// recently used session is closed first.
func (s *Sessions) Create() (string, *listing.Controller) {
	id := uuid.NewString()
	ctrl := s.newController()

	s.mu.Lock()
	var evicted *listing.Controller
	if len(s.entries) >= s.max {
		evicted = s.evictOldestLocked()
	}
	s.entries[id] = &sessionEntry{ctrl: ctrl, lastSeen: s.now()}
	metrics.SessionsActive.Set(float64(len(s.entries)))
	s.mu.Unlock()

	if evicted != nil {
		evicted.Close()
		s.log.Warn().Int("max_sessions", s.max).Msg("session limit reached, least recently used session evicted")
	}

	s.log.Debug().Str("session", id).Msg("admin session created")
	go func() {
		if err := ctrl.Load(context.Background()); err != nil {
			s.log.Warn().Err(err).Str("session", id).Msg("initial load did not complete")
		}
	}()
	return id, ctrl
}

func (s *Sessions) evictOldestLocked() *listing.Controller {
	var (
		oldestID string
		oldest   *sessionEntry
	)
	for id, e := range s.entries {
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, e
		}
	}
	if oldest == nil {
		return nil
	}
	delete(s.entries, oldestID)
	return oldest.ctrl
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep closes and forgets sessions idle for longer than the idle timeout.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.idle)
	var expired []*listing.Controller

	s.mu.Lock()
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.ctrl)
			delete(s.entries, id)
		}
	}
	metrics.SessionsActive.Set(float64(len(s.entries)))
	s.mu.Unlock()

	for _, ctrl := range expired {
		ctrl.Close()
	}
	if len(expired) > 0 {
		s.log.Info().Int("expired", len(expired)).Msg("idle admin sessions evicted")
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done, then closes every session.
func (s *Sessions) Run(ctx context.Context) {
	interval := s.idle / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Sessions) closeAll() {
	s.mu.Lock()
	entries := s.entries
	s.entries = map[string]*sessionEntry{}
	metrics.SessionsActive.Set(0)
	s.mu.Unlock()

	for _, e := range entries {
		e.ctrl.Close()
	}
}
