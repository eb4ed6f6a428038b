package ui

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultSessionTTL is how long an idle page keeps its state.
	DefaultSessionTTL = 30 * time.Minute
	// DefaultMaxSessions bounds the registry when no limit is given.
	DefaultMaxSessions = 1000
)

// Factory creates the controller of a new session.
type Factory func(ctx context.Context) *Controller

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Sessions maps browser sessions to their controllers. State lives only in
// memory, expires after ttl without requests, and at most limit sessions
// are held; the least recently used one is evicted to make room.
type Sessions struct {
	mu      sync.Mutex
	items   map[uuid.UUID]*session
	factory Factory
	ttl     time.Duration
	limit   int
	now     func() time.Time
}

// NewSessions creates an empty registry. Non-positive ttl and limit fall
// back to DefaultSessionTTL and DefaultMaxSessions.
func NewSessions(factory Factory, ttl time.Duration, limit int) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	return &Sessions{
		items:   make(map[uuid.UUID]*session),
		factory: factory,
		ttl:     ttl,
		limit:   limit,
		now:     time.Now,
	}
}

// Get returns the controller for id. Unknown, expired or malformed ids get
// a fresh session; the returned id is the one the client must keep.
func (s *Sessions) Get(ctx context.Context, id string) (*Controller, string) {
	now := s.now()

	s.mu.Lock()
	if parsed, err := uuid.Parse(id); err == nil {
		if sess, ok := s.items[parsed]; ok && now.Sub(sess.lastSeen) <= s.ttl {
			sess.lastSeen = now
			s.mu.Unlock()
			return sess.ctrl, parsed.String()
		}
	}
	s.mu.Unlock()

	// The factory runs a calculation, keep it outside the lock.
	ctrl := s.factory(ctx)
	newID := uuid.New()

	var evicted []*Controller
	s.mu.Lock()
	for len(s.items) >= s.limit {
		evicted = append(evicted, s.evictOldestLocked())
	}
	s.items[newID] = &session{ctrl: ctrl, lastSeen: now}
	s.mu.Unlock()

	for _, c := range evicted {
		c.Close()
	}
	if len(evicted) > 0 {
		log.Ctx(ctx).Debug().Int("evicted", len(evicted)).Int("limit", s.limit).Msg("Evicted least recently used calculator sessions")
	}

	log.Ctx(ctx).Debug().Str("sessionID", newID.String()).Msg("Created calculator session")
	return ctrl, newID.String()
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Expire drops sessions idle for longer than the ttl and disposes of
// their charts. It returns the number of sessions removed.
func (s *Sessions) Expire() int {
	now := s.now()
	var expired []*Controller

	s.mu.Lock()
	for id, sess := range s.items {
		if now.Sub(sess.lastSeen) > s.ttl {
			expired = append(expired, sess.ctrl)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()

	for _, c := range expired {
		c.Close()
	}
	return len(expired)
}

// Run expires idle sessions every interval until ctx is done, then closes
// all remaining sessions.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			if n := s.Expire(); n > 0 {
				log.Debug().Int("expired", n).Int("live", s.Len()).Msg("Expired idle calculator sessions")
			}
		}
	}
}

// evictOldestLocked removes the least recently used session and returns
// its controller. s.mu must be held and the registry non-empty.
func (s *Sessions) evictOldestLocked() *Controller {
	var (
		oldestID uuid.UUID
		oldest   *session
	)
	for id, sess := range s.items {
		if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, sess
		}
	}
	delete(s.items, oldestID)
	return oldest.ctrl
}

func (s *Sessions) closeAll() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[uuid.UUID]*session)
	s.mu.Unlock()

	for _, sess := range items {
		sess.ctrl.Close()
	}
}
