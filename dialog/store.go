package dialog

import (
	"sync"
	"time"
)

// Key identifies a conversation: one session per user per chat.
type Key struct {
	ChatID int64
	UserID int64
}

// Store holds in-progress sessions keyed by chat and user.
// Expiry is lazy: expired sessions are discarded when next accessed.
// Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[Key]Session
	timeout  time.Duration
}

// StoreOption is a functional option for configuring a Store.
type StoreOption func(*Store)

// WithSessionTimeout overrides the default session timeout.
func WithSessionTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.timeout = d
	}
}

// NewStore creates an empty session store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[Key]Session),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Timeout returns the configured session timeout.
func (s *Store) Timeout() time.Duration {
	return s.timeout
}

// Get returns the session for key, discarding it first if it has
// expired at now. An absent or expired key yields an idle session.
func (s *Store) Get(key Key, now time.Time) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[key]
	if !ok {
		return Session{}
	}
	if session.Expired(now) {
		delete(s.sessions, key)
		return Session{}
	}
	return session
}

// Put stores the session for key. Idle sessions are removed instead of
// stored, so closed conversations don't accumulate.
func (s *Store) Put(key Key, session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.State == StateIdle {
		delete(s.sessions, key)
		return
	}
	s.sessions[key] = session
}

// Update reads the session for key, applies fn and stores the result
// under a single lock acquisition. Concurrent duplicate inputs therefore
// cannot both observe the same live session: the first one consumes it
// and the second sees an idle session. Expiry is handled like Get, and
// an idle result removes the entry like Put. Returns the session fn saw
// together with fn's second result.
func (s *Store) Update(key Key, now time.Time, fn func(Session) (Session, Effect)) (Session, Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[key]
	if ok && session.Expired(now) {
		delete(s.sessions, key)
		session = Session{}
	}

	next, effect := fn(session)
	if next.State == StateIdle {
		delete(s.sessions, key)
	} else {
		s.sessions[key] = next
	}
	return session, effect
}

// Delete force-closes the session for key.
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// Len returns the number of sessions currently held, including any that
// have expired but not yet been discarded.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
