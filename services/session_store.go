package services

import (
	"sync"
	"time"

	"booking-calendar/models"
)

const DefaultSessionTTL = 12 * time.Hour

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
}

// SessionStore keeps one calendar Session per authenticated subject. Idle
// sessions expire after ttl; Drop ends one on sign-out.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	store    ReservationStore
	clock    Clock
	done     chan struct{}
	once     sync.Once
}

func NewSessionStore(store ReservationStore, clock Clock, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	ss := &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		store:    store,
		clock:    clock,
		done:     make(chan struct{}),
	}
	go ss.cleanupLoop()
	return ss
}

// Get returns the live session of subject and marks it as used.
func (ss *SessionStore) Get(subject string) (*Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	entry, ok := ss.sessions[subject]
	if !ok {
		return nil, false
	}
	now := ss.clock.Now()
	if now.Sub(entry.lastSeen) > ss.ttl {
		delete(ss.sessions, subject)
		return nil, false
	}
	entry.lastSeen = now
	return entry.session, true
}

// Start replaces any session of p.Subject with a fresh one.
func (ss *SessionStore) Start(p models.Principal) *Session {
	s := NewSession(ss.store, ss.clock, p)
	ss.mu.Lock()
	ss.sessions[p.Subject] = &sessionEntry{session: s, lastSeen: ss.clock.Now()}
	ss.mu.Unlock()
	return s
}

func (ss *SessionStore) Drop(subject string) {
	ss.mu.Lock()
	delete(ss.sessions, subject)
	ss.mu.Unlock()
}

func (ss *SessionStore) Size() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// Close stops the cleanup goroutine.
func (ss *SessionStore) Close() {
	ss.once.Do(func() { close(ss.done) })
}

func (ss *SessionStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ss.cleanup()
		case <-ss.done:
			return
		}
	}
}

func (ss *SessionStore) cleanup() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := ss.clock.Now()
	for subject, entry := range ss.sessions {
		if now.Sub(entry.lastSeen) > ss.ttl {
			delete(ss.sessions, subject)
		}
	}
}
