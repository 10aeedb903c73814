package shared

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session binds a bearer token to a user, a tenant and a fixed capability
// set. Content never changes after creation; only existence does.
type Session struct {
	ID           string
	UserID       string
	TenantID     string
	Capabilities []string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// SessionStore keeps login sessions in process memory and removes them when
// they expire, either lazily on lookup or eagerly by a periodic sweep.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session

	ttl  time.Duration
	now  func() time.Time
	done chan struct{}
	once sync.Once
}

// NewSessionStore constructs a store and starts its background sweep.
// Close must be called before process shutdown to stop the sweep.
func NewSessionStore(ttl, sweepInterval time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go s.sweepLoop(sweepInterval)
	return s
}

// Create mints a fresh session and returns its identifier.
func (s *SessionStore) Create(userID, tenantID string, capabilities []string) string {
	id := s.generateSessionID()
	now := s.now()
	caps := append([]string(nil), capabilities...)

	s.mu.Lock()
	s.sessions[id] = Session{
		ID:           id,
		UserID:       userID,
		TenantID:     tenantID,
		Capabilities: caps,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}
	s.mu.Unlock()
	return id
}

// Lookup returns the session when it exists and has not expired. An expired
// session is removed on the spot. Expiry is absolute: lookups never extend it.
func (s *SessionStore) Lookup(id string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if !s.now().Before(sess.ExpiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent delete may have won.
		if cur, still := s.sessions[id]; still && cur.CreatedAt.Equal(sess.CreatedAt) {
			delete(s.sessions, id)
		}
		s.mu.Unlock()
		return Session{}, false
	}
	sess.Capabilities = append([]string(nil), sess.Capabilities...)
	return sess, true
}

// Delete removes the session if present and reports whether it did. Deleting
// an unknown id is not an error; logout is always safe to call.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len reports the number of stored sessions, expired ones included until the
// next sweep.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the background sweep. Safe to call more than once.
func (s *SessionStore) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *SessionStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *SessionStore) sweep() {
	now := s.now()
	s.mu.Lock()
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
}

func (s *SessionStore) generateSessionID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// Both entropy sources failing leaves nothing safe to hand out.
		panic("shared: no entropy available for session id")
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
