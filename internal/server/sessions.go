package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/cchalm/groq-multitool/internal/chat"
)

const sessionCookie = "multitool_session"

const (
	// DefaultSessionIdleTimeout is how long a chat session survives without a request
	DefaultSessionIdleTimeout = 30 * time.Minute
	// DefaultMaxSessions caps the number of chat sessions held in memory
	DefaultMaxSessions = 1000
)

// sessionEntry serializes requests for one browser session
type sessionEntry struct {
	mu       sync.Mutex
	session  *chat.Session
	lastUsed time.Time // Guarded by the store's mutex
}

// sessionStore holds the chat sessions that have at least one logged turn. Sessions idle for longer than idleTimeout
// are swept whenever the store is touched, and the least recently used session is evicted when the store is full.
type sessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*sessionEntry
	newSession  func() *chat.Session
	idleTimeout time.Duration
	maxSessions int
	now         func() time.Time
}

func newSessionStore(newSession func() *chat.Session, idleTimeout time.Duration, maxSessions int) *sessionStore {
	if idleTimeout <= 0 {
		idleTimeout = DefaultSessionIdleTimeout
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &sessionStore{
		sessions:    map[string]*sessionEntry{},
		newSession:  newSession,
		idleTimeout: idleTimeout,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// lookup returns the live entry for id and marks it used, or nil if there is none
func (st *sessionStore) lookup(id string) *sessionEntry {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	st.sweep(now)
	e := st.sessions[id]
	if e != nil {
		e.lastUsed = now
	}
	return e
}

// pending returns an entry for a session that is not registered yet. Nothing is stored until register is called.
func (st *sessionStore) pending() *sessionEntry {
	return &sessionEntry{session: st.newSession()}
}

// register stores e, evicting the least recently used session if the store is full
func (st *sessionStore) register(e *sessionEntry) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	st.sweep(now)
	for len(st.sessions) >= st.maxSessions {
		st.evictOldest()
	}
	e.lastUsed = now
	st.sessions[e.session.ID] = e
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *sessionStore) sweep(now time.Time) {
	for id, e := range st.sessions {
		if now.Sub(e.lastUsed) > st.idleTimeout {
			delete(st.sessions, id)
		}
	}
}

func (st *sessionStore) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, e := range st.sessions {
		if oldestID == "" || e.lastUsed.Before(oldest) {
			oldestID, oldest = id, e.lastUsed
		}
	}
	delete(st.sessions, oldestID)
}

// existingSession returns the caller's registered session, or nil if the request carries no known session cookie
func (s *Server) existingSession(r *http.Request) *sessionEntry {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	return s.sessions.lookup(c.Value)
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
