package catalog

import (
	"sync"
	"time"
)

// Session is the per-viewer context: navigation state, the one-time visit
// flag, the admin trigger run and the admin authentication flag. It replaces
// ambient browser session storage. A Session is created when a viewer first
// connects and its admin flags are cleared by Gate.Logout.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu            sync.Mutex
	nav           Navigator
	trigger       triggerRun
	visited       bool
	adminMode     bool
	authenticated bool
	editor        *EditSession
}

// NewSession creates a session positioned at Root.
func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now}
}

// Navigate runs fn against the session's navigator while holding the
// session lock.
func (s *Session) Navigate(fn func(*Navigator) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.nav)
}

// Location returns the current navigation state.
func (s *Session) Location() Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Location()
}

// markVisited sets the visit flag and reports whether it was unset before.
func (s *Session) markVisited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	first := !s.visited
	s.visited = true
	return first
}

// AdminMode reports whether the hidden trigger has fired in this session.
func (s *Session) AdminMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adminMode
}

// Authenticated reports whether the admin secret was accepted in this session.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// IsAdmin reports whether the editor is reachable: admin mode is open and
// the session is authenticated.
func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adminMode && s.authenticated
}

// LeaveAdminMode closes admin mode without logging out, as the login
// screen's cancel button does. Authentication survives.
func (s *Session) LeaveAdminMode() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminMode = false
}

// Editor returns the session's edit state, creating it on first use.
func (s *Session) Editor() *EditSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editor == nil {
		s.editor = &EditSession{}
	}
	return s.editor
}

// Sessions is a registry of live sessions. Safe for concurrent use.
type Sessions struct {
	mu    sync.RWMutex
	byID  map[string]*Session
	ids   IDGenerator
	clock Clock
}

// NewSessions creates an empty registry.
func NewSessions(ids IDGenerator, clock Clock) *Sessions {
	return &Sessions{byID: make(map[string]*Session), ids: ids, clock: clock}
}

// Get returns the session with id, if any.
func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	return s, ok
}

// Create starts a new session at Root.
func (r *Sessions) Create() *Session {
	s := NewSession(r.ids.New(), r.clock.Now())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.ID] = s
	return s
}

// Delete forgets a session.
func (r *Sessions) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// Each calls fn for every live session.
func (r *Sessions) Each(fn func(*Session)) {
	r.mu.RLock()
	all := make([]*Session, 0, len(r.byID))
	for _, s := range r.byID {
		all = append(all, s)
	}
	r.mu.RUnlock()
	for _, s := range all {
		fn(s)
	}
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// DiscardEdits closes every open editor in every session. Registered as a
// reload listener: a refresh overwrites drafts with the stored tree.
func (r *Sessions) DiscardEdits() {
	r.Each(func(s *Session) {
		s.mu.Lock()
		es := s.editor
		s.mu.Unlock()
		if es != nil {
			es.Discard()
		}
	})
}
