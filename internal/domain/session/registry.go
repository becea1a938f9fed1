package session

import "sync"

// Registry keeps one Session per client id.
type Registry struct {
	factory func() *Session

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a registry that builds sessions with factory.
func NewRegistry(factory func() *Session) *Registry {
	return &Registry{
		factory:  factory,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[id]; ok {
		return sess
	}
	sess := r.factory()
	r.sessions[id] = sess
	return sess
}

// Close drops the session for id.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
