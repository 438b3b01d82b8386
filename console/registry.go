package console

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// Registry holds the live sessions keyed by session ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*Session{}}
}

func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.sessions[s.ID]; ok && old != s {
		old.Close()
	}
	r.sessions[s.ID] = s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove closes and forgets a session. It reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
	return ok
}

func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ReconcileAll reconciles every live session against the backend.
func (r *Registry) ReconcileAll(ctx context.Context) {
	for _, s := range r.Sessions() {
		if err := s.Reconcile(ctx); err != nil && !errors.Is(err, ErrStaleRefresh) && !errors.Is(err, ErrSessionClosed) {
			log.Printf("[RECONCILE] Session %s: %v", s.ID, err)
		}
	}
}

// Expire closes sessions older than ttl and returns how many were removed.
func (r *Registry) Expire(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	var expired []string
	for _, s := range r.Sessions() {
		if s.StartedAt.Before(cutoff) {
			expired = append(expired, s.ID)
		}
	}
	for _, id := range expired {
		r.Remove(id)
	}
	return len(expired)
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = map[string]*Session{}
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
