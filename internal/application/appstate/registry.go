package appstate

import (
	"sync"

	"github.com/google/uuid"
)

// SessionRegistry keeps one Store per user id
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Store
	onCreate func(uuid.UUID, *Store)
}

// NewSessionRegistry creates a registry. onCreate, when not nil, runs once
// for every new store and is where subscriptions are wired.
func NewSessionRegistry(onCreate func(uuid.UUID, *Store)) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*Store),
		onCreate: onCreate,
	}
}

// Get returns the user's store, creating a signed-out one on first use
func (r *SessionRegistry) Get(userID uuid.UUID) *Store {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	if !ok {
		s = NewStore()
		r.sessions[userID] = s
	}
	r.mu.Unlock()

	if !ok && r.onCreate != nil {
		r.onCreate(userID, s)
	}
	return s
}

// Lookup returns the user's store if one exists
func (r *SessionRegistry) Lookup(userID uuid.UUID) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// Remove drops the user's store
func (r *SessionRegistry) Remove(userID uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()
}

// Len returns the number of live sessions
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
