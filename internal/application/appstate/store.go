// Package appstate keeps per-session UI state: the signed-in user snapshot
// and the current content view. A Store is mutated only through Dispatch
// and observed through Subscribe.
package appstate

import (
	"sync"

	"github.com/google/uuid"
)

// User is the authenticated user snapshot held by a session
type User struct {
	UID           uuid.UUID `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	IsAdmin       bool      `json:"is_admin"`
}

// State is an immutable snapshot of a Store
type State struct {
	User    *User     `json:"user"`
	View    View      `json:"view"`
	Subject uuid.UUID `json:"subject,omitempty"`
	Version uint64    `json:"version"`
}

// Action is applied to a Store by Dispatch
type Action interface {
	apply(s State) (State, error)
}

// SignedIn replaces the user snapshot and moves to the landing view
type SignedIn struct{ User User }

// SignedOut clears the user
type SignedOut struct{}

// ProfileUpdated changes the display fields of the signed-in user
type ProfileUpdated struct {
	DisplayName string
	PhotoURL    string
}

// EmailVerified marks the signed-in user verified
type EmailVerified struct{}

// Navigate moves to another view. Subject is the idea shown by
// ViewIdeaDetail and ViewEvaluate.
type Navigate struct {
	To      View
	Subject uuid.UUID
}

func (a SignedIn) apply(s State) (State, error) {
	u := a.User
	s.User = &u
	s.View = landing(s.User)
	s.Subject = uuid.Nil
	return s, nil
}

func (SignedOut) apply(s State) (State, error) {
	s.User = nil
	s.View = ViewSignedOut
	s.Subject = uuid.Nil
	return s, nil
}

func (a ProfileUpdated) apply(s State) (State, error) {
	if s.User == nil {
		return s, &TransitionError{From: s.View, To: s.View, Reason: "sign in required"}
	}
	u := *s.User
	u.DisplayName = a.DisplayName
	u.PhotoURL = a.PhotoURL
	s.User = &u
	return s, nil
}

func (EmailVerified) apply(s State) (State, error) {
	if s.User == nil {
		return s, &TransitionError{From: s.View, To: ViewHome, Reason: "sign in required"}
	}
	u := *s.User
	u.EmailVerified = true
	s.User = &u
	if s.View == ViewVerifyEmail {
		s.View = ViewHome
	}
	return s, nil
}

func (a Navigate) apply(s State) (State, error) {
	view, err := Transition(s.View, a.To, s.User)
	if err != nil {
		return s, err
	}
	s.View = view
	s.Subject = uuid.Nil
	if view == ViewIdeaDetail || view == ViewEvaluate {
		s.Subject = a.Subject
	}
	return s, nil
}

// Listener is notified with the new state after every successful dispatch
type Listener func(State)

// Store holds one session's state
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[uint64]Listener
	nextID    uint64
}

// NewStore creates a signed-out store
func NewStore() *Store {
	return &Store{
		state:     State{View: ViewSignedOut},
		listeners: make(map[uint64]Listener),
	}
}

// State returns the current snapshot
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies an action. A rejected action leaves the state unchanged
// and notifies nobody.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	next, err := a.apply(s.state)
	if err != nil {
		current := s.state
		s.mu.Unlock()
		return current, err
	}
	next.Version = s.state.Version + 1
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next, nil
}

// Subscribe registers a listener and returns a function that removes it
func (s *Store) Subscribe(l Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}
