// ABOUTME: Process-wide observable session state
// ABOUTME: Mutated only through the token lifecycle manager, read by the UI

package auth

import (
	"sync"

	"github.com/firefly-health/firefly-cli/internal/client"
)

// Session is the observable authentication state. IsAuthenticated is true
// exactly when User is non-nil.
type Session struct {
	User            *client.User
	IsAuthenticated bool
	IsLoading       bool
	Err             string
}

// Store holds the current Session and notifies subscribers on change.
// UI components read via Snapshot or Subscribe and never mutate directly;
// all writes funnel through the Manager.
type Store struct {
	mu      sync.Mutex
	session Session
	subs    []func(Session)
}

// NewStore creates an empty, unauthenticated session store
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the current session state
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Subscribe registers a listener called with every state change. Listeners
// are invoked synchronously with the new snapshot.
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) update(mutate func(*Session)) {
	s.mu.Lock()
	mutate(&s.session)
	s.session.IsAuthenticated = s.session.User != nil
	snapshot := s.session
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

func (s *Store) setLoading(loading bool) {
	s.update(func(sess *Session) {
		sess.IsLoading = loading
		if loading {
			sess.Err = ""
		}
	})
}

func (s *Store) setAuthenticated(user *client.User) {
	s.update(func(sess *Session) {
		sess.User = user
		sess.IsLoading = false
		sess.Err = ""
	})
}

func (s *Store) setUnauthenticated(errMsg string) {
	s.update(func(sess *Session) {
		sess.User = nil
		sess.IsLoading = false
		sess.Err = errMsg
	})
}
