// Package store holds the two client side state containers of the console:
// the SessionStore (who is logged in) and the UserStore (the cached user
// collection). Each store is created once and handed to its consumers; all
// mutation goes through the store methods.
package store

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/usersadmin/usersadmin/internal/client"
	"github.com/usersadmin/usersadmin/internal/models"
)

// AuthAPI is the part of the users API the session store needs.
type AuthAPI interface {
	Login(ctx context.Context, credentials models.Credentials) error
	Me(ctx context.Context) (*models.Identity, error)
}

type SessionState struct {
	Identity *models.Identity
	Loading  bool
	Error    string
}

func (s SessionState) IsAuthenticated() bool {
	return s.Identity != nil
}

type SessionStore struct {
	api       AuthAPI
	mu        sync.RWMutex
	state     SessionState
	listeners listeners[SessionState]
}

func NewSessionStore(api AuthAPI) *SessionStore {
	return &SessionStore{api: api}
}

// Login authenticates and then resolves the canonical identity with a
// session check. Concurrent logins are not deduplicated; the last one to
// resolve wins.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*models.Identity, error) {

	logrus.WithFields(logrus.Fields{
		"email": email,
	}).Debugln("Logging in")

	s.update(func(state *SessionState) {
		state.Loading = true
		state.Error = ""
	})

	err := s.api.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, s.failLogin(err)
	}

	identity, err := s.api.Me(ctx)
	if err != nil {
		return nil, s.failLogin(err)
	}

	s.update(func(state *SessionState) {
		state.Loading = false
		state.Identity = cloneIdentity(identity)
	})

	return cloneIdentity(identity), nil
}

// CheckSession asks the server who is logged in. A failure leaves any
// identity already held untouched; evicting it is the caller's decision.
func (s *SessionStore) CheckSession(ctx context.Context) (*models.Identity, error) {

	logrus.Debugln("Checking session")

	identity, err := s.api.Me(ctx)
	if err != nil {
		authErr := newAuthError(err)
		logrus.WithError(err).Debugln("Session check failed")
		return nil, authErr
	}

	s.update(func(state *SessionState) {
		state.Identity = cloneIdentity(identity)
	})

	return cloneIdentity(identity), nil
}

// Logout clears the identity. It makes no network call; a cookie jar that
// can forget its session is asked to do so.
func (s *SessionStore) Logout() {

	logrus.Debugln("Logging out")

	s.update(func(state *SessionState) {
		state.Identity = nil
	})

	if forgetter, ok := s.api.(client.Forgetter); ok {
		if err := forgetter.Forget(); err != nil {
			logrus.WithError(err).Warnln("Failed to drop persisted session")
		}
	}
}

func (s *SessionStore) Identity() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneIdentity(s.state.Identity)
}

func (s *SessionStore) IsAuthenticated() bool {
	return s.Identity() != nil
}

func (s *SessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Subscribe registers fn to run after every state change. The returned
// function removes the subscription.
func (s *SessionStore) Subscribe(fn func(SessionState)) func() {
	return s.listeners.subscribe(fn)
}

func (s *SessionStore) failLogin(err error) error {
	authErr := newAuthError(err)

	logrus.WithError(err).Debugln("Login failed")

	s.update(func(state *SessionState) {
		state.Loading = false
		state.Error = authErr.Message
	})

	return authErr
}

func (s *SessionStore) update(mutate func(*SessionState)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.listeners.notify(snapshot)
}

func (s *SessionStore) snapshot() SessionState {
	state := s.state
	state.Identity = cloneIdentity(s.state.Identity)
	return state
}

// newAuthError prefers the server message. Rejections without one get the
// generic login message; failures that never produced a response get the
// generic server error.
func newAuthError(err error) *models.AuthError {
	if msg := client.ServerMessage(err); len(msg) > 0 {
		return &models.AuthError{Message: msg, Err: err}
	}
	if client.IsAPIError(err) {
		return &models.AuthError{Message: models.MessageLoginFailed, Err: err}
	}
	return &models.AuthError{Message: models.MessageServerError, Err: err}
}

func cloneIdentity(identity *models.Identity) *models.Identity {
	if identity == nil {
		return nil
	}
	clone := *identity
	return &clone
}
