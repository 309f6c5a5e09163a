package store

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/usersadmin/usersadmin/internal/client"
	"github.com/usersadmin/usersadmin/internal/models"
)

// UsersAPI is the part of the users API the user store needs.
type UsersAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, patch models.UserPatch) (string, error)
	DeleteUser(ctx context.Context, id string) error
	CreateUser(ctx context.Context, user models.NewUser) error
}

type UserState struct {
	Users   []models.User
	Loading bool
	Error   string
}

// UserStore caches the user collection.
type UserStore struct {
	api       UsersAPI
	mu        sync.RWMutex
	state     UserState
	listeners listeners[UserState]
}

func NewUserStore(api UsersAPI) *UserStore {
	return &UserStore{
		api:   api,
		state: UserState{Users: []models.User{}},
	}
}

// FetchAll replaces the cache with the server's list.
func (s *UserStore) FetchAll(ctx context.Context) ([]models.User, error) {

	logrus.Debugln("Fetching users")

	s.update(func(state *UserState) {
		state.Loading = true
		state.Error = ""
	})

	users, err := s.api.ListUsers(ctx)
	if err != nil {
		fetchErr := &models.FetchError{Message: models.MessageFetchUsers, Err: err}

		logrus.WithError(err).Debugln("Failed to fetch users")

		s.update(func(state *UserState) {
			state.Loading = false
			state.Error = fetchErr.Message
		})
		return nil, fetchErr
	}

	s.update(func(state *UserState) {
		state.Loading = false
		state.Users = cloneUsers(users)
	})

	return s.Users(), nil
}

// FetchOne loads a single user and upserts it into the cache, replacing an
// entry with the same id in place or appending a new one.
func (s *UserStore) FetchOne(ctx context.Context, id string) (*models.User, error) {

	logrus.WithFields(logrus.Fields{
		"id": id,
	}).Debugln("Fetching user")

	s.clearError()

	user, err := s.api.GetUser(ctx, id)
	if err != nil {
		fetchErr := &models.FetchError{ID: id, Message: models.MessageFetchUser, Err: err}

		logrus.WithError(err).WithField("id", id).Debugln("Failed to fetch user")

		s.update(func(state *UserState) {
			state.Error = fetchErr.Message
		})
		return nil, fetchErr
	}

	s.update(func(state *UserState) {
		state.Users = upsert(state.Users, *user)
	})

	fetched := *user
	return &fetched, nil
}

// Update sends the normalized fields of id to the server and returns the
// acknowledged id. The cache is left as it was; callers refetch to see the
// change.
func (s *UserStore) Update(ctx context.Context, id string, fields models.EditableUserFields) (string, error) {

	patch := fields.Normalize()

	logrus.WithFields(logrus.Fields{
		"id": id,
	}).Debugln("Updating user")

	s.clearError()

	ackID, err := s.api.UpdateUser(ctx, id, patch)
	if err != nil {
		updateErr := &models.UpdateError{
			ID:      id,
			Message: client.MessageFrom(err, models.MessageUpdateFailed),
			Err:     err,
		}

		logrus.WithError(err).WithField("id", id).Debugln("Failed to update user")

		s.update(func(state *UserState) {
			state.Error = updateErr.Message
		})
		return "", updateErr
	}

	return ackID, nil
}

// DeleteByID removes id on the server, and from the cache only once the
// server confirmed.
func (s *UserStore) DeleteByID(ctx context.Context, id string) error {

	logrus.WithFields(logrus.Fields{
		"id": id,
	}).Debugln("Deleting user")

	s.clearError()

	if err := s.api.DeleteUser(ctx, id); err != nil {
		deleteErr := &models.DeleteError{
			ID:      id,
			Message: client.MessageFrom(err, models.MessageDeleteFailed),
			Err:     err,
		}

		logrus.WithError(err).WithField("id", id).Debugln("Failed to delete user")

		s.update(func(state *UserState) {
			state.Error = deleteErr.Message
		})
		return deleteErr
	}

	s.update(func(state *UserState) {
		state.Users = remove(state.Users, id)
	})

	return nil
}

// Create registers a new user. Like Update it leaves the cache alone.
func (s *UserStore) Create(ctx context.Context, user models.NewUser) error {

	logrus.WithFields(logrus.Fields{
		"email": user.Email,
	}).Debugln("Creating user")

	s.clearError()

	if err := s.api.CreateUser(ctx, user); err != nil {
		createErr := &models.CreateError{
			Message: models.MessageCreateFailed,
			Err:     err,
		}
		if msg := client.ServerMessage(err); len(msg) > 0 {
			createErr.Message = msg
		}

		logrus.WithError(err).Debugln("Failed to create user")

		s.update(func(state *UserState) {
			state.Error = createErr.Message
		})
		return createErr
	}

	return nil
}

// Users returns a copy of the cached collection in server order.
func (s *UserStore) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUsers(s.state.Users)
}

func (s *UserStore) Find(id string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.state.Users {
		if user.ID == id {
			found := user
			return &found, true
		}
	}
	return nil, false
}

func (s *UserStore) State() UserState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// ClearError drops the last stored failure message.
func (s *UserStore) ClearError() {
	s.update(func(state *UserState) {
		state.Error = ""
	})
}

// clearError drops a message left by an earlier failure. Subscribers are
// only notified when there was one.
func (s *UserStore) clearError() {
	s.mu.RLock()
	stale := len(s.state.Error) > 0
	s.mu.RUnlock()

	if stale {
		s.ClearError()
	}
}

func (s *UserStore) Subscribe(fn func(UserState)) func() {
	return s.listeners.subscribe(fn)
}

func (s *UserStore) update(mutate func(*UserState)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.listeners.notify(snapshot)
}

func (s *UserStore) snapshot() UserState {
	state := s.state
	state.Users = cloneUsers(s.state.Users)
	return state
}

func upsert(users []models.User, user models.User) []models.User {
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user
			return users
		}
	}
	return append(users, user)
}

func remove(users []models.User, id string) []models.User {
	kept := make([]models.User, 0, len(users))
	for _, user := range users {
		if user.ID != id {
			kept = append(kept, user)
		}
	}
	return kept
}

func cloneUsers(users []models.User) []models.User {
	clone := make([]models.User, len(users))
	copy(clone, users)
	return clone
}
