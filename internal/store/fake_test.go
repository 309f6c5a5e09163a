package store

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/usersadmin/usersadmin/internal/client"
	"github.com/usersadmin/usersadmin/internal/models"
)

var errTransport = errors.New("dial tcp: connection refused")

// fakeAPI is an in-memory stand-in for the users API.
type fakeAPI struct {
	mu sync.Mutex

	identity *models.Identity
	loginErr error
	meErr    error
	loggedIn bool
	forgot   int

	users     []models.User
	listErr   error
	getErr    error
	updateErr error
	deleteErr error
	createErr error

	patches map[string]models.UserPatch
	created []models.NewUser
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{patches: map[string]models.UserPatch{}}
}

func (f *fakeAPI) Login(_ context.Context, credentials models.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = true
	return nil
}

func (f *fakeAPI) Me(_ context.Context) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.meErr != nil {
		return nil, f.meErr
	}
	if !f.loggedIn || f.identity == nil {
		return nil, &client.APIError{Status: http.StatusUnauthorized}
	}
	identity := *f.identity
	return &identity, nil
}

func (f *fakeAPI) Forget() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgot++
	f.loggedIn = false
	return nil
}

func (f *fakeAPI) ListUsers(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	users := make([]models.User, len(f.users))
	copy(users, f.users)
	return users, nil
}

func (f *fakeAPI) GetUser(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, user := range f.users {
		if user.ID == id {
			found := user
			return &found, nil
		}
	}
	return nil, &client.APIError{Status: http.StatusNotFound, Message: "user not found"}
}

func (f *fakeAPI) UpdateUser(_ context.Context, id string, patch models.UserPatch) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return "", f.updateErr
	}
	f.patches[id] = patch
	return id, nil
}

func (f *fakeAPI) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteErr
}

func (f *fakeAPI) CreateUser(_ context.Context, user models.NewUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, user)
	return nil
}
