package console

import (
	"context"
	"net/http"
	"sync"

	"github.com/usersadmin/usersadmin/internal/client"
	"github.com/usersadmin/usersadmin/internal/models"
)

type fakeAPI struct {
	mu sync.Mutex

	identity  *models.Identity
	session   bool
	users     []models.User
	deleteErr error
	createErr error
	updateErr error

	created []models.NewUser
	patches map[string]models.UserPatch
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		identity: &models.Identity{ID: "1", Email: "admin@example.com"},
		patches:  map[string]models.UserPatch{},
	}
}

func (f *fakeAPI) Login(_ context.Context, credentials models.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if credentials.Password != "secret" {
		return &client.APIError{Status: http.StatusUnauthorized, Message: "invalid credentials"}
	}
	f.session = true
	return nil
}

func (f *fakeAPI) Me(_ context.Context) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.session {
		return nil, &client.APIError{Status: http.StatusUnauthorized}
	}
	identity := *f.identity
	return &identity, nil
}

func (f *fakeAPI) ListUsers(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.User, len(f.users))
	copy(users, f.users)
	return users, nil
}

func (f *fakeAPI) GetUser(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
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
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.users[:0]
	for _, user := range f.users {
		if user.ID != id {
			kept = append(kept, user)
		}
	}
	f.users = kept
	return nil
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

type recordedNotice struct {
	title   string
	message string
}

type recordingNotifier struct {
	notices []recordedNotice
}

func (r *recordingNotifier) Notify(title, message string) {
	r.notices = append(r.notices, recordedNotice{title: title, message: message})
}
