package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/usersadmin/usersadmin/internal/models"
)

type fakeSessions struct {
	identity *models.Identity
	checked  *models.Identity
	err      error
	calls    int
}

func (f *fakeSessions) Identity() *models.Identity {
	return f.identity
}

func (f *fakeSessions) CheckSession(_ context.Context) (*models.Identity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.identity = f.checked
	return f.checked, nil
}

func TestGate_Evaluate(t *testing.T) {
	unauthorized := &models.AuthError{Message: "unauthorized"}
	admin := &models.Identity{ID: "1", Email: "admin@example.com"}

	tests := []struct {
		name       string
		sessions   *fakeSessions
		path       string
		redirect   string
		checkCalls int
	}{
		{
			name:       "empty session, protected path, check fails",
			sessions:   &fakeSessions{err: unauthorized},
			path:       "/home",
			redirect:   "/login",
			checkCalls: 1,
		},
		{
			name:       "empty session, login path, check fails",
			sessions:   &fakeSessions{err: unauthorized},
			path:       "/login",
			redirect:   "",
			checkCalls: 1,
		},
		{
			name:       "empty session, check succeeds",
			sessions:   &fakeSessions{checked: admin},
			path:       "/user/create",
			redirect:   "",
			checkCalls: 1,
		},
		{
			name:       "identity already held",
			sessions:   &fakeSessions{identity: admin, err: unauthorized},
			path:       "/home",
			redirect:   "",
			checkCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := New(tt.sessions).Evaluate(context.Background(), tt.path)

			assert.Equal(t, tt.redirect, decision.Redirect)
			assert.Equal(t, len(tt.redirect) == 0, decision.Allowed())
			assert.Equal(t, tt.checkCalls, tt.sessions.calls)
		})
	}
}

func TestGate_EvaluateKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	decision := New(&fakeSessions{err: cause}).Evaluate(context.Background(), "/home")

	assert.ErrorIs(t, decision.Err, cause)
	assert.Equal(t, LoginPath, decision.Redirect)
}
