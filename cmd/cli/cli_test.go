package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/usersadmin/usersadmin/internal/client"
	"github.com/usersadmin/usersadmin/internal/models"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{-time.Minute, "expired"},
		{30 * time.Minute, "30m"},
		{90 * time.Minute, "1h 30m"},
		{50 * time.Hour, "2d 2h"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatDuration(tt.in))
	}
}

func TestRenderUsersTable(t *testing.T) {
	out := renderUsersTable([]models.User{
		{ID: "1", FullName: "Alice Smith", Email: "alice@example.com", Employment: models.EmploymentStudent},
		{ID: "2", Name: "Bob", SurName: "Jones", Email: "bob@example.com"},
	})

	assert.Contains(t, out, "FULL NAME")
	assert.Contains(t, out, "Alice Smith")
	assert.Contains(t, out, "Bob Jones")
	assert.Contains(t, out, "Student")
	assert.Contains(t, out, "Not selected")
}

func TestCommandTree(t *testing.T) {
	root := GetCommandOptions()

	for _, path := range [][]string{
		{"console"},
		{"login"},
		{"logout"},
		{"whoami"},
		{"status"},
		{"serve"},
		{"version"},
		{"users", "list"},
		{"users", "show"},
		{"users", "create"},
		{"users", "edit"},
		{"users", "delete"},
	} {
		cmd, _, err := root.Find(path)
		assert.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestStatusModel(t *testing.T) {
	m := statusModel{
		ctx:      context.Background(),
		endpoint: "http://localhost:5225",
		loading:  true,
		fetch: func(context.Context) (*client.Health, error) {
			return &client.Health{Status: "ok", Version: "dev", Uptime: "5 seconds", Requests: 3}, nil
		},
	}

	assert.Contains(t, m.View(), "Checking http://localhost:5225")

	msg := m.fetchHealth()
	updated, cmd := m.Update(msg)
	assert.NotNil(t, cmd)

	view := updated.(statusModel).View()
	assert.Contains(t, view, "HEALTHY")
	assert.Contains(t, view, "5 seconds")
	assert.Contains(t, view, "Requests: 3")
}

func TestStatusModel_Unreachable(t *testing.T) {
	m := statusModel{
		ctx:     context.Background(),
		loading: true,
		fetch: func(context.Context) (*client.Health, error) {
			return nil, errors.New("connection refused")
		},
	}

	updated, _ := m.Update(m.fetchHealth())
	status := updated.(statusModel)

	assert.EqualError(t, status.err, "connection refused")
	assert.Contains(t, status.View(), "UNREACHABLE")
}
