package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultAPIEndpoint, cfg.GetAPIEndpoint())
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Sessions.Persist)
	assert.Equal(t, 5225, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:5225", cfg.Server.Address())
	assert.Equal(t, 5, cfg.Server.Limits.LoginBurst)
	assert.Equal(t, 12*time.Hour, cfg.Server.Security.CORS.MaxAge)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `api:
  endpoint: https://admin.example.com/
  timeout: 5s
logging:
  level: debug
  format: json
server:
  port: 9090
  seed:
    email: root@example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://admin.example.com", cfg.GetAPIEndpoint())
	assert.Equal(t, "admin.example.com", cfg.GetAPIHostname())
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "root@example.com", cfg.Server.Seed.Email)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  endpoint: http://from-file:1\n"), 0600))

	t.Setenv("USERSADMIN_API_ENDPOINT", "http://from-env:2")
	t.Setenv("USERSADMIN_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:2", cfg.GetAPIEndpoint())
	assert.Equal(t, "from-env:2", cfg.GetAPIHostname())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSetAPIEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		want     string
		wantErr  bool
	}{
		{name: "plain", endpoint: "http://localhost:8080", want: "http://localhost:8080"},
		{name: "trailing slash trimmed", endpoint: "https://admin.example.com/", want: "https://admin.example.com"},
		{name: "whitespace trimmed", endpoint: "  http://host:1  ", want: "http://host:1"},
		{name: "missing scheme", endpoint: "localhost:8080", wantErr: true},
		{name: "empty", endpoint: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.SetAPIEndpoint(tt.endpoint)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, DefaultAPIEndpoint, cfg.GetAPIEndpoint())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.GetAPIEndpoint())
		})
	}
}

func TestGetSessionsPath_ExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/home/operator")

	cfg := DefaultConfig()
	assert.Equal(t, "/home/operator/.config/usersadmin/sessions", cfg.GetSessionsPath())

	cfg.Sessions.Path = "/var/lib/usersadmin"
	assert.Equal(t, "/var/lib/usersadmin", cfg.GetSessionsPath())
}

func TestMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetMode(ModeServer)
	assert.True(t, cfg.IsServer())
	assert.False(t, cfg.IsClient())
	assert.Equal(t, ModeServer, cfg.GetMode())
}
