package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/usersadmin/usersadmin/internal/common"
)

type Mode string

const (

	// Interactive console and one-shot CLI commands talking to a users API
	ModeClient Mode = "client"

	// Runs the reference users API backed by a local database
	ModeServer Mode = "server"
)

// Config represents the application configuration structure
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`

	mode Mode
}

func (c *Config) GetMode() Mode {
	return c.mode
}

func (c *Config) SetMode(mode Mode) {
	c.mode = mode
}

func (c *Config) IsServer() bool {
	return c.mode == ModeServer
}

func (c *Config) IsClient() bool {
	return c.mode == ModeClient
}

// SetAPIEndpoint overrides the users API endpoint, e.g. from --api-server.
func (c *Config) SetAPIEndpoint(endpoint string) error {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if !common.IsValidEndpoint(endpoint) {
		return fmt.Errorf("invalid api endpoint: %q", endpoint)
	}
	c.API.Endpoint = endpoint
	return nil
}

func (c *Config) GetAPIEndpoint() string {
	return strings.TrimSuffix(c.API.Endpoint, "/")
}

// GetAPIHostname returns host[:port] of the API endpoint. It keys the
// persisted session file.
func (c *Config) GetAPIHostname() string {
	u, err := url.Parse(c.GetAPIEndpoint())
	if err != nil || len(u.Host) == 0 {
		return "localhost"
	}
	return u.Host
}

func (c *Config) GetSessionsPath() string {
	return expandHome(c.Sessions.Path)
}

type APIConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type SessionsConfig struct {
	Path    string `mapstructure:"path"`
	Persist bool   `mapstructure:"persist"`
}

type ServerConfig struct {
	Host     string             `mapstructure:"host"`
	Port     int                `mapstructure:"port"`
	Secret   string             `mapstructure:"secret"` // Secret used for signing session cookies
	Database string             `mapstructure:"database"`
	Secure   bool               `mapstructure:"secure"` // Mark session cookies Secure (HTTPS only)
	Limits   ServerLimitsConfig `mapstructure:"limits"`
	Security SecurityConfig     `mapstructure:"security"`
	Seed     SeedConfig         `mapstructure:"seed"`
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type ServerLimitsConfig struct {
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	LoginPerSecond float64       `mapstructure:"login_per_second"`
	LoginBurst     int           `mapstructure:"login_burst"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxAge         time.Duration `mapstructure:"max_age"`
}

// SeedConfig describes the operator account created on an empty database.
type SeedConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := userHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
