// Package client is the HTTP collaborator of the console: a thin wrapper
// around the users REST API. The session credential is a cookie carried by
// the configured cookie jar on every call.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/usersadmin/usersadmin/internal/common"
	"github.com/usersadmin/usersadmin/internal/models"
)

const (
	pathLogin  = "/api/v1/auth/login"
	pathMe     = "/api/v1/auth/me"
	pathLogout = "/api/v1/auth/logout"
	pathUsers  = "/api/v1/users"
	pathUser   = "/api/v1/users/{id}"
	pathHealth = "/health"
)

// Health is the liveness report of the users API.
type Health struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Requests int64  `json:"requests"`
}

// Forgetter is implemented by cookie jars able to drop their session.
type Forgetter interface {
	Forget() error
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

// WithCookieJar replaces the in-memory jar, e.g. with a sessions.PersistentJar.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.jar = jar
		c.http.SetCookieJar(jar)
	}
}

type Client struct {
	endpoint string
	http     *resty.Client
	jar      http.CookieJar
}

func New(endpoint string, opts ...Option) *Client {
	endpoint = strings.TrimSuffix(endpoint, "/")

	restClient := resty.New().
		SetBaseURL(endpoint).
		SetLogger(logrus.StandardLogger()).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", common.UserAgent()).
		SetError(&errorBody{}).
		OnAfterResponse(logResponse)

	c := &Client{
		endpoint: endpoint,
		http:     restClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) GetEndpoint() string {
	return c.endpoint
}

// Login posts the credentials. The server answers with a session cookie and
// no body.
func (c *Client) Login(ctx context.Context, credentials models.Credentials) error {
	resp, err := c.request(ctx).
		SetBody(credentials).
		Post(pathLogin)
	return c.check(resp, err)
}

// Me resolves the identity bound to the current session cookie.
func (c *Client) Me(ctx context.Context) (*models.Identity, error) {
	var identity models.Identity
	resp, err := c.request(ctx).
		SetResult(&identity).
		Get(pathMe)
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	if len(identity.ID) == 0 && len(identity.Email) == 0 {
		return nil, fmt.Errorf("empty identity returned by %s", pathMe)
	}
	return &identity, nil
}

// Logout asks the server to drop the session.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.request(ctx).Post(pathLogout)
	return c.check(resp, err)
}

// Forget drops the local session cookie without contacting the server.
func (c *Client) Forget() error {
	forgetter, ok := c.jar.(Forgetter)
	if !ok {
		return nil
	}
	return forgetter.Forget()
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	resp, err := c.request(ctx).
		SetResult(&users).
		Get(pathUsers)
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// SearchUsers lists the users matching a free text query, best match first.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	resp, err := c.request(ctx).
		SetQueryParam("q", query).
		SetResult(&users).
		Get(pathUsers)
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetResult(&user).
		Get(pathUser)
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser sends a partial update and returns the id acknowledged by the
// server, falling back to the requested id when the body omits it.
func (c *Client) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (string, error) {
	var ack models.UpdatedUser
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetHeader("Content-Type", "application/json").
		SetBody(patch).
		SetResult(&ack).
		Patch(pathUser)
	if err := c.check(resp, err); err != nil {
		return "", err
	}
	if len(ack.ID) == 0 {
		return id, nil
	}
	return ack.ID, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		Delete(pathUser)
	return c.check(resp, err)
}

func (c *Client) CreateUser(ctx context.Context, user models.NewUser) error {
	resp, err := c.request(ctx).
		SetBody(user).
		Post(pathUsers)
	return c.check(resp, err)
}

// Health needs no session.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var health Health
	resp, err := c.request(ctx).
		SetResult(&health).
		Get(pathHealth)
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.http.R().SetContext(ctx)
}

func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		apiErr.Message = body.Message
	}
	return apiErr
}

func logResponse(_ *resty.Client, resp *resty.Response) error {
	logrus.WithFields(logrus.Fields{
		"method":   resp.Request.Method,
		"url":      resp.Request.URL,
		"status":   resp.StatusCode(),
		"duration": resp.Time(),
	}).Debugln("API call completed")
	return nil
}
