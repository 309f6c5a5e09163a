package models

import (
	"net/http"
	"time"
)

// Identity is the minimal description of the authenticated operator, as
// returned by GET /auth/me.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Credentials is the body of a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StoredCookie is the on-disk representation of a session cookie.
type StoredCookie struct {
	Name     string    `json:"name" yaml:"name"`
	Value    string    `json:"value" yaml:"value"`
	Path     string    `json:"path,omitempty" yaml:"path,omitempty"`
	Domain   string    `json:"domain,omitempty" yaml:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty" yaml:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty" yaml:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty" yaml:"http_only,omitempty"`
}

func NewStoredCookie(c *http.Cookie) StoredCookie {
	return StoredCookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}

func (s StoredCookie) IsExpired(now time.Time) bool {
	return !s.Expires.IsZero() && s.Expires.Before(now)
}

func (s StoredCookie) ToHTTPCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.Name,
		Value:    s.Value,
		Path:     s.Path,
		Domain:   s.Domain,
		Expires:  s.Expires,
		Secure:   s.Secure,
		HttpOnly: s.HttpOnly,
	}
}
