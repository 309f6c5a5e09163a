package sessions

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PersistentJar is an http.CookieJar that mirrors the cookies of one API
// host into a SessionManager. Cookies for other hosts live in memory only.
type PersistentJar struct {
	mu       sync.RWMutex
	inner    *cookiejar.Jar
	manager  *SessionManager
	endpoint *url.URL
}

// NewPersistentJar returns a jar pre-loaded with the stored cookies for the
// host of endpoint.
func NewPersistentJar(manager *SessionManager, endpoint string) (*PersistentJar, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid api endpoint: %w", err)
	}

	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	jar := &PersistentJar{
		inner:    inner,
		manager:  manager,
		endpoint: u,
	}

	if err := manager.Load(u.Host); err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	server, err := manager.GetLoginServer(u.Host)
	if err != nil {
		return nil, err
	}

	var restored []*http.Cookie
	for _, cookie := range server.GetCookies(time.Now().UTC()) {
		restored = append(restored, cookie.ToHTTPCookie())
	}

	if len(restored) > 0 {
		logrus.WithFields(logrus.Fields{
			"host":    u.Host,
			"cookies": len(restored),
		}).Debugln("Restored persisted session")
		inner.SetCookies(rootURL(u), restored)
	}

	return jar, nil
}

func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	j.inner.SetCookies(u, cookies)
	j.mu.RUnlock()

	if u.Host != j.endpoint.Host {
		return
	}

	if err := j.manager.SetCookies(u.Host, cookies); err != nil {
		logrus.WithError(err).Warnln("Failed to persist session cookies")
	}
}

func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.inner.Cookies(u)
}

// Forget drops every cookie, in memory and on disk. No request is made.
func (j *PersistentJar) Forget() error {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}

	j.mu.Lock()
	j.inner = inner
	j.mu.Unlock()

	return j.manager.Clear(j.endpoint.Host)
}

func rootURL(u *url.URL) *url.URL {
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
}
