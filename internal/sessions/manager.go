package sessions

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/usersadmin/usersadmin/internal/models"
	"gopkg.in/yaml.v3"
)

const sessionFileVersion = "1.0"

// SessionManager persists API session cookies on disk so that separate CLI
// invocations against the same API host share one login.
type SessionManager struct {
	lock    sync.Mutex
	path    string
	Servers map[string]LoginServer // hostname -> LoginServer
}

type LoginServer struct {
	Version   string                `json:"version" yaml:"version"`
	Timestamp time.Time             `json:"timestamp" yaml:"timestamp"`
	Cookies   []models.StoredCookie `json:"cookies" yaml:"cookies"`
}

// GetCookies returns the cookies that have not expired at now.
func (l LoginServer) GetCookies(now time.Time) []models.StoredCookie {
	var active []models.StoredCookie
	for _, cookie := range l.Cookies {
		if cookie.IsExpired(now) {
			continue
		}
		active = append(active, cookie)
	}
	return active
}

func (l LoginServer) HasSession(now time.Time) bool {
	return len(l.GetCookies(now)) > 0
}

func NewSessionManager(path string) *SessionManager {
	return &SessionManager{
		path:    path,
		Servers: make(map[string]LoginServer),
	}
}

func (m *SessionManager) GetLoginServer(loginServer string) (*LoginServer, error) {
	if len(loginServer) == 0 {
		return nil, fmt.Errorf("invalid login server hostname: %q", loginServer)
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.createLoginServer(loginServer)
	server := m.Servers[loginServer]
	return &server, nil
}

// SetCookies merges cookies received from loginServer into the stored set
// and commits the result. A cookie with a negative MaxAge or an expiry in
// the past removes the stored cookie of the same name and path.
func (m *SessionManager) SetCookies(loginServer string, cookies []*http.Cookie) error {

	logrus.WithFields(logrus.Fields{
		"loginServer": loginServer,
		"cookies":     len(cookies),
	}).Debugln("Storing session cookies")

	m.lock.Lock()
	m.createLoginServer(loginServer)

	now := time.Now().UTC()
	server := m.Servers[loginServer]

	for _, cookie := range cookies {
		stored := models.NewStoredCookie(cookie)
		if cookie.MaxAge > 0 {
			stored.Expires = now.Add(time.Duration(cookie.MaxAge) * time.Second)
		}

		server.Cookies = removeCookie(server.Cookies, stored)

		if cookie.MaxAge < 0 || stored.IsExpired(now) {
			continue
		}
		server.Cookies = append(server.Cookies, stored)
	}

	m.Servers[loginServer] = server
	m.lock.Unlock()

	return m.Commit(loginServer)
}

// Clear forgets every cookie for loginServer and removes its session file.
func (m *SessionManager) Clear(loginServer string) error {

	logrus.WithFields(logrus.Fields{
		"loginServer": loginServer,
	}).Debugln("Clearing session cookies")

	m.lock.Lock()
	defer m.lock.Unlock()

	delete(m.Servers, loginServer)

	err := os.Remove(m.sessionFilePath(loginServer))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (m *SessionManager) Commit(loginServer string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	file, err := m.openSessionFile(loginServer)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := file.Truncate(0); err != nil {
		return err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return err
	}

	server := m.Servers[loginServer]
	server.Version = sessionFileVersion
	server.Timestamp = time.Now().UTC()
	m.Servers[loginServer] = server

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(server)
}

func (m *SessionManager) Load(loginServer string) error {

	logrus.Debugln("Loading session cookies for:", loginServer)

	m.lock.Lock()
	defer m.lock.Unlock()

	file, err := m.openSessionFile(loginServer)
	if err != nil {
		return err
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return err
	}

	if fileInfo.Size() == 0 {
		m.Servers[loginServer] = newLoginServer()
		return nil
	}

	var server LoginServer
	if err := yaml.NewDecoder(file).Decode(&server); err != nil {
		// A corrupt file only costs a fresh login
		logrus.WithError(err).Errorf("Failed to parse session file for %s, reinitializing", loginServer)
		m.Servers[loginServer] = newLoginServer()
		return nil
	}

	m.Servers[loginServer] = server
	return nil
}

func (m *SessionManager) sessionFilePath(loginServer string) string {
	name := strings.NewReplacer(":", "_", "/", "_").Replace(loginServer)
	return filepath.Join(m.path, fmt.Sprintf("%s.yaml", name))
}

func (m *SessionManager) openSessionFile(loginServer string) (*os.File, error) {
	if err := os.MkdirAll(m.path, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	// Only allow read/write access to the owner
	file, err := os.OpenFile(m.sessionFilePath(loginServer), os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	return file, nil
}

func (m *SessionManager) createLoginServer(loginServer string) {
	if _, ok := m.Servers[loginServer]; !ok {
		m.Servers[loginServer] = newLoginServer()
	}
}

func newLoginServer() LoginServer {
	return LoginServer{
		Version:   sessionFileVersion,
		Timestamp: time.Now().UTC(),
	}
}

func removeCookie(cookies []models.StoredCookie, target models.StoredCookie) []models.StoredCookie {
	kept := cookies[:0]
	for _, cookie := range cookies {
		if cookie.Name == target.Name && cookie.Path == target.Path {
			continue
		}
		kept = append(kept, cookie)
	}
	return kept
}
