// Package gate decides whether a protected view may mount, checking the
// server session when the console holds no identity yet.
package gate

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/usersadmin/usersadmin/internal/models"
)

const LoginPath = "/login"

// Sessions is the part of the session store the gate needs.
type Sessions interface {
	Identity() *models.Identity
	CheckSession(ctx context.Context) (*models.Identity, error)
}

type Gate struct {
	sessions  Sessions
	loginPath string
}

func New(sessions Sessions) *Gate {
	return &Gate{
		sessions:  sessions,
		loginPath: LoginPath,
	}
}

// Decision is the outcome of one gate evaluation. An empty Redirect means
// the view may mount.
type Decision struct {
	Redirect string
	Err      error
}

func (d Decision) Allowed() bool {
	return len(d.Redirect) == 0
}

// Evaluate runs the gate for a view mounted at path. Without an identity it
// checks the session; a failed check redirects to the login view unless
// path already is the login view.
func (g *Gate) Evaluate(ctx context.Context, path string) Decision {

	if g.sessions.Identity() != nil {
		return Decision{}
	}

	_, err := g.sessions.CheckSession(ctx)
	if err == nil {
		return Decision{}
	}

	logrus.WithFields(logrus.Fields{
		"path":  path,
		"error": err,
	}).Debugln("Session check failed")

	if path == g.loginPath {
		return Decision{Err: err}
	}

	return Decision{Redirect: g.loginPath, Err: err}
}
