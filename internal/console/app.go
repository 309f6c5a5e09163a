// Package console is the interactive administration console: a navigation
// loop that resolves a path to a view, runs the view, and follows the
// navigation it returns.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/usersadmin/usersadmin/internal/gate"
	"github.com/usersadmin/usersadmin/internal/router"
	"github.com/usersadmin/usersadmin/internal/store"
)

// maxRedirects bounds consecutive redirects without a view being shown.
const maxRedirects = 8

// Navigation is what a view asks the console to do next.
type Navigation struct {
	To   string
	Quit bool
}

func GoTo(path string) Navigation {
	return Navigation{To: path}
}

func Quit() Navigation {
	return Navigation{Quit: true}
}

// View renders one screen. It returns once the operator leaves it.
type View interface {
	Show(ctx context.Context, route router.Resolution) (Navigation, error)
}

type ViewFunc func(ctx context.Context, route router.Resolution) (Navigation, error)

func (f ViewFunc) Show(ctx context.Context, route router.Resolution) (Navigation, error) {
	return f(ctx, route)
}

type App struct {
	sessions *store.SessionStore
	gate     *gate.Gate
	router   *router.Router
	layout   *Layout
	views    map[router.View]View
}

// NewApp wires the console around the two stores. Views are registered
// with Handle; NewDefaultApp registers the built-in ones.
func NewApp(sessions *store.SessionStore, out io.Writer) *App {
	return &App{
		sessions: sessions,
		gate:     gate.New(sessions),
		router:   router.New(),
		layout:   NewLayout(sessions, out),
		views:    map[router.View]View{},
	}
}

// NewDefaultApp returns a console with the login, home, create and edit
// views registered.
func NewDefaultApp(sessions *store.SessionStore, users *store.UserStore, out io.Writer) *App {
	app := NewApp(sessions, out)
	notifier := NewNotifier()

	app.Handle(router.ViewLogin, NewLoginView(sessions, out))
	app.Handle(router.ViewHome, NewHomeView(sessions, users, app.router))
	app.Handle(router.ViewCreateUser, NewCreateView(users, notifier))
	app.Handle(router.ViewEditUser, NewEditView(users, notifier))

	return app
}

func (a *App) Handle(view router.View, handler View) {
	a.views[view] = handler
}

func (a *App) Router() *router.Router {
	return a.router
}

// Run drives navigation starting at path until a view quits, the operator
// aborts, or ctx is done.
func (a *App) Run(ctx context.Context, path string) error {

	redirects := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Protected views mount inside the layout, which runs the gate
		// before anything is rendered.
		if a.router.Resolve(path, true).Layout {
			decision := a.gate.Evaluate(ctx, path)
			if !decision.Allowed() {
				path, redirects = decision.Redirect, redirects+1
				if redirects > maxRedirects {
					return fmt.Errorf("too many redirects at %s", path)
				}
				continue
			}
		}

		resolution := a.router.Resolve(path, a.sessions.IsAuthenticated())
		if resolution.IsRedirect() {

			logrus.WithFields(logrus.Fields{
				"from": path,
				"to":   resolution.Redirect,
			}).Debugln("Redirecting")

			path, redirects = resolution.Redirect, redirects+1
			if redirects > maxRedirects {
				return fmt.Errorf("too many redirects at %s", path)
			}
			continue
		}
		redirects = 0

		view, ok := a.views[resolution.View]
		if !ok {
			return fmt.Errorf("no view registered for %s", resolution.View)
		}

		if resolution.Layout {
			a.layout.Render(resolution)
		}

		nav, err := view.Show(ctx, resolution)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("failed to show %s: %w", resolution.View, err)
		}

		if nav.Quit {
			return nil
		}

		if len(nav.To) == 0 {
			nav.To = path
		}
		path = nav.To
	}
}
