// Package router maps console paths onto views. It holds no state of its
// own; the caller supplies whether a session is present on every call.
package router

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type View string

const (
	ViewLogin      View = "login"
	ViewHome       View = "home"
	ViewCreateUser View = "user-create"
	ViewEditUser   View = "user-edit"
)

const (
	LoginPath      = "/login"
	HomePath       = "/home"
	CreateUserPath = "/user/create"
	EditUserPath   = "/user/edit/{id}"
)

// Resolution is what the console should do for a path. When Redirect is
// set nothing else is.
type Resolution struct {
	Path     string
	View     View
	Params   map[string]string
	Layout   bool
	Redirect string
}

func (r Resolution) IsRedirect() bool {
	return len(r.Redirect) > 0
}

func (r Resolution) Param(name string) string {
	return r.Params[name]
}

type route struct {
	view      View
	protected bool
}

type Router struct {
	mux    *mux.Router
	routes map[string]route
}

func New() *Router {
	r := &Router{
		mux:    mux.NewRouter(),
		routes: map[string]route{},
	}

	r.handle(LoginPath, ViewLogin, false)
	r.handle(HomePath, ViewHome, true)
	r.handle(CreateUserPath, ViewCreateUser, true)
	r.handle(EditUserPath, ViewEditUser, true)

	return r
}

func (r *Router) handle(path string, view View, protected bool) {
	r.mux.NewRoute().Path(path).Name(string(view))
	r.routes[string(view)] = route{view: view, protected: protected}
}

// Resolve decides the view for path. Unknown paths and the root go to the
// login view; protected views require authenticated and render inside the
// layout.
func (r *Router) Resolve(path string, authenticated bool) Resolution {

	req := &http.Request{
		Method: http.MethodGet,
		URL:    &url.URL{Path: path},
	}

	var match mux.RouteMatch
	if !r.mux.Match(req, &match) || match.Route == nil {
		logrus.WithFields(logrus.Fields{
			"path": path,
		}).Debugln("No route matched, redirecting to login")
		return Resolution{Path: path, Redirect: LoginPath}
	}

	found, ok := r.routes[match.Route.GetName()]
	if !ok {
		return Resolution{Path: path, Redirect: LoginPath}
	}

	if found.protected && !authenticated {
		return Resolution{Path: path, Redirect: LoginPath}
	}

	params := match.Vars
	if params == nil {
		params = map[string]string{}
	}

	return Resolution{
		Path:   path,
		View:   found.view,
		Params: params,
		Layout: found.protected,
	}
}

// EditPath builds the edit path for id.
func (r *Router) EditPath(id string) string {
	u, err := r.mux.Get(string(ViewEditUser)).URLPath("id", id)
	if err != nil {
		return HomePath
	}
	return u.Path
}
