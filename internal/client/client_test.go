package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usersadmin/usersadmin/internal/models"
)

const testCookie = "usersadmin"

// newTestAPI serves a minimal users API that authenticates a@x.com/secret.
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	authorized := func(r *http.Request) bool {
		c, err := r.Cookie(testCookie)
		return err == nil && c.Value == "valid"
	}

	writeJSON := func(w http.ResponseWriter, status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != "a@x.com" || creds.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: testCookie, Value: "valid", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, models.Identity{ID: "1", Email: "a@x.com"})
	})
	mux.HandleFunc("GET /api/v1/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.User{
			{ID: "1", Name: "Ann", Email: "a@x.com"},
			{ID: "2", Name: "Bob", Email: "b@x.com"},
		})
	})
	mux.HandleFunc("GET /api/v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
			return
		}
		writeJSON(w, http.StatusOK, models.User{ID: "1", Name: "Ann", Email: "a@x.com"})
	})
	mux.HandleFunc("PATCH /api/v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var patch map[string]any
		if err := json.Unmarshal(body, &patch); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
			return
		}
		if r.PathValue("id") == "silent" {
			w.WriteHeader(http.StatusOK)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": r.PathValue("id")})
	})
	mux.HandleFunc("DELETE /api/v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/v1/users", func(w http.ResponseWriter, r *http.Request) {
		var user models.NewUser
		_ = json.NewDecoder(r.Body).Decode(&user)
		if user.Email == "taken@x.com" {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "email already registered"})
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Health{Status: "ok", Version: "dev", Uptime: "3 seconds", Requests: 7})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_LoginThenMe(t *testing.T) {
	server := newTestAPI(t)
	c := New(server.URL)
	ctx := context.Background()

	_, err := c.Me(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsUnauthorized())
	assert.Equal(t, "unauthorized", apiErr.Message)

	require.NoError(t, c.Login(ctx, models.Credentials{Email: "a@x.com", Password: "secret"}))

	identity, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.Identity{ID: "1", Email: "a@x.com"}, identity)
}

func TestClient_LoginRejected(t *testing.T) {
	server := newTestAPI(t)
	c := New(server.URL)

	err := c.Login(context.Background(), models.Credentials{Email: "a@x.com", Password: "wrong"})

	require.Error(t, err)
	assert.True(t, IsAPIError(err))
	assert.Equal(t, "invalid credentials", ServerMessage(err))
}

func TestClient_ListUsers(t *testing.T) {
	server := newTestAPI(t)
	users, err := New(server.URL).ListUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "1", users[0].ID)
	assert.Equal(t, "2", users[1].ID)
}

func TestClient_GetUser(t *testing.T) {
	server := newTestAPI(t)
	c := New(server.URL)

	user, err := c.GetUser(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)

	_, err = c.GetUser(context.Background(), "404")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestClient_UpdateUser(t *testing.T) {
	server := newTestAPI(t)
	c := New(server.URL)

	id, err := c.UpdateUser(context.Background(), "7", models.UserPatch{Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "7", id)

	id, err = c.UpdateUser(context.Background(), "silent", models.UserPatch{Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "silent", id)
}

func TestClient_DeleteUser(t *testing.T) {
	server := newTestAPI(t)
	c := New(server.URL)

	require.NoError(t, c.DeleteUser(context.Background(), "1"))

	err := c.DeleteUser(context.Background(), "broken")
	require.Error(t, err)
	assert.Empty(t, ServerMessage(err))
	assert.Equal(t, "request failed with status code 500", err.Error())
}

func TestClient_CreateUser(t *testing.T) {
	server := newTestAPI(t)
	c := New(server.URL)

	require.NoError(t, c.CreateUser(context.Background(), models.NewUser{Email: "new@x.com"}))

	err := c.CreateUser(context.Background(), models.NewUser{Email: "taken@x.com"})
	assert.Equal(t, "email already registered", ServerMessage(err))
}

func TestClient_TransportFailure(t *testing.T) {
	server := newTestAPI(t)
	endpoint := server.URL
	server.Close()

	_, err := New(endpoint, WithTimeout(time.Second)).ListUsers(context.Background())

	require.Error(t, err)
	assert.False(t, IsAPIError(err))
}

type forgettingJar struct {
	http.CookieJar
	forgotten bool
}

func (f *forgettingJar) Forget() error {
	f.forgotten = true
	return nil
}

func TestClient_Forget(t *testing.T) {
	inner, err := cookiejar.New(nil)
	require.NoError(t, err)

	jar := &forgettingJar{CookieJar: inner}
	c := New("http://localhost", WithCookieJar(jar))

	require.NoError(t, c.Forget())
	assert.True(t, jar.forgotten)

	// The default jar has nothing to forget
	assert.NoError(t, New("http://localhost").Forget())
}

func TestMessageFrom(t *testing.T) {
	assert.Equal(t, "boom", MessageFrom(&APIError{Status: 400, Message: "boom"}, "fallback"))
	assert.Equal(t, "request failed with status code 502", MessageFrom(&APIError{Status: 502}, "fallback"))
	assert.Equal(t, "dial tcp: refused", MessageFrom(errors.New("dial tcp: refused"), "fallback"))
	assert.Equal(t, "fallback", MessageFrom(nil, "fallback"))
}

func TestClient_Health(t *testing.T) {
	server := newTestAPI(t)
	c := New(server.URL)

	health, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "dev", health.Version)
	assert.Equal(t, int64(7), health.Requests)
}
