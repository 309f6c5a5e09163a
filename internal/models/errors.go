package models

import "fmt"

// Generic messages used when the server does not supply one.
const (
	MessageLoginFailed   = "login failed"
	MessageServerError   = "server error"
	MessageFetchUsers    = "failed to load users"
	MessageFetchUser     = "failed to load user"
	MessageUpdateFailed  = "failed to save"
	MessageDeleteFailed  = "failed to delete"
	MessageCreateFailed  = "failed to create user"
	MessageUpdateAborted = "failed to update"
)

// AuthError is returned by login and session-check failures.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// FetchError is returned when the user list or a single user cannot be loaded.
type FetchError struct {
	ID      string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if len(e.ID) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, e.ID)
	}
	return e.Message
}
func (e *FetchError) Unwrap() error { return e.Err }

// UpdateError is returned when a partial update is rejected.
type UpdateError struct {
	ID      string
	Message string
	Err     error
}

func (e *UpdateError) Error() string { return e.Message }
func (e *UpdateError) Unwrap() error { return e.Err }

// DeleteError is returned when a user cannot be removed.
type DeleteError struct {
	ID      string
	Message string
	Err     error
}

func (e *DeleteError) Error() string { return e.Message }
func (e *DeleteError) Unwrap() error { return e.Err }

// CreateError is returned when a new user cannot be created.
type CreateError struct {
	Message string
	Err     error
}

func (e *CreateError) Error() string { return e.Message }
func (e *CreateError) Unwrap() error { return e.Err }
