package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for every response with a status of 400 or above.
type APIError struct {
	Status  int
	Message string // server supplied message, may be empty
}

func (e *APIError) Error() string {
	if len(e.Message) > 0 {
		return e.Message
	}
	return fmt.Sprintf("request failed with status code %d", e.Status)
}

func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// errorBody is the error envelope used by the users API.
type errorBody struct {
	Message string `json:"message"`
}

// ServerMessage returns the message the server attached to err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// MessageFrom picks the most specific human readable message for err:
// the server message, then the error text, then fallback.
func MessageFrom(err error, fallback string) string {
	if msg := ServerMessage(err); len(msg) > 0 {
		return msg
	}
	if err != nil && len(err.Error()) > 0 {
		return err.Error()
	}
	return fallback
}

// IsAPIError reports whether err came back from the server, as opposed to a
// transport or decoding failure.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
