package spotify

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is returned when Spotify rejects the credential (HTTP 401 or 403).
var ErrUnauthorized = errors.New("spotify rejected the credential")

// ErrUnexpectedResponse is returned when a response body cannot be decoded.
var ErrUnexpectedResponse = errors.New("unexpected response from Spotify")

// APIError is a non-OK response that carried a Spotify error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify API error (HTTP %d): %s", e.Status, e.Message)
}

// unauthorizedError marks a rejected credential and keeps the status code.
type unauthorizedError struct {
	Status int
}

func (e *unauthorizedError) Error() string {
	return fmt.Sprintf("%s (HTTP %d %s)", ErrUnauthorized, e.Status, http.StatusText(e.Status))
}

func (e *unauthorizedError) Unwrap() error {
	return ErrUnauthorized
}
