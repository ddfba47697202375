// Package config provides error definitions for configuration-related errors.
package config

import "errors"

// Configuration validation errors
var (
	// ErrMissingSpotifyClientID is returned when no Spotify Client ID is available
	// from the environment or the build.
	ErrMissingSpotifyClientID = errors.New("spotify client ID is required")

	// ErrInsecureTokenDir is returned when the default token directory can be
	// reached by other users.
	ErrInsecureTokenDir = errors.New("token directory is not private")
)
