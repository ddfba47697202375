// Package auth obtains a Spotify credential through the OAuth 2.0 implicit grant.
//
// The grant delivers the access token in the fragment of the redirect URI, so
// nothing here exchanges codes or holds a client secret: the package builds the
// authorize URL, parses the fragment that comes back, and runs a loopback
// receiver that relays the fragment from the browser to the process.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// AuthorizeURL is the Spotify accounts authorize endpoint.
const AuthorizeURL = spotifyauth.AuthURL

// DefaultScopes are the permissions needed to read top tracks and write playlists.
var DefaultScopes = []string{
	spotifyauth.ScopeUserTopRead,
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopeUserReadPrivate,
	spotifyauth.ScopeUserReadEmail,
}

type authOptions struct {
	state      string
	showDialog bool
}

// AuthOption customizes the authorize URL.
type AuthOption func(*authOptions)

// WithState adds an anti-replay state value that Spotify echoes back.
func WithState(state string) AuthOption {
	return func(o *authOptions) {
		o.state = state
	}
}

// WithShowDialog forces the consent dialog even if the user already approved the app.
func WithShowDialog(show bool) AuthOption {
	return func(o *authOptions) {
		o.showDialog = show
	}
}

// BuildAuthURL returns the authorize URL for the implicit grant. It performs no
// network calls and is deterministic for the same inputs.
func BuildAuthURL(clientID, redirectURI string, scopes []string, opts ...AuthOption) string {
	var o authOptions
	for _, opt := range opts {
		opt(&o)
	}

	authenticator := spotifyauth.New(
		spotifyauth.WithClientID(clientID),
		spotifyauth.WithRedirectURL(redirectURI),
		spotifyauth.WithScopes(scopes...),
	)

	params := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("response_type", "token"),
	}
	if o.showDialog {
		params = append(params, oauth2.SetAuthURLParam("show_dialog", "true"))
	}

	return authenticator.AuthURL(o.state, params...)
}

// NewState returns a random state value for BuildAuthURL.
func NewState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
