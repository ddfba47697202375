package types

import (
	"context"
	"fmt"
)

// SpotifyService defines the Spotify Web API operations the playlist pipeline needs.
type SpotifyService interface {
	CurrentUser(ctx context.Context) (*User, error)
	TopTracks(ctx context.Context, selection Selection) ([]Track, error)
	CreatePlaylist(ctx context.Context, userID, name, description string) (*Playlist, error)
	AddTracksToPlaylist(ctx context.Context, playlistID string, trackURIs []string) error
}

// CredentialStore defines the storage for the session credential.
type CredentialStore interface {
	Save(credential string) error
	Load() (string, bool)
	Clear() error
}

// Core data models

// User represents the authenticated Spotify user
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Artist represents a Spotify artist
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Track represents a Spotify track
type Track struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	URI     string   `json:"uri"`
	Artists []Artist `json:"artists"`
}

// String returns a string representation of the track
func (t Track) String() string {
	if len(t.Artists) == 0 {
		return t.Name
	}
	return fmt.Sprintf("%s - %s", t.Artists[0].Name, t.Name)
}

// Playlist represents a Spotify playlist
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
	URL  string `json:"url"`
}
