// Package spotify calls the Spotify Web API on behalf of a session credential.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"github.com/toozej/toptracks/internal/types"
	"github.com/toozej/toptracks/pkg/config"
	"github.com/toozej/toptracks/pkg/useragent"
	"github.com/toozej/toptracks/pkg/version"
)

const trackURIPrefix = "spotify:track:"

// Client wraps the Spotify client for one credential. It does not know or
// care how the credential was obtained.
type Client struct {
	client *spotify.Client
	logger *logrus.Logger
	public bool
}

// NewClient creates a client that authenticates every request with credential.
func NewClient(credential string, cfg config.SpotifyConfig, logger *logrus.Logger) *Client {
	opts := []spotify.ClientOption{}
	if cfg.APIBaseURL != "" {
		opts = append(opts, spotify.WithBaseURL(cfg.APIBaseURL))
	}

	return &Client{
		client: spotify.New(newHTTPClient(credential), opts...),
		logger: logger,
		public: cfg.PlaylistPublic,
	}
}

// newHTTPClient builds the transport chain: bearer token, then the credential
// guard, then the User-Agent header. No timeout is set; callers bound calls
// with their context.
func newHTTPClient(credential string) *http.Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: credential,
		TokenType:   "Bearer",
	})

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: source,
			Base: &credentialGuard{
				base: useragent.NewTransport(http.DefaultTransport, useragent.String("toptracks", version.Version)),
			},
		},
	}
}

// CurrentUser returns the profile of the credential's owner.
func (c *Client) CurrentUser(ctx context.Context) (*types.User, error) {
	c.logger.Debug("Fetching current user profile")

	user, err := c.client.CurrentUser(ctx)
	if err != nil {
		err = normalizeError(err)
		c.logger.WithError(err).Debug("Failed to fetch current user profile")
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id":           user.ID,
		"user_display_name": user.DisplayName,
	}).Debug("Fetched current user profile")

	return &types.User{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	}, nil
}

// TopTracks returns the user's top tracks for the selection, most played first.
func (c *Client) TopTracks(ctx context.Context, selection types.Selection) ([]types.Track, error) {
	c.logger.WithFields(logrus.Fields{
		"limit":      int(selection.Count),
		"time_range": string(selection.TimeRange),
	}).Debug("Fetching top tracks")

	page, err := c.client.CurrentUsersTopTracks(ctx,
		spotify.Limit(int(selection.Count)),
		spotify.Timerange(timeRange(selection.TimeRange)),
	)
	if err != nil {
		err = normalizeError(err)
		c.logger.WithError(err).Debug("Failed to fetch top tracks")
		return nil, fmt.Errorf("failed to get top tracks: %w", err)
	}

	tracks := make([]types.Track, len(page.Tracks))
	for i, t := range page.Tracks {
		artists := make([]types.Artist, len(t.Artists))
		for j, a := range t.Artists {
			artists[j] = types.Artist{
				ID:   string(a.ID),
				Name: a.Name,
				URI:  string(a.URI),
			}
		}
		tracks[i] = types.Track{
			ID:      string(t.ID),
			Name:    t.Name,
			URI:     string(t.URI),
			Artists: artists,
		}
	}

	c.logger.WithField("track_count", len(tracks)).Debug("Fetched top tracks")
	return tracks, nil
}

// CreatePlaylist creates a playlist owned by userID.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name, description string) (*types.Playlist, error) {
	c.logger.WithFields(logrus.Fields{
		"user_id":       userID,
		"playlist_name": name,
		"public":        c.public,
	}).Debug("Creating playlist")

	created, err := c.client.CreatePlaylistForUser(ctx, userID, name, description, c.public, false)
	if err != nil {
		err = normalizeError(err)
		c.logger.WithError(err).WithField("playlist_name", name).Debug("Failed to create playlist")
		return nil, fmt.Errorf("failed to create playlist %s: %w", name, err)
	}

	playlist := &types.Playlist{
		ID:   string(created.ID),
		Name: created.Name,
		URI:  string(created.URI),
		URL:  created.ExternalURLs["spotify"],
	}

	c.logger.WithFields(logrus.Fields{
		"playlist_id":   playlist.ID,
		"playlist_name": playlist.Name,
	}).Debug("Created playlist")

	return playlist, nil
}

// AddTracksToPlaylist appends the track URIs to the playlist in order.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, trackURIs []string) error {
	if len(trackURIs) == 0 {
		return fmt.Errorf("no tracks provided to add")
	}

	ids := make([]spotify.ID, len(trackURIs))
	for i, uri := range trackURIs {
		id, ok := strings.CutPrefix(uri, trackURIPrefix)
		if !ok {
			return fmt.Errorf("not a track URI: %q", uri)
		}
		ids[i] = spotify.ID(id)
	}

	c.logger.WithFields(logrus.Fields{
		"playlist_id": playlistID,
		"track_count": len(ids),
	}).Debug("Adding tracks to playlist")

	if _, err := c.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids...); err != nil {
		err = normalizeError(err)
		c.logger.WithError(err).WithField("playlist_id", playlistID).Debug("Failed to add tracks to playlist")
		return fmt.Errorf("failed to add tracks to playlist %s: %w", playlistID, err)
	}

	return nil
}

func timeRange(r types.TimeRange) spotify.Range {
	switch r {
	case types.ShortTerm:
		return spotify.ShortTermRange
	case types.MediumTerm:
		return spotify.MediumTermRange
	default:
		return spotify.LongTermRange
	}
}

// normalizeError maps library errors onto ErrUnauthorized, *APIError,
// ErrUnexpectedResponse or a transport error.
func normalizeError(err error) error {
	if errors.Is(err, ErrUnauthorized) {
		return err
	}

	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden {
			return &unauthorizedError{Status: apiErr.Status}
		}
		return &APIError{Status: apiErr.Status, Message: apiErr.Message}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("spotify request failed: %w", err)
	}

	return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
}
