// Package pipeline creates a playlist from the signed-in user's top tracks.
//
// A run is an ordered list of steps executed by one coordinator. The first
// failing step stops the run and is reported as a *Failure naming that step.
// The pipeline takes the credential as an opaque input and never looks at how
// it was obtained.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/toozej/toptracks/internal/spotify"
	"github.com/toozej/toptracks/internal/types"
)

// User-facing messages.
const (
	MsgSuccess           = "Playlist created successfully!"
	MsgSessionExpired    = "Session expired. Please log in again."
	MsgAuthentication    = "Authentication failed. Please try logging in again."
	MsgNoTopTracks       = "No top tracks found. Try listening to more music first!"
	MsgMissingCredential = "No authentication token found. Please log in."
	MsgUnknownError      = "Unknown error"

	PlaylistDescription = "Created by Top Tracks App"
)

// PlaylistName returns the generated name for a playlist of count tracks.
func PlaylistName(count types.TrackCount) string {
	return fmt.Sprintf("My Top %d Tracks", int(count))
}

// ClientFactory builds an API client authenticated with credential.
type ClientFactory func(credential string) types.SpotifyService

// Result is what a successful run produced.
type Result struct {
	UserID    string
	TrackURIs []string
	Playlist  types.Playlist
	Message   string
}

// Pipeline runs playlist creation for one credential at a time. It does not
// guard against concurrent runs.
type Pipeline struct {
	newClient ClientFactory
	store     types.CredentialStore
	logger    *logrus.Logger
	observer  func(State)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver registers fn to receive every state transition.
func WithObserver(fn func(State)) Option {
	return func(p *Pipeline) {
		p.observer = fn
	}
}

// New returns a pipeline. store is cleared whenever the provider rejects the
// credential.
func New(newClient ClientFactory, store types.CredentialStore, logger *logrus.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		newClient: newClient,
		store:     store,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run carries values between steps.
type run struct {
	client    types.SpotifyService
	selection types.Selection
	user      *types.User
	tracks    []types.Track
	playlist  *types.Playlist
}

type step struct {
	state State
	do    func(ctx context.Context, r *run) *Failure
}

func (p *Pipeline) steps() []step {
	return []step{
		{state: StateFetchingProfile, do: p.fetchProfile},
		{state: StateFetchingTopTracks, do: p.fetchTopTracks},
		{state: StateCreatingPlaylist, do: p.createPlaylist},
		{state: StateAddingTracks, do: p.addTracks},
	}
}

// Run executes every step in order for credential and selection. On failure
// the returned error is a *Failure.
func (p *Pipeline) Run(ctx context.Context, credential string, selection types.Selection) (*Result, error) {
	logger := p.logger.WithFields(logrus.Fields{
		"component":  "pipeline",
		"operation":  "run",
		"time_range": string(selection.TimeRange),
		"limit":      int(selection.Count),
	})

	p.transition(StateAuthenticating)
	if credential == "" {
		failure := &Failure{
			Step:    StateAuthenticating,
			Kind:    KindMissingCredential,
			Message: MsgMissingCredential,
		}
		p.fail(failure)
		logger.Warn("No credential available, login required")
		return nil, failure
	}

	r := &run{
		client:    p.newClient(credential),
		selection: selection,
	}

	for _, s := range p.steps() {
		p.transition(s.state)

		failure := s.do(ctx, r)
		if failure == nil {
			continue
		}
		failure.Step = s.state
		if r.playlist != nil {
			failure.PlaylistID = r.playlist.ID
		}
		if errors.Is(failure.Err, spotify.ErrUnauthorized) {
			failure.Kind = KindSessionExpired
			failure.Message = MsgSessionExpired
		}

		logger.WithError(failure.Err).WithFields(logrus.Fields{
			"step": s.state.String(),
			"kind": failure.Kind.String(),
		}).Error("Playlist creation failed")
		p.fail(failure)
		return nil, failure
	}

	p.transition(StateDone)

	uris := trackURIs(r.tracks)
	logger.WithFields(logrus.Fields{
		"playlist_id": r.playlist.ID,
		"track_count": len(uris),
	}).Info("Playlist created")

	return &Result{
		UserID:    r.user.ID,
		TrackURIs: uris,
		Playlist:  *r.playlist,
		Message:   MsgSuccess,
	}, nil
}

func (p *Pipeline) fetchProfile(ctx context.Context, r *run) *Failure {
	user, err := r.client.CurrentUser(ctx)
	if err != nil {
		return &Failure{Kind: KindAuthentication, Message: MsgAuthentication, Err: err}
	}
	r.user = user
	return nil
}

func (p *Pipeline) fetchTopTracks(ctx context.Context, r *run) *Failure {
	tracks, err := r.client.TopTracks(ctx, r.selection)
	if err != nil {
		return stepFailure("Failed to fetch top tracks", err)
	}
	if len(tracks) == 0 {
		return &Failure{Kind: KindNoTopTracks, Message: MsgNoTopTracks}
	}
	r.tracks = tracks
	return nil
}

func (p *Pipeline) createPlaylist(ctx context.Context, r *run) *Failure {
	playlist, err := r.client.CreatePlaylist(ctx, r.user.ID, PlaylistName(r.selection.Count), PlaylistDescription)
	if err != nil {
		return stepFailure("Failed to create playlist", err)
	}
	r.playlist = playlist
	return nil
}

func (p *Pipeline) addTracks(ctx context.Context, r *run) *Failure {
	if err := r.client.AddTracksToPlaylist(ctx, r.playlist.ID, trackURIs(r.tracks)); err != nil {
		p.logger.WithFields(logrus.Fields{
			"component":   "pipeline",
			"operation":   "add_tracks",
			"playlist_id": r.playlist.ID,
		}).Warn("Playlist was created but tracks could not be added; it is left in place")
		return stepFailure("Failed to add tracks", err)
	}
	return nil
}

func (p *Pipeline) transition(state State) {
	p.logger.WithFields(logrus.Fields{
		"component": "pipeline",
		"state":     state.String(),
	}).Debug("Pipeline state changed")
	if p.observer != nil {
		p.observer(state)
	}
}

func (p *Pipeline) fail(failure *Failure) {
	p.transition(StateFailed)
	if failure.Kind != KindSessionExpired {
		return
	}

	if err := p.store.Clear(); err != nil {
		p.logger.WithError(err).WithField("component", "pipeline").Warn("Failed to clear stored credential")
	}
	p.transition(StateIdle)
}

// stepFailure classifies an API error raised by a provider step.
func stepFailure(prefix string, err error) *Failure {
	var apiErr *spotify.APIError
	switch {
	case errors.As(err, &apiErr):
		return &Failure{Kind: KindProvider, Message: prefix + ": " + providerMessage(apiErr), Err: err}
	case errors.Is(err, spotify.ErrUnexpectedResponse):
		return &Failure{Kind: KindProvider, Message: prefix + ": " + MsgUnknownError, Err: err}
	default:
		return &Failure{Kind: KindTransport, Message: prefix + ": " + MsgUnknownError, Err: err}
	}
}

func providerMessage(apiErr *spotify.APIError) string {
	if apiErr.Message == "" {
		return MsgUnknownError
	}
	return apiErr.Message
}

func trackURIs(tracks []types.Track) []string {
	uris := make([]string, len(tracks))
	for i, t := range tracks {
		uris[i] = t.URI
	}
	return uris
}
