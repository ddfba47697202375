package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toozej/toptracks/internal/spotify"
	"github.com/toozej/toptracks/internal/token"
	"github.com/toozej/toptracks/internal/types"
)

// MockSpotifyService is a mock implementation of SpotifyService that records calls
type MockSpotifyService struct {
	user        *types.User
	userErr     error
	tracks      []types.Track
	tracksErr   error
	playlist    *types.Playlist
	playlistErr error
	addErr      error

	calls         []string
	gotSelection  types.Selection
	gotName       string
	gotDesc       string
	gotPlaylistID string
	gotURIs       []string
}

func (m *MockSpotifyService) CurrentUser(ctx context.Context) (*types.User, error) {
	m.calls = append(m.calls, "CurrentUser")
	return m.user, m.userErr
}

func (m *MockSpotifyService) TopTracks(ctx context.Context, selection types.Selection) ([]types.Track, error) {
	m.calls = append(m.calls, "TopTracks")
	m.gotSelection = selection
	return m.tracks, m.tracksErr
}

func (m *MockSpotifyService) CreatePlaylist(ctx context.Context, userID, name, description string) (*types.Playlist, error) {
	m.calls = append(m.calls, "CreatePlaylist")
	m.gotName = name
	m.gotDesc = description
	return m.playlist, m.playlistErr
}

func (m *MockSpotifyService) AddTracksToPlaylist(ctx context.Context, playlistID string, trackURIs []string) error {
	m.calls = append(m.calls, "AddTracksToPlaylist")
	m.gotPlaylistID = playlistID
	m.gotURIs = trackURIs
	return m.addErr
}

func newHappyMock() *MockSpotifyService {
	return &MockSpotifyService{
		user: &types.User{ID: "u1", DisplayName: "Test User"},
		tracks: []types.Track{
			{ID: "a", Name: "Track A", URI: "spotify:track:a"},
			{ID: "b", Name: "Track B", URI: "spotify:track:b"},
		},
		playlist: &types.Playlist{ID: "p1", Name: "My Top 10 Tracks"},
	}
}

type recorder struct {
	states []State
}

func (r *recorder) observe(s State) {
	r.states = append(r.states, s)
}

func newTestPipeline(mock *MockSpotifyService, store types.CredentialStore) (*Pipeline, *recorder, *[]string) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	rec := &recorder{}
	var credentials []string
	factory := func(credential string) types.SpotifyService {
		credentials = append(credentials, credential)
		return mock
	}
	return New(factory, store, logger, WithObserver(rec.observe)), rec, &credentials
}

func unauthorized() error {
	return fmt.Errorf("failed to get current user: %w", spotify.ErrUnauthorized)
}

func TestPipeline_Success(t *testing.T) {
	mock := newHappyMock()
	store := token.NewMemoryStore()
	require.NoError(t, store.Save("tok"))

	p, rec, credentials := newTestPipeline(mock, store)
	selection := types.Selection{TimeRange: types.MediumTerm, Count: types.TrackCount(10)}

	result, err := p.Run(context.Background(), "tok", selection)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, []string{"tok"}, *credentials)
	assert.Equal(t, []string{"CurrentUser", "TopTracks", "CreatePlaylist", "AddTracksToPlaylist"}, mock.calls)
	assert.Equal(t, selection, mock.gotSelection)
	assert.Equal(t, "My Top 10 Tracks", mock.gotName)
	assert.Equal(t, "Created by Top Tracks App", mock.gotDesc)
	assert.Equal(t, "p1", mock.gotPlaylistID)
	assert.Equal(t, []string{"spotify:track:a", "spotify:track:b"}, mock.gotURIs)

	assert.Equal(t, "u1", result.UserID)
	assert.Equal(t, []string{"spotify:track:a", "spotify:track:b"}, result.TrackURIs)
	assert.Equal(t, "p1", result.Playlist.ID)
	assert.Equal(t, MsgSuccess, result.Message)

	assert.Equal(t, []State{
		StateAuthenticating,
		StateFetchingProfile,
		StateFetchingTopTracks,
		StateCreatingPlaylist,
		StateAddingTracks,
		StateDone,
	}, rec.states)

	credential, ok := store.Load()
	assert.True(t, ok)
	assert.Equal(t, "tok", credential)
}

func TestPipeline_Failures(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(m *MockSpotifyService)
		expectedStep  State
		expectedKind  Kind
		expectedMsg   string
		expectedCalls []string
		storeCleared  bool
		playlistID    string
	}{
		{
			name:          "profile unauthorized",
			mutate:        func(m *MockSpotifyService) { m.userErr = unauthorized() },
			expectedStep:  StateFetchingProfile,
			expectedKind:  KindSessionExpired,
			expectedMsg:   MsgSessionExpired,
			expectedCalls: []string{"CurrentUser"},
			storeCleared:  true,
		},
		{
			name:          "profile unexpected response",
			mutate:        func(m *MockSpotifyService) { m.userErr = spotify.ErrUnexpectedResponse },
			expectedStep:  StateFetchingProfile,
			expectedKind:  KindAuthentication,
			expectedMsg:   MsgAuthentication,
			expectedCalls: []string{"CurrentUser"},
		},
		{
			name: "profile provider error",
			mutate: func(m *MockSpotifyService) {
				m.userErr = &spotify.APIError{Status: 500, Message: "Server error"}
			},
			expectedStep:  StateFetchingProfile,
			expectedKind:  KindAuthentication,
			expectedMsg:   MsgAuthentication,
			expectedCalls: []string{"CurrentUser"},
		},
		{
			name:          "no top tracks",
			mutate:        func(m *MockSpotifyService) { m.tracks = []types.Track{} },
			expectedStep:  StateFetchingTopTracks,
			expectedKind:  KindNoTopTracks,
			expectedMsg:   MsgNoTopTracks,
			expectedCalls: []string{"CurrentUser", "TopTracks"},
		},
		{
			name:          "top tracks unauthorized",
			mutate:        func(m *MockSpotifyService) { m.tracksErr = unauthorized() },
			expectedStep:  StateFetchingTopTracks,
			expectedKind:  KindSessionExpired,
			expectedMsg:   MsgSessionExpired,
			expectedCalls: []string{"CurrentUser", "TopTracks"},
			storeCleared:  true,
		},
		{
			name:          "top tracks transport error",
			mutate:        func(m *MockSpotifyService) { m.tracksErr = errors.New("connection refused") },
			expectedStep:  StateFetchingTopTracks,
			expectedKind:  KindTransport,
			expectedMsg:   "Failed to fetch top tracks: Unknown error",
			expectedCalls: []string{"CurrentUser", "TopTracks"},
		},
		{
			name: "create playlist provider error",
			mutate: func(m *MockSpotifyService) {
				m.playlistErr = &spotify.APIError{Status: 400, Message: "Invalid name"}
			},
			expectedStep:  StateCreatingPlaylist,
			expectedKind:  KindProvider,
			expectedMsg:   "Failed to create playlist: Invalid name",
			expectedCalls: []string{"CurrentUser", "TopTracks", "CreatePlaylist"},
		},
		{
			name: "create playlist unparseable error",
			mutate: func(m *MockSpotifyService) {
				m.playlistErr = fmt.Errorf("failed: %w", spotify.ErrUnexpectedResponse)
			},
			expectedStep:  StateCreatingPlaylist,
			expectedKind:  KindProvider,
			expectedMsg:   "Failed to create playlist: Unknown error",
			expectedCalls: []string{"CurrentUser", "TopTracks", "CreatePlaylist"},
		},
		{
			name: "create playlist empty provider message",
			mutate: func(m *MockSpotifyService) {
				m.playlistErr = &spotify.APIError{Status: 500}
			},
			expectedStep:  StateCreatingPlaylist,
			expectedKind:  KindProvider,
			expectedMsg:   "Failed to create playlist: Unknown error",
			expectedCalls: []string{"CurrentUser", "TopTracks", "CreatePlaylist"},
		},
		{
			name: "add tracks provider error leaves playlist",
			mutate: func(m *MockSpotifyService) {
				m.addErr = &spotify.APIError{Status: 400, Message: "Invalid track uri"}
			},
			expectedStep:  StateAddingTracks,
			expectedKind:  KindProvider,
			expectedMsg:   "Failed to add tracks: Invalid track uri",
			expectedCalls: []string{"CurrentUser", "TopTracks", "CreatePlaylist", "AddTracksToPlaylist"},
			playlistID:    "p1",
		},
		{
			name:          "add tracks unauthorized",
			mutate:        func(m *MockSpotifyService) { m.addErr = unauthorized() },
			expectedStep:  StateAddingTracks,
			expectedKind:  KindSessionExpired,
			expectedMsg:   MsgSessionExpired,
			expectedCalls: []string{"CurrentUser", "TopTracks", "CreatePlaylist", "AddTracksToPlaylist"},
			storeCleared:  true,
			playlistID:    "p1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newHappyMock()
			tt.mutate(mock)

			store := token.NewMemoryStore()
			require.NoError(t, store.Save("tok"))

			p, rec, _ := newTestPipeline(mock, store)
			result, err := p.Run(context.Background(), "tok", types.DefaultSelection())
			assert.Nil(t, result)
			require.Error(t, err)

			var failure *Failure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tt.expectedStep, failure.Step)
			assert.Equal(t, tt.expectedKind, failure.Kind)
			assert.Equal(t, tt.expectedMsg, failure.Message)
			assert.Equal(t, tt.playlistID, failure.PlaylistID)
			assert.Equal(t, tt.expectedCalls, mock.calls)

			_, ok := store.Load()
			assert.Equal(t, !tt.storeCleared, ok)

			require.NotEmpty(t, rec.states)
			last := rec.states[len(rec.states)-1]
			if tt.storeCleared {
				assert.Equal(t, StateIdle, last)
				assert.True(t, failure.RequiresLogin())
			} else {
				assert.Equal(t, StateFailed, last)
				assert.False(t, failure.RequiresLogin())
			}
			assert.NotContains(t, rec.states, StateDone)
		})
	}
}

func TestPipeline_MissingCredential(t *testing.T) {
	mock := newHappyMock()
	p, rec, credentials := newTestPipeline(mock, token.NewMemoryStore())

	_, err := p.Run(context.Background(), "", types.DefaultSelection())
	require.Error(t, err)

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, KindMissingCredential, failure.Kind)
	assert.Equal(t, MsgMissingCredential, failure.Message)
	assert.True(t, failure.RequiresLogin())
	assert.Empty(t, *credentials)
	assert.Empty(t, mock.calls)
	assert.Equal(t, []State{StateAuthenticating, StateFailed}, rec.states)
}

func TestPipeline_ClearIsIdempotent(t *testing.T) {
	mock := newHappyMock()
	mock.userErr = unauthorized()
	store := token.NewMemoryStore()
	p, _, _ := newTestPipeline(mock, store)

	for i := 0; i < 2; i++ {
		_, err := p.Run(context.Background(), "tok", types.DefaultSelection())
		require.Error(t, err)
		_, ok := store.Load()
		assert.False(t, ok)
	}
}

func TestPipeline_WithoutObserver(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	mock := newHappyMock()
	p := New(func(string) types.SpotifyService { return mock }, token.NewMemoryStore(), logger)

	result, err := p.Run(context.Background(), "tok", types.DefaultSelection())
	require.NoError(t, err)
	assert.Equal(t, MsgSuccess, result.Message)
}

func TestPlaylistName(t *testing.T) {
	assert.Equal(t, "My Top 10 Tracks", PlaylistName(10))
	assert.Equal(t, "My Top 20 Tracks", PlaylistName(20))
	assert.Equal(t, "My Top 50 Tracks", PlaylistName(50))
}

func TestFailure_Error(t *testing.T) {
	f := &Failure{Message: MsgNoTopTracks}
	assert.Equal(t, MsgNoTopTracks, f.Error())

	cause := errors.New("boom")
	f = &Failure{Message: "Failed to add tracks: Unknown error", Err: cause}
	assert.Equal(t, "Failed to add tracks: Unknown error: boom", f.Error())
	assert.ErrorIs(t, f, cause)
}

func TestStateAndKindStrings(t *testing.T) {
	assert.Equal(t, "fetching_profile", StateFetchingProfile.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "unknown", State(99).String())
	assert.Equal(t, "session_expired", KindSessionExpired.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
