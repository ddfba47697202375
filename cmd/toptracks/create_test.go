package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toozej/toptracks/internal/pipeline"
	"github.com/toozej/toptracks/internal/types"
)

type fakeRunner struct {
	result    *pipeline.Result
	err       error
	selection types.Selection
}

func (f *fakeRunner) Run(ctx context.Context, credential string, selection types.Selection) (*pipeline.Result, error) {
	f.selection = selection
	return f.result, f.err
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name      string
		timeRange string
		limit     string
		expected  types.Selection
		expectErr bool
	}{
		{
			name:      "defaults",
			timeRange: "long",
			limit:     "10",
			expected:  types.Selection{TimeRange: types.LongTerm, Count: 10},
		},
		{
			name:      "wire name",
			timeRange: "short_term",
			limit:     "50",
			expected:  types.Selection{TimeRange: types.ShortTerm, Count: 50},
		},
		{
			name:      "invalid limit",
			timeRange: "medium",
			limit:     "15",
			expectErr: true,
		},
		{
			name:      "non-numeric limit",
			timeRange: "long",
			limit:     "ten",
			expectErr: true,
		},
		{
			name:      "ambiguous time range",
			timeRange: "term",
			limit:     "10",
			expectErr: true,
		},
		{
			name:      "empty time range",
			timeRange: "",
			limit:     "10",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selection, err := parseSelection(tt.timeRange, tt.limit)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, selection)
		})
	}
}

func TestCreatePlaylist_Success(t *testing.T) {
	runner := &fakeRunner{result: &pipeline.Result{
		TrackURIs: []string{"spotify:track:a", "spotify:track:b"},
		Playlist:  types.Playlist{ID: "p1", Name: "My Top 10 Tracks", URL: "https://open.spotify.com/playlist/p1"},
		Message:   pipeline.MsgSuccess,
	}}

	var out bytes.Buffer
	selection := types.Selection{TimeRange: types.MediumTerm, Count: 10}
	require.NoError(t, createPlaylist(context.Background(), runner, "tok", selection, &out))

	assert.Equal(t, selection, runner.selection)
	assert.Contains(t, out.String(), "Playlist created successfully!")
	assert.Contains(t, out.String(), "My Top 10 Tracks (2 tracks)")
	assert.Contains(t, out.String(), "https://open.spotify.com/playlist/p1")
}

func TestCreatePlaylist_Failure(t *testing.T) {
	tests := []struct {
		name        string
		failure     *pipeline.Failure
		contains    []string
		notContains []string
	}{
		{
			name:     "session expired",
			failure:  &pipeline.Failure{Step: pipeline.StateFetchingProfile, Kind: pipeline.KindSessionExpired, Message: pipeline.MsgSessionExpired},
			contains: []string{pipeline.MsgSessionExpired, "toptracks login"},
		},
		{
			name:        "no top tracks",
			failure:     &pipeline.Failure{Step: pipeline.StateFetchingTopTracks, Kind: pipeline.KindNoTopTracks, Message: pipeline.MsgNoTopTracks},
			contains:    []string{pipeline.MsgNoTopTracks},
			notContains: []string{"toptracks login"},
		},
		{
			name:     "orphaned playlist",
			failure:  &pipeline.Failure{Step: pipeline.StateAddingTracks, Kind: pipeline.KindProvider, Message: "Failed to add tracks: Unknown error", PlaylistID: "p9"},
			contains: []string{"Failed to add tracks: Unknown error", "p9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := createPlaylist(context.Background(), &fakeRunner{err: tt.failure}, "tok", types.DefaultSelection(), &out)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.failure.Step.String())
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func TestCreatePlaylist_PlainError(t *testing.T) {
	boom := errors.New("boom")
	var out bytes.Buffer
	err := createPlaylist(context.Background(), &fakeRunner{err: boom}, "tok", types.DefaultSelection(), &out)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, out.String())
}

func TestNewCreateCmd(t *testing.T) {
	cmd := newCreateCmd()
	assert.Equal(t, "create", cmd.Use)

	timeRange := cmd.Flags().Lookup("time-range")
	require.NotNil(t, timeRange)
	assert.Equal(t, "long", timeRange.DefValue)

	limit := cmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "10", limit.DefValue)
}
