package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/toozej/toptracks/internal/pipeline"
	"github.com/toozej/toptracks/internal/tui"
	"github.com/toozej/toptracks/internal/types"
)

// newCreateCmd creates the create command.
func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a playlist from your top tracks",
		Long: `Create a new playlist named "My Top N Tracks" from your most played
tracks over the chosen time range. Requires a prior 'toptracks login'.`,
		Args: cobra.NoArgs,
		RunE: runCreate,
	}

	cmd.Flags().StringP("time-range", "r", "long", "Time range: short (~4 weeks), medium (~6 months) or long (~1 year)")
	cmd.Flags().StringP("limit", "n", "10", "Number of tracks: 10, 20 or 50")

	return cmd
}

// runCreate executes the create command.
func runCreate(cmd *cobra.Command, args []string) error {
	timeRange, _ := cmd.Flags().GetString("time-range")
	limit, _ := cmd.Flags().GetString("limit")

	selection, err := parseSelection(timeRange, limit)
	if err != nil {
		return err
	}

	store, err := newStore(conf.Spotify, log.StandardLogger())
	if err != nil {
		return err
	}
	credential, _ := store.Load()

	p := newPipeline(conf.Spotify, store, log.StandardLogger())
	return createPlaylist(commandContext(cmd), p, credential, selection, cmd.OutOrStdout())
}

// parseSelection validates the create flags.
func parseSelection(timeRange, limit string) (types.Selection, error) {
	r, err := types.ParseTimeRange(timeRange)
	if err != nil {
		return types.Selection{}, err
	}

	count, err := types.ParseTrackCount(limit)
	if err != nil {
		return types.Selection{}, fmt.Errorf("invalid limit: %w", err)
	}

	return types.Selection{TimeRange: r, Count: count}, nil
}

// createPlaylist runs the pipeline once and reports the outcome to out.
func createPlaylist(ctx context.Context, runner tui.Runner, credential string, selection types.Selection, out io.Writer) error {
	log.WithFields(log.Fields{
		"time_range": string(selection.TimeRange),
		"limit":      int(selection.Count),
	}).Info("Creating playlist from top tracks")

	result, err := runner.Run(ctx, credential, selection)
	if err != nil {
		var failure *pipeline.Failure
		if !errors.As(err, &failure) {
			return err
		}

		fmt.Fprintf(out, "❌ Error: %s\n", failure.Message)
		if failure.PlaylistID != "" {
			fmt.Fprintf(out, "The playlist %s was created but is incomplete.\n", failure.PlaylistID)
		}
		if failure.RequiresLogin() {
			fmt.Fprintln(out, "Run 'toptracks login' to authenticate.")
		}
		return fmt.Errorf("playlist creation failed at %s: %s", failure.Step, failure.Message)
	}

	fmt.Fprintf(out, "✅ %s\n", result.Message)
	fmt.Fprintf(out, "   %s (%d tracks)\n", result.Playlist.Name, len(result.TrackURIs))
	if result.Playlist.URL != "" {
		fmt.Fprintf(out, "   %s\n", result.Playlist.URL)
	}
	return nil
}
