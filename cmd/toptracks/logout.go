package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newLogoutCmd creates the logout command.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored Spotify credential",
		Args:  cobra.NoArgs,
		RunE:  runLogout,
	}
}

// runLogout removes the stored credential. Logging out twice is not an error.
func runLogout(cmd *cobra.Command, args []string) error {
	store, err := newStore(conf.Spotify, log.StandardLogger())
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Logged out of Spotify")
	return nil
}
