package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/toozej/toptracks/internal/auth"
	"github.com/toozej/toptracks/internal/tui"
	"github.com/toozej/toptracks/internal/types"
)

// newLoginCmd creates the login command.
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to Spotify",
		Long: `Log in to Spotify through your browser.
This command prints an authorize URL and waits for Spotify to redirect back
to a temporary local server. If the redirect cannot reach this machine, copy
the full URL from the browser's address bar and pass it with --fragment.`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	cmd.Flags().StringP("fragment", "f", "", "Redirect URL or fragment containing access_token, pasted from the browser")
	cmd.Flags().DurationP("timeout", "t", 5*time.Minute, "How long to wait for the browser to complete the login")

	return cmd
}

// runLogin executes the login command.
func runLogin(cmd *cobra.Command, args []string) error {
	fragment, _ := cmd.Flags().GetString("fragment")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	store, err := newStore(conf.Spotify, log.StandardLogger())
	if err != nil {
		return err
	}

	l := auth.NewLogin(conf, log.StandardLogger())
	l.Timeout = timeout

	if _, err := login(commandContext(cmd), l, store, fragment, cmd.OutOrStdout()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✅ Logged in to Spotify")
	return nil
}

// login replaces the stored credential with a fresh one, either taken from a
// pasted redirect or obtained through the browser.
func login(ctx context.Context, authenticator tui.Authenticator, store types.CredentialStore, fragment string, out io.Writer) (string, error) {
	if err := store.Clear(); err != nil {
		log.WithError(err).Warn("Failed to clear previous credential")
	}

	if fragment != "" {
		credential, ok := auth.ResolveCredential(auth.FragmentOf(fragment), store, log.StandardLogger())
		if !ok {
			return "", fmt.Errorf("no access_token found in the pasted redirect")
		}
		return credential, nil
	}

	authURL, err := authenticator.Start()
	if err != nil {
		return "", err
	}

	log.WithField("auth_url", authURL).Info("Please visit this URL to authenticate with Spotify")
	fmt.Fprintf(out, "\n🔐 Spotify Authentication Required\n")
	fmt.Fprintf(out, "Please visit this URL to authenticate:\n%s\n\n", authURL)
	fmt.Fprintf(out, "Waiting for authentication... (Press Ctrl+C to cancel)\n")

	credential, err := authenticator.Wait(ctx)
	if err != nil {
		return "", err
	}

	if err := store.Save(credential); err != nil {
		return "", fmt.Errorf("failed to store credential: %w", err)
	}

	log.Info("Spotify authentication completed successfully")
	return credential, nil
}
