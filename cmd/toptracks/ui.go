package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/toozej/toptracks/internal/auth"
	"github.com/toozej/toptracks/internal/tui"
)

// newUICmd creates the interactive UI command.
func newUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE:  runUI,
	}

	cmd.Flags().String("log-file", filepath.Join(os.TempDir(), "toptracks-tui.log"), "File that receives log output while the UI is open")

	return cmd
}

// runUI launches the interactive terminal UI.
func runUI(cmd *cobra.Command, args []string) error {
	logFile, _ := cmd.Flags().GetString("log-file")

	// Redirect logs to file to avoid interfering with TUI rendering
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	log.SetOutput(f)
	defer log.SetOutput(os.Stderr)

	logger := log.StandardLogger()
	store, err := newStore(conf.Spotify, logger)
	if err != nil {
		return err
	}

	model := tui.NewModel(commandContext(cmd), newPipeline(conf.Spotify, store, logger), auth.NewLogin(conf, logger), store, logger)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
