// Package cmd provides command-line interface functionality for the toptracks application.
//
// This package implements the root command and manages the command-line interface
// using the cobra library. It handles configuration, logging setup, and command
// execution for the toptracks application.
//
// The package integrates with several components:
//   - Configuration management through pkg/config
//   - Login and credential storage through internal/auth and internal/token
//   - Playlist creation through internal/pipeline
//   - The interactive terminal UI through internal/tui
//   - Manual pages through pkg/man
//   - Version information through pkg/version
//
// Example usage:
//
//	import "github.com/toozej/toptracks/cmd/toptracks"
//
//	func main() {
//		cmd.Execute()
//	}
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/toozej/toptracks/pkg/config"
	"github.com/toozej/toptracks/pkg/man"
	"github.com/toozej/toptracks/pkg/version"
)

// conf holds the application configuration loaded from environment variables.
// It is populated before any command runs.
var (
	conf config.Config
	// debug controls the logging level for the application.
	// When true, debug-level logging is enabled through logrus.
	debug bool
)

// rootCmd defines the base command for the toptracks CLI application.
var rootCmd = &cobra.Command{
	Use:              "toptracks",
	Short:            "Create a Spotify playlist from your top tracks",
	Long:             `toptracks logs in to Spotify in your browser and creates a playlist from your most played tracks over a chosen time range.`,
	Args:             cobra.ExactArgs(0),
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRun: rootCmdPreRun,
	Run:              rootCmdRun,
}

// rootCmdRun is the main execution function for the root command.
// It points the user at the subcommands.
func rootCmdRun(cmd *cobra.Command, args []string) {
	log.Info("Use 'toptracks login' to authenticate with Spotify")
	log.Info("Use 'toptracks create' to create a playlist from your top tracks")
	log.Info("Use 'toptracks ui' for the interactive terminal UI")
}

// rootCmdPreRun loads the configuration and sets the log level before any
// command runs.
func rootCmdPreRun(cmd *cobra.Command, args []string) {
	conf = config.GetEnvVars()
	if debug {
		log.SetLevel(log.DebugLevel)
	}
}

// Execute starts the command-line interface execution.
//
// Commands run under a context that is cancelled on SIGINT or SIGTERM, so a
// pending browser login stops on Ctrl+C. If command execution fails, it prints
// the error message to stdout and exits the program with status code 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := executeContext(ctx)
	stop()
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

// executeContext runs the root command with ctx as every command's context.
func executeContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, or a background context when
// the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	// create rootCmd-level flags
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug-level logging")

	// add sub-commands
	rootCmd.AddCommand(
		newLoginCmd(),
		newCreateCmd(),
		newLogoutCmd(),
		newUICmd(),
		man.NewManCmd(),
		version.Command(),
	)
}
