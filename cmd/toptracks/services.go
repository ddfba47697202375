package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/toozej/toptracks/internal/pipeline"
	"github.com/toozej/toptracks/internal/spotify"
	"github.com/toozej/toptracks/internal/token"
	"github.com/toozej/toptracks/internal/types"
	"github.com/toozej/toptracks/pkg/config"
)

// newStore opens the session credential file named by the configuration.
func newStore(cfg config.SpotifyConfig, logger *log.Logger) (*token.FileStore, error) {
	path, err := cfg.GetTokenFilePath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token file path: %w", err)
	}
	return token.NewFileStore(path, logger), nil
}

// newPipeline wires the playlist pipeline to the Spotify Web API.
func newPipeline(cfg config.SpotifyConfig, store types.CredentialStore, logger *log.Logger) *pipeline.Pipeline {
	factory := func(credential string) types.SpotifyService {
		return spotify.NewClient(credential, cfg, logger)
	}
	return pipeline.New(factory, store, logger)
}
