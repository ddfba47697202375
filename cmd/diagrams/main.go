// Command diagrams renders the toptracks architecture diagrams as Graphviz
// .dot files under ./go-diagrams. Convert them with `dot -Tpng`.
package main

import (
	"fmt"

	"github.com/blushft/go-diagrams/diagram"
	"github.com/blushft/go-diagrams/nodes/gcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := generateArchitectureDiagram(); err != nil {
		log.WithError(err).Fatal("Failed to generate architecture diagram")
	}
	if err := generateComponentDiagram(); err != nil {
		log.WithError(err).Fatal("Failed to generate component diagram")
	}
	log.Info("Diagrams written to ./go-diagrams")
}

// generateArchitectureDiagram shows the login redirect and the API calls made
// by one playlist creation.
func generateArchitectureDiagram() error {
	d, err := diagram.New(diagram.Filename("architecture"), diagram.Label("toptracks architecture"), diagram.Direction("LR"))
	if err != nil {
		return fmt.Errorf("failed to create diagram: %w", err)
	}

	cli := gcp.Compute.ComputeEngine(diagram.NodeLabel("toptracks CLI / TUI"))
	receiver := gcp.Network.LoadBalancing(diagram.NodeLabel("Loopback callback\n127.0.0.1:8080"))
	session := gcp.Database.Memorystore(diagram.NodeLabel("Session token file"))

	accounts := gcp.Network.Dns(diagram.NodeLabel("accounts.spotify.com\n/authorize"))
	api := gcp.Compute.ComputeEngine(diagram.NodeLabel("api.spotify.com/v1"))

	local := diagram.NewGroup("local").Label("This machine").Add(cli, receiver, session)
	spotify := diagram.NewGroup("spotify").Label("Spotify").Add(accounts, api)

	d.Connect(cli, accounts, diagram.Forward()).
		Connect(accounts, receiver, diagram.Forward()).
		Connect(receiver, cli, diagram.Forward()).
		Connect(cli, session, diagram.Forward()).
		Connect(cli, api, diagram.Forward()).
		Group(local).
		Group(spotify)

	if err := d.Render(); err != nil {
		return fmt.Errorf("failed to render diagram: %w", err)
	}
	return nil
}

// generateComponentDiagram shows the packages and the order of the pipeline steps.
func generateComponentDiagram() error {
	d, err := diagram.New(diagram.Filename("components"), diagram.Label("toptracks components"), diagram.Direction("TB"))
	if err != nil {
		return fmt.Errorf("failed to create diagram: %w", err)
	}

	cmd := gcp.Compute.ComputeEngine(diagram.NodeLabel("cmd/toptracks"))
	ui := gcp.Compute.ComputeEngine(diagram.NodeLabel("internal/tui + view"))
	login := gcp.Network.LoadBalancing(diagram.NodeLabel("internal/auth"))
	store := gcp.Database.Sql(diagram.NodeLabel("internal/token"))
	client := gcp.Network.Dns(diagram.NodeLabel("internal/spotify"))

	profile := gcp.Compute.ComputeEngine(diagram.NodeLabel("1. fetch profile"))
	topTracks := gcp.Compute.ComputeEngine(diagram.NodeLabel("2. fetch top tracks"))
	create := gcp.Compute.ComputeEngine(diagram.NodeLabel("3. create playlist"))
	add := gcp.Compute.ComputeEngine(diagram.NodeLabel("4. add tracks"))

	steps := diagram.NewGroup("pipeline").
		Label("internal/pipeline").
		Add(profile, topTracks, create, add).
		Connect(profile, topTracks, diagram.Forward()).
		Connect(topTracks, create, diagram.Forward()).
		Connect(create, add, diagram.Forward())

	d.Connect(cmd, ui, diagram.Forward()).
		Connect(cmd, login, diagram.Forward()).
		Connect(ui, login, diagram.Forward()).
		Connect(login, store, diagram.Forward()).
		Connect(cmd, profile, diagram.Forward()).
		Connect(ui, profile, diagram.Forward()).
		Connect(add, client, diagram.Forward()).
		Connect(profile, store, diagram.Forward()).
		Group(steps)

	if err := d.Render(); err != nil {
		return fmt.Errorf("failed to render diagram: %w", err)
	}
	return nil
}
