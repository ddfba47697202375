// Package main provides the entry point for the toptracks application.
//
// toptracks creates a Spotify playlist from the signed-in user's top tracks.
package main

import cmd "github.com/toozej/toptracks/cmd/toptracks"

// main delegates execution to the cmd package which handles all
// command-line interface functionality.
func main() {
	cmd.Execute()
}
