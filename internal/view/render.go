package view

import (
	"fmt"

	"github.com/toozej/toptracks/internal/types"
)

// Mode is which of the two screens is shown.
type Mode int

const (
	// ModeLogin is shown while there is no credential.
	ModeLogin Mode = iota
	// ModeAction offers the playlist creation trigger.
	ModeAction
)

func (m Mode) String() string {
	if m == ModeAction {
		return "action"
	}
	return "login"
}

// Button is the single trigger on a screen.
type Button struct {
	Label    string
	Disabled bool
}

// Screen is everything needed to draw one frame.
type Screen struct {
	Title     string
	Mode      Mode
	Button    Button
	Error     string
	Notice    string
	AuthURL   string
	Selection types.Selection
}

// Render maps a state to the screen that shows it.
func Render(s State) Screen {
	screen := Screen{
		Title:     Title,
		Error:     s.Err,
		Notice:    s.Notice,
		AuthURL:   s.AuthURL,
		Selection: s.Selection,
	}

	if s.Credential == "" {
		screen.Mode = ModeLogin
		switch {
		case s.Loading:
			screen.Button = Button{Label: "Waiting for browser...", Disabled: true}
		case s.Err != "":
			screen.Button = Button{Label: "Login Again"}
		default:
			screen.Button = Button{Label: "Login with Spotify"}
		}
		return screen
	}

	screen.Mode = ModeAction
	if s.Loading {
		screen.Button = Button{Label: "Creating...", Disabled: true}
	} else {
		screen.Button = Button{Label: fmt.Sprintf("Create Top %d Playlist", int(s.Selection.Count))}
	}
	return screen
}
