package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/toozej/toptracks/pkg/config"
)

// Login drives one browser login for the configured application. Start brings
// up the loopback receiver and returns the URL to visit; Wait blocks until the
// browser has relayed the credential.
type Login struct {
	ClientID     string
	RedirectURI  string
	CallbackPath string
	Addr         string
	ShowDialog   bool
	Timeout      time.Duration
	Logger       *logrus.Logger

	flow *Flow
}

// NewLogin returns a Login for conf.
func NewLogin(conf config.Config, logger *logrus.Logger) *Login {
	return &Login{
		ClientID:     conf.Spotify.ClientID,
		RedirectURI:  conf.Spotify.RedirectURL,
		CallbackPath: conf.Spotify.CallbackPath(),
		Addr:         conf.Server.Address(),
		ShowDialog:   conf.Spotify.ShowDialog,
		Timeout:      5 * time.Minute,
		Logger:       logger,
	}
}

// Start begins a login with a fresh state value and returns the authorize URL.
func (l *Login) Start() (string, error) {
	if l.ClientID == "" {
		return "", config.ErrMissingSpotifyClientID
	}
	if l.flow != nil {
		return "", fmt.Errorf("login already in progress")
	}

	state, err := NewState()
	if err != nil {
		return "", err
	}

	flow := &Flow{
		Addr:    l.Addr,
		Handler: NewCallbackHandler(l.CallbackPath, state, l.Logger),
		Timeout: l.Timeout,
		Logger:  l.Logger,
	}
	if err := flow.Start(); err != nil {
		return "", err
	}
	l.flow = flow

	authURL := BuildAuthURL(l.ClientID, l.RedirectURI, DefaultScopes, WithState(state), WithShowDialog(l.ShowDialog))
	l.Logger.WithFields(logrus.Fields{
		"component":    "auth",
		"operation":    "login",
		"redirect_uri": l.RedirectURI,
	}).Debug("Login started")

	return authURL, nil
}

// Wait returns the credential delivered to the receiver started by Start.
func (l *Login) Wait(ctx context.Context) (string, error) {
	if l.flow == nil {
		return "", fmt.Errorf("login not started")
	}
	flow := l.flow
	defer func() { l.flow = nil }()

	return flow.Wait(ctx)
}

// BoundAddr returns the receiver's listen address while a login is running.
func (l *Login) BoundAddr() string {
	if l.flow == nil {
		return ""
	}
	return l.flow.BoundAddr()
}
