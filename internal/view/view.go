// Package view holds the interactive screen state and the pure functions that
// advance and render it. It owns no I/O; the terminal UI feeds it events and
// draws the Screen it returns.
package view

import (
	"errors"
	"fmt"

	"github.com/toozej/toptracks/internal/pipeline"
	"github.com/toozej/toptracks/internal/types"
)

// Title is shown above every screen.
const Title = "Spotify Top Tracks Playlist Creator"

// State is the screen state. Reduce returns a new value rather than mutating.
type State struct {
	Credential string
	Loading    bool
	Err        string
	Notice     string
	AuthURL    string
	Selection  types.Selection
}

// Initial returns the state at startup for a possibly empty stored credential.
func Initial(credential string) State {
	return State{
		Credential: credential,
		Selection:  types.DefaultSelection(),
	}
}

// Event is an input to Reduce.
type Event interface {
	event()
}

// CredentialLoaded reports a credential from the store or a finished login.
type CredentialLoaded struct {
	Credential string
}

// LoginRequested starts a new login. Any previous credential and error are dropped.
type LoginRequested struct{}

// LoginStarted reports that the loopback receiver is up and the user has to
// visit AuthURL.
type LoginStarted struct {
	AuthURL string
}

// LoginFailed reports a login that did not produce a credential.
type LoginFailed struct {
	Err error
}

// CreateRequested asks for a pipeline run.
type CreateRequested struct{}

// PipelineFinished carries the outcome of a pipeline run.
type PipelineFinished struct {
	Result *pipeline.Result
	Err    error
}

// TimeRangeChanged selects a new time range.
type TimeRangeChanged struct {
	TimeRange types.TimeRange
}

// TrackCountChanged selects a new track count.
type TrackCountChanged struct {
	Count types.TrackCount
}

func (CredentialLoaded) event()  {}
func (LoginRequested) event()    {}
func (LoginStarted) event()      {}
func (LoginFailed) event()       {}
func (CreateRequested) event()   {}
func (PipelineFinished) event()  {}
func (TimeRangeChanged) event()  {}
func (TrackCountChanged) event() {}

// Reduce returns the state that follows s after e.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case CredentialLoaded:
		s.Credential = e.Credential
		s.Loading = false
		s.AuthURL = ""
		if e.Credential != "" {
			s.Err = ""
		}

	case LoginRequested:
		s.Credential = ""
		s.Err = ""
		s.Notice = ""
		s.AuthURL = ""
		s.Loading = true

	case LoginStarted:
		if s.Loading && s.Credential == "" {
			s.AuthURL = e.AuthURL
		}

	case LoginFailed:
		s.Loading = false
		s.AuthURL = ""
		s.Err = pipeline.MsgAuthentication
		if e.Err != nil {
			s.Err = fmt.Sprintf("Login failed: %v", e.Err)
		}

	case CreateRequested:
		if s.Loading || s.Credential == "" {
			return s
		}
		s.Loading = true
		s.Err = ""
		s.Notice = ""

	case PipelineFinished:
		s.Loading = false
		if e.Err == nil {
			s.Err = ""
			s.Notice = pipeline.MsgSuccess
			if e.Result != nil && e.Result.Message != "" {
				s.Notice = e.Result.Message
			}
			return s
		}

		s.Notice = ""
		var failure *pipeline.Failure
		if errors.As(e.Err, &failure) {
			s.Err = failure.Message
			if failure.RequiresLogin() {
				s.Credential = ""
			}
		} else {
			s.Err = e.Err.Error()
		}

	case TimeRangeChanged:
		if e.TimeRange.Valid() {
			s.Selection.TimeRange = e.TimeRange
		}

	case TrackCountChanged:
		if e.Count.Valid() {
			s.Selection.Count = e.Count
		}
	}

	return s
}
