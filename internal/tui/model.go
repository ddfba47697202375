// Package tui is the interactive terminal front end. It turns key presses into
// view events, runs login and playlist creation as bubbletea commands and
// draws the view.Screen for the current state.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/toozej/toptracks/internal/pipeline"
	"github.com/toozej/toptracks/internal/types"
	"github.com/toozej/toptracks/internal/view"
)

// Runner runs the playlist creation pipeline.
type Runner interface {
	Run(ctx context.Context, credential string, selection types.Selection) (*pipeline.Result, error)
}

// Authenticator runs a browser login in two phases: Start brings up the
// receiver and returns the URL to visit, Wait blocks for the credential.
type Authenticator interface {
	Start() (authURL string, err error)
	Wait(ctx context.Context) (string, error)
}

type loginStartedMsg struct {
	authURL string
}

type loginDoneMsg struct {
	credential string
	err        error
}

type pipelineDoneMsg struct {
	result *pipeline.Result
	err    error
}

// Model is the bubbletea model for the playlist creator.
type Model struct {
	ctx    context.Context
	state  view.State
	runner Runner
	auth   Authenticator
	store  types.CredentialStore
	logger *logrus.Logger
	keys   keyMap
	help   help.Model
}

// NewModel creates a model that starts from whatever credential store holds.
func NewModel(ctx context.Context, runner Runner, authenticator Authenticator, store types.CredentialStore, logger *logrus.Logger) *Model {
	credential, _ := store.Load()
	return &Model{
		ctx:    ctx,
		state:  view.Initial(credential),
		runner: runner,
		auth:   authenticator,
		store:  store,
		logger: logger,
		keys:   newKeyMap(),
		help:   help.New(),
	}
}

// State returns the current view state.
func (m *Model) State() view.State {
	return m.state
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case loginStartedMsg:
		m.state = view.Reduce(m.state, view.LoginStarted{AuthURL: msg.authURL})
		ctx, authenticator := m.ctx, m.auth
		return m, func() tea.Msg {
			credential, err := authenticator.Wait(ctx)
			return loginDoneMsg{credential: credential, err: err}
		}

	case loginDoneMsg:
		if msg.err != nil {
			m.logger.WithError(msg.err).WithField("component", "tui").Error("Login failed")
			m.state = view.Reduce(m.state, view.LoginFailed{Err: msg.err})
			return m, nil
		}
		if err := m.store.Save(msg.credential); err != nil {
			m.logger.WithError(err).WithField("component", "tui").Warn("Failed to store credential")
		}
		m.state = view.Reduce(m.state, view.CredentialLoaded{Credential: msg.credential})
		return m, nil

	case pipelineDoneMsg:
		m.state = view.Reduce(m.state, view.PipelineFinished{Result: msg.result, Err: msg.err})
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.trigger):
		return m, m.trigger()
	case key.Matches(msg, m.keys.login):
		if m.state.Loading {
			return m, nil
		}
		return m, m.startLogin()
	case key.Matches(msg, m.keys.rangeNext):
		m.state = view.Reduce(m.state, view.TimeRangeChanged{TimeRange: m.state.Selection.TimeRange.Next()})
	case key.Matches(msg, m.keys.rangePrev):
		m.state = view.Reduce(m.state, view.TimeRangeChanged{TimeRange: m.state.Selection.TimeRange.Prev()})
	case key.Matches(msg, m.keys.countUp):
		m.state = view.Reduce(m.state, view.TrackCountChanged{Count: m.state.Selection.Count.Next()})
	case key.Matches(msg, m.keys.countDown):
		m.state = view.Reduce(m.state, view.TrackCountChanged{Count: m.state.Selection.Count.Prev()})
	}
	return m, nil
}

// trigger presses the screen's button unless it is disabled.
func (m *Model) trigger() tea.Cmd {
	screen := view.Render(m.state)
	if screen.Button.Disabled {
		return nil
	}
	if screen.Mode == view.ModeLogin {
		return m.startLogin()
	}
	return m.startCreate()
}

func (m *Model) startLogin() tea.Cmd {
	if err := m.store.Clear(); err != nil {
		m.logger.WithError(err).WithField("component", "tui").Warn("Failed to clear stored credential")
	}
	m.state = view.Reduce(m.state, view.LoginRequested{})

	authenticator := m.auth
	return func() tea.Msg {
		authURL, err := authenticator.Start()
		if err != nil {
			return loginDoneMsg{err: err}
		}
		return loginStartedMsg{authURL: authURL}
	}
}

func (m *Model) startCreate() tea.Cmd {
	m.state = view.Reduce(m.state, view.CreateRequested{})

	ctx, runner := m.ctx, m.runner
	credential, selection := m.state.Credential, m.state.Selection
	return func() tea.Msg {
		result, err := runner.Run(ctx, credential, selection)
		return pipelineDoneMsg{result: result, err: err}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	screen := view.Render(m.state)

	var b strings.Builder
	b.WriteString(styles.title.Render(screen.Title))
	b.WriteString("\n")

	if screen.Error != "" {
		b.WriteString(styles.err.Render(screen.Error))
		b.WriteString("\n\n")
	}
	if screen.Notice != "" {
		b.WriteString(styles.ok.Render(screen.Notice))
		b.WriteString("\n\n")
	}
	if screen.AuthURL != "" {
		b.WriteString("Open this URL in your browser to log in:\n")
		b.WriteString(screen.AuthURL)
		b.WriteString("\n\n")
	}

	keys := m.keys
	keys.action = screen.Mode == view.ModeAction
	if keys.action {
		b.WriteString(renderSelection(screen.Selection))
		b.WriteString("\n\n")
	}

	if screen.Button.Disabled {
		b.WriteString(styles.disabled.Render(screen.Button.Label))
	} else {
		b.WriteString(styles.button.Render(screen.Button.Label))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.help.Render(m.help.View(keys)))

	return b.String()
}

func renderSelection(selection types.Selection) string {
	ranges := make([]string, len(types.TimeRanges))
	for i, r := range types.TimeRanges {
		ranges[i] = option(r.Label(), r == selection.TimeRange)
	}

	counts := make([]string, len(types.TrackCounts))
	for i, c := range types.TrackCounts {
		counts[i] = option(fmt.Sprintf("%d", int(c)), c == selection.Count)
	}

	return fmt.Sprintf("Time range:  %s\nTracks:      %s", strings.Join(ranges, "  "), strings.Join(counts, "  "))
}

func option(label string, selected bool) string {
	if selected {
		return styles.selected.Render("[" + label + "]")
	}
	return " " + label + " "
}
