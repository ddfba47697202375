package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toozej/toptracks/pkg/config"
)

func newTestLogin() *Login {
	return &Login{
		ClientID:     "client-123",
		RedirectURI:  "http://127.0.0.1:8080/callback",
		CallbackPath: "/callback",
		Addr:         "127.0.0.1:0",
		ShowDialog:   true,
		Timeout:      5 * time.Second,
		Logger:       newTestLogger(),
	}
}

func TestNewLogin(t *testing.T) {
	conf := config.Config{
		Spotify: config.SpotifyConfig{
			ClientID:    "abc",
			RedirectURL: "http://127.0.0.1:9090/cb",
			ShowDialog:  true,
		},
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 9090},
	}

	l := NewLogin(conf, newTestLogger())
	assert.Equal(t, "abc", l.ClientID)
	assert.Equal(t, "http://127.0.0.1:9090/cb", l.RedirectURI)
	assert.Equal(t, "/cb", l.CallbackPath)
	assert.Equal(t, "127.0.0.1:9090", l.Addr)
	assert.True(t, l.ShowDialog)
	assert.Equal(t, 5*time.Minute, l.Timeout)
}

func TestLogin_MissingClientID(t *testing.T) {
	l := newTestLogin()
	l.ClientID = ""

	_, err := l.Start()
	assert.ErrorIs(t, err, config.ErrMissingSpotifyClientID)
}

func TestLogin_StartWait(t *testing.T) {
	l := newTestLogin()

	authURL, err := l.Start()
	require.NoError(t, err)

	_, err = l.Start()
	assert.Error(t, err, "a second login must not start while one is running")

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "token", q.Get("response_type"))
	assert.Equal(t, "true", q.Get("show_dialog"))
	state := q.Get("state")
	require.NotEmpty(t, state)

	body := "access_token=browser-token&token_type=Bearer&state=" + state
	resp, err := http.Post("http://"+l.BoundAddr()+FragmentPath, "text/plain", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	credential, err := l.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "browser-token", credential)
	assert.Empty(t, l.BoundAddr())
}

func TestLogin_RejectsForeignState(t *testing.T) {
	l := newTestLogin()

	_, err := l.Start()
	require.NoError(t, err)

	resp, err := http.Post("http://"+l.BoundAddr()+FragmentPath, "text/plain", strings.NewReader("access_token=x&state=forged"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, err = l.Wait(context.Background())
	assert.Error(t, err)
}

func TestLogin_WaitWithoutStart(t *testing.T) {
	_, err := newTestLogin().Wait(context.Background())
	assert.Error(t, err)
}
