package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// FragmentPath is where the relay page posts the redirect fragment.
const FragmentPath = "/fragment"

// maxFragmentBytes bounds the relayed fragment body.
const maxFragmentBytes = 16 << 10

// ErrAuthTimeout is returned when the browser never comes back.
var ErrAuthTimeout = errors.New("authentication timed out")

// CallbackResult is the outcome of one implicit-grant redirect.
type CallbackResult struct {
	Credential string
	Err        error
}

// CallbackHandler receives the implicit-grant redirect. The token lives in the
// URL fragment, which browsers never send to a server, so the redirect path
// serves a relay page whose script posts location.hash back to FragmentPath.
type CallbackHandler struct {
	callbackPath string
	state        string
	logger       *logrus.Logger

	mu      sync.Mutex
	handled bool
	once    sync.Once
	results chan CallbackResult
}

// NewCallbackHandler returns a handler for callbackPath. When state is not
// empty the relayed fragment must echo it.
func NewCallbackHandler(callbackPath, state string, logger *logrus.Logger) *CallbackHandler {
	return &CallbackHandler{
		callbackPath: callbackPath,
		state:        state,
		logger:       logger,
		results:      make(chan CallbackResult, 1),
	}
}

// ServeHTTP routes between the relay page and the fragment endpoint.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == h.callbackPath && r.Method == http.MethodGet:
		h.serveRelayPage(w)
	case r.URL.Path == FragmentPath && r.Method == http.MethodPost:
		h.receiveFragment(w, r)
	default:
		http.NotFound(w, r)
	}
}

// Result returns the channel that receives exactly one result and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.results
}

func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

func (h *CallbackHandler) serveRelayPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, relayPage); err != nil {
		h.logger.WithError(err).Warn("Failed to write relay page")
	}
}

func (h *CallbackHandler) receiveFragment(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.handled {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusConflict)
		return
	}
	h.handled = true
	h.mu.Unlock()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxFragmentBytes))
	if err != nil {
		h.send(CallbackResult{Err: fmt.Errorf("failed to read fragment: %w", err)})
		http.Error(w, "Failed to read fragment", http.StatusBadRequest)
		return
	}

	credential, err := h.credentialFrom(string(body))
	if err != nil {
		h.logger.WithError(err).Error("Spotify authentication failed")
		h.send(CallbackResult{Err: err})
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("Received Spotify credential via callback")
	h.send(CallbackResult{Credential: credential})
	w.WriteHeader(http.StatusNoContent)
}

// credentialFrom validates a relayed fragment and extracts the access token.
func (h *CallbackHandler) credentialFrom(fragment string) (string, error) {
	values := ParseFragment(fragment)

	if errParam, ok := values.Get("error"); ok {
		return "", fmt.Errorf("spotify authentication error: %s", errParam)
	}

	if h.state != "" {
		if state, _ := values.Get("state"); state != h.state {
			return "", fmt.Errorf("invalid state parameter")
		}
	}

	credential, ok := values.Get("access_token")
	if !ok || credential == "" {
		return "", fmt.Errorf("no access token received")
	}
	return credential, nil
}

// Flow runs the loopback receiver for one login.
type Flow struct {
	Addr    string
	Handler *CallbackHandler
	Timeout time.Duration
	Logger  *logrus.Logger

	server    *http.Server
	serverErr chan error
	bound     net.Addr
}

// Run listens on f.Addr until a credential arrives, the timeout passes or ctx
// is cancelled, then shuts the server down.
func (f *Flow) Run(ctx context.Context) (string, error) {
	if err := f.Start(); err != nil {
		return "", err
	}
	return f.Wait(ctx)
}

// Start binds the listener and begins serving. The browser may be sent to
// the authorize URL once Start returns.
func (f *Flow) Start() error {
	if f.server != nil {
		return fmt.Errorf("authentication server already started")
	}

	listener, err := net.Listen("tcp", f.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.Addr, err)
	}

	f.server = &http.Server{
		Handler:           f.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	f.serverErr = make(chan error, 1)
	f.bound = listener.Addr()

	server, serverErr := f.server, f.serverErr
	go func() {
		f.Logger.WithField("address", listener.Addr().String()).Info("Starting temporary server for OAuth callback")
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	return nil
}

// Wait blocks until the callback delivers a result, the timeout passes or ctx
// is cancelled. The server is always shut down before Wait returns.
func (f *Flow) Wait(ctx context.Context) (string, error) {
	if f.server == nil {
		return "", fmt.Errorf("authentication server not started")
	}

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	defer f.shutdown()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-f.Handler.Result():
		if result.Err != nil {
			return "", fmt.Errorf("authentication failed: %w", result.Err)
		}
		return result.Credential, nil
	case err := <-f.serverErr:
		return "", err
	case <-timer.C:
		return "", fmt.Errorf("%w after %s", ErrAuthTimeout, timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// BoundAddr returns the address the listener is bound to, which differs from
// Addr when Addr asks for port 0. It is empty before Start.
func (f *Flow) BoundAddr() string {
	if f.bound == nil {
		return ""
	}
	return f.bound.String()
}

func (f *Flow) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.server.Shutdown(shutdownCtx); err != nil {
		f.Logger.WithError(err).Warn("Error shutting down authentication server")
	}
	f.server = nil
}

const relayPage = `<!DOCTYPE html>
<html>
<head>
	<title>toptracks</title>
	<style>
		body { font-family: Arial, sans-serif; text-align: center; padding: 50px; }
		.success { color: #1DB954; font-size: 24px; margin-bottom: 20px; }
		.error { color: #dc3545; font-size: 24px; margin-bottom: 20px; }
		.message { color: #6c757d; font-size: 16px; }
	</style>
</head>
<body>
	<div id="status" class="message">Completing login...</div>
	<script>
		const fragment = window.location.hash.substring(1);
		history.replaceState(null, "", window.location.pathname);
		const status = document.getElementById("status");
		fetch("` + FragmentPath + `", { method: "POST", body: fragment })
			.then(function (resp) {
				if (resp.ok) {
					status.className = "success";
					status.textContent = "Authentication Successful! You can now close this window and return to the terminal.";
				} else {
					return resp.text().then(function (text) {
						status.className = "error";
						status.textContent = "Authentication failed: " + text;
					});
				}
			})
			.catch(function (err) {
				status.className = "error";
				status.textContent = "Authentication failed: " + err;
			});
	</script>
</body>
</html>
`
