package spotify

import (
	"io"
	"net/http"
)

// credentialGuard turns 401 and 403 responses into ErrUnauthorized before the
// API library sees them, so a rejected credential is recognised whatever the
// response body looks like.
type credentialGuard struct {
	base http.RoundTripper
}

func (g *credentialGuard) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := g.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &unauthorizedError{Status: resp.StatusCode}
	}

	return resp, nil
}
