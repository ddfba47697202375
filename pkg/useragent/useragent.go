// Package useragent builds the User-Agent header sent with API requests.
//
// Every request to the Spotify Web API identifies the tool and build that
// issued it, which makes provider-side request logs easier to correlate with
// a given release.
package useragent

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// String returns a product token of the form "product/version (goos; goarch)".
//
// An empty version is reported as "dev" so the header always carries a token.
//
// Example:
//
//	ua := useragent.String("toptracks", "v1.2.0")
//	// Returns: "toptracks/v1.2.0 (linux; amd64)"
func String(product, version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("%s/%s (%s; %s)", product, version, runtime.GOOS, runtime.GOARCH)
}

// Transport sets the User-Agent header on every outgoing request.
type Transport struct {
	Base      http.RoundTripper
	UserAgent string
}

// NewTransport wraps base so requests carry userAgent. A nil base uses
// http.DefaultTransport.
func NewTransport(base http.RoundTripper, userAgent string) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, UserAgent: userAgent}
}

// RoundTrip implements http.RoundTripper. The caller's request is cloned,
// never mutated.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.UserAgent)
	return t.Base.RoundTrip(clone)
}
