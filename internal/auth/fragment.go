package auth

import (
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/toozej/toptracks/internal/types"
)

// Values holds the key/value pairs of a URL fragment. A key that appeared
// without "=" (or whose value could not be decoded) maps to nil.
type Values map[string]*string

// Get returns the decoded value for key. Keys mapped to nil report false.
func (v Values) Get(key string) (string, bool) {
	value, ok := v[key]
	if !ok || value == nil {
		return "", false
	}
	return *value, true
}

// Has reports whether key appeared in the fragment at all.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// ParseFragment splits a fragment such as "access_token=abc&token_type=Bearer"
// into Values. A leading '#' is ignored, empty items are skipped, and each
// item is split on its first '='. It never fails.
func ParseFragment(fragment string) Values {
	fragment = strings.TrimPrefix(fragment, "#")
	values := make(Values)

	for _, item := range strings.Split(fragment, "&") {
		if item == "" {
			continue
		}

		key, raw, found := strings.Cut(item, "=")
		if !found {
			values[key] = nil
			continue
		}

		decoded, err := url.PathUnescape(raw)
		if err != nil {
			values[key] = nil
			continue
		}
		values[key] = &decoded
	}

	return values
}

// FragmentOf returns the fragment of a full redirect URL, or the input itself
// when it has no '#'. Users may paste either form.
func FragmentOf(s string) string {
	if _, fragment, found := strings.Cut(s, "#"); found {
		return fragment
	}
	return s
}

// ResolveCredential decides which credential the session starts with. A fresh
// access_token in the fragment wins and is persisted; otherwise the stored
// credential, if any, is rehydrated.
func ResolveCredential(fragment string, store types.CredentialStore, logger *logrus.Logger) (string, bool) {
	if credential, ok := ParseFragment(fragment).Get("access_token"); ok && credential != "" {
		if err := store.Save(credential); err != nil {
			logger.WithError(err).Warn("Failed to persist session credential, it will only last for this run")
		} else {
			logger.Debug("Stored credential delivered by the authorize redirect")
		}
		return credential, true
	}

	credential, ok := store.Load()
	if ok {
		logger.Debug("Rehydrated credential from the session store")
	}
	return credential, ok
}
