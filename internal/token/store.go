// Package token keeps the session credential between commands.
//
// The credential is an opaque bearer string. It has no expiry tracking; callers
// clear it when Spotify rejects it or the user logs in again.
package token

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// record is the on-disk representation of the session credential.
type record struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	SavedAt     time.Time `json:"saved_at"`
}

// FileStore persists the credential in a single file readable only by the owner.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *logrus.Logger
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string, logger *logrus.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the credential, replacing any previous one.
func (s *FileStore) Save(credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(record{
		AccessToken: credential,
		TokenType:   "Bearer",
		SavedAt:     time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	// Write to a fresh temporary file first, then rename for atomic operation.
	// CreateTemp opens with O_EXCL and mode 0600, so a planted file or symlink
	// is never written through.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary token file: %w", err)
	}
	tempFile := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to write token file: %w", err)
	}

	if err := os.Rename(tempFile, s.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename token file: %w", err)
	}

	s.logger.WithField("token_file", s.path).Debug("Saved session credential")
	return nil
}

// Load returns the stored credential. A missing, unreadable or corrupt file
// loads as absent.
func (s *FileStore) Load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).Debug("Failed to read token file")
		}
		return "", false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.WithError(err).Debug("Failed to parse token file")
		return "", false
	}

	if rec.AccessToken == "" {
		return "", false
	}
	return rec.AccessToken, true
}

// Clear removes the stored credential. Clearing an empty store is a no-op.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}

	s.logger.WithField("token_file", s.path).Debug("Cleared session credential")
	return nil
}

// MemoryStore keeps the credential in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	credential string
	present    bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(credential string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = credential
	m.present = credential != ""
	return nil
}

func (m *MemoryStore) Load() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.credential, m.present
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = ""
	m.present = false
	return nil
}
