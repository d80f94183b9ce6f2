package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/campus-core/portal-client/internal/models"
)

// Snapshot is the durable copy of the session surviving a restart: the
// bearer token verbatim plus the serialized user record. Both entries
// live in one document so they are always written and erased together.
// The snapshot is best-effort and untrusted: it is re-validated against
// the server before any authorization decision relies on it.
type Snapshot struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// Store persists the snapshot to a JSON file (default
// ~/.config/campus-portal/session.json). Writes go through a temp file
// and rename so a concurrent reader never observes a half-written
// token/user pair.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the snapshot. A missing file returns (nil, nil). A snapshot
// that cannot be parsed, or that holds a token without a user (or vice
// versa), returns an error; callers treat that as absent and clear it.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session snapshot %s: %w", s.path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing session snapshot %s: %w", s.path, err)
	}
	if snap.AccessToken == "" || snap.User == nil {
		return nil, fmt.Errorf("session snapshot %s is incomplete", s.path)
	}
	return &snap, nil
}

// Save writes the snapshot atomically. The parent directory is created
// with mode 0700 and the file with 0600 since it contains a credential.
func (s *Store) Save(snap *Snapshot) error {
	if snap == nil || snap.AccessToken == "" || snap.User == nil {
		return fmt.Errorf("refusing to persist incomplete session snapshot")
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("creating temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("setting snapshot permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing session snapshot %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the snapshot. Removing an already-absent snapshot is not
// an error, which makes Clear idempotent.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session snapshot %s: %w", s.path, err)
	}
	return nil
}
