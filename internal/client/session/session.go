// Package session keeps the signed-in heartctl user between invocations as
// a small JSON file readable only by its owner.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotLoggedIn is returned by Load when no session has been saved.
var ErrNotLoggedIn = errors.New("not logged in, run \"heartctl login\" first")

// Session is what gets written to disk.
type Session struct {
	Server       string `json:"server"`
	Email        string `json:"email,omitempty"`
	UserID       string `json:"userId,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// FileStore stores one Session at path.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads the session. A missing file or one without tokens yields
// ErrNotLoggedIn.
func (s *FileStore) Load() (*Session, error) {
	if s.path == "" {
		return nil, ErrNotLoggedIn
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", s.path, err)
	}
	if sess.AccessToken == "" && sess.RefreshToken == "" {
		return nil, ErrNotLoggedIn
	}
	return &sess, nil
}

// Save replaces the stored session. The file is written next to the target
// and renamed over it so a crash never leaves half a session behind.
func (s *FileStore) Save(sess *Session) error {
	if s.path == "" {
		return errors.New("session file is not configured")
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Clear removes the stored session. Clearing twice is not an error.
func (s *FileStore) Clear() error {
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
