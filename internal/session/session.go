// Package session holds the authenticated principal for the lifetime of a
// portal run and persists it across restarts, so the user is not asked to
// log in again. Written only by login/signup/logout.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/autana/helpdesk/internal/model"
)

const fileName = "session.json"

type Store struct {
	mu   sync.RWMutex
	path string
	user *model.User
}

// DefaultPath returns the session file path under the user's config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "helpdesk", fileName), nil
}

// Open restores the persisted session if one exists. A missing file is a
// logged-out store, not an error.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		// Поврежденный файл сессии — просто начинаем разлогиненными.
		return s, nil
	}
	if u.ID != "" {
		s.user = &u
	}
	return s, nil
}

// SetUser records the principal after login/signup and persists it.
func (s *Store) SetUser(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear logs out: drops the in-memory principal and removes the file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Current returns a copy of the logged-in user, or nil.
func (s *Store) Current() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) LoggedIn() bool {
	return s.Current() != nil
}

func (s *Store) IsAdmin() bool {
	u := s.Current()
	return u != nil && u.Role == model.RoleAdmin
}
