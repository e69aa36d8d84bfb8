// Package session persists the client's proof of authentication: the opaque
// bearer token and the role names granted at login. The store is the single
// owner of that state; it is written only by login, logout and the forced
// logout after a password change.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Role names used by the platform.
const (
	RolePatient = "PATIENT"
	RoleDoctor  = "DOCTOR"
)

// data is the on-disk shape of a session. Token and roles are always
// written together so a reload can never observe one without the other.
type data struct {
	Token string   `json:"token"`
	Roles []string `json:"roles"`
}

// Store is a file-backed session store. The zero value is not usable;
// construct one with NewStore. All methods are safe for concurrent use.
type Store struct {
	path string

	mu      sync.Mutex
	current data
}

// NewStore returns a store persisting to the given file path. The file is
// not read until Load is called, so a fresh store is unauthenticated.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads a previously persisted session from disk. A missing file is
// not an error: the store simply stays unauthenticated.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.current = data{}
			return nil
		}
		return err
	}
	var d data
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	s.current = d
	return nil
}

// Save stores the token and roles, overwriting any prior session. The token
// is treated as an opaque string. The file is written to a temp path and
// renamed so a crash mid-write cannot leave a half-updated session.
func (s *Store) Save(token string, roles []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := data{Token: token, Roles: append([]string(nil), roles...)}
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	s.current = d
	return nil
}

// Clear removes the persisted session. Clearing an already-empty session is
// a no-op success.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	s.current = data{}
	return nil
}

// Token returns the stored bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Token
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// HasRole reports whether the given role name is part of the stored session.
// It returns false, not an error, when no session exists.
func (s *Store) HasRole(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.current.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// IsPatient reports whether the session carries the PATIENT role.
func (s *Store) IsPatient() bool { return s.HasRole(RolePatient) }

// IsDoctor reports whether the session carries the DOCTOR role.
func (s *Store) IsDoctor() bool { return s.HasRole(RoleDoctor) }
