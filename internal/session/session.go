// Package session persists the bearer token, the cached user profile and the most recent upload result between runs.
//
// Three keys are stored: [KeyAuthToken], [KeyUserData] and [KeyUploadResult].
// The token and profile are always written and cleared together.
package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
)

// Storage keys of the persisted session document.
const (
	KeyAuthToken    = "auth_token"
	KeyUserData     = "user_data"
	KeyUploadResult = "uploadResult"
)

// Store is the client-side session: credential, cached profile and last upload result.
//
// Getters return the zero value when a key is absent or unreadable.
type Store interface {
	Save(token string, profile models.UserProfile) error                // Save writes token and profile together
	Token() string                                                      // Token returns the bearer token or ""
	Profile() *models.UserProfile                                       // Profile returns the cached profile or nil
	SaveProfile(profile models.UserProfile) error                       // SaveProfile replaces the cached profile
	SaveProfileIf(gen uint64, profile models.UserProfile) (bool, error) // SaveProfileIf replaces the profile only if gen is current
	Clear() error                                                       // Clear removes token and profile; idempotent
	SaveLastResult(raw []byte) error                                    // SaveLastResult stores the latest upload payload
	LastResult() []byte                                                 // LastResult returns the stored payload or nil
	Authenticated() bool                                                // Authenticated reports whether both token and profile are present
	Generation() uint64                                                 // Generation increases on every Save and Clear
}

// document is the on-disk and in-memory representation of a session.
type document struct {
	AuthToken    string          `json:"auth_token,omitempty"`
	UserData     json.RawMessage `json:"user_data,omitempty"`
	// UploadResult keeps the payload as a string so it reads back byte for byte.
	UploadResult string `json:"uploadResult,omitempty"`
}

func (d *document) setLastResult(raw []byte) error {
	if !json.Valid(raw) {
		return fmt.Errorf("%w: upload result is not valid JSON", shared.ErrInvalidInput)
	}
	d.UploadResult = string(raw)
	return nil
}

func (d *document) lastResult() []byte {
	if d.UploadResult == "" {
		return nil
	}
	return []byte(d.UploadResult)
}

func (d *document) profile() *models.UserProfile {
	if len(d.UserData) == 0 {
		return nil
	}
	var p models.UserProfile
	if err := json.Unmarshal(d.UserData, &p); err != nil {
		return nil
	}
	return &p
}

func (d *document) setProfile(p models.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	d.UserData = data
	return nil
}

// MemoryStore is an in-memory [Store].
type MemoryStore struct {
	mu  sync.RWMutex
	doc document
	gen uint64
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(token string, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.doc.setProfile(profile); err != nil {
		return err
	}
	s.doc.AuthToken = token
	s.gen++
	return nil
}

func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.AuthToken
}

func (s *MemoryStore) Profile() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.profile()
}

func (s *MemoryStore) SaveProfile(profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.setProfile(profile)
}

// SaveProfileIf writes profile only when no Save or Clear happened since gen was read.
func (s *MemoryStore) SaveProfileIf(gen uint64, profile models.UserProfile) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return false, nil
	}
	if err := s.doc.setProfile(profile); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.AuthToken = ""
	s.doc.UserData = nil
	s.gen++
	return nil
}

func (s *MemoryStore) SaveLastResult(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.setLastResult(raw)
}

func (s *MemoryStore) LastResult() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.lastResult()
}

func (s *MemoryStore) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.AuthToken != "" && s.doc.profile() != nil
}

func (s *MemoryStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}
