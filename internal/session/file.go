package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
)

// FileStore is a [Store] backed by a JSON document on disk.
//
// Every read loads the file so that separate invocations of the CLI observe each other's writes.
// A FileStore with an empty path never touches the filesystem: writes succeed without effect
// and reads report an empty session.
type FileStore struct {
	path   string
	logger *log.Logger

	mu  sync.Mutex
	gen uint64
}

// NewFileStore creates a [FileStore] at path. A "~/" prefix is expanded to the home directory.
func NewFileStore(path string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &FileStore{path: shared.ExpandHome(path), logger: logger}
}

// Path returns the resolved session file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() document {
	var doc document
	if s.path == "" {
		return doc
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("failed to read session", "path", s.path, "error", err)
		}
		return doc
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("ignoring unreadable session file", "path", s.path, "error", err)
		return document{}
	}
	return doc
}

func (s *FileStore) store(doc document) error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := shared.WriteFileAtomic(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *FileStore) Save(token string, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if err := doc.setProfile(profile); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	doc.AuthToken = token
	s.gen++
	return s.store(doc)
}

func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().AuthToken
}

func (s *FileStore) Profile() *models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	return doc.profile()
}

func (s *FileStore) SaveProfile(profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if err := doc.setProfile(profile); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return s.store(doc)
}

// SaveProfileIf writes profile only when no Save or Clear happened since gen was read.
func (s *FileStore) SaveProfileIf(gen uint64, profile models.UserProfile) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return false, nil
	}

	doc := s.load()
	if err := doc.setProfile(profile); err != nil {
		return false, fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.store(doc); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	doc := s.load()
	if doc.AuthToken == "" && len(doc.UserData) == 0 {
		return nil
	}
	doc.AuthToken = ""
	doc.UserData = nil
	return s.store(doc)
}

func (s *FileStore) SaveLastResult(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if err := doc.setLastResult(raw); err != nil {
		return err
	}
	return s.store(doc)
}

func (s *FileStore) LastResult() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	return doc.lastResult()
}

func (s *FileStore) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	return doc.AuthToken != "" && doc.profile() != nil
}

func (s *FileStore) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}
