package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jobportal/jobportal-go/internal/model"
)

// ErrNoSession is returned by a SessionStore that holds no session.
var ErrNoSession = errors.New("not logged in")

// Session is what a client remembers between calls: the bearer token and
// the user it was issued to.
type Session struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

// SessionStore persists the current session.
type SessionStore interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// MemoryStore keeps the session for the life of the process.
type MemoryStore struct {
	mu      sync.Mutex
	session *Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the session, or ErrNoSession.
func (m *MemoryStore) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return Session{}, ErrNoSession
	}
	return *m.session, nil
}

// Save replaces the session.
func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	m.session = &s
	m.mu.Unlock()
	return nil
}

// Clear forgets the session.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}

// FileStore keeps the session in a JSON file readable only by its owner.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultSessionPath returns $PORTAL_SESSION, or session.json under the
// user's config directory.
func DefaultSessionPath() (string, error) {
	if p := os.Getenv("PORTAL_SESSION"); p != "" {
		return p, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "jobportal", "session.json"), nil
}

// Path returns the session file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the session file. A missing file is ErrNoSession.
func (f *FileStore) Load() (Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if s.Token == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Save writes the session atomically with mode 0600.
func (f *FileStore) Save(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("save session file: %w", err)
	}
	return nil
}

// Clear removes the session file.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
