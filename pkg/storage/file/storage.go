package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fadedpez/affectlab/pkg/storage"
)

// Storage implements storage.Store as a single JSON document on disk,
// shaped {userID: {key: value}}
type Storage struct {
	path string
	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage
}

// New creates a new file storage instance
func New(options *storage.Options) (*Storage, error) {
	if options == nil {
		options = storage.NewOptions()
	}

	s := &Storage{
		path: options.Path,
		data: make(map[string]map[string]json.RawMessage),
	}

	// Load existing data from file
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	return s, nil
}

// Get loads a value
func (s *Storage) Get(ctx context.Context, userID, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[userID][key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set saves or replaces a value
func (s *Storage) Set(ctx context.Context, userID, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %s/%s is not valid JSON", userID, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(userID, key, value)
	return s.save()
}

// Delete removes a value
func (s *Storage) Delete(ctx context.Context, userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.data[userID]
	if !ok {
		return nil
	}
	if _, ok := user[key]; !ok {
		return nil
	}
	delete(user, key)
	if len(user) == 0 {
		delete(s.data, userID)
	}
	return s.save()
}

// Update applies fn while holding the write lock
func (s *Storage) Update(ctx context.Context, userID, key string, fn storage.UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []byte
	if value, ok := s.data[userID][key]; ok {
		current = make([]byte, len(value))
		copy(current, value)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if !json.Valid(next) {
		return fmt.Errorf("value for %s/%s is not valid JSON", userID, key)
	}

	s.put(userID, key, next)
	return s.save()
}

// Close is a no-op; every write is flushed immediately
func (s *Storage) Close() error {
	return nil
}

// Helper functions

func (s *Storage) put(userID, key string, value []byte) {
	user := s.data[userID]
	if user == nil {
		user = make(map[string]json.RawMessage)
		s.data[userID] = user
	}
	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	user[key] = stored
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.data); err != nil {
		return err
	}
	// A stored null document decodes to a nil map
	if s.data == nil {
		s.data = make(map[string]map[string]json.RawMessage)
	}
	return nil
}

func (s *Storage) save() error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Marshal and save
	data, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	// Replace atomically via a temp file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}
