package kv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/oukeidos/desksort/internal/files"
)

// FileStorage keeps every key in one JSON object on disk, each value being
// raw JSON. Each mutation rewrites the whole document atomically.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	data   map[string]json.RawMessage
	closed bool
}

// OpenFile loads path if it exists. A missing file starts empty and is only
// created on the first write.
func OpenFile(path string) (*FileStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	s := &FileStorage{path: path, data: map[string]json.RawMessage{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read store %s: %w", path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", path, err)
	}
	if s.data == nil {
		s.data = map[string]json.RawMessage{}
	}
	return s, nil
}

func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errClosed
	}
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

// Set stores val, which must be valid JSON. exp is ignored; desktop state
// never expires.
func (s *FileStorage) Set(key string, val []byte, _ time.Duration) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	if !json.Valid(val) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	prev, had := s.data[key]
	s.data[key] = bytes.Clone(val)
	if err := s.flush(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

func (s *FileStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	prev, had := s.data[key]
	if !had {
		return nil
	}
	delete(s.data, key)
	if err := s.flush(); err != nil {
		s.data[key] = prev
		return err
	}
	return nil
}

// Reset empties the document.
func (s *FileStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	prev := s.data
	s.data = map[string]json.RawMessage{}
	if err := s.flush(); err != nil {
		s.data = prev
		return err
	}
	return nil
}

func (s *FileStorage) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *FileStorage) flush() error {
	doc, err := json.MarshalIndent(s.data, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := files.AtomicWrite(s.path, doc, 0600); err != nil {
		return fmt.Errorf("failed to write store %s: %w", s.path, err)
	}
	return nil
}

var errClosed = errors.New("storage is closed")
