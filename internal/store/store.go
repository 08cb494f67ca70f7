// Package store exposes typed accessors over the four persisted keys.
package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oukeidos/desksort/internal/kv"
	"github.com/oukeidos/desksort/internal/logger"
	"github.com/oukeidos/desksort/internal/models"
)

const (
	KeyApps         = "apps"
	KeyCategories   = "categories"
	KeyLastScanTime = "lastScanTime"
	KeyShortcuts    = "shortcuts"

	// TimeLayout is ISO-8601 in UTC with millisecond precision.
	TimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Store serializes read-modify-write sequences; the backend only guarantees
// atomicity of a single key write.
type Store struct {
	mu  sync.Mutex
	db  kv.Storage
	now func() time.Time
}

func New(db kv.Storage) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Apps() ([]models.AppInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps()
}

func (s *Store) apps() ([]models.AppInfo, error) {
	apps := []models.AppInfo{}
	if err := s.read(KeyApps, &apps); err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.AppInfo{}
	}
	return apps, nil
}

// SaveApps replaces the app list wholesale and stamps lastScanTime.
func (s *Store) SaveApps(apps []models.AppInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveApps(apps)
}

func (s *Store) saveApps(apps []models.AppInfo) error {
	if apps == nil {
		apps = []models.AppInfo{}
	}
	if err := s.write(KeyApps, apps); err != nil {
		return err
	}
	return s.write(KeyLastScanTime, s.now().UTC().Format(TimeLayout))
}

func (s *Store) Categories() (models.CategoryMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cats models.CategoryMap
	if err := s.read(KeyCategories, &cats); err != nil {
		return nil, err
	}
	if cats == nil {
		cats = models.CategoryMap{}
	}
	return cats, nil
}

func (s *Store) SaveCategories(cats models.CategoryMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(KeyCategories, cats)
}

func (s *Store) Shortcuts() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shortcuts := map[string]string{}
	if err := s.read(KeyShortcuts, &shortcuts); err != nil {
		return nil, err
	}
	if shortcuts == nil {
		shortcuts = map[string]string{}
	}
	return shortcuts, nil
}

func (s *Store) SaveShortcuts(shortcuts map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if shortcuts == nil {
		shortcuts = map[string]string{}
	}
	return s.write(KeyShortcuts, shortcuts)
}

// LastScanTime returns "" until the first SaveApps.
func (s *Store) LastScanTime() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ts string
	if err := s.read(KeyLastScanTime, &ts); err != nil {
		return "", err
	}
	return ts, nil
}

// IncrementAppOpenCount bumps the open count of the app with exactly this
// path. An unknown path is a no-op and reports false.
func (s *Store) IncrementAppOpenCount(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apps, err := s.apps()
	if err != nil {
		return false, err
	}
	i := models.FindByPath(apps, path)
	if i < 0 {
		logger.Debug("open count not incremented, unknown path", "path", path)
		return false, nil
	}
	apps[i].OpenCount++
	return true, s.saveApps(apps)
}

// Reset clears the backend so subsequent reads return defaults. Every key
// in the backend belongs to the store: the file document, or the Redis keys
// under kv.KeyPrefix.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Reset(); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) read(key string, out any) error {
	raw, err := s.db.Get(key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) write(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.db.Set(key, raw, 0); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
