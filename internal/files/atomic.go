// Package files writes the store document and the classification dump
// without leaving torn files behind.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/oukeidos/desksort/internal/logger"
)

const tempPattern = "desksort-*.tmp"

// AtomicWrite replaces path with data. The bytes go to a synced temp file in
// the same directory which is then renamed over path, so a reader sees the
// old document or the new one. Missing directories are created with 0700.
func AtomicWrite(path string, data []byte, perms os.FileMode) error {
	if err := RejectSymlinkPath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath, err := writeTemp(dir, data, perms)
	if err != nil {
		return err
	}
	if err := renameAtomic(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(path), err)
	}
	if err := syncDir(dir); err != nil {
		logger.Debug("directory fsync failed", "path", dir, "error", err)
	}
	return nil
}

// writeTemp returns the name of a fully written and synced temp file in dir.
// The file is removed again on any error.
func writeTemp(dir string, data []byte, perms os.FileMode) (name string, err error) {
	f, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name = f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(name)
		}
	}()

	if err := f.Chmod(perms); err != nil {
		return "", fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return name, nil
}

func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
