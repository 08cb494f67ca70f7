// Package launcher opens a file with the operating system's default handler.
package launcher

import (
	"fmt"
	"strings"
)

// Launcher starts path without waiting for the launched program.
type Launcher interface {
	Open(path string) error
}

// OS hands the path to the platform opener: ShellExecute on Windows, open on
// macOS, xdg-open elsewhere. No shell sits between the path and the opener.
type OS struct {
	// open is platformOpen; replaced in tests.
	open func(path string) error
}

func New() *OS {
	return &OS{open: platformOpen}
}

func (l *OS) Open(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}
	open := l.open
	if open == nil {
		open = platformOpen
	}
	if err := open(path); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}
