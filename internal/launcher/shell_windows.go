//go:build windows

package launcher

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var shellExecute = windows.ShellExecute

// platformOpen passes path straight to ShellExecute with the default verb,
// so cmd.exe never parses it.
func platformOpen(path string) error {
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	return shellExecute(0, nil, file, nil, nil, windows.SW_SHOWNORMAL)
}
