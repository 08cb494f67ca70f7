//go:build !windows

package launcher

import "os/exec"

var startCommand = startDetached

func platformOpen(path string) error {
	name, args := openCommand(path)
	return startCommand(exec.Command(name, args...))
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap in the background; the opener exits as soon as it hands off.
	go func() { _ = cmd.Wait() }()
	return nil
}
