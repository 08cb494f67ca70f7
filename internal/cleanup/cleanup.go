// Package cleanup collects shutdown hooks (closing the KV backend, flushing
// the log file) that must run before the process exits.
package cleanup

import (
	"errors"
	"fmt"
	"sync"
)

type stack struct {
	mu    sync.Mutex
	hooks []func() error
}

var exitHooks stack

// Register queues hook; hooks run last-registered first.
func Register(hook func() error) {
	if hook == nil {
		return
	}
	exitHooks.mu.Lock()
	defer exitHooks.mu.Unlock()
	exitHooks.hooks = append(exitHooks.hooks, hook)
}

// RunAll drains the queue. Every hook runs even when an earlier one fails.
func RunAll() error {
	exitHooks.mu.Lock()
	hooks := exitHooks.hooks
	exitHooks.hooks = nil
	exitHooks.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		errs = append(errs, hooks[i]())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	return nil
}
