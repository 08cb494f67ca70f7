// Package version carries build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/oukeidos/desksort/internal/version.Version=0.2.0 \
//	  -X github.com/oukeidos/desksort/internal/version.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/oukeidos/desksort/internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "fmt"

var (
	Version   = "0.1.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info is the --version output.
func Info() string {
	return fmt.Sprintf("desksort %s\ncommit: %s\nbuild: %s", Version, Commit, BuildDate)
}

// UserAgent identifies classification requests.
func UserAgent() string {
	return "desksort/" + Version
}
