package main

import (
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/oukeidos/desksort/internal/logger"
	"github.com/oukeidos/desksort/internal/scanner"
)

// decodeDataURI turns a base64 data URI (as stored in AppInfo.IconPath) into
// a static resource. Only SVG and PNG payloads are accepted.
func decodeDataURI(name, uri string) (fyne.Resource, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("not a base64 data URI")
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	var ext string
	switch mime {
	case "image/svg+xml":
		ext = ".svg"
	case "image/png":
		ext = ".png"
	default:
		return nil, fmt.Errorf("unsupported icon type %q", mime)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode icon: %w", err)
	}
	return fyne.NewStaticResource(name+ext, data), nil
}

type iconCache struct {
	mu    sync.Mutex
	icons map[string]fyne.Resource
}

// get returns the decoded icon, falling back to the theme's file icon.
func (c *iconCache) get(uri string) fyne.Resource {
	c.mu.Lock()
	defer c.mu.Unlock()
	if res, ok := c.icons[uri]; ok {
		return res
	}
	if c.icons == nil {
		c.icons = make(map[string]fyne.Resource)
	}
	res, err := decodeDataURI(fmt.Sprintf("app-icon-%d", len(c.icons)), uri)
	if err != nil {
		logger.Debug("falling back to the default app icon", "error", err)
		res = theme.FileApplicationIcon()
	}
	c.icons[uri] = res
	return res
}

func appIcon() fyne.Resource {
	res, err := decodeDataURI("icon", scanner.LnkIcon)
	if err != nil {
		return theme.FileApplicationIcon()
	}
	return res
}
