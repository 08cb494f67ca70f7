// Package classifier asks a chat completion endpoint to bucket app names
// into categories. It never fails: every error degrades to a single
// Uncategorized bucket holding all input names.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/oukeidos/desksort/internal/apperrors"
	"github.com/oukeidos/desksort/internal/files"
	"github.com/oukeidos/desksort/internal/logger"
	"github.com/oukeidos/desksort/internal/models"
	"github.com/oukeidos/desksort/internal/openai"
)

// Temperature keeps answers stable across rounds.
const Temperature = 0.3

// emptyAnswer stands in for a response without content.
const emptyAnswer = `{"categories":{}}`

// ChatCompleter is the single upstream call the classifier needs.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, req openai.ChatRequest) (*openai.ChatResponse, error)
}

type Options struct {
	// Categories offered to the model; DefaultCategories when empty.
	Categories []string
	// DebugDumpPath receives the last successful result. Empty disables the dump.
	DebugDumpPath string
}

type Classifier struct {
	chat       ChatCompleter
	categories []string
	dumpPath   string
	inProgress atomic.Bool
}

func New(chat ChatCompleter, opts Options) *Classifier {
	cats := opts.Categories
	if len(cats) == 0 {
		cats = DefaultCategories
	}
	return &Classifier{
		chat:       chat,
		categories: append([]string(nil), cats...),
		dumpPath:   opts.DebugDumpPath,
	}
}

// InProgress reports whether a Classify call is outstanding.
func (c *Classifier) InProgress() bool {
	return c.inProgress.Load()
}

type answer struct {
	Categories models.CategoryMap `json:"categories"`
}

func (c *Classifier) Classify(ctx context.Context, names []string) models.ClassificationResult {
	c.inProgress.Store(true)
	defer c.inProgress.Store(false)

	resp, err := c.chat.ChatCompletion(ctx, openai.ChatRequest{
		Messages:    BuildMessages(names, c.categories),
		Temperature: Temperature,
	})
	if err != nil {
		kind, _ := apperrors.KindOf(err)
		logger.Error("classification request failed, using fallback", "kind", kind, "error", apperrors.PublicMessage(err), "apps", len(names))
		return models.FallbackResult(names)
	}

	content := resp.FirstContent()
	if content == "" {
		content = emptyAnswer
	}
	text := ExtractJSON(content)
	logger.Debug("classification answer extracted", "request_id", resp.RequestID, "bytes", len(text))

	var parsed answer
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		logger.Error("classification answer is not valid JSON, using fallback", "request_id", resp.RequestID, "error", err)
		return models.FallbackResult(names)
	}
	if parsed.Categories == nil {
		parsed.Categories = models.CategoryMap{}
	}

	c.dump(parsed)
	logger.Info("classification finished", "request_id", resp.RequestID, "apps", len(names), "categories", len(parsed.Categories))
	return models.ClassificationResult{Categories: parsed.Categories}
}

func (c *Classifier) dump(a answer) {
	if c.dumpPath == "" {
		return
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err == nil {
		err = files.AtomicWrite(c.dumpPath, data, 0644)
	}
	if err != nil {
		logger.Warn("failed to write classification dump", "path", c.dumpPath, "error", fmt.Errorf("dump: %w", err))
	}
}
