// Package ipc carries named requests from a front end to the backend.
// Payloads and results always cross as JSON, whether the router is called
// in-process or through the HTTP transport.
package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/oukeidos/desksort/internal/apperrors"
	"github.com/oukeidos/desksort/internal/metrics"
)

// ErrUnknownChannel is returned for a channel with no registered handler.
var ErrUnknownChannel = errors.New("unknown channel")

// Handler answers an invoke channel. payload is nil when the caller sent none.
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

// SendHandler consumes a fire-and-forget channel.
type SendHandler func(payload json.RawMessage)

// Invoker is what a front end talks to. Router and Client both implement it.
type Invoker interface {
	// Invoke calls channel and decodes its result into out (which may be nil).
	Invoke(ctx context.Context, channel string, payload, out any) error
	// Send delivers a notification without waiting for any result.
	Send(channel string, payload any) error
}

type Router struct {
	mu      sync.RWMutex
	invoke  map[string]Handler
	send    map[string]SendHandler
	metrics *metrics.Metrics
}

// NewRouter returns an empty router. m may be nil.
func NewRouter(m *metrics.Metrics) *Router {
	return &Router{
		invoke:  map[string]Handler{},
		send:    map[string]SendHandler{},
		metrics: m,
	}
}

// Handle registers an invoke channel, replacing any previous handler.
func (r *Router) Handle(channel string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoke[channel] = h
}

// On registers a send channel, replacing any previous handler.
func (r *Router) On(channel string, h SendHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.send[channel] = h
}

// IsSend reports whether channel is a registered fire-and-forget channel.
func (r *Router) IsSend(channel string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.send[channel]
	return ok
}

// Channels lists every registered channel name, sorted.
func (r *Router) Channels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.invoke)+len(r.send))
	for name := range r.invoke {
		out = append(out, name)
	}
	for name := range r.send {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dispatch runs an invoke channel on raw JSON and returns the JSON result.
func (r *Router) Dispatch(ctx context.Context, channel string, payload json.RawMessage) (json.RawMessage, error) {
	r.mu.RLock()
	h, ok := r.invoke[channel]
	r.mu.RUnlock()
	if !ok {
		r.metrics.ObserveIPC("unknown", "error")
		return nil, fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}

	result, err := h(ctx, normalize(payload))
	if err != nil {
		r.metrics.ObserveIPC(channel, "error")
		return nil, err
	}
	data, err := json.Marshal(result)
	if err != nil {
		r.metrics.ObserveIPC(channel, "error")
		return nil, fmt.Errorf("encode %s result: %w", channel, err)
	}
	r.metrics.ObserveIPC(channel, "ok")
	return data, nil
}

// Notify runs a send channel on raw JSON.
func (r *Router) Notify(channel string, payload json.RawMessage) error {
	r.mu.RLock()
	h, ok := r.send[channel]
	r.mu.RUnlock()
	if !ok {
		r.metrics.ObserveIPC("unknown", "error")
		return fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}
	h(normalize(payload))
	r.metrics.ObserveIPC(channel, "ok")
	return nil
}

func (r *Router) Invoke(ctx context.Context, channel string, payload, out any) error {
	raw, err := encodePayload(payload)
	if err != nil {
		return err
	}
	result, err := r.Dispatch(ctx, channel, raw)
	if err != nil {
		return err
	}
	return decodeResult(channel, result, out)
}

func (r *Router) Send(channel string, payload any) error {
	raw, err := encodePayload(payload)
	if err != nil {
		return err
	}
	return r.Notify(channel, raw)
}

// Decode unmarshals a handler payload, mapping failures to a validation error.
func Decode(payload json.RawMessage, v any) error {
	if payload == nil {
		return apperrors.New(apperrors.KindValidation, "Payload is required.", nil)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return apperrors.New(apperrors.KindValidation, "Invalid payload.", err)
	}
	return nil
}

func normalize(payload json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return trimmed
}

func encodePayload(payload any) (json.RawMessage, error) {
	if payload == nil {
		return nil, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, "Invalid payload.", err)
	}
	return raw, nil
}

func decodeResult(channel string, data json.RawMessage, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s result: %w", channel, err)
	}
	return nil
}

var (
	_ Invoker = (*Router)(nil)
	_ Invoker = (*Client)(nil)
)
