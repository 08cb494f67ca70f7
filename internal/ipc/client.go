package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oukeidos/desksort/internal/apperrors"
	"github.com/oukeidos/desksort/internal/httpclient"
)

// envelope is the body of every /ipc response.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Client is an Invoker backed by a remote `desksort serve`.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient targets baseURL, e.g. http://127.0.0.1:7788. A bare host:port
// gets an http scheme.
func NewClient(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("remote address is empty")
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid remote address %q", baseURL)
	}
	// Classification can run for minutes; reuse the upstream budget.
	return &Client{baseURL: baseURL, http: httpclient.NewClient(httpclient.DefaultTimeout + 30*time.Second)}, nil
}

func (c *Client) Invoke(ctx context.Context, channel string, payload, out any) error {
	env, err := c.post(ctx, channel, payload)
	if err != nil {
		return err
	}
	return decodeResult(channel, env.Data, out)
}

func (c *Client) Send(channel string, payload any) error {
	_, err := c.post(context.Background(), channel, payload)
	return err
}

func (c *Client) post(ctx context.Context, channel string, payload any) (*envelope, error) {
	raw, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ipc/"+url.PathEscape(channel), bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, resp, err := httpclient.DoAndRead(c.http, req)
	if err != nil {
		return nil, fmt.Errorf("ipc %s: %w", channel, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("ipc %s: invalid response (%s): %w", channel, resp.Status, err)
	}
	if resp.StatusCode >= 300 || env.Status != "ok" {
		return nil, errorFor(channel, resp.StatusCode, env.Error)
	}
	return &env, nil
}

// errorFor rebuilds a typed error from the transport status so callers can
// branch on kinds exactly as with an in-process Router.
func errorFor(channel string, status int, message string) error {
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	case http.StatusConflict:
		return apperrors.Busy(message)
	case http.StatusBadRequest:
		return apperrors.New(apperrors.KindValidation, message, nil)
	case http.StatusBadGateway:
		return apperrors.New(apperrors.KindTransient, message, nil)
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return errors.New(message)
}
