package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/oukeidos/desksort/internal/apperrors"
	"github.com/oukeidos/desksort/internal/httpclient"
	"github.com/oukeidos/desksort/internal/version"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one entry of a chat completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body of POST /chat/completions.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse is the subset of the chat completion response we consume.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`

	// RequestID is the X-Request-ID sent with the call.
	RequestID string `json:"-"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// FirstContent returns the first choice's message content, or "" when the
// response carries no choices.
func (r *ChatResponse) FirstContent() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

type errorEnvelope struct {
	Error errorDetails `json:"error"`
}

type errorDetails struct {
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Code    interface{} `json:"code"`
}

func (e errorDetails) codeString() string {
	if e.Code == nil {
		return ""
	}
	return fmt.Sprint(e.Code)
}

// Client talks to any OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// NewClient creates a client. A nil httpClient gets a default transport.
func NewClient(apiKey, model, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = httpclient.NewClient(httpclient.DefaultTimeout)
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// GetModelID returns the configured model identifier.
func (c *Client) GetModelID() string {
	return c.model
}

// BaseURL returns the endpoint root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ChatCompletion issues exactly one request; there are no retries.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	requestID := newRequestID()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Request-ID", requestID)
	httpReq.Header.Set("User-Agent", version.UserAgent())

	slog.Debug("chat completion request", "request_id", requestID, "model", req.Model, "messages", len(req.Messages))

	body, resp, err := httpclient.DoAndRead(c.http, httpReq)
	if err != nil {
		return nil, apperrors.New(
			apperrors.KindTransient,
			"Classification request failed due to a network error.",
			fmt.Errorf("request %s failed: %w", requestID, err),
		)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyError(resp.StatusCode, resp.Status, parseErrorDetails(body))
	}

	var result ChatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.New(
			apperrors.KindBadRequest,
			"Chat completion response was not valid JSON.",
			fmt.Errorf("failed to decode response: %w", err),
		)
	}
	result.RequestID = requestID

	slog.Debug("chat completion response", "request_id", requestID, "status", resp.Status, "choices", len(result.Choices), "usage_total", result.Usage.TotalTokens)
	return &result, nil
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func parseErrorDetails(body []byte) errorDetails {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errorDetails{}
	}
	return envelope.Error
}

func classifyError(statusCode int, status string, details errorDetails) error {
	cause := fmt.Errorf("status=%s type=%s code=%s message=%s", status, details.Type, details.codeString(), details.Message)

	switch statusCode {
	case http.StatusTooManyRequests:
		return apperrors.New(
			apperrors.KindRateLimit,
			"API rate limit exceeded (429): please try again later.",
			cause,
		)
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.New(
			apperrors.KindAuth,
			fmt.Sprintf("API authentication failed (%d): please verify your API key.", statusCode),
			cause,
		)
	case http.StatusNotFound:
		if isModelNotFound(details) {
			return apperrors.New(
				apperrors.KindBadRequest,
				"The model does not exist or you do not have access to it.",
				cause,
			)
		}
		return apperrors.New(apperrors.KindBadRequest, "Chat completions endpoint not found (404).", cause)
	default:
		if statusCode >= 500 {
			return apperrors.New(
				apperrors.KindTransient,
				fmt.Sprintf("API server error (%d): please try again later.", statusCode),
				cause,
			)
		}
		return apperrors.New(
			apperrors.KindBadRequest,
			fmt.Sprintf("API error (%d): %s", statusCode, status),
			cause,
		)
	}
}

func isModelNotFound(details errorDetails) bool {
	needle := strings.ToLower(details.codeString() + " " + details.Type + " " + details.Message)
	if strings.Contains(needle, "model_not_found") {
		return true
	}
	return strings.Contains(needle, "does not exist or you do not have access to it")
}
