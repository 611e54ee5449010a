// Package textgen provides the HTTP client for the text-generation backend.
//
// The client speaks an Anthropic-style messages API: one endpoint generates
// a completion, a second counts the input tokens the same request would be
// billed for. Failures are classified into the core error taxonomy so the
// caller's retry policy can tell transient timeouts from fatal errors.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/adforge/ad-voice-service/internal/core"
)

// API endpoints and paths.
const (
	apiMessages    = "/v1/messages"
	apiCountTokens = "/v1/messages/count_tokens"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAPIKey      = "x-api-key"
	headerAPIVersion  = "anthropic-version"
	contentTypeJSON   = "application/json"
	apiVersion        = "2023-06-01"
)

const roleUser = "user"

// Error messages.
const (
	errFmtServiceError       = "text service error (%s): %s (type: %s)"
	errFmtServiceNonOKStatus = "text service returned non-OK status: %s, body: %s"
)

// Static errors.
var (
	ErrPromptEmpty     = errors.New("prompt text cannot be empty")
	ErrEmptyCompletion = errors.New("received empty completion")
)

// HTTPClient is a client for the text-generation HTTP service. It
// encapsulates the HTTP configuration and implements core.TextGenerator.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewHTTPClient creates and configures an HTTP client for the
// text-generation service. The timeout applies to every request; a request
// exceeding it surfaces as a transient core.ErrBackendTimeout.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messageResponse struct {
	Content []contentBlock `json:"content"`
}

type countTokensRequest struct {
	Model    string    `json:"model"`
	System   string    `json:"system,omitempty"`
	Messages []message `json:"messages"`
}

type countTokensResponse struct {
	InputTokens int `json:"input_tokens"`
}

// apiErrorBody is the structured error envelope returned by the service.
type apiErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a generation request and returns the raw model output text.
func (c *HTTPClient) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	if req.UserText == "" {
		return "", fmt.Errorf("%w: %w", core.ErrInvalidInput, ErrPromptEmpty)
	}

	payload := messageRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		System:    req.System,
		Messages:  []message{{Role: roleUser, Content: req.UserText}},
	}

	body, err := c.post(ctx, apiMessages, payload)
	if err != nil {
		return "", err
	}

	var resp messageResponse

	err = json.Unmarshal(body, &resp)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode completion response: %w", core.ErrBackend, err)
	}

	text := joinTextBlocks(resp.Content)
	if text == "" {
		return "", fmt.Errorf("%w: %w", core.ErrBackend, ErrEmptyCompletion)
	}

	return text, nil
}

// CountTokens returns the input token count the backend would charge for the
// request.
func (c *HTTPClient) CountTokens(ctx context.Context, req core.CompletionRequest) (int, error) {
	payload := countTokensRequest{
		Model:    req.Model,
		System:   req.System,
		Messages: []message{{Role: roleUser, Content: req.UserText}},
	}

	body, err := c.post(ctx, apiCountTokens, payload)
	if err != nil {
		return 0, err
	}

	var resp countTokensResponse

	err = json.Unmarshal(body, &resp)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to decode token count response: %w", core.ErrBackend, err)
	}

	return resp.InputTokens, nil
}

// post submits a JSON payload and returns the raw response body for
// successful requests. Non-success responses and transport failures are
// classified into the core taxonomy.
func (c *HTTPClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAPIKey, c.apiKey)
	httpReq.Header.Set(headerAPIVersion, apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// classifyTransportError separates timeout-class transport failures, which
// the caller may retry, from everything else.
func (c *HTTPClient) classifyTransportError(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: request to text service at %s timed out: %v",
			core.ErrBackendTimeout, c.baseURL, err)
	}

	return fmt.Errorf("%w: failed to send request to text service at %s: %v",
		core.ErrBackend, c.baseURL, err)
}

// parseErrorResponse attempts to decode a structured JSON error from the
// service, falling back to the raw response body so diagnostics are never
// lost. Gateway and request timeouts keep their transient classification.
func (c *HTTPClient) parseErrorResponse(resp *http.Response) error {
	category := core.ErrBackend
	if resp.StatusCode == http.StatusRequestTimeout ||
		resp.StatusCode == http.StatusGatewayTimeout {
		category = core.ErrBackendTimeout
	}

	var errResp apiErrorBody

	err := json.NewDecoder(resp.Body).Decode(&errResp)
	if err == nil && errResp.Error.Message != "" {
		return fmt.Errorf("%w: "+errFmtServiceError,
			category, resp.Status, errResp.Error.Message, errResp.Error.Type)
	}

	body, _ := io.ReadAll(resp.Body)

	return fmt.Errorf("%w: "+errFmtServiceNonOKStatus, category, resp.Status, string(body))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

func joinTextBlocks(blocks []contentBlock) string {
	var buf bytes.Buffer

	for _, block := range blocks {
		if block.Type == "text" {
			buf.WriteString(block.Text)
		}
	}

	return buf.String()
}
