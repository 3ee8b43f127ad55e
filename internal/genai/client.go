// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/krishiuday/kisan-tui/internal/model"
)

// Configuration constants for the generative API.
const (
	// DefaultBaseURL is the base URL for the generative API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used for advisory and chat generation.
	DefaultModel = "gemini-2.5-flash"

	// DefaultTimeout converts a hung request into a surfaced failure. The
	// provider's own contract is unbounded, so the bound lives client-side.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// Error variables for common provider errors.
var (
	// ErrMissingCredential indicates the API key is not set.
	ErrMissingCredential = errors.New("generative API key not configured")

	// ErrMalformedResponse indicates the provider returned content that
	// could not be decoded into the expected shape.
	ErrMalformedResponse = errors.New("malformed response from generative API")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited by generative API")
)

// APIError represents an error response from the generative API.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("generative API error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("generative API error (HTTP %d)", e.Status)
}

// =============================================================================
// CLIENT
// =============================================================================

// Turn is one prior exchange supplied as chat context.
type Turn struct {
	Role string // "user" or "model"
	Text string
}

// Client communicates with the generative API. It is safe for concurrent
// use. There is no automatic retry: a failed call is surfaced immediately,
// and retry policy belongs to the callers (the chat reconciliation pass).
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	// mu guards model, which can change at runtime via config reload.
	mu    sync.Mutex
	model string

	// limiter keeps the client inside the free-tier request quota.
	limiter *rate.Limiter
}

// NewClient creates a client with the given API key. An empty key yields a
// client whose calls fail with ErrMissingCredential.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		// 10 requests per minute with a small burst.
		limiter: rate.NewLimiter(rate.Every(6*time.Second), 3),
	}
}

// WithBaseURL sets a custom base URL (used by tests).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithModel overrides the default model.
func (c *Client) WithModel(m string) *Client {
	c.SetModel(m)
	return c
}

// SetModel changes the generation model. Safe to call while requests are
// in flight; the new model applies from the next request.
func (c *Client) SetModel(m string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m != "" {
		c.model = m
	}
}

// Model returns the generation model currently in use.
func (c *Client) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// =============================================================================
// ADVISORY GENERATION
// =============================================================================

// GenerateAdvisory submits the farm parameters and returns the structured
// advisory, with values localized into the requested language. GeneratedAt
// is left zero; the caller stamps it on persist.
func (c *Client) GenerateAdvisory(ctx context.Context, input model.AdvisoryInput, language string) (*model.AdvisoryResult, error) {
	if !c.IsConfigured() {
		return nil, ErrMissingCredential
	}

	req := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: advisoryPrompt(input, language)}},
		}},
		SystemInstruction: &content{
			Parts: []part{{Text: advisorySystemInstruction(language)}},
		},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   advisorySchema(),
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var result model.AdvisoryResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !result.Valid() {
		return nil, ErrMalformedResponse
	}
	return &result, nil
}

// =============================================================================
// CHAT
// =============================================================================

// SendChatMessage submits a free-text message with optional prior turns and
// returns the reply text. Single-shot: no retry on failure.
func (c *Client) SendChatMessage(ctx context.Context, text string, priorTurns []Turn) (string, error) {
	if !c.IsConfigured() {
		return "", ErrMissingCredential
	}

	contents := make([]content, 0, len(priorTurns)+1)
	for _, turn := range priorTurns {
		contents = append(contents, content{
			Role:  turn.Role,
			Parts: []part{{Text: turn.Text}},
		})
	}
	contents = append(contents, content{
		Role:  "user",
		Parts: []part{{Text: text}},
	})

	req := generateRequest{
		Contents: contents,
		SystemInstruction: &content{
			Parts: []part{{Text: chatSystemInstruction}},
		},
	}

	reply, err := c.generate(ctx, req)
	if err != nil {
		return "", err
	}
	return reply, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// generate performs one generateContent call and returns the first text
// part of the first candidate.
func (c *Client) generate(ctx context.Context, reqBody generateRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/models/" + c.Model() + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)

	// Clear the credential header immediately so it can never be logged.
	req.Header.Del("x-goog-api-key")

	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.handleErrorResponse(resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	text := genResp.FirstText()
	if text == "" {
		return "", ErrMalformedResponse
	}
	return text, nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to Go errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	message := ""
	if err := json.Unmarshal(body, &apiErr); err == nil {
		message = apiErr.Error.Message
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrMissingCredential, message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, message)
	default:
		return &APIError{Status: statusCode, Message: message}
	}
}
