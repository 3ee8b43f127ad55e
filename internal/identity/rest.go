// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Configuration constants for the hosted verification API.
const (
	// DefaultVerificationURL is the base URL for the verification API.
	DefaultVerificationURL = "https://identitytoolkit.googleapis.com/v1"

	// DefaultChallengeTTL is how long an issued code remains valid.
	DefaultChallengeTTL = 5 * time.Minute

	// verifyTimeout bounds each verification round trip.
	verifyTimeout = 15 * time.Second

	// maxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	maxResponseSize = 1 * 1024 * 1024 // 1MB
)

// =============================================================================
// REST PROVIDER
// =============================================================================

// RESTProvider verifies phone numbers through the hosted identity API.
// Safe for concurrent use. There is no retry: auth failures are final and
// throttling must be surfaced to the user, not hammered through.
type RESTProvider struct {
	mu      sync.Mutex
	apiKey  string
	baseURL string
	client  *http.Client
	closed  bool
}

// NewRESTProvider creates a provider with the given API key. An empty key
// yields a provider whose calls fail with ErrConfigError.
func NewRESTProvider(apiKey string) *RESTProvider {
	return &RESTProvider{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultVerificationURL,
		client:  &http.Client{Timeout: verifyTimeout},
	}
}

// WithBaseURL sets a custom base URL (used by tests).
func (p *RESTProvider) WithBaseURL(url string) *RESTProvider {
	p.baseURL = strings.TrimSuffix(url, "/")
	return p
}

// sendCodeRequest / sendCodeResponse mirror the identity-toolkit wire shapes.
type sendCodeRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type sendCodeResponse struct {
	SessionInfo string `json:"sessionInfo"`
}

type confirmRequest struct {
	SessionInfo string `json:"sessionInfo"`
	Code        string `json:"code"`
}

type confirmResponse struct {
	LocalID     string `json:"localId"`
	PhoneNumber string `json:"phoneNumber"`
}

type verifyErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// InitiateChallenge requests a verification code for the number.
func (p *RESTProvider) InitiateChallenge(ctx context.Context, phoneNumber string) (*Challenge, error) {
	if err := p.usable(); err != nil {
		return nil, err
	}

	var resp sendCodeResponse
	err := p.post(ctx, "/accounts:sendVerificationCode", sendCodeRequest{PhoneNumber: phoneNumber}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.SessionInfo == "" {
		return nil, fmt.Errorf("verification service returned no session")
	}

	now := time.Now()
	return &Challenge{
		ID:          resp.SessionInfo,
		PhoneNumber: phoneNumber,
		SessionInfo: resp.SessionInfo,
		IssuedAt:    now,
		ExpiresAt:   now.Add(DefaultChallengeTTL),
	}, nil
}

// ConfirmChallenge exchanges the entered code for a confirmation.
func (p *RESTProvider) ConfirmChallenge(ctx context.Context, challenge *Challenge, code string) (*Confirmation, error) {
	if err := p.usable(); err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrExpired
	}
	if challenge.Expired(time.Now()) {
		return nil, ErrExpired
	}

	var resp confirmResponse
	err := p.post(ctx, "/accounts:signInWithPhoneNumber", confirmRequest{
		SessionInfo: challenge.SessionInfo,
		Code:        code,
	}, &resp)
	if err != nil {
		return nil, err
	}

	phone := resp.PhoneNumber
	if phone == "" {
		phone = challenge.PhoneNumber
	}
	return &Confirmation{UID: resp.LocalID, PhoneNumber: phone}, nil
}

// Close marks the provider unusable.
func (p *RESTProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *RESTProvider) usable() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.apiKey == "" {
		return fmt.Errorf("%w: API key not set", ErrConfigError)
	}
	return nil
}

// post performs one API call and decodes the response into out.
func (p *RESTProvider) post(ctx context.Context, path string, body, out any) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := p.baseURL + path + "?key=" + p.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxResponseSize)
	respBody, err := io.ReadAll(limited)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return mapVerifyError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// mapVerifyError converts the service's error strings onto the package
// taxonomy. Unknown codes fall through as a generic wrapped error.
func mapVerifyError(statusCode int, body []byte) error {
	var verr verifyErrorResponse
	message := ""
	if err := json.Unmarshal(body, &verr); err == nil {
		message = verr.Error.Message
	}

	switch {
	case strings.Contains(message, "INVALID_PHONE_NUMBER"),
		strings.Contains(message, "MISSING_PHONE_NUMBER"):
		return fmt.Errorf("%w: %s", ErrInvalidNumber, message)
	case strings.Contains(message, "TOO_MANY_ATTEMPTS"),
		strings.Contains(message, "QUOTA_EXCEEDED"),
		statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrTooManyRequests, message)
	case strings.Contains(message, "INVALID_CODE"),
		strings.Contains(message, "MISSING_CODE"):
		return fmt.Errorf("%w: %s", ErrInvalidCode, message)
	case strings.Contains(message, "SESSION_EXPIRED"),
		strings.Contains(message, "INVALID_SESSION_INFO"):
		return fmt.Errorf("%w: %s", ErrExpired, message)
	case strings.Contains(message, "UNAUTHORIZED_DOMAIN"),
		strings.Contains(message, "INVALID_APP_CREDENTIAL"):
		return fmt.Errorf("%w: %s", ErrDomainUnauthorized, message)
	case strings.Contains(message, "OPERATION_NOT_ALLOWED"),
		strings.Contains(message, "CONFIGURATION_NOT_FOUND"),
		statusCode == http.StatusUnauthorized,
		statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrConfigError, message)
	}

	if message == "" {
		message = string(body)
	}
	return fmt.Errorf("verification service error (HTTP %d): %s", statusCode, message)
}
