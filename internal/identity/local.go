// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
)

// =============================================================================
// LOCAL PROVIDER
// =============================================================================

// localChallenge is the per-challenge state held until confirmation.
type localChallenge struct {
	secret    string
	expiresAt time.Time
}

// LocalProvider issues time-based codes locally instead of sending SMS.
// It exists for development: the current code is handed to the Notify
// callback (the CLI prints it) and verified against the same clock. Safe
// for concurrent use.
type LocalProvider struct {
	mu     sync.Mutex
	active map[string]localChallenge
	closed bool

	// Notify receives the number and the current code whenever a
	// challenge is issued. Nil means codes are verifiable but invisible.
	Notify func(phoneNumber, code string)

	// TTL overrides DefaultChallengeTTL when positive.
	TTL time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewLocalProvider creates a development verification provider.
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{
		active: make(map[string]localChallenge),
		now:    time.Now,
	}
}

// InitiateChallenge issues a local time-based code for the number.
func (p *LocalProvider) InitiateChallenge(ctx context.Context, phoneNumber string) (*Challenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "kisan-sahayak",
		AccountName: phoneNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification secret: %w", err)
	}

	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	now := p.now()
	id := uuid.NewString()
	p.active[id] = localChallenge{secret: key.Secret(), expiresAt: now.Add(ttl)}
	notify := p.Notify
	p.mu.Unlock()

	if notify != nil {
		if code, err := totp.GenerateCode(key.Secret(), now); err == nil {
			notify(phoneNumber, code)
		}
	}

	return &Challenge{
		ID:          id,
		PhoneNumber: phoneNumber,
		IssuedAt:    now,
		ExpiresAt:   now.Add(ttl),
	}, nil
}

// ConfirmChallenge checks the code against the pending challenge. The
// challenge is consumed on success and on expiry, but kept on a wrong code
// so the user can retype.
func (p *LocalProvider) ConfirmChallenge(ctx context.Context, challenge *Challenge, code string) (*Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrExpired
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}

	pending, ok := p.active[challenge.ID]
	if !ok {
		return nil, ErrExpired
	}
	if p.now().After(pending.expiresAt) {
		delete(p.active, challenge.ID)
		return nil, ErrExpired
	}
	if !totp.Validate(code, pending.secret) {
		return nil, ErrInvalidCode
	}

	delete(p.active, challenge.ID)
	return &Confirmation{
		UID:         "local-" + challenge.ID,
		PhoneNumber: challenge.PhoneNumber,
	}, nil
}

// Close drops all pending challenges.
func (p *LocalProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.active = nil
	return nil
}

// currentCode returns the valid code for a pending challenge. Test helper.
func (p *LocalProvider) currentCode(id string) (string, error) {
	p.mu.Lock()
	pending, ok := p.active[id]
	now := p.now()
	p.mu.Unlock()
	if !ok {
		return "", ErrExpired
	}
	return totp.GenerateCode(pending.secret, now)
}
