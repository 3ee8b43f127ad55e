// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"context"
	"errors"
	"strings"
	"time"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Error variables for verification failures. The login view matches on these
// with errors.Is and shows one message per case.
var (
	// ErrInvalidNumber indicates the phone number is malformed.
	ErrInvalidNumber = errors.New("invalid phone number")

	// ErrTooManyRequests indicates the verification service throttled us.
	ErrTooManyRequests = errors.New("too many verification requests")

	// ErrConfigError indicates the verification service rejected our
	// project configuration. Not recoverable by the user.
	ErrConfigError = errors.New("verification service misconfigured")

	// ErrDomainUnauthorized indicates this client origin is not allowed
	// to request verification codes.
	ErrDomainUnauthorized = errors.New("client not authorized for verification")

	// ErrInvalidCode indicates the entered code did not match.
	ErrInvalidCode = errors.New("incorrect verification code")

	// ErrExpired indicates the challenge expired before confirmation.
	ErrExpired = errors.New("verification challenge expired")

	// ErrClosed indicates the provider has been closed.
	ErrClosed = errors.New("identity provider closed")
)

// =============================================================================
// CHALLENGE FLOW
// =============================================================================

// Challenge is the handle returned by InitiateChallenge. It is opaque to the
// caller and passed back unchanged to ConfirmChallenge.
type Challenge struct {
	// ID identifies the challenge to the issuing provider.
	ID string

	// PhoneNumber is the full number the code was sent to, E.164 form.
	PhoneNumber string

	// SessionInfo is provider-specific continuation state.
	SessionInfo string

	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the challenge is past its expiry.
func (c *Challenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Confirmation is the result of a successful code confirmation.
type Confirmation struct {
	// UID is the stable account identifier assigned by the provider.
	UID string

	// PhoneNumber is the verified number, E.164 form.
	PhoneNumber string
}

// Provider issues and confirms phone-verification challenges.
type Provider interface {
	// InitiateChallenge sends a one-time code to the number and returns
	// a handle for the pending challenge.
	InitiateChallenge(ctx context.Context, phoneNumber string) (*Challenge, error)

	// ConfirmChallenge checks the user-entered code against the pending
	// challenge.
	ConfirmChallenge(ctx context.Context, challenge *Challenge, code string) (*Confirmation, error)

	// Close releases per-challenge state. The provider is unusable after.
	Close() error
}

// =============================================================================
// NUMBER VALIDATION
// =============================================================================

// ValidNumber reports whether countryCode and number form a plausible phone
// number. The country code must be "+" followed by 1-3 digits; the
// subscriber number must be 6-14 digits. Validation is deliberately loose:
// the verification service is the authority, this just catches typos before
// a network round trip.
func ValidNumber(countryCode, number string) bool {
	if !strings.HasPrefix(countryCode, "+") {
		return false
	}
	cc := countryCode[1:]
	if len(cc) < 1 || len(cc) > 3 || !allDigits(cc) {
		return false
	}
	if len(number) < 6 || len(number) > 14 || !allDigits(number) {
		return false
	}
	return true
}

// FullNumber joins a country code and subscriber number into E.164 form.
func FullNumber(countryCode, number string) string {
	return countryCode + number
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
