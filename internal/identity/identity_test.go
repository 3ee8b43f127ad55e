// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// NUMBER VALIDATION
// =============================================================================

func TestValidNumber(t *testing.T) {
	cases := []struct {
		name    string
		country string
		number  string
		want    bool
	}{
		{"indian mobile", "+91", "9876543210", true},
		{"us number", "+1", "2025550143", true},
		{"short code ok", "+44", "7911123", true},
		{"missing plus", "91", "9876543210", false},
		{"empty country", "+", "9876543210", false},
		{"country too long", "+9144", "9876543210", false},
		{"letters in number", "+91", "98765abc10", false},
		{"number too short", "+91", "12345", false},
		{"number too long", "+91", "987654321098765", false},
		{"empty number", "+91", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidNumber(tc.country, tc.number))
		})
	}
}

func TestFullNumber(t *testing.T) {
	assert.Equal(t, "+919876543210", FullNumber("+91", "9876543210"))
}

// =============================================================================
// LOCAL PROVIDER
// =============================================================================

func TestLocalProviderRoundTrip(t *testing.T) {
	p := NewLocalProvider()
	defer p.Close()

	var notifiedNumber, notifiedCode string
	p.Notify = func(number, code string) {
		notifiedNumber = number
		notifiedCode = code
	}

	ch, err := p.InitiateChallenge(context.Background(), "+919876543210")
	require.NoError(t, err)
	require.NotEmpty(t, ch.ID)
	assert.Equal(t, "+919876543210", ch.PhoneNumber)
	assert.Equal(t, "+919876543210", notifiedNumber)
	require.NotEmpty(t, notifiedCode)

	conf, err := p.ConfirmChallenge(context.Background(), ch, notifiedCode)
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", conf.PhoneNumber)
	assert.NotEmpty(t, conf.UID)

	// Challenge is consumed on success.
	_, err = p.ConfirmChallenge(context.Background(), ch, notifiedCode)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestLocalProviderWrongCode(t *testing.T) {
	p := NewLocalProvider()
	defer p.Close()

	ch, err := p.InitiateChallenge(context.Background(), "+919876543210")
	require.NoError(t, err)

	_, err = p.ConfirmChallenge(context.Background(), ch, "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)

	// A wrong code does not consume the challenge.
	code, err := p.currentCode(ch.ID)
	require.NoError(t, err)
	_, err = p.ConfirmChallenge(context.Background(), ch, code)
	assert.NoError(t, err)
}

func TestLocalProviderExpiry(t *testing.T) {
	p := NewLocalProvider()
	defer p.Close()

	ch, err := p.InitiateChallenge(context.Background(), "+919876543210")
	require.NoError(t, err)

	code, err := p.currentCode(ch.ID)
	require.NoError(t, err)

	// Move the provider clock past the challenge expiry.
	p.now = func() time.Time { return time.Now().Add(DefaultChallengeTTL + time.Minute) }

	_, err = p.ConfirmChallenge(context.Background(), ch, code)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestLocalProviderClosed(t *testing.T) {
	p := NewLocalProvider()
	require.NoError(t, p.Close())

	_, err := p.InitiateChallenge(context.Background(), "+919876543210")
	assert.ErrorIs(t, err, ErrClosed)
}

// =============================================================================
// REST PROVIDER
// =============================================================================

func TestRESTProviderFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/accounts:sendVerificationCode":
			w.Write([]byte(`{"sessionInfo": "session-abc"}`))
		case "/accounts:signInWithPhoneNumber":
			w.Write([]byte(`{"localId": "uid-123", "phoneNumber": "+919876543210"}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	p := NewRESTProvider("api-key").WithBaseURL(server.URL)
	defer p.Close()

	ch, err := p.InitiateChallenge(context.Background(), "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, "session-abc", ch.SessionInfo)
	assert.False(t, ch.Expired(time.Now()))

	conf, err := p.ConfirmChallenge(context.Background(), ch, "123456")
	require.NoError(t, err)
	assert.Equal(t, "uid-123", conf.UID)
	assert.Equal(t, "+919876543210", conf.PhoneNumber)
}

func TestRESTProviderErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		message string
		want    error
	}{
		{"invalid number", http.StatusBadRequest, "INVALID_PHONE_NUMBER : Invalid format.", ErrInvalidNumber},
		{"throttled", http.StatusBadRequest, "TOO_MANY_ATTEMPTS_TRY_LATER", ErrTooManyRequests},
		{"quota", http.StatusBadRequest, "QUOTA_EXCEEDED", ErrTooManyRequests},
		{"wrong code", http.StatusBadRequest, "INVALID_CODE", ErrInvalidCode},
		{"session expired", http.StatusBadRequest, "SESSION_EXPIRED", ErrExpired},
		{"bad domain", http.StatusBadRequest, "UNAUTHORIZED_DOMAIN", ErrDomainUnauthorized},
		{"not allowed", http.StatusBadRequest, "OPERATION_NOT_ALLOWED", ErrConfigError},
		{"forbidden", http.StatusForbidden, "", ErrConfigError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"error": {"code": ` + "400" + `, "message": "` + tc.message + `"}}`))
			}))
			defer server.Close()

			p := NewRESTProvider("api-key").WithBaseURL(server.URL)
			defer p.Close()

			_, err := p.InitiateChallenge(context.Background(), "+919876543210")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRESTProviderExpiredChallenge(t *testing.T) {
	p := NewRESTProvider("api-key")
	defer p.Close()

	ch := &Challenge{
		ID:        "x",
		IssuedAt:  time.Now().Add(-10 * time.Minute),
		ExpiresAt: time.Now().Add(-5 * time.Minute),
	}
	_, err := p.ConfirmChallenge(context.Background(), ch, "123456")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestRESTProviderMissingKey(t *testing.T) {
	p := NewRESTProvider("")
	defer p.Close()

	_, err := p.InitiateChallenge(context.Background(), "+919876543210")
	assert.ErrorIs(t, err, ErrConfigError)
}
