// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity implements phone-number verification for login.
//
// Login is a two-step challenge flow: InitiateChallenge sends a one-time
// code to the given phone number and returns a Challenge handle;
// ConfirmChallenge exchanges the handle plus the user-entered code for a
// Confirmation. Providers hold per-challenge state and must be closed when
// the login surface is torn down.
//
// Two providers are included:
//
//   - RESTProvider talks to the hosted phone-verification API and is the
//     production path.
//   - LocalProvider issues time-based codes locally and is used for
//     development, where no SMS gateway is reachable.
//
// # Errors
//
// All provider failures map onto a small taxonomy so the login view can
// present one message per case: ErrInvalidNumber, ErrTooManyRequests,
// ErrConfigError, ErrDomainUnauthorized, ErrInvalidCode, ErrExpired.
// Transport failures are wrapped and unwrap to their cause.
package identity
