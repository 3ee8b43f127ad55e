// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session gates the application behind a completed phone login.
//
// The Gate owns the persisted user profile. At startup Restore loads the
// profile from the store; a missing or malformed record means "not logged
// in" and the login surface is shown. CompleteLogin persists the profile
// write-through before flipping the in-memory state, so a crash after login
// never loses the account. Logout clears both.
//
// The Gate is state, not UI: the login view drives the identity provider
// and calls CompleteLogin with the result.
package session
