// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the on-device key-value store backing the app.
//
// All durable state lives in a single SQLite database under three logical
// keys: the user profile, the last generated advisory, and the full chat
// transcript. Values are JSON blobs; every mutation is a single atomic
// UPSERT, so a reader never observes a half-written value.
//
// # Key Types
//
//   - Store: the SQLite-backed key-value store
//
// # Recovery
//
// Malformed stored values are always recovered locally: the typed loaders
// log a diagnostic and report the value as absent (the transcript loader
// substitutes the seeded greeting) rather than surfacing a parse error.
//
// # Storage Location
//
// The database lives at ~/.kisan/kisan.db by default.
package storage
