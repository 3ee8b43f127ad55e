// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the application:
// the user profile, the advisory input/result pair, and the chat transcript.
//
// # Key Types
//
//   - UserProfile: the authenticated farmer, persisted across restarts
//   - AdvisoryInput / AdvisoryResult: structured advisory request and response
//   - ChatMessage: a single transcript entry with offline-pending state
//
// All types serialize to JSON for the local key-value store. JSON keys are
// fixed identifiers regardless of the requested output language; only the
// natural-language field values are localized.
package model
