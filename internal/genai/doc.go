// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai provides the client for the hosted generative-AI API that
// produces crop advisories and chat replies.
//
// The provider is consumed at its interface boundary only: submit structured
// farm parameters plus a language and get structured advisory JSON back, or
// submit a free-text message and get a free-text reply. Advisory responses
// are requested against a fixed JSON schema; the schema keys stay in English
// regardless of the requested output language and only field values are
// localized.
//
// # Errors
//
//   - ErrMissingCredential: no API key configured; fatal to the feature
//   - ErrMalformedResponse: the provider returned undecodable content
//   - transport errors are wrapped and unwrap to the underlying cause
package genai
