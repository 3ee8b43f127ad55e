// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management.
//
// Configuration sources, in order of precedence:
//   - environment variables (GEMINI_API_KEY, KISAN_*)
//   - ~/.kisan/config.toml
//   - built-in defaults
//
// A .env file next to the binary or under ~/.kisan is loaded first if
// present, so development keys never have to live in the shell profile.
// Saved config files are written atomically with 0600 permissions: they
// hold API keys.
package config
