// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the command-line surface of kisan: argument
// parsing, the interactive chat REPL, phone sign-in, and status output.
// The default command (no arguments) starts the full-screen TUI, which is
// wired in package main.
package cli
