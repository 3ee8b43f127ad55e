// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package views contains the Bubble Tea models for the main application
// screens: login, dashboard, advisory, chat, and market. Each view owns its
// own state and rendering; the root app model routes window sizing, key
// events, and domain messages to the active view.
package views
