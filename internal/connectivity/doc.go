// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package connectivity tracks online/offline state and notifies subscribers
// of transitions.
//
// The Monitor is purely event-driven: there is no background polling. State
// changes come from explicit ReportOnline/ReportOffline notifications (fed by
// the outcome of remote calls) plus a one-shot reachability probe at startup.
// Transitions are edge-triggered; redundant reports do not re-notify.
//
// Subscriptions return an unsubscribe function that must be called on
// component teardown to avoid dispatch into destroyed state.
package connectivity
