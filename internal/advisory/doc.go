// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package advisory manages generation and caching of crop advisories.
//
// Exactly one advisory is retained: each successful generation overwrites
// the previous one in the store, and LoadCached serves it after restarts or
// while offline. A request made offline fails fast with ErrOffline before
// any network activity; a failed online request surfaces its error and
// leaves the previous cached advisory untouched.
package advisory
