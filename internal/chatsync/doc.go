// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatsync implements the offline-aware chat transcript.
//
// The Engine owns the ordered transcript. Messages composed while offline
// are recorded immediately with Pending set and no network is touched; when
// connectivity returns, Reconcile walks the pending user messages in
// chronological order and delivers them one at a time. The transcript is
// append-only: reconciliation flips Pending flags and appends assistant
// replies, it never reorders or deletes.
//
// Every mutation is persisted before the next remote call, so a crash
// mid-reconciliation loses at most the reply still in flight, never a
// composed message. Reconcile holds an in-progress flag: overlapping
// triggers (double online events, mount plus event) coalesce into one pass.
//
// Delivery failures are per-message: a failed send is logged, the message
// stays pending, and the pass moves on. An online compose whose send fails
// downgrades the message to pending so the next pass retries it.
package chatsync
