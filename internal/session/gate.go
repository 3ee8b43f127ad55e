// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/krishiuday/kisan-tui/internal/model"
	"github.com/krishiuday/kisan-tui/internal/storage"
)

// ErrNotAuthenticated indicates no completed login.
var ErrNotAuthenticated = errors.New("not logged in")

// =============================================================================
// LOGIN GATE
// =============================================================================

// Gate tracks whether a user is logged in and keeps the persisted profile in
// sync with the in-memory one. Safe for concurrent use; callbacks run
// outside the lock.
type Gate struct {
	mu      sync.Mutex
	store   *storage.Store
	profile *model.UserProfile

	// onChange is invoked after login state flips, with the new state.
	onChange func(authenticated bool)
}

// NewGate creates a gate backed by the given store.
func NewGate(store *storage.Store) *Gate {
	return &Gate{store: store}
}

// SetChangeCallback sets the function called when login state changes.
func (g *Gate) SetChangeCallback(fn func(authenticated bool)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onChange = fn
}

// Restore loads the persisted profile. A missing or unreadable record is
// not an error: the gate simply stays unauthenticated and login is shown.
func (g *Gate) Restore() {
	profile, err := g.store.LoadProfile()
	if err != nil {
		return
	}
	if !profile.Valid() {
		return
	}

	g.mu.Lock()
	g.profile = profile
	fn := g.onChange
	g.mu.Unlock()

	if fn != nil {
		fn(true)
	}
}

// CompleteLogin persists the profile and flips the gate to authenticated.
// The persist happens first: if it fails the gate stays unauthenticated and
// the error is returned.
func (g *Gate) CompleteLogin(profile *model.UserProfile) error {
	if profile == nil || !profile.Valid() {
		return fmt.Errorf("incomplete profile")
	}

	if err := g.store.SaveProfile(profile); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}

	g.mu.Lock()
	g.profile = profile
	fn := g.onChange
	g.mu.Unlock()

	if fn != nil {
		fn(true)
	}
	return nil
}

// Logout clears the persisted profile and the in-memory one. The transcript
// and cached advisory are left alone: they belong to the device, and the
// original behavior keeps them across logins.
func (g *Gate) Logout() error {
	if err := g.store.ClearProfile(); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}

	g.mu.Lock()
	g.profile = nil
	fn := g.onChange
	g.mu.Unlock()

	if fn != nil {
		fn(false)
	}
	return nil
}

// Authenticated reports whether a login has completed.
func (g *Gate) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile != nil
}

// Profile returns the logged-in profile, or ErrNotAuthenticated.
func (g *Gate) Profile() (*model.UserProfile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.profile == nil {
		return nil, ErrNotAuthenticated
	}
	p := *g.profile
	return &p, nil
}

// DisplayName returns a short name for the status bar, empty when logged
// out.
func (g *Gate) DisplayName() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.profile == nil {
		return ""
	}
	return g.profile.DisplayName()
}
