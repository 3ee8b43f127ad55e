// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package advisory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/krishiuday/kisan-tui/internal/connectivity"
	"github.com/krishiuday/kisan-tui/internal/model"
	"github.com/krishiuday/kisan-tui/internal/storage"
)

// Error variables for advisory requests.
var (
	// ErrOffline indicates the device is offline; no request was made.
	ErrOffline = errors.New("cannot generate advisory while offline")

	// ErrNoCached indicates no advisory has ever been generated.
	ErrNoCached = errors.New("no cached advisory")

	// ErrBusy indicates a generation is already in flight.
	ErrBusy = errors.New("advisory generation already in progress")
)

// Generator produces a structured advisory from farm parameters.
// *genai.Client satisfies this.
type Generator interface {
	GenerateAdvisory(ctx context.Context, input model.AdvisoryInput, language string) (*model.AdvisoryResult, error)
}

// =============================================================================
// ADVISORY MANAGER
// =============================================================================

// Manager coordinates advisory generation, the offline fast-path, and the
// single-slot persistent cache. Safe for concurrent use.
type Manager struct {
	mu         sync.Mutex
	store      *storage.Store
	gen        Generator
	monitor    *connectivity.Monitor
	generating bool

	// now is swappable for tests.
	now func() time.Time
}

// NewManager creates an advisory manager.
func NewManager(store *storage.Store, gen Generator, monitor *connectivity.Monitor) *Manager {
	return &Manager{
		store:   store,
		gen:     gen,
		monitor: monitor,
		now:     time.Now,
	}
}

// RequestAdvisory validates the input, generates a new advisory, and
// persists it as the cached one. Offline requests fail with ErrOffline
// before any network activity. A remote failure is returned as-is and the
// previously cached advisory stays untouched.
func (m *Manager) RequestAdvisory(ctx context.Context, input model.AdvisoryInput, language string) (*model.AdvisoryResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if !m.monitor.Online() {
		return nil, ErrOffline
	}

	m.mu.Lock()
	if m.generating {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	m.generating = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.generating = false
		m.mu.Unlock()
	}()

	result, err := m.gen.GenerateAdvisory(ctx, input, language)
	if err != nil {
		return nil, fmt.Errorf("advisory generation failed: %w", err)
	}

	result.GeneratedAt = m.now()
	if err := m.store.SaveAdvisory(result); err != nil {
		// The advisory is still usable this session even if the write
		// failed; surface nothing fatal, just log.
		log.Printf("advisory: failed to persist result: %v", err)
	}
	return result, nil
}

// LoadCached returns the last persisted advisory, if any.
func (m *Manager) LoadCached() (*model.AdvisoryResult, error) {
	result, err := m.store.LoadAdvisory()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoCached
		}
		return nil, err
	}
	return result, nil
}

// Generating reports whether a request is in flight.
func (m *Manager) Generating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generating
}
