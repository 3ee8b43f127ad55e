// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package connectivity tracks online/offline state and notifies subscribers.
package connectivity

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// =============================================================================
// EVENTS
// =============================================================================

// Event is a connectivity transition.
type Event int

const (
	// WentOnline fires when the monitor transitions from offline to online.
	WentOnline Event = iota
	// WentOffline fires when the monitor transitions from online to offline.
	WentOffline
)

// String returns the event name for logging.
func (e Event) String() string {
	if e == WentOnline {
		return "went-online"
	}
	return "went-offline"
}

// =============================================================================
// MONITOR
// =============================================================================

// DefaultProbeURL is the endpoint used by the reachability probe.
// A generate_204-style endpoint keeps the probe cheap.
const DefaultProbeURL = "https://clients3.google.com/generate_204"

// Monitor holds the current connectivity state and a subscriber list. It is
// an owned instance, not a process-wide singleton, so its lifecycle is
// explicit and tests can run monitors side by side.
type Monitor struct {
	mu     sync.Mutex
	online bool
	nextID int
	subs   map[int]func(Event)

	// ProbeURL overrides DefaultProbeURL when non-empty. Set it before
	// the monitor is shared across goroutines; later changes go through
	// SetProbeURL.
	ProbeURL string
}

// SetProbeURL changes the reachability endpoint. An empty URL restores the
// default. Safe to call while probes are running.
func (m *Monitor) SetProbeURL(url string) {
	m.mu.Lock()
	m.ProbeURL = url
	m.mu.Unlock()
}

// NewMonitor creates a monitor with the given initial state.
func NewMonitor(online bool) *Monitor {
	return &Monitor{
		online: online,
		subs:   make(map[int]func(Event)),
	}
}

// Online returns the current connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers fn for transition events and returns an unsubscribe
// function. The unsubscribe function is idempotent.
func (m *Monitor) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// ReportOnline records evidence of connectivity (a remote call succeeded).
// Fires WentOnline on an offline-to-online edge; otherwise a no-op.
func (m *Monitor) ReportOnline() {
	m.transition(true)
}

// ReportOffline records evidence of lost connectivity (a remote call failed
// at the transport level). Fires WentOffline on an online-to-offline edge;
// otherwise a no-op.
func (m *Monitor) ReportOffline() {
	m.transition(false)
}

// transition flips state on an edge and notifies subscribers outside the
// lock, so a callback may itself report or subscribe without deadlocking.
func (m *Monitor) transition(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online

	event := WentOffline
	if online {
		event = WentOnline
	}
	subs := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}

// =============================================================================
// REACHABILITY PROBE
// =============================================================================

// Probe performs one reachability check and reports the outcome to the
// monitor. The TUI runs it at startup and then on a timer, standing in for
// the push-style network notifications a terminal does not get.
func (m *Monitor) Probe(ctx context.Context) bool {
	m.mu.Lock()
	probeURL := m.ProbeURL
	m.mu.Unlock()
	if probeURL == "" {
		probeURL = DefaultProbeURL
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, probeURL, nil)
	if err != nil {
		m.ReportOffline()
		return false
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		m.ReportOffline()
		return false
	}
	resp.Body.Close()

	m.ReportOnline()
	return true
}
