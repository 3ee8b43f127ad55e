// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package connectivity tracks online/offline state and notifies subscribers.
package connectivity

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// StatusMsg carries a connectivity transition into the Bubble Tea update
// loop.
type StatusMsg struct {
	Online bool
}

// Forward subscribes the given program to the monitor and returns the
// unsubscribe function. Call the returned function when the program exits.
func Forward(m *Monitor, program *tea.Program) func() {
	return m.Subscribe(func(e Event) {
		program.Send(StatusMsg{Online: e == WentOnline})
	})
}

// ProbeCmd returns a command that runs the startup reachability probe and
// delivers the outcome as a StatusMsg.
func ProbeCmd(m *Monitor) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Online: m.Probe(context.Background())}
	}
}
