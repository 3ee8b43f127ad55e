// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatsync

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krishiuday/kisan-tui/internal/model"
)

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TranscriptMsg carries the updated transcript to the chat view.
type TranscriptMsg struct {
	Transcript []model.ChatMessage
}

// ComposeDoneMsg reports the outcome of a compose.
type ComposeDoneMsg struct {
	Queued bool
	Err    error
}

// ReconcileDoneMsg reports a finished reconcile pass.
type ReconcileDoneMsg struct {
	Delivered int
}

// Forward wires the engine's update callback to the running program, so
// transcript changes made on command goroutines reach the view.
func Forward(e *Engine, program *tea.Program) {
	e.SetUpdateCallback(func(transcript []model.ChatMessage) {
		program.Send(TranscriptMsg{Transcript: transcript})
	})
}

// ComposeCmd records and (when online) sends a message.
func ComposeCmd(e *Engine, text string) tea.Cmd {
	return func() tea.Msg {
		err := e.Compose(context.Background(), text)
		if errors.Is(err, ErrQueued) {
			return ComposeDoneMsg{Queued: true}
		}
		return ComposeDoneMsg{Err: err}
	}
}

// ReconcileCmd runs one reconcile pass. Used at chat mount; online events
// trigger passes through Engine.Start.
func ReconcileCmd(e *Engine) tea.Cmd {
	return func() tea.Msg {
		delivered, _ := e.Reconcile(context.Background())
		return ReconcileDoneMsg{Delivered: delivered}
	}
}
