// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatsync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/krishiuday/kisan-tui/internal/connectivity"
	"github.com/krishiuday/kisan-tui/internal/genai"
	"github.com/krishiuday/kisan-tui/internal/model"
	"github.com/krishiuday/kisan-tui/internal/storage"
)

// Error variables for compose and reconcile.
var (
	// ErrEmptyMessage indicates the composed text was blank.
	ErrEmptyMessage = errors.New("empty message")

	// ErrQueued indicates the message was recorded for later delivery
	// rather than sent. Not a failure: the caller shows the pending
	// marker instead of an error.
	ErrQueued = errors.New("message queued for delivery")
)

// Sender delivers one chat message and returns the assistant reply.
// *genai.Client satisfies this.
type Sender interface {
	SendChatMessage(ctx context.Context, text string, priorTurns []genai.Turn) (string, error)
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine owns the chat transcript and its delivery state. Safe for
// concurrent use; the update callback runs outside the lock.
type Engine struct {
	mu         sync.Mutex
	store      *storage.Store
	sender     Sender
	monitor    *connectivity.Monitor
	transcript []model.ChatMessage

	// reconciling coalesces overlapping reconcile triggers.
	reconciling bool

	// onUpdate is invoked with a copy of the transcript after any change.
	onUpdate func([]model.ChatMessage)
}

// NewEngine creates the engine and loads the persisted transcript. An empty
// or unreadable record seeds the greeting.
func NewEngine(store *storage.Store, sender Sender, monitor *connectivity.Monitor) *Engine {
	transcript, err := store.LoadTranscript()
	if err != nil || len(transcript) == 0 {
		transcript = model.SeedTranscript()
	}
	return &Engine{
		store:      store,
		sender:     sender,
		monitor:    monitor,
		transcript: transcript,
	}
}

// SetUpdateCallback sets the function called after each transcript change.
func (e *Engine) SetUpdateCallback(fn func([]model.ChatMessage)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUpdate = fn
}

// Start subscribes the engine to connectivity transitions and returns the
// unsubscribe function. Every online transition triggers a reconcile pass
// on its own goroutine.
func (e *Engine) Start() func() {
	return e.monitor.Subscribe(func(ev connectivity.Event) {
		if ev == connectivity.WentOnline {
			go func() {
				if _, err := e.Reconcile(context.Background()); err != nil {
					log.Printf("chatsync: reconcile after online event: %v", err)
				}
			}()
		}
	})
}

// Transcript returns a copy of the ordered transcript.
func (e *Engine) Transcript() []model.ChatMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// PendingCount returns the number of undelivered user messages.
func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(model.PendingMessages(e.transcript))
}

// =============================================================================
// COMPOSE
// =============================================================================

// Compose records a user message and, when online, attempts immediate
// delivery. Offline the message is stored pending and ErrQueued is
// returned; no network is touched. An online send that fails downgrades the
// message to pending so the next reconcile retries it, and the send error
// is returned.
func (e *Engine) Compose(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	if !e.monitor.Online() {
		e.mu.Lock()
		e.transcript = append(e.transcript, model.NewUserMessage(text, true))
		e.persistLocked()
		fn, snapshot := e.onUpdate, e.snapshotLocked()
		e.mu.Unlock()

		notify(fn, snapshot)
		return ErrQueued
	}

	msg := model.NewUserMessage(text, false)

	e.mu.Lock()
	e.transcript = append(e.transcript, msg)
	e.persistLocked()
	prior := e.deliveredTurnsLocked(msg.ID)
	fn, snapshot := e.onUpdate, e.snapshotLocked()
	e.mu.Unlock()

	notify(fn, snapshot)

	reply, err := e.sender.SendChatMessage(ctx, text, prior)

	e.mu.Lock()
	if err != nil {
		e.markPendingLocked(msg.ID)
	} else {
		e.transcript = append(e.transcript, model.NewAssistantMessage(reply))
	}
	e.persistLocked()
	fn, snapshot = e.onUpdate, e.snapshotLocked()
	e.mu.Unlock()

	notify(fn, snapshot)

	if err != nil {
		return fmt.Errorf("send failed, message queued: %w", err)
	}
	return nil
}

// =============================================================================
// RECONCILE
// =============================================================================

// Reconcile delivers pending user messages in chronological order. Per
// message: send, on success clear the pending flag, append the reply, and
// persist before moving on; on failure log and continue with the next one.
// With nothing pending the pass is a pure no-op. Returns the number of
// messages delivered.
func (e *Engine) Reconcile(ctx context.Context) (int, error) {
	e.mu.Lock()
	if e.reconciling {
		e.mu.Unlock()
		return 0, nil
	}
	e.reconciling = true
	pending := model.PendingMessages(e.transcript)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.reconciling = false
		e.mu.Unlock()
	}()

	if len(pending) == 0 {
		return 0, nil
	}

	delivered := 0
	for _, msg := range pending {
		if err := ctx.Err(); err != nil {
			return delivered, err
		}
		if !e.monitor.Online() {
			// Connectivity dropped mid-pass; the rest stays pending.
			return delivered, nil
		}

		e.mu.Lock()
		prior := e.deliveredTurnsLocked(msg.ID)
		e.mu.Unlock()

		reply, err := e.sender.SendChatMessage(ctx, msg.Text, prior)
		if err != nil {
			log.Printf("chatsync: delivery of %s failed, keeping pending: %v", msg.ID, err)
			continue
		}

		e.mu.Lock()
		e.clearPendingLocked(msg.ID)
		e.transcript = append(e.transcript, model.NewAssistantMessage(reply))
		e.persistLocked()
		fn, snapshot := e.onUpdate, e.snapshotLocked()
		e.mu.Unlock()

		notify(fn, snapshot)
		delivered++
	}
	return delivered, nil
}

// Reconciling reports whether a pass is in flight.
func (e *Engine) Reconciling() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reconciling
}

// =============================================================================
// INTERNALS
// =============================================================================

// snapshotLocked copies the transcript. Caller holds e.mu.
func (e *Engine) snapshotLocked() []model.ChatMessage {
	out := make([]model.ChatMessage, len(e.transcript))
	copy(out, e.transcript)
	return out
}

// persistLocked writes the transcript through to the store. Caller holds
// e.mu. A write failure is logged; the in-memory transcript is already the
// source of truth for this session.
func (e *Engine) persistLocked() {
	if err := e.store.SaveTranscript(e.transcript); err != nil {
		log.Printf("chatsync: failed to persist transcript: %v", err)
	}
}

// deliveredTurnsLocked builds the prior conversation context for a send:
// every delivered message strictly before the one with the given ID.
// Pending messages are excluded, they have not reached the assistant yet.
// Caller holds e.mu.
func (e *Engine) deliveredTurnsLocked(beforeID string) []genai.Turn {
	var turns []genai.Turn
	for _, m := range e.transcript {
		if m.ID == beforeID {
			break
		}
		if m.Pending {
			continue
		}
		role := "user"
		if m.Role == model.RoleAssistant {
			role = "model"
		}
		turns = append(turns, genai.Turn{Role: role, Text: m.Text})
	}
	return turns
}

// markPendingLocked flags the message with the given ID. Caller holds e.mu.
func (e *Engine) markPendingLocked(id string) {
	for i := range e.transcript {
		if e.transcript[i].ID == id {
			e.transcript[i].Pending = true
			return
		}
	}
}

// clearPendingLocked unflags the message with the given ID. Caller holds
// e.mu.
func (e *Engine) clearPendingLocked(id string) {
	for i := range e.transcript {
		if e.transcript[i].ID == id {
			e.transcript[i].Pending = false
			return
		}
	}
}

func notify(fn func([]model.ChatMessage), snapshot []model.ChatMessage) {
	if fn != nil {
		fn(snapshot)
	}
}
