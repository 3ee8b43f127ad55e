// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the application.
package model

import (
	"strconv"
	"sync/atomic"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Kisan Sahayak"
	default:
		return string(r)
	}
}

// =============================================================================
// CHAT MESSAGE
// =============================================================================

// ChatMessage represents a single message in the assistant transcript.
//
// Pending marks a user message composed while offline and not yet delivered
// to the remote assistant. Only user messages may ever be pending; assistant
// messages are created after a successful delivery and are never pending.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Pending   bool      `json:"pending,omitempty"`
}

// NewUserMessage creates a user message. pending records whether the message
// was composed without connectivity.
func NewUserMessage(text string, pending bool) ChatMessage {
	return ChatMessage{
		ID:        NextMessageID(),
		Role:      RoleUser,
		Text:      text,
		CreatedAt: time.Now(),
		Pending:   pending,
	}
}

// NewAssistantMessage creates an assistant reply message.
func NewAssistantMessage(text string) ChatMessage {
	return ChatMessage{
		ID:        NextMessageID(),
		Role:      RoleAssistant,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// =============================================================================
// MESSAGE IDS
// =============================================================================

// messageSeq disambiguates IDs minted within the same millisecond.
var messageSeq atomic.Uint64

// NextMessageID returns a unique, monotonically-derived message ID. The ID is
// the creation time in milliseconds plus a process-local sequence number, so
// lexicographic order on equal-length IDs follows creation order.
func NextMessageID() string {
	ms := time.Now().UnixMilli()
	seq := messageSeq.Add(1)
	return "msg_" + strconv.FormatInt(ms, 10) + "_" + strconv.FormatUint(seq, 10)
}

// =============================================================================
// TRANSCRIPT HELPERS
// =============================================================================

// DefaultGreeting is the message seeded into an empty transcript.
const DefaultGreeting = "Namaste! I am your Kisan Sahayak. Ask me anything about your crops, mandi prices, or government schemes."

// SeedTranscript returns the default transcript for a first launch or a
// recovered store: a single assistant greeting.
func SeedTranscript() []ChatMessage {
	return []ChatMessage{{
		ID:        NextMessageID(),
		Role:      RoleAssistant,
		Text:      DefaultGreeting,
		CreatedAt: time.Now(),
	}}
}

// PendingMessages returns the user messages awaiting delivery, in transcript
// (chronological) order.
func PendingMessages(transcript []ChatMessage) []ChatMessage {
	var pending []ChatMessage
	for _, msg := range transcript {
		if msg.Role == RoleUser && msg.Pending {
			pending = append(pending, msg)
		}
	}
	return pending
}

// ValidTranscript reports whether a decoded transcript is usable: non-empty,
// every entry carries an ID and a known role, and no assistant entry is
// marked pending.
func ValidTranscript(transcript []ChatMessage) bool {
	if len(transcript) == 0 {
		return false
	}
	for _, msg := range transcript {
		if msg.ID == "" {
			return false
		}
		switch msg.Role {
		case RoleUser:
		case RoleAssistant:
			if msg.Pending {
				return false
			}
		default:
			return false
		}
	}
	return true
}
