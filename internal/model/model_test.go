// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the application.
package model

import (
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("How do I treat aphids?", true)

	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want %q", msg.Role, RoleUser)
	}
	if !msg.Pending {
		t.Error("Expected pending message")
	}
	if msg.ID == "" {
		t.Error("Expected non-empty ID")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestNewAssistantMessageNeverPending(t *testing.T) {
	msg := NewAssistantMessage("Spray neem oil solution.")
	if msg.Role != RoleAssistant {
		t.Errorf("Role = %q, want %q", msg.Role, RoleAssistant)
	}
	if msg.Pending {
		t.Error("Assistant messages must never be pending")
	}
}

func TestNextMessageIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NextMessageID()
		if seen[id] {
			t.Fatalf("Duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestSeedTranscript(t *testing.T) {
	seed := SeedTranscript()
	if len(seed) != 1 {
		t.Fatalf("Seed length = %d, want 1", len(seed))
	}
	if seed[0].Role != RoleAssistant {
		t.Errorf("Seed role = %q, want assistant", seed[0].Role)
	}
	if seed[0].Text != DefaultGreeting {
		t.Errorf("Seed text = %q, want default greeting", seed[0].Text)
	}
	if seed[0].Pending {
		t.Error("Seed greeting must not be pending")
	}
}

func TestPendingMessages(t *testing.T) {
	transcript := []ChatMessage{
		{ID: "1", Role: RoleAssistant, Text: "hello"},
		{ID: "2", Role: RoleUser, Text: "first", Pending: true},
		{ID: "3", Role: RoleUser, Text: "sent"},
		{ID: "4", Role: RoleUser, Text: "second", Pending: true},
	}

	pending := PendingMessages(transcript)
	if len(pending) != 2 {
		t.Fatalf("Pending count = %d, want 2", len(pending))
	}
	// Chronological order must be preserved.
	if pending[0].ID != "2" || pending[1].ID != "4" {
		t.Errorf("Pending order = [%s %s], want [2 4]", pending[0].ID, pending[1].ID)
	}
}

func TestValidTranscript(t *testing.T) {
	tests := []struct {
		name       string
		transcript []ChatMessage
		want       bool
	}{
		{"empty", nil, false},
		{"ok", []ChatMessage{{ID: "1", Role: RoleAssistant, Text: "hi"}}, true},
		{"missing id", []ChatMessage{{Role: RoleUser, Text: "hi"}}, false},
		{"unknown role", []ChatMessage{{ID: "1", Role: "system", Text: "hi"}}, false},
		{"pending assistant", []ChatMessage{{ID: "1", Role: RoleAssistant, Pending: true}}, false},
		{"pending user", []ChatMessage{{ID: "1", Role: RoleUser, Pending: true}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidTranscript(tt.transcript); got != tt.want {
				t.Errorf("ValidTranscript() = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// ADVISORY TESTS
// =============================================================================

func TestAdvisoryInputValidate(t *testing.T) {
	valid := AdvisoryInput{
		Crop:           "Wheat",
		SoilType:       "Alluvial Soil",
		SowingDate:     "2024-11-15",
		LandArea:       "2",
		IrrigationType: "Flood Irrigation",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid input rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*AdvisoryInput)
	}{
		{"empty crop", func(in *AdvisoryInput) { in.Crop = "" }},
		{"bad date", func(in *AdvisoryInput) { in.SowingDate = "15/11/2024" }},
		{"non-numeric area", func(in *AdvisoryInput) { in.LandArea = "two" }},
		{"empty irrigation", func(in *AdvisoryInput) { in.IrrigationType = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if err := in.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestAdvisoryResultValid(t *testing.T) {
	result := &AdvisoryResult{
		Summary: "Good outlook.",
		PestManagement: []PestAlert{
			{AlertLevel: AlertGreen, PestName: "Aphid", Action: "Monitor"},
		},
		GeneratedAt: time.Now(),
	}
	if !result.Valid() {
		t.Error("Expected valid result")
	}

	result.PestManagement[0].AlertLevel = "Purple"
	if result.Valid() {
		t.Error("Unknown alert level must invalidate the result")
	}

	empty := &AdvisoryResult{}
	if empty.Valid() {
		t.Error("Empty summary must invalidate the result")
	}
}

func TestAlertLevelValid(t *testing.T) {
	for _, l := range []AlertLevel{AlertGreen, AlertYellow, AlertRed} {
		if !l.Valid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if AlertLevel("Blue").Valid() {
		t.Error("Blue should not be valid")
	}
}

// =============================================================================
// PROFILE TESTS
// =============================================================================

func TestUserProfile(t *testing.T) {
	p := &UserProfile{CountryCode: "+91", PhoneNumber: "9876543210"}
	if !p.Valid() {
		t.Error("Expected valid profile")
	}
	if p.FullNumber() != "+919876543210" {
		t.Errorf("FullNumber = %q", p.FullNumber())
	}
	if p.DisplayName() != "+919876543210" {
		t.Errorf("DisplayName fallback = %q", p.DisplayName())
	}

	p.FirstName = "Ravi"
	p.LastName = "Kumar"
	if p.DisplayName() != "Ravi Kumar" {
		t.Errorf("DisplayName = %q", p.DisplayName())
	}

	var nilProfile *UserProfile
	if nilProfile.Valid() {
		t.Error("Nil profile must be invalid")
	}
	if (&UserProfile{PhoneNumber: "123"}).Valid() {
		t.Error("Profile without country code must be invalid")
	}
}
