// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the on-device key-value store backing the app.
package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/krishiuday/kisan-tui/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "kisan.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// KEY-VALUE TESTS
// =============================================================================

func TestStore_PutGet(t *testing.T) {
	store := newTestStore(t)

	if err := store.Put("k", []byte("v1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get("k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("Get = %q, want %q", got, "v1")
	}

	// Overwrite replaces atomically.
	if err := store.Put("k", []byte("v2")); err != nil {
		t.Fatalf("Put overwrite failed: %v", err)
	}
	got, _ = store.Get("k")
	if string(got) != "v2" {
		t.Errorf("Get after overwrite = %q, want %q", got, "v2")
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	store.Put("k", []byte("v"))
	if err := store.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if store.Has("k") {
		t.Error("Key should be gone after delete")
	}

	// Deleting an absent key is not an error.
	if err := store.Delete("k"); err != nil {
		t.Errorf("Delete of absent key failed: %v", err)
	}
}

func TestStore_Closed(t *testing.T) {
	store := newTestStore(t)
	store.Close()

	if _, err := store.Get("k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after close: expected ErrClosed, got %v", err)
	}
	if err := store.Put("k", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Put after close: expected ErrClosed, got %v", err)
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kisan.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.Put("k", []byte("persisted"))
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("k")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(got) != "persisted" {
		t.Errorf("Get after reopen = %q", got)
	}
}

// =============================================================================
// TYPED ACCESSOR TESTS
// =============================================================================

func TestStore_ProfileRoundTrip(t *testing.T) {
	store := newTestStore(t)

	p := &model.UserProfile{
		CountryCode: "+91",
		PhoneNumber: "9876543210",
		FirstName:   "Ravi",
	}
	if err := store.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	loaded, err := store.LoadProfile()
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if *loaded != *p {
		t.Errorf("LoadProfile = %+v, want %+v", loaded, p)
	}

	if err := store.ClearProfile(); err != nil {
		t.Fatalf("ClearProfile failed: %v", err)
	}
	if _, err := store.LoadProfile(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after clear, got %v", err)
	}
}

func TestStore_ProfileMalformedRecovers(t *testing.T) {
	store := newTestStore(t)

	store.Put(KeyUserProfile, []byte("{not json"))
	if _, err := store.LoadProfile(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Malformed profile should load as absent, got %v", err)
	}

	// Structurally valid JSON missing mandatory fields is also absent.
	store.Put(KeyUserProfile, []byte(`{"firstName":"Ravi"}`))
	if _, err := store.LoadProfile(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Incomplete profile should load as absent, got %v", err)
	}
}

func TestStore_AdvisoryRoundTrip(t *testing.T) {
	store := newTestStore(t)

	r := &model.AdvisoryResult{
		Summary:      "Favourable outlook for wheat.",
		SowingAdvice: "Sow at 5cm depth.",
		FertilizerSchedule: []model.FertilizerStage{
			{Stage: "Basal", Recommendation: "50kg DAP per acre"},
		},
		IrrigationPlan: "Irrigate every 10 days.",
		PestManagement: []model.PestAlert{
			{AlertLevel: model.AlertYellow, PestName: "Aphid", Action: "Spray neem oil"},
		},
		SustainabilityTip: "Mulch to retain moisture.",
		GeneratedAt:       time.Now().Truncate(time.Second),
	}
	if err := store.SaveAdvisory(r); err != nil {
		t.Fatalf("SaveAdvisory failed: %v", err)
	}

	loaded, err := store.LoadAdvisory()
	if err != nil {
		t.Fatalf("LoadAdvisory failed: %v", err)
	}
	if loaded.Summary != r.Summary || len(loaded.FertilizerSchedule) != 1 ||
		loaded.PestManagement[0].AlertLevel != model.AlertYellow {
		t.Errorf("LoadAdvisory = %+v", loaded)
	}
}

func TestStore_AdvisoryMalformedRecovers(t *testing.T) {
	store := newTestStore(t)

	store.Put(KeyLastAdvisory, []byte("garbage"))
	if _, err := store.LoadAdvisory(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Malformed advisory should load as absent, got %v", err)
	}
}

func TestStore_TranscriptRoundTrip(t *testing.T) {
	store := newTestStore(t)

	transcript := []model.ChatMessage{
		{ID: "1", Role: model.RoleAssistant, Text: "Namaste!", CreatedAt: time.Now().Truncate(time.Second)},
		{ID: "2", Role: model.RoleUser, Text: "Queued while offline", CreatedAt: time.Now().Truncate(time.Second), Pending: true},
	}
	if err := store.SaveTranscript(transcript); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}

	loaded, err := store.LoadTranscript()
	if err != nil {
		t.Fatalf("LoadTranscript failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Transcript length = %d, want 2", len(loaded))
	}
	for i := range transcript {
		if loaded[i].ID != transcript[i].ID ||
			loaded[i].Role != transcript[i].Role ||
			loaded[i].Text != transcript[i].Text ||
			loaded[i].Pending != transcript[i].Pending {
			t.Errorf("Message %d = %+v, want %+v", i, loaded[i], transcript[i])
		}
	}
}

func TestStore_TranscriptAbsentSeedsGreeting(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.LoadTranscript()
	if err != nil {
		t.Fatalf("LoadTranscript failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Role != model.RoleAssistant {
		t.Fatalf("Expected seeded greeting, got %+v", loaded)
	}
	if loaded[0].Text != model.DefaultGreeting {
		t.Errorf("Seed text = %q", loaded[0].Text)
	}
}

func TestStore_TranscriptMalformedSeedsGreeting(t *testing.T) {
	store := newTestStore(t)

	store.Put(KeyChatHistory, []byte("[{broken"))
	loaded, err := store.LoadTranscript()
	if err != nil {
		t.Fatalf("LoadTranscript failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Text != model.DefaultGreeting {
		t.Errorf("Malformed transcript should reload as seeded default, got %+v", loaded)
	}
}
