// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the on-device key-value store backing the app.
package storage

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/krishiuday/kisan-tui/internal/model"
)

// Typed accessors for the three logical keys. Loaders never surface parse
// errors: a malformed stored value is logged and reported as absent, so a
// corrupted store degrades to first-launch behavior instead of crashing.

// =============================================================================
// USER PROFILE
// =============================================================================

// SaveProfile persists the user profile.
func (s *Store) SaveProfile(p *model.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.Put(KeyUserProfile, data)
}

// LoadProfile returns the persisted profile, ErrNotFound when absent or
// unusable.
func (s *Store) LoadProfile() (*model.UserProfile, error) {
	data, err := s.Get(KeyUserProfile)
	if err != nil {
		return nil, err
	}

	var p model.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("storage: discarding malformed user profile: %v", err)
		return nil, ErrNotFound
	}
	if !p.Valid() {
		log.Printf("storage: discarding incomplete user profile")
		return nil, ErrNotFound
	}
	return &p, nil
}

// ClearProfile removes the persisted profile.
func (s *Store) ClearProfile() error {
	return s.Delete(KeyUserProfile)
}

// =============================================================================
// LAST ADVISORY
// =============================================================================

// SaveAdvisory persists the last generated advisory, overwriting any
// previous one.
func (s *Store) SaveAdvisory(r *model.AdvisoryResult) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.Put(KeyLastAdvisory, data)
}

// LoadAdvisory returns the last persisted advisory, ErrNotFound when absent
// or unusable.
func (s *Store) LoadAdvisory() (*model.AdvisoryResult, error) {
	data, err := s.Get(KeyLastAdvisory)
	if err != nil {
		return nil, err
	}

	var r model.AdvisoryResult
	if err := json.Unmarshal(data, &r); err != nil {
		log.Printf("storage: discarding malformed advisory: %v", err)
		return nil, ErrNotFound
	}
	if !r.Valid() {
		log.Printf("storage: discarding incomplete advisory")
		return nil, ErrNotFound
	}
	return &r, nil
}

// =============================================================================
// CHAT TRANSCRIPT
// =============================================================================

// SaveTranscript persists the full chat transcript.
func (s *Store) SaveTranscript(transcript []model.ChatMessage) error {
	data, err := json.Marshal(transcript)
	if err != nil {
		return err
	}
	return s.Put(KeyChatHistory, data)
}

// LoadTranscript returns the persisted transcript. An absent or malformed
// value yields the seeded single-greeting default, never an error from
// decoding.
func (s *Store) LoadTranscript() ([]model.ChatMessage, error) {
	data, err := s.Get(KeyChatHistory)
	if errors.Is(err, ErrNotFound) {
		return model.SeedTranscript(), nil
	}
	if err != nil {
		return nil, err
	}

	var transcript []model.ChatMessage
	if err := json.Unmarshal(data, &transcript); err != nil {
		log.Printf("storage: discarding malformed transcript: %v", err)
		return model.SeedTranscript(), nil
	}
	if !model.ValidTranscript(transcript) {
		log.Printf("storage: discarding inconsistent transcript")
		return model.SeedTranscript(), nil
	}
	return transcript, nil
}
