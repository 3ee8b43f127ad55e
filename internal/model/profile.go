// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the application.
package model

import "strings"

// UserProfile is the authenticated farmer. It is created on first successful
// login, persisted for the lifetime of the session, and destroyed on logout.
type UserProfile struct {
	CountryCode string `json:"countryCode"`
	PhoneNumber string `json:"phoneNumber"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
}

// Valid reports whether a decoded profile carries the mandatory fields.
func (p *UserProfile) Valid() bool {
	return p != nil && p.CountryCode != "" && p.PhoneNumber != ""
}

// DisplayName returns the farmer's name, falling back to the phone number.
func (p *UserProfile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name != "" {
		return name
	}
	return p.FullNumber()
}

// FullNumber returns the E.164-style phone number.
func (p *UserProfile) FullNumber() string {
	return p.CountryCode + p.PhoneNumber
}
