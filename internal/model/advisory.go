// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the application.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// ADVISORY INPUT
// =============================================================================

// AdvisoryInput is the structured farm description submitted for a new
// advisory. It is built by form interaction and never persisted on its own.
type AdvisoryInput struct {
	Crop           string `json:"crop" validate:"required"`
	SoilType       string `json:"soilType" validate:"required"`
	SowingDate     string `json:"sowingDate" validate:"required,datetime=2006-01-02"`
	LandArea       string `json:"landArea" validate:"required,numeric"` // acres
	IrrigationType string `json:"irrigationType" validate:"required"`
}

// inputValidate is the shared validator instance for advisory inputs.
var inputValidate = validator.New()

// Validate checks that all fields are present and well-formed.
func (in AdvisoryInput) Validate() error {
	if err := inputValidate.Struct(in); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return fmt.Errorf("invalid advisory input: field %s failed %s", errs[0].Field(), errs[0].Tag())
		}
		return fmt.Errorf("invalid advisory input: %w", err)
	}
	return nil
}

// =============================================================================
// ADVISORY RESULT
// =============================================================================

// AlertLevel classifies the urgency of a pest alert.
type AlertLevel string

const (
	AlertGreen  AlertLevel = "Green"
	AlertYellow AlertLevel = "Yellow"
	AlertRed    AlertLevel = "Red"
)

// Valid reports whether the level is one of the three known values.
func (l AlertLevel) Valid() bool {
	switch l {
	case AlertGreen, AlertYellow, AlertRed:
		return true
	}
	return false
}

// FertilizerStage is one entry of the fertilizer schedule.
type FertilizerStage struct {
	Stage          string `json:"stage"`
	Recommendation string `json:"recommendation"`
}

// PestAlert is one entry of the pest-management plan.
type PestAlert struct {
	AlertLevel AlertLevel `json:"alertLevel"`
	PestName   string     `json:"pestName"`
	Action     string     `json:"action"`
}

// AdvisoryResult is a generated advisory. At most one is retained at a time
// (the "last advisory"); it is overwritten on each successful generation and
// survives restarts via the persistent store.
type AdvisoryResult struct {
	Summary            string            `json:"summary"`
	SowingAdvice       string            `json:"sowingAdvice"`
	FertilizerSchedule []FertilizerStage `json:"fertilizerSchedule"`
	IrrigationPlan     string            `json:"irrigationPlan"`
	PestManagement     []PestAlert       `json:"pestManagement"`
	SustainabilityTip  string            `json:"sustainabilityTip"`
	GeneratedAt        time.Time         `json:"generatedAt,omitempty"`
}

// Valid reports whether a decoded result is complete enough to display:
// a non-empty summary and every pest alert carrying a known level.
func (r *AdvisoryResult) Valid() bool {
	if r == nil || r.Summary == "" {
		return false
	}
	for _, pest := range r.PestManagement {
		if !pest.AlertLevel.Valid() {
			return false
		}
	}
	return true
}
