// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared across the application.
package model

// Form option tables for the advisory view. Values are sent to the remote
// advisory capability verbatim.

// Crops lists the supported crop selections.
var Crops = []string{
	"Wheat", "Rice (Paddy)", "Cotton", "Sugarcane", "Maize",
	"Mustard", "Soybean", "Tomato", "Potato",
}

// SoilTypes lists the supported soil selections.
var SoilTypes = []string{
	"Alluvial Soil", "Black Soil", "Red Soil", "Laterite Soil",
	"Sandy Loam", "Clay",
}

// IrrigationTypes lists the supported irrigation methods.
var IrrigationTypes = []string{
	"Flood Irrigation", "Drip Irrigation", "Sprinkler", "Rainfed",
}

// Languages lists the supported output languages for generated advisories.
// Display names include the native script; the bare English name is what the
// remote capability receives.
var Languages = []string{
	"English", "Hindi (हिंदी)", "Punjabi (ਪੰਜਾਬੀ)", "Tamil (தமிழ்)",
	"Telugu (తెలుగు)", "Marathi (मराठी)",
}
