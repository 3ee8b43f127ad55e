// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"strings"

	"github.com/krishiuday/kisan-tui/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

type part struct {
	Text string `json:"text,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string      `json:"responseMimeType,omitempty"`
	ResponseSchema   *schemaNode `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// FirstText returns the first text part of the first candidate.
func (r *generateResponse) FirstText() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	for _, p := range r.Candidates[0].Content.Parts {
		if p.Text != "" {
			return p.Text
		}
	}
	return ""
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// ADVISORY RESPONSE SCHEMA
// =============================================================================

// schemaNode is a structured-output schema node in the provider's format.
type schemaNode struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Properties  map[string]*schemaNode `json:"properties,omitempty"`
	Items       *schemaNode            `json:"items,omitempty"`
}

// advisorySchema returns the fixed response schema for advisory generation.
// The keys here are the contract: they stay in English no matter which
// output language is requested.
func advisorySchema() *schemaNode {
	return &schemaNode{
		Type: "OBJECT",
		Properties: map[string]*schemaNode{
			"summary":      {Type: "STRING", Description: "A 2-sentence summary of the outlook."},
			"sowingAdvice": {Type: "STRING", Description: "Specific advice on sowing depth, spacing, and seed treatment."},
			"fertilizerSchedule": {
				Type: "ARRAY",
				Items: &schemaNode{
					Type: "OBJECT",
					Properties: map[string]*schemaNode{
						"stage":          {Type: "STRING", Description: "Growth stage (e.g., Basal, Vegetative)"},
						"recommendation": {Type: "STRING", Description: "Specific fertilizer and quantity per acre."},
					},
				},
			},
			"irrigationPlan": {Type: "STRING", Description: "Frequency and method advice based on soil."},
			"pestManagement": {
				Type: "ARRAY",
				Items: &schemaNode{
					Type: "OBJECT",
					Properties: map[string]*schemaNode{
						"alertLevel": {Type: "STRING", Enum: []string{"Green", "Yellow", "Red"}},
						"pestName":   {Type: "STRING"},
						"action":     {Type: "STRING", Description: "Organic or chemical remedy."},
					},
				},
			},
			"sustainabilityTip": {Type: "STRING", Description: "One tip for water conservation or soil health."},
		},
	}
}

// =============================================================================
// PROMPTS
// =============================================================================

// chatSystemInstruction frames the assistant persona for free-text chat.
const chatSystemInstruction = "You are a helpful farming assistant named 'Kisan Sahayak'. " +
	"You help Indian farmers with queries about crops, weather, schemes (PM-Kisan), and market prices. " +
	"Keep answers concise and encouraging."

// advisorySystemInstruction frames the persona for advisory generation.
func advisorySystemInstruction(language string) string {
	return "You are Kisan Sahayak, an expert Indian agriculture AI. Provide answers in " +
		BareLanguageName(language) + "."
}

// advisoryPrompt builds the advisory generation prompt from the form input.
func advisoryPrompt(input model.AdvisoryInput, language string) string {
	lang := BareLanguageName(language)

	var sb strings.Builder
	sb.WriteString("Act as an expert agricultural scientist for India.\n")
	sb.WriteString("Provide a detailed farming advisory for the following conditions:\n")
	sb.WriteString("Crop: " + input.Crop + "\n")
	sb.WriteString("Soil Type: " + input.SoilType + "\n")
	sb.WriteString("Sowing Date: " + input.SowingDate + "\n")
	sb.WriteString("Land Area: " + input.LandArea + " acres\n")
	sb.WriteString("Irrigation: " + input.IrrigationType + "\n\n")
	sb.WriteString("Consider current general climate trends in India. ")
	sb.WriteString("Focus on increasing yield, reducing chemical usage, and water conservation.\n\n")
	sb.WriteString("IMPORTANT: Output Language must be: " + lang + ". ")
	sb.WriteString("However, the JSON KEYS (e.g., \"summary\", \"sowingAdvice\", \"fertilizerSchedule\") MUST remain in English. ")
	sb.WriteString("Only translate the VALUES (the content strings) into " + lang + ".\n\n")
	sb.WriteString("Return the data strictly in JSON format matching the schema.")
	return sb.String()
}
