// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/krishiuday/kisan-tui/internal/model"
)

func testInput() model.AdvisoryInput {
	return model.AdvisoryInput{
		Crop:           "Wheat",
		SoilType:       "Alluvial Soil",
		SowingDate:     "2025-11-01",
		LandArea:       "2.5",
		IrrigationType: "Drip Irrigation",
	}
}

// candidateResponse wraps text the way the provider does.
func candidateResponse(text string) string {
	resp := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role": "model",
					"parts": []any{
						map[string]any{"text": text},
					},
				},
			},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

const validAdvisoryJSON = `{
	"summary": "Good outlook for wheat this season.",
	"sowingAdvice": "Sow at 5cm depth with 20cm row spacing.",
	"fertilizerSchedule": [{"stage": "Basal", "recommendation": "DAP 50kg per acre"}],
	"irrigationPlan": "Irrigate at crown root initiation.",
	"pestManagement": [{"alertLevel": "Yellow", "pestName": "Aphid", "action": "Neem oil spray"}],
	"sustainabilityTip": "Use drip lines to cut water use."
}`

func TestGenerateAdvisory(t *testing.T) {
	var gotPath string
	var gotKey string
	var gotReq generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(candidateResponse(validAdvisoryJSON)))
	}))
	defer server.Close()

	client := NewClient("test-key").WithBaseURL(server.URL)

	result, err := client.GenerateAdvisory(context.Background(), testInput(), "Hindi (हिंदी)")
	if err != nil {
		t.Fatalf("GenerateAdvisory failed: %v", err)
	}

	if gotPath != "/models/"+DefaultModel+":generateContent" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("expected api key header, got %q", gotKey)
	}
	if gotReq.GenerationConfig == nil || gotReq.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Error("expected structured-output generation config")
	}
	if gotReq.GenerationConfig.ResponseSchema == nil {
		t.Error("expected a response schema")
	}
	prompt := gotReq.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "Wheat") || !strings.Contains(prompt, "Alluvial Soil") {
		t.Errorf("prompt missing farm parameters: %q", prompt)
	}
	if !strings.Contains(prompt, "Hindi") {
		t.Errorf("prompt missing output language: %q", prompt)
	}

	if result.Summary != "Good outlook for wheat this season." {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if len(result.PestManagement) != 1 || result.PestManagement[0].AlertLevel != model.AlertYellow {
		t.Errorf("unexpected pest management: %+v", result.PestManagement)
	}
	if !result.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should be left for the caller to stamp")
	}
}

func TestGenerateAdvisoryMalformed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not JSON", candidateResponse("here is your advisory in prose")},
		{"empty summary", candidateResponse(`{"summary": ""}`)},
		{"bad alert level", candidateResponse(`{"summary": "ok", "pestManagement": [{"alertLevel": "Purple"}]}`)},
		{"no candidates", `{"candidates": []}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient("test-key").WithBaseURL(server.URL)
			_, err := client.GenerateAdvisory(context.Background(), testInput(), "English")
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestSendChatMessage(t *testing.T) {
	var gotReq generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(candidateResponse("Wheat prices are stable this week.")))
	}))
	defer server.Close()

	client := NewClient("test-key").WithBaseURL(server.URL)

	prior := []Turn{
		{Role: "user", Text: "Tell me about wheat."},
		{Role: "model", Text: "Wheat is a rabi crop."},
	}
	reply, err := client.SendChatMessage(context.Background(), "What about prices?", prior)
	if err != nil {
		t.Fatalf("SendChatMessage failed: %v", err)
	}
	if reply != "Wheat prices are stable this week." {
		t.Errorf("unexpected reply: %q", reply)
	}

	if len(gotReq.Contents) != 3 {
		t.Fatalf("expected 3 contents (2 prior + 1 new), got %d", len(gotReq.Contents))
	}
	last := gotReq.Contents[2]
	if last.Role != "user" || last.Parts[0].Text != "What about prices?" {
		t.Errorf("unexpected final content: %+v", last)
	}
	if gotReq.SystemInstruction == nil || !strings.Contains(gotReq.SystemInstruction.Parts[0].Text, "Kisan Sahayak") {
		t.Error("expected the assistant persona in the system instruction")
	}
	if gotReq.GenerationConfig != nil {
		t.Error("chat should not force a response schema")
	}
}

func TestMissingCredential(t *testing.T) {
	client := NewClient("")
	if client.IsConfigured() {
		t.Error("empty key should not be configured")
	}
	if _, err := client.GenerateAdvisory(context.Background(), testInput(), "English"); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
	if _, err := client.SendChatMessage(context.Background(), "hello", nil); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
}

func TestErrorResponses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrMissingCredential},
		{"forbidden", http.StatusForbidden, ErrMissingCredential},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"error": {"code": 0, "message": "nope"}}`))
			}))
			defer server.Close()

			client := NewClient("test-key").WithBaseURL(server.URL)
			_, err := client.SendChatMessage(context.Background(), "hello", nil)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"code": 500, "message": "backend exploded"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key").WithBaseURL(server.URL)
	_, err := client.SendChatMessage(context.Background(), "hello", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("unexpected status: %d", apiErr.Status)
	}
	if !strings.Contains(apiErr.Error(), "backend exploded") {
		t.Errorf("message not surfaced: %v", apiErr)
	}
}

func TestBareLanguageName(t *testing.T) {
	cases := map[string]string{
		"English":           "English",
		"Hindi (हिंदी)":     "Hindi",
		"Punjabi (ਪੰਜਾਬੀ)":  "Punjabi",
		"Tamil (தமிழ்)":     "Tamil",
		"  Marathi (मराठी)": "Marathi",
		"":                  "English",
	}
	for in, want := range cases {
		if got := BareLanguageName(in); got != want {
			t.Errorf("BareLanguageName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLanguageTag(t *testing.T) {
	if tag := LanguageTag("Hindi (हिंदी)"); tag.String() != "hi" {
		t.Errorf("expected hi, got %s", tag)
	}
	if tag := LanguageTag("Klingon"); tag.String() != "en" {
		t.Errorf("unknown language should fall back to en, got %s", tag)
	}
}
