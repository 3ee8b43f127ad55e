// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"context"
	"errors"
	"testing"
)

func TestTranscribeWithoutCapability(t *testing.T) {
	if Supported() {
		t.Skip("a transcriber is installed on this machine")
	}

	_, err := Transcribe(context.Background())
	if !errors.Is(err, ErrNotSupported) {
		t.Errorf("expected ErrNotSupported, got %v", err)
	}
}

func TestSupportedIsStable(t *testing.T) {
	first := Supported()
	for i := 0; i < 3; i++ {
		if Supported() != first {
			t.Fatal("probe result must be stable across calls")
		}
	}
}
