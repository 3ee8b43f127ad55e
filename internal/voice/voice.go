// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice provides optional microphone dictation for the chat input.
//
// Speech-to-text is delegated to an external transcriber binary found on
// PATH. Availability is probed once and cached; on machines without a
// transcriber every call fails with ErrNotSupported, which the chat view
// surfaces as an explicit notice rather than hiding the feature silently.
package voice

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// DefaultLocale is the transcription locale. Dictation is tuned for the
// Indian-English accent mix typical of the target users.
const DefaultLocale = "en-IN"

// transcribeTimeout bounds one dictation round.
const transcribeTimeout = 60 * time.Second

// ErrNotSupported indicates no transcriber binary is available.
var ErrNotSupported = errors.New("voice input not supported on this system")

// transcribers lists known speech-to-text CLIs, in preference order. Each
// is expected to capture audio, transcribe it, and print the text.
var transcribers = []string{"whisper-cli", "vosk-transcriber"}

// =============================================================================
// CAPABILITY PROBE
// =============================================================================

var (
	probeOnce sync.Once
	probePath string
)

// lookupTranscriber finds the first available transcriber on PATH. The
// result is cached for the process lifetime.
func lookupTranscriber() string {
	probeOnce.Do(func() {
		for _, name := range transcribers {
			if path, err := exec.LookPath(name); err == nil {
				probePath = path
				return
			}
		}
	})
	return probePath
}

// Supported reports whether voice input can work on this system.
func Supported() bool {
	return lookupTranscriber() != ""
}

// =============================================================================
// TRANSCRIPTION
// =============================================================================

// Transcribe captures one utterance and returns the recognized text.
// Single-shot: the transcriber records until silence and exits. The result
// is appended to the current draft by the caller, never auto-sent.
func Transcribe(ctx context.Context) (string, error) {
	bin := lookupTranscriber()
	if bin == "" {
		return "", ErrNotSupported
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, transcribeTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, "--language", DefaultLocale)
	output, err := cmd.Output()
	if err != nil {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	text := strings.TrimSpace(string(output))
	if text == "" {
		return "", fmt.Errorf("no speech recognized")
	}
	return text, nil
}
