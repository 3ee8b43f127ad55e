// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"strings"

	"golang.org/x/text/language"
)

// =============================================================================
// LANGUAGE HANDLING
// =============================================================================

// languageTags maps bare English language names to their BCP 47 tags. The
// selector in the advisory view offers display names like "Hindi (हिंदी)";
// only the bare name matters here.
var languageTags = map[string]language.Tag{
	"English": language.English,
	"Hindi":   language.Hindi,
	"Punjabi": language.Punjabi,
	"Tamil":   language.Tamil,
	"Telugu":  language.Telugu,
	"Marathi": language.Marathi,
}

// BareLanguageName strips the native-script suffix from a display name,
// e.g. "Hindi (हिंदी)" becomes "Hindi". Unknown names pass through so the
// remote model still sees a usable instruction.
func BareLanguageName(display string) string {
	name := display
	if i := strings.Index(name, " ("); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "English"
	}
	return name
}

// LanguageTag resolves a display or bare language name to its BCP 47 tag.
// Unknown names fall back to English.
func LanguageTag(display string) language.Tag {
	if tag, ok := languageTags[BareLanguageName(display)]; ok {
		return tag
	}
	return language.English
}
