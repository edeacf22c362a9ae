// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package repo

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every HTML tag, leaving only text content.
var stripPolicy = bluemonday.StrictPolicy()

// PreviewMaxLen is the default bound for list previews.
const PreviewMaxLen = 150

// PreviewText strips markup tags from post content and truncates the
// result to at most maxLen runes. Tags are stripped before truncation,
// so the bound applies to visible text only; no ellipsis is added (the
// templates append one for display). Pure function, no side effects.
func PreviewText(content string, maxLen int) string {
	text := stripPolicy.Sanitize(content)
	// The sanitizer HTML-escapes its output; unescape so previews show plain text.
	text = html.UnescapeString(text)
	text = strings.Join(strings.Fields(text), " ")

	if maxLen <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}
