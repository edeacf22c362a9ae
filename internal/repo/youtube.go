// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package repo

import "regexp"

// youtubePattern recognizes the two supported video URL shapes:
// youtube.com/watch?v=ID and youtu.be/ID.
var youtubePattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`)

// YouTubeEmbedID extracts the embeddable video identifier from a URL.
// Unrecognized shapes yield ok == false; the caller shows the raw URL
// as a plain link instead of an embed.
func YouTubeEmbedID(rawURL string) (id string, ok bool) {
	m := youtubePattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// YouTubeEmbedURL returns the iframe embed URL for a video URL, or
// ok == false when the shape is unrecognized.
func YouTubeEmbedURL(rawURL string) (embed string, ok bool) {
	id, ok := YouTubeEmbedID(rawURL)
	if !ok {
		return "", false
	}
	return "https://www.youtube.com/embed/" + id, true
}
