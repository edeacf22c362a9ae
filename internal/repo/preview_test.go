// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package repo

import "testing"

func TestPreviewText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"tags stripped before truncation", "<p>Hello</p>World", 5, "Hello"},
		{"plain text short", "안녕하세요", 100, "안녕하세요"},
		{"plain text truncated by runes", "안녕하세요 성도 여러분", 5, "안녕하세요"},
		{"nested markup", "<div><strong>주일</strong> 예배 안내</div>", 100, "주일 예배 안내"},
		{"whitespace collapsed", "첫째\n\n둘째\t셋째", 100, "첫째 둘째 셋째"},
		{"entities unescaped", "&lt;공지&gt; &amp; 안내", 100, "<공지> & 안내"},
		{"script removed", `<script>alert("x")</script>본문`, 100, "본문"},
		{"empty content", "", 100, ""},
		{"zero max", "본문", 0, ""},
		{"negative max", "본문", -1, ""},
		{"exact length", "12345", 5, "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreviewText(tt.content, tt.maxLen); got != tt.want {
				t.Errorf("PreviewText(%q, %d) = %q, want %q", tt.content, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPreviewTextIsPure(t *testing.T) {
	in := "<p>같은 입력</p>"
	first := PreviewText(in, PreviewMaxLen)
	for i := 0; i < 3; i++ {
		if got := PreviewText(in, PreviewMaxLen); got != first {
			t.Fatalf("call %d returned %q, want %q", i, got, first)
		}
	}
}
