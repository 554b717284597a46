package core

import (
	"strings"
	"unicode/utf8"
)

type textStats struct {
	Words      int
	Characters int
}

func countText(content string) textStats {
	stats := textStats{Characters: utf8.RuneCountInString(content)}
	trimmed := strings.TrimSpace(content)
	if trimmed != "" {
		stats.Words = len(strings.Fields(trimmed))
	}
	return stats
}
