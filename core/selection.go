package core

import (
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"pkt.systems/codexpad/schema"
)

// CaptureSelection snapshots the range [start,end) of content. Offsets count
// Unicode code points; they are clamped to the content and swapped when
// reversed. It returns nil when the selected text is blank.
func CaptureSelection(id schema.DocumentID, content string, start, end int, layout schema.Layout) *schema.Selection {
	runes := []rune(content)
	start = clampOffset(start, len(runes))
	end = clampOffset(end, len(runes))
	if start > end {
		start, end = end, start
	}
	text := runeSlice(content, start, end)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return &schema.Selection{
		DocumentID: id,
		Start:      start,
		End:        end,
		Text:       text,
		Checksum:   contentChecksum(content),
		Length:     len(runes),
		Anchor:     measureAnchor(runes, start, layout),
	}
}

// ValidateSelection reports schema.ErrStaleSelection when sel was not
// captured against content.
func ValidateSelection(sel schema.Selection, content string) error {
	length := utf8.RuneCountInString(content)
	if sel.Length != length || sel.Checksum != contentChecksum(content) {
		return schema.ErrStaleSelection
	}
	if sel.Start < 0 || sel.Start > sel.End || sel.End > length {
		return schema.ErrStaleSelection
	}
	if runeSlice(content, sel.Start, sel.End) != sel.Text {
		return schema.ErrStaleSelection
	}
	return nil
}

func contentChecksum(content string) uint64 {
	return xxhash.Sum64String(content)
}

// spliceRunes returns content[:start] + replacement + content[end:] in code
// points. Bytes outside the range are copied verbatim, invalid UTF-8 included.
func spliceRunes(content string, start, end int, replacement string) string {
	length := utf8.RuneCountInString(content)
	start = clampOffset(start, length)
	end = clampOffset(end, length)
	if start > end {
		start, end = end, start
	}
	bs, be := byteOffset(content, start), byteOffset(content, end)
	var b strings.Builder
	b.Grow(len(content) - (be - bs) + len(replacement))
	b.WriteString(content[:bs])
	b.WriteString(replacement)
	b.WriteString(content[be:])
	return b.String()
}

// runeSlice returns the bytes of content between two code point offsets.
func runeSlice(content string, start, end int) string {
	return content[byteOffset(content, start):byteOffset(content, end)]
}

// byteOffset maps a code point offset to a byte offset. An invalid byte
// counts as one code point, matching utf8.RuneCountInString.
func byteOffset(content string, offset int) int {
	n := 0
	for i := range content {
		if n == offset {
			return i
		}
		n++
	}
	return len(content)
}

func clampOffset(offset, length int) int {
	if offset < 0 {
		return 0
	}
	if offset > length {
		return length
	}
	return offset
}
