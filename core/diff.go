package core

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"pkt.systems/codexpad/schema"
)

// summarizeEdit counts inserted, deleted and kept code points between the
// selected text and its replacement.
func summarizeEdit(before, after string) schema.EditDiff {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	var summary schema.EditDiff
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			summary.Unchanged += n
		case diffmatchpatch.DiffDelete:
			summary.Deleted += n
		case diffmatchpatch.DiffInsert:
			summary.Inserted += n
		}
	}
	return summary
}
