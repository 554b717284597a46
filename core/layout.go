package core

import (
	"github.com/mattn/go-runewidth"
	"pkt.systems/codexpad/schema"
)

const (
	defaultTabWidth   = 8
	defaultCellWidth  = 8
	defaultLineHeight = 24
)

// measureAnchor lays runes[:offset] out on a monospace cell grid and returns
// the screen position of the cell at offset. Wrapping is per cell, which is
// close enough for placing a floating menu.
func measureAnchor(runes []rune, offset int, layout schema.Layout) schema.Anchor {
	layout = normalizeLayout(layout)
	wrap := layout.WordWrap && layout.Columns > 0
	row, col := 0, 0
	for _, r := range runes[:offset] {
		switch r {
		case '\n':
			row++
			col = 0
			continue
		case '\r':
			continue
		case '\t':
			next := (col/layout.TabWidth + 1) * layout.TabWidth
			if wrap && next > layout.Columns {
				row++
				col = 0
				continue
			}
			col = next
			continue
		}
		width := runewidth.RuneWidth(r)
		if width == 0 {
			continue
		}
		if wrap && col+width > layout.Columns {
			row++
			col = 0
		}
		col += width
	}
	if wrap && col >= layout.Columns {
		row++
		col = 0
	}
	return schema.Anchor{
		Top:    layout.PaddingTop + float64(row)*layout.LineHeight - layout.ScrollTop - layout.MenuOffset,
		Left:   layout.PaddingLeft + float64(col)*layout.CellWidth,
		Row:    row,
		Column: col,
	}
}

func normalizeLayout(layout schema.Layout) schema.Layout {
	if layout.TabWidth <= 0 {
		layout.TabWidth = defaultTabWidth
	}
	if layout.CellWidth <= 0 {
		layout.CellWidth = defaultCellWidth
	}
	if layout.LineHeight <= 0 {
		layout.LineHeight = defaultLineHeight
	}
	return layout
}
