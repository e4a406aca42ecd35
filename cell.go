package gridterm

import "github.com/rivo/uniseg"

// Attr is a bitset of per-cell style attributes.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrStrikethrough
	AttrInverse
	AttrBlink
	// AttrWideSpacer marks the trailing half of a double-width glyph. The
	// glyph itself lives in the preceding cell; renderers skip spacers.
	AttrWideSpacer
)

// Has returns true if all bits in mask are set.
func (a Attr) Has(mask Attr) bool {
	return a&mask == mask
}

// Cell is one character slot in the grid. Cells are plain values; the Grid
// owns the backing storage and replaces cells in place.
type Cell struct {
	Char rune // 0 means empty (renders as a space)
	FG   Color
	BG   Color
	Attr Attr
}

// IsWideSpacer returns true for the continuation half of a wide glyph.
func (c Cell) IsWideSpacer() bool {
	return c.Attr&AttrWideSpacer != 0
}

// Rune returns the displayable rune, substituting a space for empty cells.
func (c Cell) Rune() rune {
	if c.Char == 0 {
		return ' '
	}
	return c.Char
}

// runeWidth returns the number of columns a rune occupies (1 or 2).
// Control and zero-width runes report 0 and are not written as cells.
func runeWidth(r rune) int {
	if r < 0x20 {
		return 0
	}
	if r < 0x7F {
		return 1
	}
	w := uniseg.StringWidth(string(r))
	if w < 0 {
		return 0
	}
	if w > 2 {
		return 2
	}
	return w
}
