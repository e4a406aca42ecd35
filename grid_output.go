package gridterm

// Character output and C0 handling. Wrapping at the right margin is
// deferred: writing into the last column leaves the cursor there with the
// pendingWrap flag set, and the wrap happens only when the next printable
// arrives. Carriage return and explicit movement cancel the pending wrap.

// WriteRune writes a printable rune at the cursor using the current
// attributes and advances the cursor. Zero-width runes are dropped. Wide
// glyphs occupy two cells, the second marked as a spacer.
func (g *Grid) WriteRune(r rune) {
	width := runeWidth(r)
	if width == 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cur.pendingWrap && g.modes.Has(ModeAutoWrap) {
		g.cur.col = 0
		g.indexInternal()
	}
	g.cur.pendingWrap = false

	// A wide glyph that no longer fits on the line wraps early (or is
	// pinned to the margin with autowrap off).
	if width == 2 && g.cur.col == g.cols-1 {
		if g.modes.Has(ModeAutoWrap) {
			g.lines[g.cur.row][g.cur.col] = g.blankCell()
			g.cur.col = 0
			g.indexInternal()
		} else {
			g.cur.col--
		}
	}

	cell := g.template
	cell.Char = r
	cell.Attr &^= AttrWideSpacer
	g.lines[g.cur.row][g.cur.col] = cell
	if width == 2 && g.cur.col+1 < g.cols {
		spacer := g.template
		spacer.Char = 0
		spacer.Attr |= AttrWideSpacer
		g.lines[g.cur.row][g.cur.col+1] = spacer
	}

	g.cur.col += width
	if g.cur.col >= g.cols {
		g.cur.col = g.cols - 1
		if g.modes.Has(ModeAutoWrap) {
			g.cur.pendingWrap = true
		}
	}
	g.markDirty()
}

// LineFeed moves the cursor down one row, scrolling the region when the
// cursor sits on its last row (LF/VT/FF).
func (g *Grid) LineFeed() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur.pendingWrap = false
	g.indexInternal()
	g.markDirty()
}

// CarriageReturn moves the cursor to column 0.
func (g *Grid) CarriageReturn() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur.col = 0
	g.cur.pendingWrap = false
	g.markDirty()
}

// Backspace moves the cursor one column left, stopping at column 0.
func (g *Grid) Backspace() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cur.col > 0 {
		g.cur.col--
	}
	g.cur.pendingWrap = false
	g.markDirty()
}

// Tab advances the cursor to the next 8-column tab stop, stopping at the
// right margin.
func (g *Grid) Tab() {
	g.mu.Lock()
	defer g.mu.Unlock()
	next := (g.cur.col/8 + 1) * 8
	g.cur.col = clamp(next, 0, g.cols-1)
	g.cur.pendingWrap = false
	g.markDirty()
}

// Index moves the cursor down one row, scrolling at the region bottom
// (ESC D).
func (g *Grid) Index() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur.pendingWrap = false
	g.indexInternal()
	g.markDirty()
}

// ReverseIndex moves the cursor up one row, scrolling down at the region top
// (ESC M).
func (g *Grid) ReverseIndex() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur.pendingWrap = false
	if g.cur.row == g.scrollTop {
		g.scrollDownInternal(1)
	} else if g.cur.row > 0 {
		g.cur.row--
	}
	g.markDirty()
}

// NextLine is Index followed by carriage return (ESC E).
func (g *Grid) NextLine() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur.pendingWrap = false
	g.indexInternal()
	g.cur.col = 0
	g.markDirty()
}

// indexInternal moves down one row, scrolling the region when the cursor is
// on its last row. Caller holds the lock.
func (g *Grid) indexInternal() {
	if g.cur.row == g.scrollBottom-1 {
		g.scrollUpInternal(1)
	} else if g.cur.row < g.rows-1 {
		g.cur.row++
	}
}

// FillAlignment fills the whole screen with 'E' and homes the cursor
// (DECALN).
func (g *Grid) FillAlignment() {
	g.mu.Lock()
	defer g.mu.Unlock()
	fill := Cell{Char: 'E', FG: DefaultForeground, BG: DefaultBackground}
	for _, line := range g.lines {
		for i := range line {
			line[i] = fill
		}
	}
	g.cur = cursorState{}
	g.scrollTop = 0
	g.scrollBottom = g.rows
	g.markDirty()
}
