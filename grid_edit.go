package gridterm

// Erase and edit operations. Erased cells keep the current background so
// programs that set a background before clearing get the expected fill.

// EraseDisplay clears part of the screen (ED). mode 0 clears from the cursor
// to the end, 1 from the start to the cursor, 2 the whole screen, 3 the
// whole screen plus scrollback.
func (g *Grid) EraseDisplay(mode int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	blank := g.blankCell()
	switch mode {
	case 0:
		g.eraseLineRange(g.cur.row, g.cur.col, g.cols, blank)
		for row := g.cur.row + 1; row < g.rows; row++ {
			g.eraseLineRange(row, 0, g.cols, blank)
		}
	case 1:
		for row := 0; row < g.cur.row; row++ {
			g.eraseLineRange(row, 0, g.cols, blank)
		}
		g.eraseLineRange(g.cur.row, 0, g.cur.col+1, blank)
	case 2:
		for row := 0; row < g.rows; row++ {
			g.eraseLineRange(row, 0, g.cols, blank)
		}
	case 3:
		for row := 0; row < g.rows; row++ {
			g.eraseLineRange(row, 0, g.cols, blank)
		}
		g.scrollback = nil
	}
	g.cur.pendingWrap = false
	g.markDirty()
}

// EraseLine clears part of the cursor's row (EL). mode 0 clears from the
// cursor to the end, 1 from the start through the cursor, 2 the whole row.
func (g *Grid) EraseLine(mode int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	blank := g.blankCell()
	switch mode {
	case 0:
		g.eraseLineRange(g.cur.row, g.cur.col, g.cols, blank)
	case 1:
		g.eraseLineRange(g.cur.row, 0, g.cur.col+1, blank)
	case 2:
		g.eraseLineRange(g.cur.row, 0, g.cols, blank)
	}
	g.cur.pendingWrap = false
	g.markDirty()
}

func (g *Grid) eraseLineRange(row, from, to int, blank Cell) {
	line := g.lines[row]
	from = clamp(from, 0, g.cols)
	to = clamp(to, 0, g.cols)
	for i := from; i < to; i++ {
		line[i] = blank
	}
}

// InsertLines inserts n blank lines at the cursor row, shifting lines below
// toward the region bottom (IL). No-op outside the scroll region.
func (g *Grid) InsertLines(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cur.row < g.scrollTop || g.cur.row >= g.scrollBottom {
		return
	}
	if n > g.scrollBottom-g.cur.row {
		n = g.scrollBottom - g.cur.row
	}
	for i := 0; i < n; i++ {
		copy(g.lines[g.cur.row+1:g.scrollBottom], g.lines[g.cur.row:g.scrollBottom-1])
		g.lines[g.cur.row] = g.blankLine()
	}
	g.cur.pendingWrap = false
	g.markDirty()
}

// DeleteLines deletes n lines at the cursor row, pulling lines up from the
// region bottom (DL). No-op outside the scroll region.
func (g *Grid) DeleteLines(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cur.row < g.scrollTop || g.cur.row >= g.scrollBottom {
		return
	}
	if n > g.scrollBottom-g.cur.row {
		n = g.scrollBottom - g.cur.row
	}
	for i := 0; i < n; i++ {
		copy(g.lines[g.cur.row:g.scrollBottom-1], g.lines[g.cur.row+1:g.scrollBottom])
		g.lines[g.scrollBottom-1] = g.blankLine()
	}
	g.cur.pendingWrap = false
	g.markDirty()
}

// InsertChars inserts n blank cells at the cursor, shifting the rest of the
// row right (ICH). Cells pushed past the margin are lost.
func (g *Grid) InsertChars(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	line := g.lines[g.cur.row]
	if n > g.cols-g.cur.col {
		n = g.cols - g.cur.col
	}
	copy(line[g.cur.col+n:], line[g.cur.col:g.cols-n])
	blank := g.blankCell()
	for i := g.cur.col; i < g.cur.col+n; i++ {
		line[i] = blank
	}
	g.cur.pendingWrap = false
	g.markDirty()
}

// DeleteChars deletes n cells at the cursor, shifting the rest of the row
// left and blank-filling the margin (DCH).
func (g *Grid) DeleteChars(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	line := g.lines[g.cur.row]
	if n > g.cols-g.cur.col {
		n = g.cols - g.cur.col
	}
	copy(line[g.cur.col:], line[g.cur.col+n:g.cols])
	blank := g.blankCell()
	for i := g.cols - n; i < g.cols; i++ {
		line[i] = blank
	}
	g.cur.pendingWrap = false
	g.markDirty()
}

// EraseChars blanks n cells starting at the cursor without shifting (ECH).
func (g *Grid) EraseChars(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.eraseLineRange(g.cur.row, g.cur.col, g.cur.col+n, g.blankCell())
	g.cur.pendingWrap = false
	g.markDirty()
}
