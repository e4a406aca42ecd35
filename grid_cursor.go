package gridterm

// Cursor movement. Protocol coordinates arrive 1-indexed from the parser and
// are converted there; everything here is 0-indexed and clamped. Any explicit
// movement cancels a pending deferred wrap.

// CursorPos returns the cursor position (0-indexed).
func (g *Grid) CursorPos() (row, col int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cur.row, g.cur.col
}

// MoveCursorUp moves the cursor up by n rows, stopping at the scroll region
// top if the cursor started inside the region, otherwise at row 0.
func (g *Grid) MoveCursorUp(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	top := 0
	if g.cur.row >= g.scrollTop {
		top = g.scrollTop
	}
	g.cur.row = clamp(g.cur.row-n, top, g.rows-1)
	g.cur.pendingWrap = false
	g.markDirty()
}

// MoveCursorDown moves the cursor down by n rows, stopping at the scroll
// region bottom if the cursor started inside the region.
func (g *Grid) MoveCursorDown(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	bottom := g.rows - 1
	if g.cur.row < g.scrollBottom {
		bottom = g.scrollBottom - 1
	}
	g.cur.row = clamp(g.cur.row+n, 0, bottom)
	g.cur.pendingWrap = false
	g.markDirty()
}

// MoveCursorForward moves the cursor right by n columns.
func (g *Grid) MoveCursorForward(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur.col = clamp(g.cur.col+n, 0, g.cols-1)
	g.cur.pendingWrap = false
	g.markDirty()
}

// MoveCursorBack moves the cursor left by n columns.
func (g *Grid) MoveCursorBack(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur.col = clamp(g.cur.col-n, 0, g.cols-1)
	g.cur.pendingWrap = false
	g.markDirty()
}

// CursorNextLine moves the cursor to column 0, n rows down (CNL).
func (g *Grid) CursorNextLine(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur.row = clamp(g.cur.row+n, 0, g.rows-1)
	g.cur.col = 0
	g.cur.pendingWrap = false
	g.markDirty()
}

// CursorPrevLine moves the cursor to column 0, n rows up (CPL).
func (g *Grid) CursorPrevLine(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur.row = clamp(g.cur.row-n, 0, g.rows-1)
	g.cur.col = 0
	g.cur.pendingWrap = false
	g.markDirty()
}

// SetCursorCol moves the cursor to the given column (CHA, 0-indexed).
func (g *Grid) SetCursorCol(col int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur.col = clamp(col, 0, g.cols-1)
	g.cur.pendingWrap = false
	g.markDirty()
}

// SetCursorRow moves the cursor to the given row (VPA, 0-indexed). Origin
// mode makes the row relative to the scroll region top.
func (g *Grid) SetCursorRow(row int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.modes.Has(ModeOrigin) {
		g.cur.row = clamp(g.scrollTop+row, g.scrollTop, g.scrollBottom-1)
	} else {
		g.cur.row = clamp(row, 0, g.rows-1)
	}
	g.cur.pendingWrap = false
	g.markDirty()
}

// SetCursorPos moves the cursor to an absolute position (CUP/HVP,
// 0-indexed). Under origin mode the row is relative to the scroll region and
// confined to it.
func (g *Grid) SetCursorPos(row, col int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.modes.Has(ModeOrigin) {
		g.cur.row = clamp(g.scrollTop+row, g.scrollTop, g.scrollBottom-1)
	} else {
		g.cur.row = clamp(row, 0, g.rows-1)
	}
	g.cur.col = clamp(col, 0, g.cols-1)
	g.cur.pendingWrap = false
	g.markDirty()
}

// ReportCursorPos returns the cursor position for a CPR reply, 0-indexed.
// Under origin mode the row is reported relative to the scroll region top.
func (g *Grid) ReportCursorPos() (row, col int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	row, col = g.cur.row, g.cur.col
	if g.modes.Has(ModeOrigin) {
		row -= g.scrollTop
	}
	return row, col
}

// SaveCursor records the cursor position for a later RestoreCursor
// (DECSC / CSI s).
func (g *Grid) SaveCursor() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.savedCur = g.cur
}

// RestoreCursor moves the cursor back to the saved position, clamped to the
// current dimensions (DECRC / CSI u).
func (g *Grid) RestoreCursor() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur = g.savedCur
	g.cur.row = clamp(g.cur.row, 0, g.rows-1)
	g.cur.col = clamp(g.cur.col, 0, g.cols-1)
	g.cur.pendingWrap = false
	g.markDirty()
}

// SetCursorVisible toggles cursor visibility (DECTCEM).
func (g *Grid) SetCursorVisible(visible bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cursorVisible != visible {
		g.cursorVisible = visible
		g.markDirty()
	}
}

// CursorVisible reports whether the cursor is shown.
func (g *Grid) CursorVisible() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cursorVisible
}

// SetCursorShape sets the cursor rendering style (DECSCUSR).
func (g *Grid) SetCursorShape(shape CursorShape, blink bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursorShape = shape
	g.cursorBlink = blink
	g.markDirty()
}
