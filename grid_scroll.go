package gridterm

// Scroll region and screen switching. The region is [scrollTop, scrollBottom)
// in 0-indexed rows. Lines scrolled off the top of a full-screen region on
// the primary screen are retained in the scrollback ring.

// SetScrollRegion sets the scroll region (0-indexed, bottom exclusive) and
// homes the cursor. An invalid or degenerate region resets to the full
// screen.
func (g *Grid) SetScrollRegion(top, bottom int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if top < 0 || bottom > g.rows || top >= bottom-1 {
		top, bottom = 0, g.rows
	}
	g.scrollTop = top
	g.scrollBottom = bottom
	// DECSTBM homes the cursor (respecting origin mode).
	if g.modes.Has(ModeOrigin) {
		g.cur.row = g.scrollTop
	} else {
		g.cur.row = 0
	}
	g.cur.col = 0
	g.cur.pendingWrap = false
	g.markDirty()
}

// ScrollRegion returns the region bounds (0-indexed, bottom exclusive).
func (g *Grid) ScrollRegion() (top, bottom int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scrollTop, g.scrollBottom
}

// ScrollUp scrolls the region contents up by n lines (SU), discarding or
// retaining the top lines per scrollback rules.
func (g *Grid) ScrollUp(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scrollUpInternal(n)
	g.markDirty()
}

// ScrollDown scrolls the region contents down by n lines (SD), inserting
// blank lines at the top.
func (g *Grid) ScrollDown(n int) {
	if n < 1 {
		n = 1
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scrollDownInternal(n)
	g.markDirty()
}

// scrollUpInternal shifts the region up by n, pushing evicted top lines to
// scrollback when eligible. Caller holds the lock.
func (g *Grid) scrollUpInternal(n int) {
	height := g.scrollBottom - g.scrollTop
	if n > height {
		n = height
	}
	keepScrollback := g.inactive == nil && g.scrollTop == 0 &&
		g.scrollBottom == g.rows && g.maxScrollback > 0
	for i := 0; i < n; i++ {
		if keepScrollback {
			g.pushScrollback(g.lines[g.scrollTop])
		}
		copy(g.lines[g.scrollTop:g.scrollBottom-1], g.lines[g.scrollTop+1:g.scrollBottom])
		g.lines[g.scrollBottom-1] = g.blankLine()
	}
}

// scrollDownInternal shifts the region down by n, dropping the bottom lines.
// Caller holds the lock.
func (g *Grid) scrollDownInternal(n int) {
	height := g.scrollBottom - g.scrollTop
	if n > height {
		n = height
	}
	for i := 0; i < n; i++ {
		copy(g.lines[g.scrollTop+1:g.scrollBottom], g.lines[g.scrollTop:g.scrollBottom-1])
		g.lines[g.scrollTop] = g.blankLine()
	}
}

func (g *Grid) pushScrollback(line []Cell) {
	saved := make([]Cell, len(line))
	copy(saved, line)
	g.scrollback = append(g.scrollback, saved)
	if len(g.scrollback) > g.maxScrollback {
		drop := len(g.scrollback) - g.maxScrollback
		g.scrollback = g.scrollback[drop:]
	}
}

// EnterAltScreen switches to the alternate screen (DECSET 1049), saving the
// primary screen and cursor. Entering twice is a no-op.
func (g *Grid) EnterAltScreen() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactive != nil {
		return
	}
	g.inactive = g.lines
	g.inactiveCur = g.cur
	g.lines = makeScreen(g.rows, g.cols)
	g.cur = cursorState{}
	g.modes |= ModeAltScreen
	g.markDirty()
}

// ExitAltScreen restores the primary screen and cursor (DECRST 1049).
// Exiting while on the primary screen is a no-op.
func (g *Grid) ExitAltScreen() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactive == nil {
		return
	}
	g.lines = g.inactive
	g.cur = g.inactiveCur
	g.inactive = nil
	g.inactiveCur = cursorState{}
	g.cur.row = clamp(g.cur.row, 0, g.rows-1)
	g.cur.col = clamp(g.cur.col, 0, g.cols-1)
	g.modes &^= ModeAltScreen
	g.markDirty()
}

// AltScreen reports whether the alternate screen is active.
func (g *Grid) AltScreen() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.inactive != nil
}
