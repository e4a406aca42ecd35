package gridterm

import "sync"

// CursorShape selects the cursor rendering style (DECSCUSR).
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// Grid is the emulated screen: a rows x cols cell matrix plus cursor, mode,
// and scroll-region state. It is mutated exclusively by the Parser while
// holding its lock; renderers read it through Snapshot, which copies out
// under a read lock so the render path never stalls the engine for longer
// than one copy.
type Grid struct {
	mu sync.RWMutex

	rows, cols int

	// Active screen storage. While the alternate screen is active, the
	// primary screen and its cursor are parked in inactive/inactiveCur.
	lines       [][]Cell
	inactive    [][]Cell
	inactiveCur cursorState

	cur      cursorState
	savedCur cursorState // DECSC / CSI s

	cursorVisible bool
	cursorShape   CursorShape
	cursorBlink   bool

	// Scroll region: top inclusive, bottom exclusive, 0-based.
	scrollTop    int
	scrollBottom int

	modes    Mode
	template Cell // current SGR attributes applied to written cells

	title string

	// Bounded in-memory scrollback, primary screen only.
	scrollback    [][]Cell
	maxScrollback int

	dirty   bool
	onDirty func()
	onBell  func()
	onTitle func(string)
}

type cursorState struct {
	row, col    int
	pendingWrap bool
}

// NewGrid creates a grid of the given dimensions. Dimensions below 1 are
// clamped to 1. maxScrollback bounds the in-memory scrollback line count;
// 0 disables scrollback.
func NewGrid(rows, cols, maxScrollback int) *Grid {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	g := &Grid{
		rows:          rows,
		cols:          cols,
		cursorVisible: true,
		scrollBottom:  rows,
		modes:         defaultModes,
		template:      Cell{FG: DefaultForeground, BG: DefaultBackground},
		maxScrollback: maxScrollback,
		dirty:         true,
	}
	g.lines = makeScreen(rows, cols)
	return g
}

func makeScreen(rows, cols int) [][]Cell {
	s := make([][]Cell, rows)
	for i := range s {
		s[i] = make([]Cell, cols)
	}
	return s
}

func (g *Grid) blankCell() Cell {
	return Cell{FG: g.template.FG, BG: g.template.BG}
}

func (g *Grid) blankLine() []Cell {
	line := make([]Cell, g.cols)
	blank := g.blankCell()
	for i := range line {
		line[i] = blank
	}
	return line
}

// Size returns the grid dimensions.
func (g *Grid) Size() (rows, cols int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rows, g.cols
}

// SetDirtyCallback registers a callback invoked whenever the grid changes.
func (g *Grid) SetDirtyCallback(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onDirty = fn
}

// SetBellCallback registers a callback invoked on BEL.
func (g *Grid) SetBellCallback(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onBell = fn
}

// SetTitleCallback registers a callback invoked when the window title
// changes (OSC 0/2).
func (g *Grid) SetTitleCallback(fn func(string)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onTitle = fn
}

func (g *Grid) markDirty() {
	g.dirty = true
	if g.onDirty != nil {
		g.onDirty()
	}
}

// ConsumeDirty reports whether the grid changed since the last call and
// clears the flag.
func (g *Grid) ConsumeDirty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	d := g.dirty
	g.dirty = false
	return d
}

// Bell fires the bell callback.
func (g *Grid) Bell() {
	g.mu.RLock()
	fn := g.onBell
	g.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// SetTitle records the window title and notifies the title callback.
func (g *Grid) SetTitle(title string) {
	g.mu.Lock()
	g.title = title
	fn := g.onTitle
	g.markDirty()
	g.mu.Unlock()
	if fn != nil {
		fn(title)
	}
}

// Title returns the current window title.
func (g *Grid) Title() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.title
}

// --- Modes ---

// SetMode sets or clears the given mode bits.
func (g *Grid) SetMode(mask Mode, on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if on {
		g.modes |= mask
	} else {
		g.modes &^= mask
	}
	g.markDirty()
}

// HasMode returns true if all bits in mask are set.
func (g *Grid) HasMode(mask Mode) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.modes.Has(mask)
}

// Modes returns the full mode bitset.
func (g *Grid) Modes() Mode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.modes
}

// --- Current attributes ---

// SetAttr sets or clears style attribute bits on the current template.
func (g *Grid) SetAttr(mask Attr, on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if on {
		g.template.Attr |= mask
	} else {
		g.template.Attr &^= mask
	}
}

// SetForeground sets the current foreground color.
func (g *Grid) SetForeground(c Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.template.FG = c
}

// SetBackground sets the current background color.
func (g *Grid) SetBackground(c Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.template.BG = c
}

// ResetAttributes resets colors and attributes to defaults (SGR 0).
func (g *Grid) ResetAttributes() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.template = Cell{FG: DefaultForeground, BG: DefaultBackground}
}

// --- Reset / resize / snapshot ---

// Reset restores the grid to its initial state (RIS), dropping the alternate
// screen, scroll region, modes, and attributes. Scrollback is retained.
func (g *Grid) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lines = makeScreen(g.rows, g.cols)
	g.inactive = nil
	g.cur = cursorState{}
	g.savedCur = cursorState{}
	g.inactiveCur = cursorState{}
	g.cursorVisible = true
	g.cursorShape = CursorBlock
	g.cursorBlink = false
	g.scrollTop = 0
	g.scrollBottom = g.rows
	g.modes = defaultModes
	g.template = Cell{FG: DefaultForeground, BG: DefaultBackground}
	g.title = ""
	g.markDirty()
}

// Resize changes the grid dimensions, truncating or padding content
// top-left anchored. The cursor is clamped and the scroll region reset to
// the full screen. Invalid dimensions are ignored.
func (g *Grid) Resize(rows, cols int) {
	if rows < 1 || cols < 1 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if rows == g.rows && cols == g.cols {
		return
	}
	g.lines = resizeScreen(g.lines, rows, cols)
	if g.inactive != nil {
		g.inactive = resizeScreen(g.inactive, rows, cols)
	}
	g.rows = rows
	g.cols = cols
	g.cur.row = clamp(g.cur.row, 0, rows-1)
	g.cur.col = clamp(g.cur.col, 0, cols-1)
	g.cur.pendingWrap = false
	g.savedCur.row = clamp(g.savedCur.row, 0, rows-1)
	g.savedCur.col = clamp(g.savedCur.col, 0, cols-1)
	g.inactiveCur.row = clamp(g.inactiveCur.row, 0, rows-1)
	g.inactiveCur.col = clamp(g.inactiveCur.col, 0, cols-1)
	g.scrollTop = 0
	g.scrollBottom = rows
	g.markDirty()
}

func resizeScreen(screen [][]Cell, rows, cols int) [][]Cell {
	next := make([][]Cell, rows)
	for i := range next {
		next[i] = make([]Cell, cols)
		if i < len(screen) {
			copy(next[i], screen[i])
		}
	}
	return next
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GridSnapshot is a copy of the visible grid state, safe to read without
// further synchronization.
type GridSnapshot struct {
	Rows, Cols int
	Cells      [][]Cell

	CursorRow     int
	CursorCol     int
	CursorVisible bool
	CursorShape   CursorShape
	CursorBlink   bool

	Modes Mode
	Title string
}

// Snapshot copies out the visible screen, cursor, and mode state.
func (g *Grid) Snapshot() GridSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	cells := make([][]Cell, g.rows)
	for i, line := range g.lines {
		cells[i] = make([]Cell, g.cols)
		copy(cells[i], line)
	}
	return GridSnapshot{
		Rows:          g.rows,
		Cols:          g.cols,
		Cells:         cells,
		CursorRow:     g.cur.row,
		CursorCol:     g.cur.col,
		CursorVisible: g.cursorVisible,
		CursorShape:   g.cursorShape,
		CursorBlink:   g.cursorBlink,
		Modes:         g.modes,
		Title:         g.title,
	}
}

// RowText returns the trimmed text content of a visible row. Wide-glyph
// spacer cells are skipped; empty cells render as spaces before trimming.
func (g *Grid) RowText(row int) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if row < 0 || row >= g.rows {
		return ""
	}
	return lineText(g.lines[row])
}

func lineText(line []Cell) string {
	runes := make([]rune, 0, len(line))
	for _, c := range line {
		if c.IsWideSpacer() {
			continue
		}
		runes = append(runes, c.Rune())
	}
	end := len(runes)
	for end > 0 && runes[end-1] == ' ' {
		end--
	}
	return string(runes[:end])
}

// --- Scrollback ---

// ScrollbackLen returns the number of retained scrollback lines.
func (g *Grid) ScrollbackLen() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.scrollback)
}

// ScrollbackLine returns a copy of a scrollback line, index 0 being the
// oldest. Returns nil if out of range.
func (g *Grid) ScrollbackLine(index int) []Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if index < 0 || index >= len(g.scrollback) {
		return nil
	}
	line := make([]Cell, len(g.scrollback[index]))
	copy(line, g.scrollback[index])
	return line
}

// ClearScrollback drops all retained scrollback lines.
func (g *Grid) ClearScrollback() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scrollback = nil
}
