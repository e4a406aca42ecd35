package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/gridterm/gridterm"
)

// renderer paints grid snapshots to the host terminal. It repaints changed
// rows only, comparing against the previously painted snapshot.
type renderer struct {
	out  *os.File
	prev gridterm.GridSnapshot
}

func newRenderer(out *os.File) *renderer {
	return &renderer{out: out}
}

func (r *renderer) enterScreen() {
	r.out.WriteString("\x1b[?1049h\x1b[2J\x1b[H")
}

func (r *renderer) leaveScreen() {
	r.out.WriteString("\x1b[0m\x1b[?25h\x1b[?1049l")
}

func (r *renderer) paint(snap gridterm.GridSnapshot) {
	var b strings.Builder
	b.WriteString("\x1b[?25l")

	full := r.prev.Rows != snap.Rows || r.prev.Cols != snap.Cols
	if full {
		b.WriteString("\x1b[2J")
	}
	for row := 0; row < snap.Rows; row++ {
		if !full && rowsEqual(r.prev.Cells[row], snap.Cells[row]) {
			continue
		}
		fmt.Fprintf(&b, "\x1b[%d;1H", row+1)
		paintRow(&b, snap.Cells[row])
	}

	fmt.Fprintf(&b, "\x1b[0m\x1b[%d;%dH", snap.CursorRow+1, snap.CursorCol+1)
	if snap.CursorVisible {
		b.WriteString("\x1b[?25h")
	}
	r.out.WriteString(b.String())
	r.prev = snap
}

func paintRow(b *strings.Builder, line []gridterm.Cell) {
	var cur gridterm.Cell
	first := true
	for _, cell := range line {
		if cell.IsWideSpacer() {
			continue
		}
		if first || cell.FG != cur.FG || cell.BG != cur.BG || cell.Attr != cur.Attr {
			b.WriteString("\x1b[0m")
			writeAttrs(b, cell)
			cur = cell
			first = false
		}
		b.WriteRune(cell.Rune())
	}
	b.WriteString("\x1b[0m\x1b[K")
}

func writeAttrs(b *strings.Builder, cell gridterm.Cell) {
	if cell.Attr.Has(gridterm.AttrBold) {
		b.WriteString("\x1b[1m")
	}
	if cell.Attr.Has(gridterm.AttrDim) {
		b.WriteString("\x1b[2m")
	}
	if cell.Attr.Has(gridterm.AttrItalic) {
		b.WriteString("\x1b[3m")
	}
	if cell.Attr.Has(gridterm.AttrUnderline) {
		b.WriteString("\x1b[4m")
	}
	if cell.Attr.Has(gridterm.AttrBlink) {
		b.WriteString("\x1b[5m")
	}
	if cell.Attr.Has(gridterm.AttrInverse) {
		b.WriteString("\x1b[7m")
	}
	if cell.Attr.Has(gridterm.AttrStrikethrough) {
		b.WriteString("\x1b[9m")
	}
	if !cell.FG.IsDefault() {
		b.WriteString("\x1b[" + cell.FG.ToSGRCode(true) + "m")
	}
	if !cell.BG.IsDefault() {
		b.WriteString("\x1b[" + cell.BG.ToSGRCode(false) + "m")
	}
}

func rowsEqual(a, b []gridterm.Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
