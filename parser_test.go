package gridterm

import "testing"

func newTestParser(rows, cols int) (*Grid, *Parser, *[]ReplyEvent) {
	g := NewGrid(rows, cols, 100)
	events := &[]ReplyEvent{}
	p := NewParser(g, func(ev ReplyEvent) {
		*events = append(*events, ev)
	})
	return g, p, events
}

func feed(p *Parser, s string) {
	p.Feed([]byte(s))
}

func TestParserPlainText(t *testing.T) {
	g, p, _ := newTestParser(5, 20)
	feed(p, "hello\r\nworld")
	if got := g.RowText(0); got != "hello" {
		t.Fatalf("row 0 = %q", got)
	}
	if got := g.RowText(1); got != "world" {
		t.Fatalf("row 1 = %q", got)
	}
}

func TestParserUTF8AcrossChunks(t *testing.T) {
	g, p, _ := newTestParser(2, 10)
	raw := []byte("日本") // 3 bytes each
	p.Feed(raw[:2])
	p.Feed(raw[2:4])
	p.Feed(raw[4:])
	if got := g.RowText(0); got != "日本" {
		t.Fatalf("row 0 = %q, want 日本", got)
	}
}

func TestParserSequenceSplitAcrossChunks(t *testing.T) {
	g, p, _ := newTestParser(5, 20)
	p.Feed([]byte("\x1b["))
	p.Feed([]byte("3;"))
	p.Feed([]byte("5H"))
	row, col := g.CursorPos()
	if row != 2 || col != 4 {
		t.Fatalf("cursor = (%d,%d), want (2,4)", row, col)
	}
}

func TestParserCursorMovement(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		row, col int
	}{
		{"CUP", "\x1b[3;5H", 2, 4},
		{"CUP defaults", "\x1b[H", 0, 0},
		{"CUP zero params", "\x1b[0;0H", 0, 0},
		{"HVP", "\x1b[2;2f", 1, 1},
		{"CUD CUF", "\x1b[2B\x1b[3C", 2, 3},
		{"CUU clamps", "\x1b[5;5H\x1b[99A", 0, 4},
		{"CUB clamps", "\x1b[99D", 0, 0},
		{"CHA", "\x1b[7G", 0, 6},
		{"VPA", "\x1b[4d", 3, 0},
		{"CNL", "\x1b[1;5H\x1b[2E", 2, 0},
		{"CUP clamps oversize", "\x1b[99;99H", 9, 19},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, p, _ := newTestParser(10, 20)
			feed(p, tt.input)
			row, col := g.CursorPos()
			if row != tt.row || col != tt.col {
				t.Fatalf("cursor = (%d,%d), want (%d,%d)", row, col, tt.row, tt.col)
			}
		})
	}
}

func TestParserSaveRestoreCursor(t *testing.T) {
	g, p, _ := newTestParser(10, 20)
	feed(p, "\x1b[5;5H\x1b7\x1b[H\x1b8")
	row, col := g.CursorPos()
	if row != 4 || col != 4 {
		t.Fatalf("cursor = (%d,%d), want (4,4)", row, col)
	}
	feed(p, "\x1b[2;2H\x1b[s\x1b[H\x1b[u")
	row, col = g.CursorPos()
	if row != 1 || col != 1 {
		t.Fatalf("cursor = (%d,%d), want (1,1)", row, col)
	}
}

func TestParserSGR(t *testing.T) {
	g, p, _ := newTestParser(2, 20)
	feed(p, "\x1b[1;31mE\x1b[0mn\x1b[38;5;208mP\x1b[38;2;10;20;30mT\x1b[38:2:10:20:30mC")
	snap := g.Snapshot()

	e := snap.Cells[0][0]
	if !e.Attr.Has(AttrBold) || e.FG != StandardColor(1) {
		t.Fatalf("cell 0: attr=%v fg=%v, want bold red", e.Attr, e.FG)
	}
	n := snap.Cells[0][1]
	if n.Attr != 0 || !n.FG.IsDefault() {
		t.Fatalf("cell 1: attr=%v fg=%v, want reset", n.Attr, n.FG)
	}
	if pc := snap.Cells[0][2].FG; pc != PaletteColor(208) {
		t.Fatalf("cell 2 fg = %v, want palette 208", pc)
	}
	want := TrueColor(10, 20, 30)
	if tc := snap.Cells[0][3].FG; tc != want {
		t.Fatalf("cell 3 fg = %v, want %v", tc, want)
	}
	if cc := snap.Cells[0][4].FG; cc != want {
		t.Fatalf("cell 4 fg = %v, want %v (colon form)", cc, want)
	}
}

func TestParserSGRBackgroundAndBright(t *testing.T) {
	g, p, _ := newTestParser(1, 10)
	feed(p, "\x1b[44;97mx")
	cell := g.Snapshot().Cells[0][0]
	if cell.BG != StandardColor(4) {
		t.Fatalf("bg = %v, want blue", cell.BG)
	}
	if cell.FG != StandardColor(15) {
		t.Fatalf("fg = %v, want bright white", cell.FG)
	}
}

func TestParserEraseAndEdit(t *testing.T) {
	g, p, _ := newTestParser(3, 10)
	feed(p, "abcdef\x1b[1;3H\x1b[K")
	if got := g.RowText(0); got != "ab" {
		t.Fatalf("EL = %q, want ab", got)
	}
	feed(p, "\x1b[2J")
	if got := g.RowText(0); got != "" {
		t.Fatalf("ED 2 left %q", got)
	}
	feed(p, "xyz\x1b[1;2H\x1b[2P")
	if got := g.RowText(0); got != "x" {
		t.Fatalf("DCH = %q, want x", got)
	}
}

func TestParserScrollRegion(t *testing.T) {
	g, p, _ := newTestParser(5, 10)
	feed(p, "\x1b[2;4r")
	top, bottom := g.ScrollRegion()
	if top != 1 || bottom != 4 {
		t.Fatalf("region = [%d,%d), want [1,4)", top, bottom)
	}
	row, col := g.CursorPos()
	if row != 0 || col != 0 {
		t.Fatalf("cursor = (%d,%d), want home after DECSTBM", row, col)
	}
	feed(p, "\x1b[r")
	top, bottom = g.ScrollRegion()
	if top != 0 || bottom != 5 {
		t.Fatalf("region = [%d,%d), want full", top, bottom)
	}
}

func TestParserPrivateModes(t *testing.T) {
	g, p, _ := newTestParser(5, 10)
	feed(p, "\x1b[?1h\x1b[?2004h\x1b[?25l\x1b[?1000;1006h")
	if !g.HasMode(ModeAppCursorKeys) {
		t.Fatal("DECCKM should be set")
	}
	if !g.HasMode(ModeBracketedPaste) {
		t.Fatal("bracketed paste should be set")
	}
	if g.CursorVisible() {
		t.Fatal("cursor should be hidden")
	}
	if !g.Modes().MouseReporting() || !g.HasMode(ModeMouseSGR) {
		t.Fatal("mouse modes should be set")
	}
	feed(p, "\x1b[?1l\x1b[?2004l\x1b[?25h")
	if g.HasMode(ModeAppCursorKeys) || g.HasMode(ModeBracketedPaste) {
		t.Fatal("modes should be cleared")
	}
	if !g.CursorVisible() {
		t.Fatal("cursor should be visible again")
	}
}

func TestParserAltScreen1049(t *testing.T) {
	g, p, _ := newTestParser(3, 10)
	feed(p, "main\x1b[?1049halt")
	if !g.AltScreen() {
		t.Fatal("alt screen should be active")
	}
	if got := g.RowText(0); got != "alt" {
		t.Fatalf("alt row 0 = %q", got)
	}
	feed(p, "\x1b[?1049l")
	if g.AltScreen() {
		t.Fatal("alt screen should be inactive")
	}
	if got := g.RowText(0); got != "main" {
		t.Fatalf("primary row 0 = %q", got)
	}
	row, col := g.CursorPos()
	if row != 0 || col != 4 {
		t.Fatalf("cursor = (%d,%d), want (0,4) restored", row, col)
	}
}

func TestParserDECALN(t *testing.T) {
	g, p, _ := newTestParser(2, 3)
	feed(p, "\x1b#8")
	if g.RowText(0) != "EEE" || g.RowText(1) != "EEE" {
		t.Fatalf("DECALN rows = %q %q", g.RowText(0), g.RowText(1))
	}
}

func TestParserDeviceStatusReports(t *testing.T) {
	_, p, events := newTestParser(10, 20)
	feed(p, "\x1b[5n")
	feed(p, "\x1b[4;7H\x1b[6n")
	feed(p, "\x1b[c")
	feed(p, "\x1b[18t")
	if len(*events) != 4 {
		t.Fatalf("got %d events, want 4", len(*events))
	}
	if (*events)[0].Kind != ReplyStatus {
		t.Fatalf("event 0 kind = %v, want status", (*events)[0].Kind)
	}
	cpr := (*events)[1]
	if cpr.Kind != ReplyCursorPos || cpr.Row != 3 || cpr.Col != 6 {
		t.Fatalf("CPR event = %+v, want row 3 col 6", cpr)
	}
	if (*events)[2].Kind != ReplyDeviceAttrs {
		t.Fatalf("event 2 kind = %v, want device attrs", (*events)[2].Kind)
	}
	size := (*events)[3]
	if size.Kind != ReplyTextAreaSize || size.Rows != 10 || size.Cols != 20 {
		t.Fatalf("size event = %+v, want 10x20", size)
	}
}

func TestParserCPRUnderOriginMode(t *testing.T) {
	_, p, events := newTestParser(10, 20)
	feed(p, "\x1b[3;8r\x1b[?6h\x1b[2;1H\x1b[6n")
	if len(*events) != 1 {
		t.Fatalf("got %d events, want 1", len(*events))
	}
	if ev := (*events)[0]; ev.Row != 1 || ev.Col != 0 {
		t.Fatalf("CPR = (%d,%d), want region-relative (1,0)", ev.Row, ev.Col)
	}
}

func TestParserQueriesDoNotMutateGrid(t *testing.T) {
	g, p, _ := newTestParser(5, 10)
	feed(p, "ab")
	before := g.Snapshot()
	feed(p, "\x1b[5n\x1b[6n\x1b[c\x1b[18t")
	after := g.Snapshot()
	if before.CursorRow != after.CursorRow || before.CursorCol != after.CursorCol {
		t.Fatal("queries moved the cursor")
	}
	if lineText(before.Cells[0]) != lineText(after.Cells[0]) {
		t.Fatal("queries changed cell content")
	}
}

func TestParserOSCTitle(t *testing.T) {
	g, p, _ := newTestParser(2, 10)
	var seen string
	g.SetTitleCallback(func(title string) { seen = title })
	feed(p, "\x1b]0;hello title\x07")
	if g.Title() != "hello title" || seen != "hello title" {
		t.Fatalf("title = %q, callback = %q", g.Title(), seen)
	}
	feed(p, "\x1b]2;via ST\x1b\\")
	if g.Title() != "via ST" {
		t.Fatalf("title = %q, want via ST", g.Title())
	}
}

func TestParserOSCColorQuery(t *testing.T) {
	_, p, events := newTestParser(2, 10)
	feed(p, "\x1b]10;?\x07\x1b]11;?\x1b\\\x1b]4;1;?\x07")
	if len(*events) != 3 {
		t.Fatalf("got %d events, want 3", len(*events))
	}
	fg := (*events)[0]
	if fg.Kind != ReplyColor || fg.ColorCode != "10" || fg.Color != DefaultForeground {
		t.Fatalf("fg query event = %+v", fg)
	}
	if fg.Terminator != "\a" {
		t.Fatalf("fg terminator = %q, want BEL", fg.Terminator)
	}
	bg := (*events)[1]
	if bg.ColorCode != "11" || bg.Terminator != "\x1b\\" {
		t.Fatalf("bg query event = %+v", bg)
	}
	pal := (*events)[2]
	if pal.ColorCode != "4;1" || pal.Color != PaletteColor(1) {
		t.Fatalf("palette query event = %+v", pal)
	}
}

func TestParserOSC52Event(t *testing.T) {
	_, p, events := newTestParser(2, 10)
	feed(p, "\x1b]52;c;?\x07")
	feed(p, "\x1b]52;p;aGVsbG8=\x07")
	if len(*events) != 2 {
		t.Fatalf("got %d events, want 2", len(*events))
	}
	read := (*events)[0]
	if read.Kind != ReplyClipboard || read.Selection != "c" || read.Data != "?" {
		t.Fatalf("read event = %+v", read)
	}
	write := (*events)[1]
	if write.Selection != "p" || write.Data != "aGVsbG8=" {
		t.Fatalf("write event = %+v", write)
	}
}

func TestParserBellAndTab(t *testing.T) {
	g, p, _ := newTestParser(2, 20)
	rang := 0
	g.SetBellCallback(func() { rang++ })
	feed(p, "a\tb\x07")
	if rang != 1 {
		t.Fatalf("bell count = %d, want 1", rang)
	}
	_, col := g.CursorPos()
	if col != 9 {
		t.Fatalf("cursor col = %d, want 9 (tab stop + b)", col)
	}
}

func TestParserMalformedInputIsHarmless(t *testing.T) {
	g, p, _ := newTestParser(5, 10)
	inputs := []string{
		"\x1b[999999999999999999999H", // overflowing param
		"\x1b[;;;;m",
		"\x1b[?h",
		"\x1b]9999;stuff\x07",
		"\x1b]52;c\x07", // missing payload
		"\x1bQ",         // unknown escape
		"\x1b[Z",        // unknown final
		"\xff\xfe",      // invalid utf-8
		"\x1b[38;2m",    // truncated truecolor
		"\x1b[38:9:1mx",
		"\x1bP payload without end",
	}
	for _, in := range inputs {
		feed(p, in)
	}
	feed(p, "\x1b\\ok")
	if got := g.RowText(g.Snapshot().CursorRow); got == "" {
		t.Fatal("parser should recover and keep printing")
	}
}

func TestParserDCSConsumed(t *testing.T) {
	g, p, _ := newTestParser(2, 20)
	feed(p, "\x1bPq#0;2;0;0;0#0~~\x1b\\after")
	if got := g.RowText(0); got != "after" {
		t.Fatalf("row 0 = %q, want after (DCS swallowed)", got)
	}
}

func TestParserResetRIS(t *testing.T) {
	g, p, _ := newTestParser(3, 10)
	feed(p, "abc\x1b[?2004h\x1b[2;2r\x1bc")
	if got := g.RowText(0); got != "" {
		t.Fatalf("row 0 = %q, want cleared", got)
	}
	if g.HasMode(ModeBracketedPaste) {
		t.Fatal("modes should reset")
	}
	top, bottom := g.ScrollRegion()
	if top != 0 || bottom != 3 {
		t.Fatalf("region = [%d,%d), want full", top, bottom)
	}
}
