package gridterm

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateCSI
	stateOSC
	stateOSCEsc // saw ESC inside an OSC string, expecting '\'
	stateDCS
	stateDCSEsc
	stateCharset // ESC ( ) * + — designate charset, one byte follows
	stateHash    // ESC # — one byte follows
)

const (
	maxCSILen = 256
	maxOSCLen = 4096
)

// Parser is the ANSI/VT state machine. It consumes raw bytes from the child,
// mutates the grid, and hands device-query replies to the callback. It never
// fails: malformed or unknown sequences are consumed and dropped, and partial
// sequences carry over between Feed calls.
//
// Parser is not safe for concurrent use; the session feeds it from a single
// goroutine.
type Parser struct {
	grid  *Grid
	reply func(ReplyEvent)

	state parserState

	csiBuf       strings.Builder
	csiPrivate   byte
	intermediate byte

	params    []int
	rawParams []string

	oscBuf strings.Builder

	utf8Buf  [4]byte
	utf8Len  int
	utf8Need int
}

// NewParser creates a parser driving the given grid. reply receives decoded
// device queries; nil means queries are dropped after any grid effects.
func NewParser(grid *Grid, reply func(ReplyEvent)) *Parser {
	if reply == nil {
		reply = func(ReplyEvent) {}
	}
	return &Parser{grid: grid, reply: reply}
}

// Feed consumes a chunk of output bytes. Chunks may split sequences at any
// byte boundary.
func (p *Parser) Feed(data []byte) {
	for _, b := range data {
		p.feedByte(b)
	}
}

func (p *Parser) feedByte(b byte) {
	switch p.state {
	case stateGround:
		p.ground(b)
	case stateEscape:
		p.escape(b)
	case stateCSI:
		p.csi(b)
	case stateOSC:
		p.osc(b)
	case stateOSCEsc:
		if b == '\\' {
			p.dispatchOSC("\x1b\\")
		} else {
			// Not a string terminator; drop the OSC and reprocess.
			p.state = stateGround
			p.oscBuf.Reset()
			p.feedByte(b)
		}
	case stateDCS:
		// DCS payloads are consumed unparsed.
		if b == 0x1b {
			p.state = stateDCSEsc
		} else if b == 0x07 {
			p.state = stateGround
		}
	case stateDCSEsc:
		p.state = stateGround
		if b != '\\' {
			p.feedByte(b)
		}
	case stateCharset:
		// Charset designations are acknowledged and ignored.
		p.state = stateGround
	case stateHash:
		p.state = stateGround
		if b == '8' {
			p.grid.FillAlignment()
		}
	}
}

func (p *Parser) ground(b byte) {
	if p.utf8Need > 0 {
		p.utf8Continue(b)
		return
	}
	switch {
	case b == 0x1b:
		p.state = stateEscape
	case b < 0x20:
		p.execControl(b)
	case b < 0x80:
		p.grid.WriteRune(rune(b))
	default:
		p.utf8Start(b)
	}
}

func (p *Parser) execControl(b byte) {
	switch b {
	case 0x07: // BEL
		p.grid.Bell()
	case 0x08: // BS
		p.grid.Backspace()
	case 0x09: // HT
		p.grid.Tab()
	case 0x0a, 0x0b, 0x0c: // LF, VT, FF
		p.grid.LineFeed()
	case 0x0d: // CR
		p.grid.CarriageReturn()
	}
	// Other C0 bytes (NUL, SO/SI, ...) are dropped.
}

// --- UTF-8 assembly ---

func (p *Parser) utf8Start(b byte) {
	switch {
	case b&0xe0 == 0xc0:
		p.utf8Need = 2
	case b&0xf0 == 0xe0:
		p.utf8Need = 3
	case b&0xf8 == 0xf0:
		p.utf8Need = 4
	default:
		// Stray continuation or invalid lead byte.
		p.grid.WriteRune(utf8.RuneError)
		return
	}
	p.utf8Buf[0] = b
	p.utf8Len = 1
}

func (p *Parser) utf8Continue(b byte) {
	if b&0xc0 != 0x80 {
		// Sequence broken mid-way; emit a replacement and reprocess.
		p.utf8Len, p.utf8Need = 0, 0
		p.grid.WriteRune(utf8.RuneError)
		p.feedByte(b)
		return
	}
	p.utf8Buf[p.utf8Len] = b
	p.utf8Len++
	if p.utf8Len < p.utf8Need {
		return
	}
	r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
	p.utf8Len, p.utf8Need = 0, 0
	p.grid.WriteRune(r)
}

// --- ESC dispatch ---

func (p *Parser) escape(b byte) {
	p.state = stateGround
	switch b {
	case '[':
		p.state = stateCSI
		p.csiBuf.Reset()
		p.csiPrivate = 0
		p.intermediate = 0
	case ']':
		p.state = stateOSC
		p.oscBuf.Reset()
	case 'P':
		p.state = stateDCS
	case '(', ')', '*', '+':
		p.state = stateCharset
	case '#':
		p.state = stateHash
	case '7':
		p.grid.SaveCursor()
	case '8':
		p.grid.RestoreCursor()
	case 'D':
		p.grid.Index()
	case 'E':
		p.grid.NextLine()
	case 'M':
		p.grid.ReverseIndex()
	case 'c':
		p.grid.Reset()
	case '=':
		p.grid.SetMode(ModeAppKeypad, true)
	case '>':
		p.grid.SetMode(ModeAppKeypad, false)
	case '\\':
		// Stray string terminator.
	case 0x1b:
		p.state = stateEscape
	default:
		// Unknown single-byte escape; dropped.
	}
}

// --- CSI ---

func (p *Parser) csi(b byte) {
	switch {
	case b >= '0' && b <= '9' || b == ';' || b == ':':
		if p.csiBuf.Len() < maxCSILen {
			p.csiBuf.WriteByte(b)
		} else {
			p.state = stateGround
		}
	case b == '?' || b == '>' || b == '<' || b == '=':
		if p.csiBuf.Len() == 0 && p.csiPrivate == 0 {
			p.csiPrivate = b
		} else {
			p.state = stateGround
		}
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = b
	case b >= 0x40 && b <= 0x7e:
		p.state = stateGround
		p.parseCSIParams()
		p.executeCSI(b)
	case b == 0x1b:
		p.state = stateEscape
	case b == 0x18 || b == 0x1a: // CAN, SUB
		p.state = stateGround
	case b < 0x20:
		// C0 controls execute even mid-sequence.
		p.execControl(b)
	default:
		p.state = stateGround
	}
}

func (p *Parser) parseCSIParams() {
	p.params = p.params[:0]
	p.rawParams = p.rawParams[:0]
	if p.csiBuf.Len() == 0 {
		return
	}
	for _, raw := range strings.Split(p.csiBuf.String(), ";") {
		p.rawParams = append(p.rawParams, raw)
		head := raw
		if i := strings.IndexByte(raw, ':'); i >= 0 {
			head = raw[:i]
		}
		n, err := strconv.Atoi(head)
		if err != nil || n < 0 {
			n = 0
		}
		p.params = append(p.params, n)
	}
}

// paramOr returns parameter i, substituting def for missing or zero values.
func (p *Parser) paramOr(i, def int) int {
	if i < len(p.params) && p.params[i] > 0 {
		return p.params[i]
	}
	return def
}

// paramRaw returns parameter i with zero preserved, def when absent.
func (p *Parser) paramRaw(i, def int) int {
	if i < len(p.params) {
		return p.params[i]
	}
	return def
}

func (p *Parser) executeCSI(final byte) {
	if p.intermediate == ' ' && final == 'q' {
		p.setCursorShape(p.paramRaw(0, 0))
		return
	}
	if p.intermediate != 0 {
		return
	}
	if p.csiPrivate == '?' {
		switch final {
		case 'h':
			p.setPrivateModes(true)
		case 'l':
			p.setPrivateModes(false)
		}
		return
	}
	if p.csiPrivate != 0 {
		// '>' / '<' / '=' prefixed sequences (secondary DA, xterm
		// modifier options) are consumed without reply.
		return
	}

	switch final {
	case 'A':
		p.grid.MoveCursorUp(p.paramOr(0, 1))
	case 'B', 'e':
		p.grid.MoveCursorDown(p.paramOr(0, 1))
	case 'C', 'a':
		p.grid.MoveCursorForward(p.paramOr(0, 1))
	case 'D':
		p.grid.MoveCursorBack(p.paramOr(0, 1))
	case 'E':
		p.grid.CursorNextLine(p.paramOr(0, 1))
	case 'F':
		p.grid.CursorPrevLine(p.paramOr(0, 1))
	case 'G', '`':
		p.grid.SetCursorCol(p.paramOr(0, 1) - 1)
	case 'H', 'f':
		p.grid.SetCursorPos(p.paramOr(0, 1)-1, p.paramOr(1, 1)-1)
	case 'd':
		p.grid.SetCursorRow(p.paramOr(0, 1) - 1)
	case 'J':
		p.grid.EraseDisplay(p.paramRaw(0, 0))
	case 'K':
		p.grid.EraseLine(p.paramRaw(0, 0))
	case 'L':
		p.grid.InsertLines(p.paramOr(0, 1))
	case 'M':
		p.grid.DeleteLines(p.paramOr(0, 1))
	case '@':
		p.grid.InsertChars(p.paramOr(0, 1))
	case 'P':
		p.grid.DeleteChars(p.paramOr(0, 1))
	case 'X':
		p.grid.EraseChars(p.paramOr(0, 1))
	case 'S':
		p.grid.ScrollUp(p.paramOr(0, 1))
	case 'T':
		p.grid.ScrollDown(p.paramOr(0, 1))
	case 'r':
		rows, _ := p.grid.Size()
		top := p.paramOr(0, 1)
		bottom := p.paramOr(1, rows)
		p.grid.SetScrollRegion(top-1, bottom)
	case 'm':
		p.executeSGR()
	case 's':
		p.grid.SaveCursor()
	case 'u':
		p.grid.RestoreCursor()
	case 'n':
		p.deviceStatus(p.paramRaw(0, 0))
	case 'c':
		p.reply(ReplyEvent{Kind: ReplyDeviceAttrs})
	case 't':
		p.windowOp(p.paramRaw(0, 0))
	case 'h', 'l':
		// ANSI SM/RM (IRM and friends) are not supported; consumed.
	default:
		// Unknown final byte; dropped.
	}
}

func (p *Parser) deviceStatus(code int) {
	switch code {
	case 5:
		p.reply(ReplyEvent{Kind: ReplyStatus})
	case 6:
		row, col := p.grid.ReportCursorPos()
		p.reply(ReplyEvent{Kind: ReplyCursorPos, Row: row, Col: col})
	}
}

func (p *Parser) windowOp(code int) {
	switch code {
	case 14:
		p.reply(ReplyEvent{Kind: ReplyPixelSize})
	case 18:
		rows, cols := p.grid.Size()
		p.reply(ReplyEvent{Kind: ReplyTextAreaSize, Rows: rows, Cols: cols})
	}
}

func (p *Parser) setCursorShape(code int) {
	switch code {
	case 0, 1:
		p.grid.SetCursorShape(CursorBlock, true)
	case 2:
		p.grid.SetCursorShape(CursorBlock, false)
	case 3:
		p.grid.SetCursorShape(CursorUnderline, true)
	case 4:
		p.grid.SetCursorShape(CursorUnderline, false)
	case 5:
		p.grid.SetCursorShape(CursorBar, true)
	case 6:
		p.grid.SetCursorShape(CursorBar, false)
	}
}

func (p *Parser) setPrivateModes(on bool) {
	for _, code := range p.params {
		switch code {
		case 1:
			p.grid.SetMode(ModeAppCursorKeys, on)
		case 6:
			p.grid.SetMode(ModeOrigin, on)
			p.grid.SetCursorPos(0, 0)
		case 7:
			p.grid.SetMode(ModeAutoWrap, on)
		case 12:
			p.grid.SetCursorShape(CursorBlock, on)
		case 25:
			p.grid.SetCursorVisible(on)
		case 1000:
			p.grid.SetMode(ModeMouseClicks, on)
		case 1002:
			p.grid.SetMode(ModeMouseMotion, on)
		case 1003:
			p.grid.SetMode(ModeMouseAll, on)
		case 1006:
			p.grid.SetMode(ModeMouseSGR, on)
		case 47, 1047:
			if on {
				p.grid.EnterAltScreen()
			} else {
				p.grid.ExitAltScreen()
			}
		case 1048:
			if on {
				p.grid.SaveCursor()
			} else {
				p.grid.RestoreCursor()
			}
		case 1049:
			if on {
				p.grid.SaveCursor()
				p.grid.EnterAltScreen()
				p.grid.EraseDisplay(2)
			} else {
				p.grid.ExitAltScreen()
				p.grid.RestoreCursor()
			}
		case 2004:
			p.grid.SetMode(ModeBracketedPaste, on)
		}
	}
}

// --- SGR ---

func (p *Parser) executeSGR() {
	if len(p.rawParams) == 0 {
		p.grid.ResetAttributes()
		return
	}
	i := 0
	for i < len(p.rawParams) {
		raw := p.rawParams[i]
		if strings.ContainsRune(raw, ':') {
			p.applySGRColon(raw)
			i++
			continue
		}
		code := p.paramRaw(i, 0)
		switch {
		case code == 0:
			p.grid.ResetAttributes()
		case code == 1:
			p.grid.SetAttr(AttrBold, true)
		case code == 2:
			p.grid.SetAttr(AttrDim, true)
		case code == 3:
			p.grid.SetAttr(AttrItalic, true)
		case code == 4:
			p.grid.SetAttr(AttrUnderline, true)
		case code == 5 || code == 6:
			p.grid.SetAttr(AttrBlink, true)
		case code == 7:
			p.grid.SetAttr(AttrInverse, true)
		case code == 9:
			p.grid.SetAttr(AttrStrikethrough, true)
		case code == 21:
			p.grid.SetAttr(AttrBold, false)
		case code == 22:
			p.grid.SetAttr(AttrBold|AttrDim, false)
		case code == 23:
			p.grid.SetAttr(AttrItalic, false)
		case code == 24:
			p.grid.SetAttr(AttrUnderline, false)
		case code == 25:
			p.grid.SetAttr(AttrBlink, false)
		case code == 27:
			p.grid.SetAttr(AttrInverse, false)
		case code == 29:
			p.grid.SetAttr(AttrStrikethrough, false)
		case code >= 30 && code <= 37:
			p.grid.SetForeground(StandardColor(code - 30))
		case code == 38:
			i += p.applySGRExtended(i, true)
		case code == 39:
			p.grid.SetForeground(DefaultForeground)
		case code >= 40 && code <= 47:
			p.grid.SetBackground(StandardColor(code - 40))
		case code == 48:
			i += p.applySGRExtended(i, false)
		case code == 49:
			p.grid.SetBackground(DefaultBackground)
		case code >= 90 && code <= 97:
			p.grid.SetForeground(StandardColor(code - 90 + 8))
		case code >= 100 && code <= 107:
			p.grid.SetBackground(StandardColor(code - 100 + 8))
		}
		i++
	}
}

// applySGRExtended handles semicolon-form 38/48 (e.g. 38;5;208 or
// 38;2;r;g;b) starting at index i. Returns the number of extra parameters
// consumed.
func (p *Parser) applySGRExtended(i int, isFg bool) int {
	set := p.grid.SetBackground
	if isFg {
		set = p.grid.SetForeground
	}
	switch p.paramRaw(i+1, -1) {
	case 5:
		if i+2 < len(p.params) {
			set(PaletteColor(p.params[i+2]))
			return 2
		}
	case 2:
		if i+4 < len(p.params) {
			set(TrueColor(
				uint8(clamp(p.params[i+2], 0, 255)),
				uint8(clamp(p.params[i+3], 0, 255)),
				uint8(clamp(p.params[i+4], 0, 255))))
			return 4
		}
	}
	// Malformed extension; skip the rest of this SGR parameter list.
	return len(p.params)
}

// applySGRColon handles colon-form 38/48 (e.g. 38:5:208, 38:2:r:g:b, or the
// ODA form 38:2:<colorspace>:r:g:b).
func (p *Parser) applySGRColon(raw string) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return
	}
	atoi := func(s string) int {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	code := atoi(parts[0])
	var set func(Color)
	switch code {
	case 38:
		set = p.grid.SetForeground
	case 48:
		set = p.grid.SetBackground
	case 4:
		// Underline styles (4:x); any nonzero style turns underline on.
		p.grid.SetAttr(AttrUnderline, atoi(parts[1]) != 0)
		return
	default:
		return
	}
	switch atoi(parts[1]) {
	case 5:
		if len(parts) >= 3 {
			set(PaletteColor(atoi(parts[2])))
		}
	case 2:
		rgb := parts[2:]
		if len(rgb) >= 4 {
			rgb = rgb[1:] // colorspace id present
		}
		if len(rgb) >= 3 {
			set(TrueColor(
				uint8(clamp(atoi(rgb[0]), 0, 255)),
				uint8(clamp(atoi(rgb[1]), 0, 255)),
				uint8(clamp(atoi(rgb[2]), 0, 255))))
		}
	}
}

// --- OSC ---

func (p *Parser) osc(b byte) {
	switch {
	case b == 0x07:
		p.dispatchOSC("\a")
	case b == 0x1b:
		p.state = stateOSCEsc
	case b == 0x18 || b == 0x1a:
		p.state = stateGround
		p.oscBuf.Reset()
	default:
		if p.oscBuf.Len() < maxOSCLen {
			p.oscBuf.WriteByte(b)
		} else {
			p.state = stateGround
			p.oscBuf.Reset()
		}
	}
}

func (p *Parser) dispatchOSC(terminator string) {
	p.state = stateGround
	content := p.oscBuf.String()
	p.oscBuf.Reset()

	code := content
	data := ""
	if i := strings.IndexByte(content, ';'); i >= 0 {
		code = content[:i]
		data = content[i+1:]
	}

	switch code {
	case "0", "2":
		p.grid.SetTitle(data)
	case "4":
		p.oscPaletteQuery(data, terminator)
	case "10":
		if data == "?" {
			p.reply(ReplyEvent{Kind: ReplyColor, ColorCode: "10",
				Color: DefaultForeground, Terminator: terminator})
		}
	case "11":
		if data == "?" {
			p.reply(ReplyEvent{Kind: ReplyColor, ColorCode: "11",
				Color: DefaultBackground, Terminator: terminator})
		}
	case "52":
		p.oscClipboard(data, terminator)
	default:
		// Unknown OSC codes are consumed.
	}
}

// oscPaletteQuery answers "OSC 4;<index>;?" with the resolved palette RGB.
// Palette writes are not supported and ignored.
func (p *Parser) oscPaletteQuery(data, terminator string) {
	i := strings.IndexByte(data, ';')
	if i < 0 || data[i+1:] != "?" {
		return
	}
	index, err := strconv.Atoi(data[:i])
	if err != nil || index < 0 || index > 255 {
		return
	}
	p.reply(ReplyEvent{Kind: ReplyColor, ColorCode: "4;" + data[:i],
		Color: PaletteColor(index), Terminator: terminator})
}

func (p *Parser) oscClipboard(data, terminator string) {
	i := strings.IndexByte(data, ';')
	if i < 0 {
		return
	}
	selection := data[:i]
	if selection == "" {
		selection = "c"
	}
	p.reply(ReplyEvent{Kind: ReplyClipboard, Selection: selection,
		Data: data[i+1:], Terminator: terminator})
}
