package gridterm

// Mode is a bitset of terminal behavior flags toggled by DECSET/DECRST.
// Multiple modes can be active simultaneously.
type Mode uint32

const (
	// ModeAppCursorKeys makes arrow keys send SS3 sequences (DECCKM, ?1).
	ModeAppCursorKeys Mode = 1 << iota
	// ModeOrigin makes cursor addressing relative to the scroll region
	// (DECOM, ?6).
	ModeOrigin
	// ModeAutoWrap wraps the cursor to the next line at the right margin
	// (DECAWM, ?7). On by default.
	ModeAutoWrap
	// ModeMouseClicks reports mouse button presses (?1000).
	ModeMouseClicks
	// ModeMouseMotion reports button-held mouse motion (?1002).
	ModeMouseMotion
	// ModeMouseAll reports all mouse motion (?1003).
	ModeMouseAll
	// ModeMouseSGR selects SGR mouse encoding (?1006).
	ModeMouseSGR
	// ModeAltScreen is set while the alternate screen is active (?1049).
	ModeAltScreen
	// ModeBracketedPaste wraps pasted text in ESC[200~ / ESC[201~ (?2004).
	ModeBracketedPaste
	// ModeAppKeypad selects application keypad mode (DECKPAM / ESC =).
	ModeAppKeypad
)

// defaultModes is the mode set of a freshly reset terminal.
const defaultModes = ModeAutoWrap

// Has returns true if all bits in mask are set.
func (m Mode) Has(mask Mode) bool {
	return m&mask == mask
}

// MouseReporting returns true if any mouse reporting mode is active.
func (m Mode) MouseReporting() bool {
	return m&(ModeMouseClicks|ModeMouseMotion|ModeMouseAll) != 0
}
