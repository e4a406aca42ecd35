package gridterm

import (
	"encoding/base64"
	"fmt"
)

// ReplyKind tags the closed set of emulator-initiated replies.
type ReplyKind int

const (
	// ReplyStatus answers DSR 5 with "terminal OK".
	ReplyStatus ReplyKind = iota
	// ReplyCursorPos answers DSR 6 with the cursor position (CPR).
	ReplyCursorPos
	// ReplyDeviceAttrs answers DA with the advertised terminal class.
	ReplyDeviceAttrs
	// ReplyTextAreaSize answers CSI 18t with the grid size in characters.
	ReplyTextAreaSize
	// ReplyPixelSize answers CSI 14t. The core has no pixel knowledge and
	// reports zeros.
	ReplyPixelSize
	// ReplyColor answers OSC 4/10/11 color queries with resolved RGB.
	ReplyColor
	// ReplyClipboard handles OSC 52 reads and writes through the
	// clipboard policy.
	ReplyClipboard
)

// ReplyEvent is a device query decoded by the parser. The translator turns
// it into exact reply bytes on the outbound queue; the parser never touches
// the queue itself.
type ReplyEvent struct {
	Kind ReplyKind

	Row, Col   int // ReplyCursorPos, 0-indexed
	Rows, Cols int // ReplyTextAreaSize

	ColorCode  string // ReplyColor: OSC selector to echo back ("10", "11", "4;<n>")
	Color      Color  // ReplyColor: resolved color
	Selection  string // ReplyClipboard: selection characters ("c", "p", ...)
	Data       string // ReplyClipboard: "?" for a read, else base64 payload to store
	Terminator string // OSC replies: terminator matching the query (BEL or ST)
}

// ClipboardPolicy decides whether a child process may read or write the host
// clipboard via OSC 52. Implementations belong to the embedding application;
// the core only guarantees that a declined read still gets an empty reply so
// the child never blocks waiting.
type ClipboardPolicy interface {
	// Load returns the clipboard text for a read request, or ok=false to
	// decline.
	Load(selection string) (text string, ok bool)
	// Store receives decoded text the child asked to place on the
	// clipboard. Implementations may ignore it.
	Store(selection, text string)
}

// translator formats reply events into wire bytes on the outbound queue.
type translator struct {
	queue     *OutboundQueue
	clipboard ClipboardPolicy
}

func (t *translator) handle(ev ReplyEvent) {
	switch ev.Kind {
	case ReplyStatus:
		t.queue.AppendString("\x1b[0n")
	case ReplyCursorPos:
		t.queue.AppendString(fmt.Sprintf("\x1b[%d;%dR", ev.Row+1, ev.Col+1))
	case ReplyDeviceAttrs:
		t.queue.AppendString("\x1b[?62;c")
	case ReplyTextAreaSize:
		t.queue.AppendString(fmt.Sprintf("\x1b[8;%d;%dt", ev.Rows, ev.Cols))
	case ReplyPixelSize:
		t.queue.AppendString("\x1b[4;0;0t")
	case ReplyColor:
		t.queue.AppendString(fmt.Sprintf("\x1b]%s;rgb:%02x%02x/%02x%02x/%02x%02x%s",
			ev.ColorCode,
			ev.Color.R, ev.Color.R,
			ev.Color.G, ev.Color.G,
			ev.Color.B, ev.Color.B,
			ev.Terminator))
	case ReplyClipboard:
		t.handleClipboard(ev)
	}
}

func (t *translator) handleClipboard(ev ReplyEvent) {
	if ev.Data == "?" {
		// Read request. A declined or unconfigured policy still answers
		// with empty data.
		encoded := ""
		if t.clipboard != nil {
			if text, ok := t.clipboard.Load(ev.Selection); ok {
				encoded = base64.StdEncoding.EncodeToString([]byte(text))
			}
		}
		t.queue.AppendString(fmt.Sprintf("\x1b]52;%s;%s%s", ev.Selection, encoded, ev.Terminator))
		return
	}
	// Write request: decode and hand to the policy. No reply is expected;
	// undecodable payloads are dropped.
	if t.clipboard == nil {
		return
	}
	text, err := base64.StdEncoding.DecodeString(ev.Data)
	if err != nil {
		return
	}
	t.clipboard.Store(ev.Selection, string(text))
}
