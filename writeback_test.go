package gridterm

import "testing"

type recordingClipboard struct {
	content string
	allow   bool

	storedSel  string
	storedText string
}

func (c *recordingClipboard) Load(selection string) (string, bool) {
	return c.content, c.allow
}

func (c *recordingClipboard) Store(selection, text string) {
	c.storedSel = selection
	c.storedText = text
}

func drainString(q *OutboundQueue) string {
	var out []byte
	for _, chunk := range q.Drain() {
		out = append(out, chunk...)
	}
	return string(out)
}

func TestTranslatorReplyBytes(t *testing.T) {
	tests := []struct {
		name string
		ev   ReplyEvent
		want string
	}{
		{"status", ReplyEvent{Kind: ReplyStatus}, "\x1b[0n"},
		{"cursor 1-based", ReplyEvent{Kind: ReplyCursorPos, Row: 3, Col: 6}, "\x1b[4;7R"},
		{"cursor home", ReplyEvent{Kind: ReplyCursorPos, Row: 0, Col: 0}, "\x1b[1;1R"},
		{"device attrs", ReplyEvent{Kind: ReplyDeviceAttrs}, "\x1b[?62;c"},
		{"text area size", ReplyEvent{Kind: ReplyTextAreaSize, Rows: 24, Cols: 80}, "\x1b[8;24;80t"},
		{"pixel size declined", ReplyEvent{Kind: ReplyPixelSize}, "\x1b[4;0;0t"},
		{
			"color report",
			ReplyEvent{Kind: ReplyColor, ColorCode: "11",
				Color: Color{R: 0x1e, G: 0x1e, B: 0x1e}, Terminator: "\a"},
			"\x1b]11;rgb:1e1e/1e1e/1e1e\a",
		},
		{
			"color report ST terminator",
			ReplyEvent{Kind: ReplyColor, ColorCode: "4;1",
				Color: Color{R: 0xcd, G: 0x31, B: 0x31}, Terminator: "\x1b\\"},
			"\x1b]4;1;rgb:cdcd/3131/3131\x1b\\",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &OutboundQueue{}
			tr := &translator{queue: q}
			tr.handle(tt.ev)
			if got := drainString(q); got != tt.want {
				t.Fatalf("reply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranslatorClipboardReadGranted(t *testing.T) {
	q := &OutboundQueue{}
	tr := &translator{queue: q, clipboard: &recordingClipboard{content: "hello", allow: true}}
	tr.handle(ReplyEvent{Kind: ReplyClipboard, Selection: "c", Data: "?", Terminator: "\a"})
	if got := drainString(q); got != "\x1b]52;c;aGVsbG8=\a" {
		t.Fatalf("reply = %q", got)
	}
}

func TestTranslatorClipboardReadDeclined(t *testing.T) {
	q := &OutboundQueue{}
	tr := &translator{queue: q, clipboard: &recordingClipboard{content: "secret", allow: false}}
	tr.handle(ReplyEvent{Kind: ReplyClipboard, Selection: "c", Data: "?", Terminator: "\a"})
	// Declined reads still reply, with empty data.
	if got := drainString(q); got != "\x1b]52;c;\a" {
		t.Fatalf("reply = %q, want empty-data reply", got)
	}
}

func TestTranslatorClipboardReadNoPolicy(t *testing.T) {
	q := &OutboundQueue{}
	tr := &translator{queue: q}
	tr.handle(ReplyEvent{Kind: ReplyClipboard, Selection: "p", Data: "?", Terminator: "\x1b\\"})
	if got := drainString(q); got != "\x1b]52;p;\x1b\\" {
		t.Fatalf("reply = %q, want empty-data reply", got)
	}
}

func TestTranslatorClipboardStore(t *testing.T) {
	q := &OutboundQueue{}
	clip := &recordingClipboard{}
	tr := &translator{queue: q, clipboard: clip}
	tr.handle(ReplyEvent{Kind: ReplyClipboard, Selection: "c", Data: "aGVsbG8=", Terminator: "\a"})
	if clip.storedSel != "c" || clip.storedText != "hello" {
		t.Fatalf("stored = (%q, %q), want (c, hello)", clip.storedSel, clip.storedText)
	}
	if q.Len() != 0 {
		t.Fatal("store should not produce a reply")
	}
}

func TestTranslatorClipboardStoreBadBase64(t *testing.T) {
	q := &OutboundQueue{}
	clip := &recordingClipboard{}
	tr := &translator{queue: q, clipboard: clip}
	tr.handle(ReplyEvent{Kind: ReplyClipboard, Selection: "c", Data: "!!!not-b64", Terminator: "\a"})
	if clip.storedText != "" {
		t.Fatalf("stored %q from undecodable payload", clip.storedText)
	}
}
