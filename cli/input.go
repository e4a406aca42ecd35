package cli

import "bytes"

// cursorKeyPairs maps the normal (CSI) arrow and home/end encodings the host
// terminal sends to the application (SS3) encodings a DECCKM child expects.
var cursorKeyPairs = [][2][]byte{
	{[]byte("\x1b[A"), []byte("\x1bOA")},
	{[]byte("\x1b[B"), []byte("\x1bOB")},
	{[]byte("\x1b[C"), []byte("\x1bOC")},
	{[]byte("\x1b[D"), []byte("\x1bOD")},
	{[]byte("\x1b[H"), []byte("\x1bOH")},
	{[]byte("\x1b[F"), []byte("\x1bOF")},
}

// encodeInput rewrites cursor-key sequences for application cursor mode.
// Everything else passes through untouched.
func encodeInput(p []byte, appCursor bool) []byte {
	if !appCursor || !bytes.Contains(p, []byte{0x1b}) {
		return p
	}
	out := p
	for _, pair := range cursorKeyPairs {
		out = bytes.ReplaceAll(out, pair[0], pair[1])
	}
	return out
}
