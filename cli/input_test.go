package cli

import (
	"bytes"
	"testing"
)

func TestEncodeInputAppCursor(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		appCursor bool
		want      string
	}{
		{"arrow translated", "\x1b[A", true, "\x1bOA"},
		{"arrow untouched", "\x1b[A", false, "\x1b[A"},
		{"plain text untouched", "hello", true, "hello"},
		{"mixed stream", "ab\x1b[C\x1b[D", true, "ab\x1bOC\x1bOD"},
		{"home end", "\x1b[H\x1b[F", true, "\x1bOH\x1bOF"},
		{"non-cursor csi untouched", "\x1b[3~", true, "\x1b[3~"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeInput([]byte(tt.in), tt.appCursor)
			if !bytes.Equal(got, []byte(tt.want)) {
				t.Fatalf("encodeInput(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
