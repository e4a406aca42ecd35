//go:build windows

package gridterm

import (
	"errors"
	"os/exec"
)

// ConPTY support is not implemented; sessions can still run against an
// injected PTY (Options.StartPTY).
func startPTY(cmd *exec.Cmd, rows, cols int) (PTY, error) {
	return nil, errors.New("gridterm: pty spawn not supported on windows")
}
