//go:build !windows

package cmd

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const ttyPath = "/dev/tty"

// minTermWidth is the narrowest terminal the control can be drawn in.
const minTermWidth = 20

// checkTTY verifies that /dev/tty is openable.
func checkTTY() error {
	f, err := os.Open(ttyPath)
	if err != nil {
		return fmt.Errorf("no TTY available: %w", err)
	}
	f.Close()
	return nil
}

// checkTermWidth verifies that the terminal is at least minTermWidth columns wide.
func checkTermWidth() error {
	f, err := os.Open(ttyPath)
	if err != nil {
		return fmt.Errorf("cannot check terminal width: %w", err)
	}
	defer f.Close()

	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return fmt.Errorf("cannot get terminal size: %w", err)
	}
	if ws.Col < minTermWidth {
		return fmt.Errorf("terminal too narrow (%d columns, need at least %d)", ws.Col, minTermWidth)
	}
	return nil
}

// openTTY opens the controlling terminal for the TUI, leaving stdin and
// stdout free for data.
func openTTY() (in, out *os.File, closeFn func(), err error) {
	f, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot open %s: %w", ttyPath, err)
	}
	return f, f, func() { f.Close() }, nil
}
