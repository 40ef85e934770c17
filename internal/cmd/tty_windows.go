//go:build windows

package cmd

import (
	"fmt"
	"os"
)

const ttyPath = "CONIN$"

// checkTTY verifies that the console is openable.
func checkTTY() error {
	f, err := os.Open(ttyPath)
	if err != nil {
		return fmt.Errorf("no console available: %w", err)
	}
	f.Close()
	return nil
}

// checkTermWidth is a no-op on Windows; the TUI adapts to WindowSizeMsg.
func checkTermWidth() error {
	return nil
}

// openTTY opens the console input and output buffers for the TUI.
func openTTY() (in, out *os.File, closeFn func(), err error) {
	in, err = os.OpenFile("CONIN$", os.O_RDWR, 0)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot open console input: %w", err)
	}
	out, err = os.OpenFile("CONOUT$", os.O_RDWR, 0)
	if err != nil {
		in.Close()
		return nil, nil, nil, fmt.Errorf("cannot open console output: %w", err)
	}
	return in, out, func() { in.Close(); out.Close() }, nil
}
