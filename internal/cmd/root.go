package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes, matching what shell callers expect:
//
//	0 = selection made (use the result)
//	1 = cancelled by user (keep the previous value)
//	2 = fallback (no TTY, bad input, error)
const (
	exitSuccess   = 0
	exitCancelled = 1
	exitFallback  = 2
)

// ExitError carries a process exit code. A nil Err means the exit is
// silent, as for a cancelled selection.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return exitFallback
}

var rootCmd = &cobra.Command{
	Use:   "dropdown",
	Short: "Pick values from a dropdown in the terminal",
	Long: `dropdown - single and multi-select dropdowns for shell scripts
  - options from a YAML file or from stdin
  - keyboard and mouse driven, output on stdout`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and reports errors on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		var ee *ExitError
		if !errors.As(err, &ee) || ee.Err != nil {
			fmt.Fprintf(os.Stderr, "dropdown: %v\n", err)
		}
	}
	return err
}

func init() {
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(versionCmd)
}
