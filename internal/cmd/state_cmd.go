package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runger/dropdown/internal/config"
	"github.com/runger/dropdown/internal/store"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or clear remembered selections",
	Long: `Inspect or clear the selections saved by "pick --remember".

Without a subcommand, lists the dropdown ids with a remembered selection,
most recently saved first.`,
	Args: cobra.NoArgs,
	RunE: runStateList,
}

var stateShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the remembered values of a dropdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runStateShow,
}

var stateForgetCmd = &cobra.Command{
	Use:   "forget <id>...",
	Short: "Drop the remembered selection of one or more dropdowns",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStateForget,
}

func init() {
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateForgetCmd)
}

// openStore opens the selection store at the configured path.
func openStore() (*store.Store, error) {
	paths := config.DefaultPaths()
	cfg, err := config.LoadFromFile(paths.ConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return store.Open(cfg.StorePath(paths))
}

func runStateList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ids, err := st.IDs(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintln(out, "No remembered selections")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}

func runStateShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	values, err := st.Load(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("nothing remembered for %q", args[0])
	}
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, v := range values {
		fmt.Fprintln(out, v)
	}
	return nil
}

func runStateForget(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	for _, id := range args {
		if err := st.Forget(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s\n", id)
	}
	return nil
}
