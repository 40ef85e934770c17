package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/dropdown/internal/config"
	dlog "github.com/runger/dropdown/internal/log"
	"github.com/runger/dropdown/internal/option"
	"github.com/runger/dropdown/internal/selection"
	"github.com/runger/dropdown/internal/store"
	"github.com/runger/dropdown/internal/tui"
)

// defaultID names the dropdown built from stdin when --id is not given.
const defaultID = "dropdown"

// pickOpts holds the parsed flags of the pick command.
type pickOpts struct {
	file     string
	id       string
	label    string
	multiple bool
	values   []string
	output   string
	remember bool
}

var pickFlags pickOpts

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Show dropdowns and print the chosen values",
	Long: `Show one or more dropdowns on the terminal and print the chosen values.

Options come from a YAML definitions file (--file) or from stdin, one
option per line as "label [value]" with shell-style quoting. The TUI is
drawn on /dev/tty so stdin and stdout stay free for data.

Exit codes: 0 selection made, 1 cancelled, 2 fallback (no TTY, bad input).

Examples:
  printf 'Apple apple\nBanana banana\n' | dropdown pick
  dropdown pick --file dropdowns.yaml --output json
  ls | dropdown pick --multiple --id files --remember`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPick(cmd, &pickFlags)
	},
}

func init() {
	f := pickCmd.Flags()
	f.StringVarP(&pickFlags.file, "file", "f", "", "YAML file with dropdown definitions")
	f.StringVar(&pickFlags.id, "id", "", "dropdown id for options read from stdin")
	f.StringVar(&pickFlags.label, "label", "", "title for options read from stdin")
	f.BoolVarP(&pickFlags.multiple, "multiple", "m", false, "allow selecting several options")
	f.StringArrayVar(&pickFlags.values, "value", nil, "initially selected value (repeatable)")
	f.StringVarP(&pickFlags.output, "output", "o", "plain", "output format: plain or json")
	f.BoolVar(&pickFlags.remember, "remember", false, "restore and save the last selection per dropdown id")
}

func fallback(err error) error {
	return &ExitError{Code: exitFallback, Err: err}
}

func runPick(cmd *cobra.Command, opts *pickOpts) error {
	if opts.output != "plain" && opts.output != "json" {
		return fallback(fmt.Errorf("--output must be \"plain\" or \"json\" (got %q)", opts.output))
	}

	defs, err := loadDefinitions(opts, cmd.InOrStdin())
	if err != nil {
		return fallback(err)
	}

	paths := config.DefaultPaths()
	cfg, err := config.LoadFromFile(paths.ConfigFile())
	if err != nil {
		return fallback(fmt.Errorf("failed to load config: %w", err))
	}

	logger, closeLog := openLogger(cfg, paths)
	defer closeLog()

	var st *store.Store
	if opts.remember || cfg.Store.Remember {
		st, err = store.Open(cfg.StorePath(paths))
		if err != nil {
			// The picker still runs without a store.
			logger.Warn("failed to open store", "error", err)
		} else {
			defer st.Close()
			restoreSelections(cmd.Context(), st, defs, logger)
		}
	}

	if err := preflight(); err != nil {
		return fallback(err)
	}

	m, err := runTUI(defs, cfg, logger)
	if err != nil {
		return fallback(err)
	}
	if m.Cancelled() || !m.Submitted() {
		logger.Info("selection cancelled")
		return &ExitError{Code: exitCancelled}
	}

	results := m.Results()
	if st != nil {
		saveSelections(cmd.Context(), st, results, logger)
	}
	logger.Info("selection made", "dropdowns", len(results))
	return writeResults(cmd.OutOrStdout(), opts.output, results)
}

// preflight runs the terminal checks that decide between the TUI and the
// fallback exit.
func preflight() error {
	if err := checkTTY(); err != nil {
		return err
	}
	if err := checkTERM(); err != nil {
		return err
	}
	return checkTermWidth()
}

// checkTERM verifies that the TERM environment variable is not "dumb".
func checkTERM() error {
	if os.Getenv("TERM") == "dumb" {
		return errors.New("TERM=dumb is not supported")
	}
	return nil
}

// loadDefinitions reads definitions from --file, or builds a single one
// from option lines on stdin.
func loadDefinitions(opts *pickOpts, stdin io.Reader) ([]option.Definition, error) {
	if opts.file != "" {
		if opts.id != "" || opts.label != "" || opts.multiple || len(opts.values) > 0 {
			return nil, errors.New("--id, --label, --multiple and --value apply to stdin input and cannot be combined with --file")
		}
		return option.LoadFile(opts.file)
	}

	if f, ok := stdin.(*os.File); ok && isTerminal(f) {
		return nil, errors.New("no options: pass --file or pipe options on stdin")
	}
	parsed, err := option.ParseLines(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}
	if len(parsed) == 0 {
		return nil, errors.New("no options on stdin")
	}

	def := option.Definition{
		ID:       opts.id,
		Label:    opts.label,
		Multiple: opts.multiple,
		Options:  parsed,
	}
	if def.ID == "" {
		def.ID = defaultID
	}

	if len(opts.values) == 0 {
		return []option.Definition{def}, nil
	}
	if !def.Multiple && len(opts.values) > 1 {
		return nil, fmt.Errorf("%w: --value given %d times without --multiple", selection.ErrContractViolation, len(opts.values))
	}

	values := make([]option.Value, 0, len(opts.values))
	for _, v := range opts.values {
		values = append(values, option.ParseValue(v))
	}
	found, missing := def.Options.Resolve(values)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", option.ErrUnknownValue, missing[0])
	}
	if def.Multiple {
		def.Values = found
	} else {
		def.Value = found[0]
	}
	return []option.Definition{def}, nil
}

// restoreSelections replaces each definition's initial value with the one
// remembered for its id. Remembered values that are no longer offered are
// dropped.
func restoreSelections(ctx context.Context, st *store.Store, defs []option.Definition, logger *slog.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}
	for i := range defs {
		def := &defs[i]
		values, err := st.Load(ctx, def.ID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			logger.Warn("failed to load remembered selection", "dropdown", def.ID, "error", err)
			continue
		}
		found, missing := def.Options.Resolve(values)
		if len(missing) > 0 {
			logger.Debug("remembered values no longer offered", "dropdown", def.ID, "missing", len(missing))
		}
		if def.Multiple {
			def.Value = nil
			def.Values = found
			if def.Values == nil {
				def.Values = []*option.Option{}
			}
		} else {
			def.Values = nil
			def.Value = nil
			if len(found) > 0 {
				def.Value = found[0]
			}
		}
	}
}

func saveSelections(ctx context.Context, st *store.Store, results []tui.Result, logger *slog.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, r := range results {
		if err := st.Save(ctx, r.ID, r.Values); err != nil {
			logger.Warn("failed to remember selection", "dropdown", r.ID, "error", err)
		}
	}
}

// openLogger writes JSON logs to the rotating log file. Logging never
// blocks the picker: on failure it falls back to discarding.
func openLogger(cfg *config.Config, paths *config.Paths) (*slog.Logger, func()) {
	level, err := dlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	w, err := dlog.FileWriter(cfg.LogFile(paths), cfg.Log.MaxSizeMB)
	if err != nil {
		return dlog.Discard(), func() {}
	}
	logger := dlog.New(&dlog.Config{Output: w, Level: level})
	return logger, func() { w.Close() }
}

// runTUI runs the Bubble Tea program on the terminal and returns the final model.
func runTUI(defs []option.Definition, cfg *config.Config, logger *slog.Logger) (*tui.Model, error) {
	model, err := tui.NewModel(defs, cfg, logger)
	if err != nil {
		return nil, err
	}

	in, out, closeTTY, err := openTTY()
	if err != nil {
		return nil, err
	}
	defer closeTTY()

	// stdout is usually a pipe here, so detect colours from the tty itself.
	if shouldDisableColors() {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.NewOutput(out).ColorProfile())
	}

	progOpts := []tea.ProgramOption{
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithReportFocus(),
	}
	if cfg.UI.Mouse {
		progOpts = append(progOpts, tea.WithMouseAllMotion())
	}
	if cfg.UI.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(model, progOpts...).Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}
	m, ok := final.(*tui.Model)
	if !ok {
		return nil, errors.New("unexpected model type")
	}
	return m, nil
}

// writeResults prints the selection. Plain output is one value per line,
// prefixed with "id<TAB>" when there are several dropdowns. JSON output maps
// each id to the list of its values.
func writeResults(w io.Writer, format string, results []tui.Result) error {
	if format == "json" {
		out := make(map[string][]option.Value, len(results))
		for _, r := range results {
			vals := r.Values
			if vals == nil {
				vals = []option.Value{}
			}
			out[r.ID] = vals
		}
		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	prefix := len(results) > 1
	for _, r := range results {
		for _, v := range r.Values {
			var err error
			if prefix {
				_, err = fmt.Fprintf(w, "%s\t%s\n", r.ID, v)
			} else {
				_, err = fmt.Fprintln(w, v)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
