// Package dropdown implements the interaction state machine of a dropdown
// and a Widget that binds it to an input surface.
//
// The machine owns only visibility and the keyboard highlight. Selection
// changes are delegated to a selection.Policy and reported to the owner,
// who re-supplies the new value through SetProps.
package dropdown

import (
	"fmt"
	"log/slog"

	"github.com/runger/dropdown/internal/option"
	"github.com/runger/dropdown/internal/selection"
	"github.com/runger/dropdown/internal/surface"
)

// Machine is the open/closed state machine with a highlighted row.
type Machine struct {
	props       selection.Props
	policy      selection.Policy
	open        bool
	highlighted int
	logger      *slog.Logger
}

// NewMachine returns a closed machine with the first row highlighted. A nil
// logger discards output.
func NewMachine(p selection.Props, logger *slog.Logger) (*Machine, error) {
	policy, err := selection.New(p)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{props: p, policy: policy, logger: logger}, nil
}

// SetProps re-supplies the owner's props. The cardinality mode is fixed for
// the machine's lifetime; switching it is a contract violation. A highlight
// left past the end of a shorter option list is clamped.
func (m *Machine) SetProps(p selection.Props) error {
	policy, err := selection.New(p)
	if err != nil {
		return err
	}
	if policy.Multiple() != m.policy.Multiple() {
		return fmt.Errorf("%w: cardinality mode cannot change after construction", selection.ErrContractViolation)
	}
	m.props = p
	m.policy = policy
	m.clampHighlight()
	return nil
}

// Props returns the props the machine currently works from.
func (m *Machine) Props() selection.Props { return m.props }

// Policy returns the selection policy for the current props.
func (m *Machine) Policy() selection.Policy { return m.policy }

// Options returns the current option list.
func (m *Machine) Options() option.List { return m.props.List() }

// IsOpen reports whether the option list is visible.
func (m *Machine) IsOpen() bool { return m.open }

// Highlighted returns the index of the keyboard highlight.
func (m *Machine) Highlighted() int { return m.highlighted }

// Open shows the option list, highlighting the first row if it was closed.
func (m *Machine) Open() { m.setOpen(true) }

// Close hides the option list.
func (m *Machine) Close() { m.setOpen(false) }

// ToggleOpen flips visibility. Used for activation of the control itself.
func (m *Machine) ToggleOpen() { m.setOpen(!m.open) }

// setOpen is the only place open changes, so the highlight reset happens on
// every closed-to-open transition regardless of its cause.
func (m *Machine) setOpen(open bool) {
	if open == m.open {
		return
	}
	m.open = open
	if open {
		m.highlighted = 0
		m.logger.Debug("dropdown opened", "options", len(m.Options()))
	} else {
		m.logger.Debug("dropdown closed", "highlighted", m.highlighted)
	}
}

// HoverRow highlights row i. It does nothing while closed or out of range.
func (m *Machine) HoverRow(i int) {
	if !m.open || i < 0 || i >= len(m.Options()) {
		return
	}
	m.highlighted = i
}

// CommitRow toggles the option at row i and closes. An index outside the
// list commits nothing but still closes.
func (m *Machine) CommitRow(i int) {
	opts := m.Options()
	if i >= 0 && i < len(opts) {
		o := opts[i]
		m.logger.Debug("option committed", "index", i, "value", o.Value.String())
		m.policy.Toggle(o)
	}
	m.setOpen(false)
}

// Key applies a key press received on the control's own focus target.
func (m *Machine) Key(k surface.Key) {
	switch k {
	case surface.KeyEnter, surface.KeySpace:
		if !m.open {
			m.setOpen(true)
			return
		}
		m.CommitRow(m.highlighted)
	case surface.KeyArrowUp, surface.KeyArrowDown:
		if !m.open {
			m.setOpen(true)
			return
		}
		next := m.highlighted + 1
		if k == surface.KeyArrowUp {
			next = m.highlighted - 1
		}
		if next >= 0 && next < len(m.Options()) {
			m.highlighted = next
		}
	case surface.KeyEscape:
		m.setOpen(false)
	}
}

// ClearSelection empties the owner's value. Visibility is unchanged.
func (m *Machine) ClearSelection() {
	m.policy.Clear()
}

// RemoveBadge deselects o in multiple mode. It is ignored in single mode.
func (m *Machine) RemoveBadge(o *option.Option) {
	if !m.policy.Multiple() || o == nil {
		return
	}
	m.policy.Toggle(o)
}

func (m *Machine) clampHighlight() {
	n := len(m.Options())
	if m.highlighted >= n {
		m.highlighted = n - 1
	}
	if m.highlighted < 0 {
		m.highlighted = 0
	}
}
