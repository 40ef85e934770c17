// Package tui renders one or more dropdowns as a Bubble Tea program.
//
// The model owns each dropdown's selection and re-supplies it to the widget
// after every input, so widgets never hold the value themselves. Terminal
// input is translated into surface events: keys go to the focused element,
// mouse presses go to whatever element was drawn under the pointer.
package tui

import (
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/dropdown/internal/config"
	"github.com/runger/dropdown/internal/dropdown"
	"github.com/runger/dropdown/internal/mouse"
	"github.com/runger/dropdown/internal/option"
	"github.com/runger/dropdown/internal/selection"
	"github.com/runger/dropdown/internal/surface"
)

const rootID = "root"

// Result is the final selection of one dropdown.
type Result struct {
	ID       string
	Multiple bool
	Values   []option.Value
}

// entry is the owner-side state of one dropdown.
type entry struct {
	def    option.Definition
	widget *dropdown.Widget

	single  *option.Option
	multi   []*option.Option
	commits int
}

// props rebuilds the widget props from the owner's current selection. The
// definition's own initial value was validated once in NewModel.
func (e *entry) props() (selection.Props, error) {
	def := e.def
	if def.Multiple {
		def.Value = nil
		def.Values = e.multi
		if def.Values == nil {
			def.Values = []*option.Option{}
		}
	} else {
		def.Value = e.single
		def.Values = nil
	}
	return selection.FromDefinition(def, e.setSingle, e.setMulti)
}

func (e *entry) setSingle(o *option.Option) {
	e.single = o
	if o != nil {
		e.commits++
	}
}

func (e *entry) setMulti(v []*option.Option) {
	e.multi = v
	e.commits++
}

// focusTarget is one stop in the tab order.
type focusTarget struct {
	entry   int
	element string
}

// Model is the Bubble Tea model for a set of dropdowns.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger

	s       *surface.Surface
	entries []*entry
	ring    []focusTarget
	focused int

	keys   keyMap
	help   help.Model
	styles styles
	mouse  *mouse.Handler

	width int

	cancelled bool
	submitted bool
}

// NewModel mounts one widget per definition. Each definition's Value or
// Values is taken as the initial selection.
func NewModel(defs []option.Definition, cfg *config.Config, logger *slog.Logger) (*Model, error) {
	if len(defs) == 0 {
		return nil, errors.New("no dropdowns to show")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := &Model{
		cfg:    cfg,
		logger: logger,
		s:      surface.New(),
		keys:   newKeyMap(),
		help:   help.New(),
		styles: newStyles(cfg.Accent()),
		mouse:  mouse.NewHandler(),
	}
	if err := m.s.Mount(rootID, ""); err != nil {
		return nil, err
	}

	for i, def := range defs {
		if _, err := selection.FromDefinition(def, nil, nil); err != nil {
			return nil, err
		}
		e := &entry{def: def, single: def.Value, multi: def.Values}
		p, err := e.props()
		if err != nil {
			return nil, err
		}
		w, err := dropdown.NewWidget(p, dropdown.WithID(def.ID), dropdown.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := w.Mount(m.s, rootID); err != nil {
			return nil, err
		}
		e.widget = w
		m.entries = append(m.entries, e)
		m.ring = append(m.ring,
			focusTarget{entry: i, element: w.ID()},
			focusTarget{entry: i, element: w.ClearID()},
		)
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case tea.MouseMsg:
		if m.cfg.UI.Mouse {
			m.handleMouse(msg)
		}
	case tea.BlurMsg:
		// The pointer may come back over the same cell; treat that as a new enter.
		m.mouse.ResetHover()
		m.dispatch(surface.Blur, m.focusedElement(), surface.KeyOther)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}

	m.sync()
	if cmd == nil && m.shouldSubmitOnCommit() {
		m.submitted = true
		m.logger.Debug("submitted on commit")
		cmd = tea.Quit
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.cancelled = true
		return tea.Quit
	case key.Matches(msg, m.keys.Submit):
		m.submitted = true
		return tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.moveFocus(1)
		return nil
	case key.Matches(msg, m.keys.Prev):
		m.moveFocus(-1)
		return nil
	case key.Matches(msg, m.keys.Quit):
		if !m.focusedWidget().Machine().IsOpen() {
			m.cancelled = true
			return tea.Quit
		}
		return nil
	}

	k, ok := m.keys.surfaceKey(msg)
	if !ok {
		return nil
	}
	target := m.ring[m.focused]
	w := m.entries[target.entry].widget
	if target.element == w.ClearID() && (k == surface.KeyEnter || k == surface.KeySpace) {
		m.dispatch(surface.Click, target.element, surface.KeyOther)
		return nil
	}
	m.dispatch(surface.KeyDown, target.element, k)
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	a := m.mouse.HandleMouse(msg)
	switch a.Type {
	case mouse.ActionClick:
		if a.Region == nil {
			m.dispatch(surface.Blur, m.focusedElement(), surface.KeyOther)
			return
		}
		idx, ok := a.Region.Data.(int)
		if !ok {
			return
		}
		m.focusEntry(idx, a.Region.ID)
		m.dispatch(surface.Click, a.Region.ID, surface.KeyOther)
	case mouse.ActionHover:
		if a.Entered && a.Region != nil {
			m.dispatch(surface.MouseEnter, a.Region.ID, surface.KeyOther)
		}
	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		if a.Region == nil {
			return
		}
		idx, ok := a.Region.Data.(int)
		if !ok || idx != m.ring[m.focused].entry {
			return
		}
		if !m.entries[idx].widget.Machine().IsOpen() {
			return
		}
		k := surface.KeyArrowDown
		if a.Type == mouse.ActionScrollUp {
			k = surface.KeyArrowUp
		}
		m.dispatch(surface.KeyDown, m.entries[idx].widget.ID(), k)
	}
}

// focusEntry moves focus to the dropdown at idx after a press on element.
// The old element is blurred only when focus leaves its dropdown.
func (m *Model) focusEntry(idx int, element string) {
	w := m.entries[idx].widget
	next := focusTarget{entry: idx, element: w.ID()}
	if element == w.ClearID() {
		next.element = w.ClearID()
	}
	cur := m.ring[m.focused]
	if cur.entry != idx {
		m.dispatch(surface.Blur, cur.element, surface.KeyOther)
	}
	for i, t := range m.ring {
		if t == next {
			m.focused = i
			return
		}
	}
}

func (m *Model) moveFocus(delta int) {
	old := m.focusedElement()
	m.focused = (m.focused + delta + len(m.ring)) % len(m.ring)
	m.dispatch(surface.Blur, old, surface.KeyOther)
}

func (m *Model) dispatch(kind surface.Kind, target string, k surface.Key) {
	ev := &surface.Event{Kind: kind, Target: target, Key: k}
	if !m.s.Dispatch(ev) {
		m.logger.Debug("event not handled", "kind", kind.String(), "target", target)
	} else if ev.Stopped() {
		m.logger.Debug("event stopped before the root", "kind", kind.String(), "target", target)
	}
	// Owner state may have changed; widgets see it before the next event.
	m.sync()
}

// sync re-supplies every widget with the owner's current selection.
func (m *Model) sync() {
	for _, e := range m.entries {
		p, err := e.props()
		if err != nil {
			m.logger.Warn("failed to build props", "dropdown", e.def.ID, "error", err)
			continue
		}
		if err := e.widget.SetProps(p); err != nil {
			m.logger.Warn("failed to update dropdown", "dropdown", e.def.ID, "error", err)
		}
	}
}

func (m *Model) shouldSubmitOnCommit() bool {
	if !m.cfg.UI.SubmitOnCommit || len(m.entries) != 1 {
		return false
	}
	e := m.entries[0]
	return !e.def.Multiple && e.commits > 0
}

func (m *Model) focusedElement() string {
	return m.ring[m.focused].element
}

func (m *Model) focusedWidget() *dropdown.Widget {
	return m.entries[m.ring[m.focused].entry].widget
}

// Cancelled reports whether the user abandoned the selection.
func (m *Model) Cancelled() bool { return m.cancelled }

// Submitted reports whether the user confirmed the selection.
func (m *Model) Submitted() bool { return m.submitted }

// Results returns the current selection of every dropdown in display order.
func (m *Model) Results() []Result {
	out := make([]Result, 0, len(m.entries))
	for _, e := range m.entries {
		r := Result{ID: e.def.ID, Multiple: e.def.Multiple}
		if e.def.Multiple {
			r.Values = option.Values(e.multi)
		} else if e.single != nil {
			r.Values = []option.Value{e.single.Value}
		}
		out = append(out, r)
	}
	return out
}
