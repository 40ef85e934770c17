package dropdown

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/runger/dropdown/internal/option"
	"github.com/runger/dropdown/internal/selection"
	"github.com/runger/dropdown/internal/surface"
)

// Widget binds a Machine to a surface.Surface. It mounts this element tree
// under the parent given to Mount:
//
//	<id>                  container: click toggles, blur closes, keys navigate
//	├── <id>/clear        clear affordance
//	├── <id>/badge/<i>    remove affordance of the i-th selected option (multiple mode)
//	└── <id>/options      option list
//	    └── <id>/options/<i>
type Widget struct {
	id      string
	machine *Machine
	logger  *slog.Logger

	s       *surface.Surface
	mounted bool
	rows    int
	badges  int

	keys     *surface.Binding
	keyDeps  keyDeps
	keyBound bool
}

// keyDeps is the state the keyboard listener closes over. The listener is
// rebound whenever any of it changes.
type keyDeps struct {
	open        bool
	highlighted int
	options     option.List
}

func (d keyDeps) equal(o keyDeps) bool {
	return d.open == o.open && d.highlighted == o.highlighted && option.Same(d.options, o.options)
}

// WidgetOption configures a Widget.
type WidgetOption func(*Widget)

// WithID sets the container element id. It defaults to a random id.
func WithID(id string) WidgetOption {
	return func(w *Widget) { w.id = id }
}

// WithLogger sets the logger used for transition and commit logging.
func WithLogger(l *slog.Logger) WidgetOption {
	return func(w *Widget) { w.logger = l }
}

// NewWidget builds an unmounted widget for p.
func NewWidget(p selection.Props, opts ...WidgetOption) (*Widget, error) {
	w := &Widget{}
	for _, opt := range opts {
		opt(w)
	}
	if w.id == "" {
		w.id = "dropdown-" + uuid.NewString()[:8]
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}
	w.logger = w.logger.With("dropdown", w.id)

	m, err := NewMachine(p, w.logger)
	if err != nil {
		return nil, err
	}
	w.machine = m
	return w, nil
}

// ID returns the container element id.
func (w *Widget) ID() string { return w.id }

// ClearID returns the clear affordance element id.
func (w *Widget) ClearID() string { return w.id + "/clear" }

// ListID returns the option list element id.
func (w *Widget) ListID() string { return w.id + "/options" }

// RowID returns the element id of option row i.
func (w *Widget) RowID(i int) string { return fmt.Sprintf("%s/options/%d", w.id, i) }

// BadgeID returns the element id of the i-th badge's remove affordance.
func (w *Widget) BadgeID(i int) string { return fmt.Sprintf("%s/badge/%d", w.id, i) }

// Machine exposes the underlying state machine.
func (w *Widget) Machine() *Machine { return w.machine }

// Mounted reports whether the widget is attached to a surface.
func (w *Widget) Mounted() bool { return w.mounted }

// Mount attaches the widget's elements and listeners to s under parent.
func (w *Widget) Mount(s *surface.Surface, parent string) error {
	if w.mounted {
		return fmt.Errorf("dropdown %s: already mounted", w.id)
	}
	if err := s.Mount(w.id, parent); err != nil {
		return fmt.Errorf("dropdown %s: %w", w.id, err)
	}
	w.s = s
	w.keys = surface.NewBinding(s)
	w.mounted = true

	steps := []func() error{
		func() error { return s.Mount(w.ClearID(), w.id) },
		func() error { return s.Mount(w.ListID(), w.id) },
		func() error { return w.listen(w.id, surface.Click, w.onContainerClick) },
		func() error { return w.listen(w.id, surface.Blur, w.onBlur) },
		func() error { return w.listen(w.ClearID(), surface.Click, w.onClearClick) },
		w.syncElements,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			w.Unmount()
			return fmt.Errorf("dropdown %s: %w", w.id, err)
		}
	}
	w.rebindKeys()
	w.logger.Debug("dropdown mounted", "multiple", w.machine.Policy().Multiple())
	return nil
}

// Unmount releases every listener and element of the widget.
func (w *Widget) Unmount() {
	if !w.mounted {
		return
	}
	w.keys.Release()
	w.keyBound = false
	w.s.Unmount(w.id)
	w.rows, w.badges = 0, 0
	w.mounted = false
	w.logger.Debug("dropdown unmounted")
}

// SetProps re-supplies the owner's props and brings the row and badge
// elements in line with them.
func (w *Widget) SetProps(p selection.Props) error {
	if err := w.machine.SetProps(p); err != nil {
		return err
	}
	if !w.mounted {
		return nil
	}
	if err := w.syncElements(); err != nil {
		return fmt.Errorf("dropdown %s: %w", w.id, err)
	}
	w.rebindKeys()
	return nil
}

func (w *Widget) listen(element string, kind surface.Kind, h surface.Handler) error {
	_, err := w.s.Listen(element, kind, func(ev *surface.Event) {
		h(ev)
		if w.mounted {
			w.rebindKeys()
		}
	})
	return err
}

// syncElements mounts or unmounts row and badge elements so that there is
// one row per option and, in multiple mode, one badge per selected option.
func (w *Widget) syncElements() error {
	rows := len(w.machine.Options())
	for i := w.rows; i < rows; i++ {
		id := w.RowID(i)
		if err := w.s.Mount(id, w.ListID()); err != nil {
			return err
		}
		if err := w.listen(id, surface.Click, w.onRowClick(i)); err != nil {
			return err
		}
		if err := w.listen(id, surface.MouseEnter, w.onRowEnter(i)); err != nil {
			return err
		}
	}
	for i := rows; i < w.rows; i++ {
		w.s.Unmount(w.RowID(i))
	}
	w.rows = rows

	badges := 0
	if w.machine.Policy().Multiple() {
		badges = len(w.machine.Policy().Selected())
	}
	for i := w.badges; i < badges; i++ {
		id := w.BadgeID(i)
		if err := w.s.Mount(id, w.id); err != nil {
			return err
		}
		if err := w.listen(id, surface.Click, w.onBadgeClick(i)); err != nil {
			return err
		}
	}
	for i := badges; i < w.badges; i++ {
		w.s.Unmount(w.BadgeID(i))
	}
	w.badges = badges
	return nil
}

// rebindKeys replaces the keyboard listener when its dependencies changed.
func (w *Widget) rebindKeys() {
	deps := keyDeps{
		open:        w.machine.IsOpen(),
		highlighted: w.machine.Highlighted(),
		options:     w.machine.Options(),
	}
	if w.keyBound && deps.equal(w.keyDeps) {
		return
	}
	if err := w.keys.Bind(w.id, surface.KeyDown, w.onKeyDown(deps)); err != nil {
		w.logger.Warn("failed to bind keyboard listener", "error", err)
		w.keyBound = false
		return
	}
	w.keyDeps = deps
	w.keyBound = true
}

func (w *Widget) onContainerClick(*surface.Event) {
	w.machine.ToggleOpen()
}

func (w *Widget) onBlur(*surface.Event) {
	w.machine.Close()
}

func (w *Widget) onClearClick(ev *surface.Event) {
	ev.StopPropagation()
	w.machine.ClearSelection()
}

func (w *Widget) onRowClick(i int) surface.Handler {
	return func(ev *surface.Event) {
		ev.StopPropagation()
		w.machine.CommitRow(i)
	}
}

func (w *Widget) onRowEnter(i int) surface.Handler {
	return func(*surface.Event) {
		w.machine.HoverRow(i)
	}
}

func (w *Widget) onBadgeClick(i int) surface.Handler {
	return func(ev *surface.Event) {
		ev.StopPropagation()
		selected := w.machine.Policy().Selected()
		if i < len(selected) {
			w.machine.RemoveBadge(selected[i])
		}
	}
}

// onKeyDown builds the keyboard listener for the given state. Events whose
// origin is a descendant element bubble up to the container but are ignored.
func (w *Widget) onKeyDown(deps keyDeps) surface.Handler {
	return func(ev *surface.Event) {
		if ev.Target != w.id {
			return
		}
		w.logger.Debug("key", "key", ev.Key.String(), "open", deps.open, "highlighted", deps.highlighted)
		w.machine.Key(ev.Key)
		if w.mounted {
			w.rebindKeys()
		}
	}
}

// Row is the render state of one option row.
type Row struct {
	Index       int
	ID          string
	Option      *option.Option
	Selected    bool
	Highlighted bool
}

// Badge is the render state of one selected option in multiple mode.
type Badge struct {
	Index  int
	ID     string
	Option *option.Option
}

// View is everything a renderer needs to draw the widget.
type View struct {
	ID          string
	ClearID     string
	ListID      string
	Open        bool
	Highlighted int
	Multiple    bool
	// Label is the selected option's label in single mode, "" for none.
	Label  string
	Badges []Badge
	Rows   []Row
}

// Snapshot returns the current render state.
func (w *Widget) Snapshot() View {
	m := w.machine
	policy := m.Policy()
	v := View{
		ID:          w.id,
		ClearID:     w.ClearID(),
		ListID:      w.ListID(),
		Open:        m.IsOpen(),
		Highlighted: m.Highlighted(),
		Multiple:    policy.Multiple(),
	}

	if v.Multiple {
		for i, o := range policy.Selected() {
			v.Badges = append(v.Badges, Badge{Index: i, ID: w.BadgeID(i), Option: o})
		}
	} else if sel := policy.Selected(); len(sel) > 0 && sel[0] != nil {
		v.Label = sel[0].Label
	}

	for i, o := range m.Options() {
		v.Rows = append(v.Rows, Row{
			Index:       i,
			ID:          w.RowID(i),
			Option:      o,
			Selected:    policy.IsSelected(o),
			Highlighted: i == v.Highlighted,
		})
	}
	return v
}
