// Package selection implements the cardinality-polymorphic selection policy
// of a dropdown: clearing, toggling and membership tests over either a
// single optional option or an ordered set of options.
//
// The policy never stores a selection. It reads the owner's current value
// from the props it was built with and reports every change through the
// owner's callback as a new value.
package selection

import (
	"errors"
	"fmt"

	"github.com/runger/dropdown/internal/option"
)

// ErrContractViolation is returned when props do not satisfy the
// construction contract: missing callback, or a value shape that does not
// match the declared cardinality.
var ErrContractViolation = errors.New("dropdown contract violation")

// Props is the construction contract of a dropdown. It is implemented only
// by Single and Multiple.
type Props interface {
	// List returns the ordered options offered by the dropdown.
	List() option.List
	props()
}

// Single configures a dropdown that holds zero or one option.
type Single struct {
	Options option.List
	// Value is the owner's current selection, nil for none.
	Value    *option.Option
	OnChange func(*option.Option)
}

// List implements Props.
func (s Single) List() option.List { return s.Options }
func (Single) props()              {}

// Multiple configures a dropdown that holds an ordered sequence of options.
type Multiple struct {
	Options option.List
	// Value is the owner's current selection in selection order.
	Value    []*option.Option
	OnChange func([]*option.Option)
}

// List implements Props.
func (m Multiple) List() option.List { return m.Options }
func (Multiple) props()              {}

// Policy applies selection changes for one cardinality mode.
type Policy interface {
	// Clear emits the empty value of the mode.
	Clear()
	// Toggle emits the value that results from activating o.
	Toggle(o *option.Option)
	// IsSelected reports whether o is part of the current value, by identity.
	IsSelected(o *option.Option) bool
	// Selected returns the current value as a sequence: zero or one element
	// in single mode, the badge sequence in multiple mode.
	Selected() []*option.Option
	Multiple() bool
}

// New builds the policy for p.
func New(p Props) (Policy, error) {
	switch p := p.(type) {
	case Single:
		if p.OnChange == nil {
			return nil, fmt.Errorf("%w: single mode requires OnChange", ErrContractViolation)
		}
		return single{p}, nil
	case Multiple:
		if p.OnChange == nil {
			return nil, fmt.Errorf("%w: multiple mode requires OnChange", ErrContractViolation)
		}
		return multiple{p}, nil
	case nil:
		return nil, fmt.Errorf("%w: nil props", ErrContractViolation)
	default:
		return nil, fmt.Errorf("%w: unknown props %T", ErrContractViolation, p)
	}
}

// FromDefinition builds props for a loaded definition. The declared mode must
// agree with the shape of the initial value: a single value under
// multiple: true, or a values list without it, is rejected.
func FromDefinition(def option.Definition, onSingle func(*option.Option), onMultiple func([]*option.Option)) (Props, error) {
	if def.Multiple {
		if def.HasValue() {
			return nil, fmt.Errorf("%w: dropdown %q is multiple but has a single value", ErrContractViolation, def.ID)
		}
		return Multiple{Options: def.Options, Value: def.Values, OnChange: onMultiple}, nil
	}
	if def.HasValues() {
		return nil, fmt.Errorf("%w: dropdown %q is single but has a values list", ErrContractViolation, def.ID)
	}
	return Single{Options: def.Options, Value: def.Value, OnChange: onSingle}, nil
}

type single struct {
	p Single
}

func (s single) Clear() { s.p.OnChange(nil) }

// Toggle has no deselect: activating the current value again does nothing.
func (s single) Toggle(o *option.Option) {
	if o == s.p.Value {
		return
	}
	s.p.OnChange(o)
}

func (s single) IsSelected(o *option.Option) bool {
	return o != nil && o == s.p.Value
}

func (s single) Selected() []*option.Option {
	if s.p.Value == nil {
		return nil
	}
	return []*option.Option{s.p.Value}
}

func (single) Multiple() bool { return false }

type multiple struct {
	p Multiple
}

func (m multiple) Clear() { m.p.OnChange([]*option.Option{}) }

func (m multiple) Toggle(o *option.Option) {
	next := make([]*option.Option, 0, len(m.p.Value)+1)
	removed := false
	for _, x := range m.p.Value {
		if x == o {
			removed = true
			continue
		}
		next = append(next, x)
	}
	if !removed {
		next = append(next, o)
	}
	m.p.OnChange(next)
}

func (m multiple) IsSelected(o *option.Option) bool {
	for _, x := range m.p.Value {
		if x == o {
			return true
		}
	}
	return false
}

func (m multiple) Selected() []*option.Option { return m.p.Value }

func (multiple) Multiple() bool { return true }
