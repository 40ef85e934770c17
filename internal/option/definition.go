package option

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownValue is returned when an initial value names no option of its dropdown.
var ErrUnknownValue = errors.New("value does not match any option")

// ErrShapeMismatch is returned when a definition's initial value does not
// fit its mode: "value" on a multiple dropdown, or "values" on a single one.
var ErrShapeMismatch = errors.New("initial value does not match dropdown mode")

// Definition describes one dropdown to present: its options and the owner's
// initial value. Exactly one of Value (single mode) or Values (multiple mode)
// is meant to be set; the selection package rejects a definition whose value
// shape disagrees with Multiple.
type Definition struct {
	ID       string
	Label    string
	Multiple bool
	Options  List

	// Value is the initial single-mode value, nil for none.
	Value *Option

	// Values is the initial multiple-mode value. A nil slice means the
	// definition did not specify one; an empty slice means "explicitly none".
	Values []*Option
}

// HasValue reports whether a single-shaped initial value was given.
func (d Definition) HasValue() bool { return d.Value != nil }

// HasValues reports whether a sequence-shaped initial value was given.
func (d Definition) HasValues() bool { return d.Values != nil }

// file is the on-disk shape of a definitions file:
//
//	dropdowns:
//	  - id: fruit
//	    label: Fruit
//	    options:
//	      - {label: Apple, value: apple}
//	      - {label: Two, value: 2}
//	    value: apple
//	  - id: tags
//	    multiple: true
//	    options: [...]
//	    values: [a, b]
type file struct {
	Dropdowns []rawDefinition `yaml:"dropdowns"`
}

type rawDefinition struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Multiple bool     `yaml:"multiple"`
	Options  []Option `yaml:"options"`
	Value    *Value   `yaml:"value"`
	Values   []Value  `yaml:"values"`
}

// LoadFile reads dropdown definitions from a YAML file.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}
	defs, err := ParseDefinitions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// ParseDefinitions decodes dropdown definitions from YAML. Initial values are
// resolved to the identical options of their dropdown. Missing ids default to
// "dropdown-N" (1-based); ids must be unique.
func ParseDefinitions(data []byte) ([]Definition, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse definitions: %w", err)
	}
	if len(f.Dropdowns) == 0 {
		return nil, errors.New("no dropdowns defined")
	}

	seen := make(map[string]bool, len(f.Dropdowns))
	defs := make([]Definition, 0, len(f.Dropdowns))
	for i, raw := range f.Dropdowns {
		def, err := raw.resolve(i)
		if err != nil {
			return nil, err
		}
		if seen[def.ID] {
			return nil, fmt.Errorf("dropdown %q: duplicate id", def.ID)
		}
		seen[def.ID] = true
		defs = append(defs, def)
	}
	return defs, nil
}

func (r rawDefinition) resolve(i int) (Definition, error) {
	def := Definition{
		ID:       r.ID,
		Label:    CleanLabel(r.Label),
		Multiple: r.Multiple,
	}
	if def.ID == "" {
		def.ID = fmt.Sprintf("dropdown-%d", i+1)
	}
	if len(r.Options) == 0 {
		return Definition{}, fmt.Errorf("dropdown %q: no options", def.ID)
	}

	if r.Multiple && r.Value != nil {
		return Definition{}, fmt.Errorf("dropdown %q: %w: multiple dropdowns take \"values\"", def.ID, ErrShapeMismatch)
	}
	if !r.Multiple && r.Values != nil {
		return Definition{}, fmt.Errorf("dropdown %q: %w: \"values\" requires \"multiple: true\"", def.ID, ErrShapeMismatch)
	}

	def.Options = make(List, len(r.Options))
	for j, o := range r.Options {
		def.Options[j] = New(o.Label, o.Value)
	}

	if r.Value != nil {
		o := def.Options.Find(*r.Value)
		if o == nil {
			return Definition{}, fmt.Errorf("dropdown %q: %w: %s", def.ID, ErrUnknownValue, r.Value)
		}
		def.Value = o
	}
	if r.Values != nil {
		found, missing := def.Options.Resolve(r.Values)
		if len(missing) > 0 {
			return Definition{}, fmt.Errorf("dropdown %q: %w: %s", def.ID, ErrUnknownValue, missing[0])
		}
		def.Values = found
	}
	return def, nil
}
