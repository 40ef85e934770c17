// Package option defines the labeled values a dropdown offers.
//
// Options are compared by identity: two *Option pointers are the same option
// only if they point at the same element of the list the owner supplied.
// Owners must therefore keep handing the same backing List to a dropdown
// across renders; rebuilding the list from scratch yields new identities and
// drops every existing selection. List.Find re-establishes identity from a
// value when options come from outside (a file, a flag, a stored record).
package option

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalidValue is returned when an option value is neither a string nor a number.
var ErrInvalidValue = errors.New("option value must be a string or a number")

// Kind discriminates the two shapes an option value can take.
type Kind int

const (
	KindString Kind = iota
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Value is an option's value: either a string or a number.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// StringValue returns a string-valued Value.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// NumberValue returns a number-valued Value.
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// ParseValue interprets s as a number only when s is the canonical form of a
// finite number, so that the value prints back exactly as it was written.
// "42" and "1.5" become numbers; "007", "1.50", "1e3", "NaN" and "Inf" stay
// strings.
func ParseValue(s string) Value {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return StringValue(s)
	}
	if strconv.FormatFloat(n, 'f', -1, 64) != s {
		return StringValue(s)
	}
	return NumberValue(n)
}

// Kind reports whether v holds a string or a number.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string held by v, or "" for numbers.
func (v Value) Str() string { return v.str }

// Num returns the number held by v, or 0 for strings.
func (v Value) Num() float64 { return v.num }

// String returns the display form of v. Numbers use the shortest
// representation that round-trips ("2", not "2.000000").
func (v Value) String() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// Equal reports whether v and other hold the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == KindNumber {
		return v.num == other.num
	}
	return v.str == other.str
}

// UnmarshalYAML decodes a scalar node. Nodes tagged !!int or !!float become
// numbers, !!str becomes a string; anything else is rejected.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: %w", node.Line, ErrInvalidValue)
	}
	switch node.Tag {
	case "!!int", "!!float":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			// yaml ints may be written as 0x1F or 0o17.
			i, ierr := strconv.ParseInt(node.Value, 0, 64)
			if ierr != nil {
				return fmt.Errorf("line %d: %w: %q", node.Line, ErrInvalidValue, node.Value)
			}
			n = float64(i)
		}
		*v = NumberValue(n)
	case "!!str":
		*v = StringValue(node.Value)
	default:
		return fmt.Errorf("line %d: %w: got %s", node.Line, ErrInvalidValue, node.Tag)
	}
	return nil
}

// MarshalYAML encodes v as a plain scalar of its own kind.
func (v Value) MarshalYAML() (any, error) {
	if v.kind == KindNumber {
		return v.num, nil
	}
	return v.str, nil
}

// MarshalJSON encodes v as a JSON number or string.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

// UnmarshalJSON decodes a JSON number or string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case float64:
		*v = NumberValue(x)
	case string:
		*v = StringValue(x)
	default:
		return ErrInvalidValue
	}
	return nil
}

// Option is a label/value pair. It is immutable once handed to a dropdown.
type Option struct {
	Label string `yaml:"label"`
	Value Value  `yaml:"value"`
}

// New returns an option whose label has been cleaned for terminal display.
func New(label string, value Value) *Option {
	return &Option{Label: CleanLabel(label), Value: value}
}

// List is the ordered sequence of options supplied to a dropdown. Order is
// both display order and keyboard navigation order.
type List []*Option

// Find returns the first option whose value equals v, or nil.
func (l List) Find(v Value) *Option {
	for _, o := range l {
		if o != nil && o.Value.Equal(v) {
			return o
		}
	}
	return nil
}

// Index returns the position of o in the list by identity, or -1.
func (l List) Index(o *Option) int {
	for i, x := range l {
		if x == o {
			return i
		}
	}
	return -1
}

// Resolve maps values to the identical options of l. Values with no match
// are returned in missing, in input order.
func (l List) Resolve(values []Value) (found []*Option, missing []Value) {
	found = make([]*Option, 0, len(values))
	for _, v := range values {
		if o := l.Find(v); o != nil {
			found = append(found, o)
		} else {
			missing = append(missing, v)
		}
	}
	return found, missing
}

// Values returns the values of opts in order.
func Values(opts []*Option) []Value {
	out := make([]Value, 0, len(opts))
	for _, o := range opts {
		if o != nil {
			out = append(out, o.Value)
		}
	}
	return out
}

// Same reports whether a and b hold the identical options in the same order.
func Same(a, b List) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
