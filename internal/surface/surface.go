// Package surface is an abstract input surface: a tree of named elements
// that receives pointer, focus and keyboard events and delivers them to
// listeners, bubbling from the target element up through its ancestors.
//
// Listeners are identified by the Token returned from Listen, never by the
// handler func itself, so removal always targets exactly the listener that
// was added.
package surface

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateElement is returned when mounting an id that is already mounted.
	ErrDuplicateElement = errors.New("element already mounted")
	// ErrUnknownElement is returned when an operation names an element that is not mounted.
	ErrUnknownElement = errors.New("element not mounted")
)

// Kind is the type of an input event.
type Kind int

const (
	Click Kind = iota
	MouseEnter
	Blur
	KeyDown
)

func (k Kind) String() string {
	switch k {
	case Click:
		return "click"
	case MouseEnter:
		return "mouseenter"
	case Blur:
		return "blur"
	case KeyDown:
		return "keydown"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// bubbles reports whether events of this kind propagate to ancestors.
func (k Kind) bubbles() bool {
	return k != MouseEnter
}

// Key identifies the key of a KeyDown event.
type Key int

const (
	KeyOther Key = iota
	KeyEnter
	KeySpace
	KeyArrowUp
	KeyArrowDown
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyEnter:
		return "Enter"
	case KeySpace:
		return "Space"
	case KeyArrowUp:
		return "ArrowUp"
	case KeyArrowDown:
		return "ArrowDown"
	case KeyEscape:
		return "Escape"
	default:
		return "Other"
	}
}

// Event is one dispatched input event.
type Event struct {
	Kind Kind
	// Target is the element the event originated at.
	Target string
	// Key is set for KeyDown events.
	Key Key

	current string
	stopped bool
}

// StopPropagation prevents delivery to ancestors of the element whose
// listener is currently running. Remaining listeners on that element still run.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether a listener called StopPropagation.
func (e *Event) Stopped() bool { return e.stopped }

// currentTarget is the element whose listeners are currently running.
func (e *Event) currentTarget() string { return e.current }

// Handler receives events.
type Handler func(*Event)

// Token identifies one registered listener.
type Token string

type listener struct {
	token   Token
	kind    Kind
	handler Handler
}

// Surface is a tree of elements with listeners attached.
//
// Dispatch is expected to be driven from a single event loop. The internal
// lock only guards the element and listener tables; handlers run without it
// so they may mount, listen or rebind while an event is in flight.
type Surface struct {
	mu        sync.Mutex
	parents   map[string]string
	listeners map[string][]listener
	owners    map[Token]string
}

// New returns an empty surface.
func New() *Surface {
	return &Surface{
		parents:   make(map[string]string),
		listeners: make(map[string][]listener),
		owners:    make(map[Token]string),
	}
}

// Mount adds an element. An empty parent mounts a root element.
func (s *Surface) Mount(id, parent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		return fmt.Errorf("%w: empty id", ErrUnknownElement)
	}
	if _, ok := s.parents[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateElement, id)
	}
	if parent != "" {
		if _, ok := s.parents[parent]; !ok {
			return fmt.Errorf("%w: parent %s", ErrUnknownElement, parent)
		}
	}
	s.parents[id] = parent
	return nil
}

// Unmount removes an element, all of its descendants and every listener
// attached to them. Unmounting an unknown id is a no-op.
func (s *Surface) Unmount(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parents[id]; !ok {
		return
	}
	doomed := map[string]bool{id: true}
	// Parents may be listed after their children; iterate to a fixed point.
	for changed := true; changed; {
		changed = false
		for el, parent := range s.parents {
			if !doomed[el] && doomed[parent] {
				doomed[el] = true
				changed = true
			}
		}
	}
	for el := range doomed {
		for _, l := range s.listeners[el] {
			delete(s.owners, l.token)
		}
		delete(s.listeners, el)
		delete(s.parents, el)
	}
}

// Mounted reports whether id is mounted.
func (s *Surface) Mounted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.parents[id]
	return ok
}

// Parent returns the parent of id, or "" for a root or unknown element.
func (s *Surface) Parent(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parents[id]
}

// Contains reports whether ancestor is id itself or one of its ancestors.
func (s *Surface) Contains(ancestor, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for cur := id; cur != ""; cur = s.parents[cur] {
		if cur == ancestor {
			return true
		}
		if _, ok := s.parents[cur]; !ok {
			return false
		}
	}
	return false
}

// Listen attaches h to element for events of kind and returns the token
// that removes it.
func (s *Surface) Listen(element string, kind Kind, h Handler) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenLocked(element, kind, h)
}

func (s *Surface) listenLocked(element string, kind Kind, h Handler) (Token, error) {
	if h == nil {
		return "", errors.New("nil handler")
	}
	if _, ok := s.parents[element]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownElement, element)
	}
	tok := Token(uuid.NewString())
	s.listeners[element] = append(s.listeners[element], listener{token: tok, kind: kind, handler: h})
	s.owners[tok] = element
	return tok, nil
}

// Remove detaches the listener identified by tok. It reports whether a
// listener was removed.
func (s *Surface) Remove(tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(tok)
}

func (s *Surface) removeLocked(tok Token) bool {
	element, ok := s.owners[tok]
	if !ok {
		return false
	}
	delete(s.owners, tok)

	ls := s.listeners[element]
	for i, l := range ls {
		if l.token == tok {
			next := make([]listener, 0, len(ls)-1)
			next = append(next, ls[:i]...)
			next = append(next, ls[i+1:]...)
			s.listeners[element] = next
			break
		}
	}
	return true
}

// ListenerCount returns how many listeners of kind are attached to element.
func (s *Surface) ListenerCount(element string, kind Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.listeners[element] {
		if l.kind == kind {
			n++
		}
	}
	return n
}

// Dispatch delivers ev to listeners on its target and then, unless stopped
// or the kind does not bubble, on each ancestor in turn. It reports whether
// any listener ran. Events targeting an unmounted element are dropped.
func (s *Surface) Dispatch(ev *Event) bool {
	s.mu.Lock()
	if _, ok := s.parents[ev.Target]; !ok {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	delivered := false
	for cur := ev.Target; cur != ""; {
		s.mu.Lock()
		var hs []Handler
		for _, l := range s.listeners[cur] {
			if l.kind == ev.Kind {
				hs = append(hs, l.handler)
			}
		}
		parent := s.parents[cur]
		s.mu.Unlock()

		ev.current = cur
		for _, h := range hs {
			h(ev)
			delivered = true
		}
		if ev.stopped || !ev.Kind.bubbles() {
			break
		}
		cur = parent
	}
	ev.current = ""
	return delivered
}

// Binding owns at most one listener at a time. Bind replaces the current
// listener with a new one, releasing exactly the previously added listener
// before acquiring the next, so repeated rebinding never accumulates handlers.
type Binding struct {
	s   *Surface
	tok Token
}

// NewBinding returns an empty binding on s.
func NewBinding(s *Surface) *Binding {
	return &Binding{s: s}
}

// Bind releases the current listener, if any, and attaches h.
func (b *Binding) Bind(element string, kind Kind, h Handler) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	if b.tok != "" {
		b.s.removeLocked(b.tok)
		b.tok = ""
	}
	tok, err := b.s.listenLocked(element, kind, h)
	if err != nil {
		return err
	}
	b.tok = tok
	return nil
}

// Release detaches the current listener. It is safe to call repeatedly.
func (b *Binding) Release() {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if b.tok != "" {
		b.s.removeLocked(b.tok)
		b.tok = ""
	}
}

// Token returns the token of the current listener, or "".
func (b *Binding) Token() Token {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return b.tok
}

// Bound reports whether the binding currently holds a listener.
func (b *Binding) Bound() bool { return b.Token() != "" }
