// Package mouse maps terminal mouse events onto screen regions.
//
// Views register the rectangles they drew while rendering; the handler then
// resolves each tea.MouseMsg to the topmost region under the pointer.
package mouse

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Rect is a screen rectangle. W and H are exclusive bounds.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named rectangle with optional caller data.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap is an ordered set of regions. Regions added later take priority
// over earlier ones where they overlap.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// AddRect registers a region. Zero-sized rectangles are ignored.
func (h *HitMap) AddRect(id string, x, y, w, height int, data any) {
	h.Add(Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: height}, Data: data})
}

// Add registers r.
func (h *HitMap) Add(r Region) {
	if r.Rect.W <= 0 || r.Rect.H <= 0 {
		return
	}
	h.regions = append(h.regions, r)
}

// Test returns the highest-priority region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

// Clear removes every region.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Regions returns the registered regions in priority order, lowest first.
func (h *HitMap) Regions() []Region {
	return h.regions
}

// ActionType classifies a mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionHover
	ActionRelease
	ActionScrollUp
	ActionScrollDown
)

func (a ActionType) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionHover:
		return "hover"
	case ActionRelease:
		return "release"
	case ActionScrollUp:
		return "scroll-up"
	case ActionScrollDown:
		return "scroll-down"
	default:
		return "none"
	}
}

// Action is a resolved mouse event.
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
	// Entered is set on hover actions when the pointer moved into a
	// different region than on the previous hover.
	Entered bool
}

// Handler resolves mouse messages against its HitMap and tracks hover.
type Handler struct {
	HitMap *HitMap

	hoverID string
}

// NewHandler returns a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// HandleMouse resolves msg into an Action.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	a := Action{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.Type = ActionScrollUp
			a.Region = h.HitMap.Test(msg.X, msg.Y)
		case tea.MouseButtonWheelDown:
			a.Type = ActionScrollDown
			a.Region = h.HitMap.Test(msg.X, msg.Y)
		case tea.MouseButtonLeft:
			return h.HandleClick(msg.X, msg.Y)
		}
	case tea.MouseActionRelease:
		a.Type = ActionRelease
		a.Region = h.HitMap.Test(msg.X, msg.Y)
	case tea.MouseActionMotion:
		a.Type = ActionHover
		a.Region = h.HitMap.Test(msg.X, msg.Y)
		id := ""
		if a.Region != nil {
			id = a.Region.ID
		}
		a.Entered = id != "" && id != h.hoverID
		h.hoverID = id
	}
	return a
}

// HandleClick resolves a left press at (x, y).
func (h *Handler) HandleClick(x, y int) Action {
	return Action{Type: ActionClick, Region: h.HitMap.Test(x, y), X: x, Y: y}
}

// Clear drops all regions. Hover tracking is kept so that re-rendering the
// same layout does not report the current region as newly entered.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// ResetHover forgets the last hovered region.
func (h *Handler) ResetHover() {
	h.hoverID = ""
}
