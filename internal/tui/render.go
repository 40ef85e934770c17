package tui

import (
	"fmt"
	"strings"

	"github.com/runger/dropdown/internal/config"
	"github.com/runger/dropdown/internal/dropdown"
	"github.com/runger/dropdown/internal/option"
)

const (
	placeholder   = "Select…"
	badgeMaxWidth = 16
	// chromeWidth is everything on the control line except the content:
	// "│ " on the left and " × ┆ ▾ │" on the right.
	chromeWidth = 10
)

// View implements tea.Model. Drawing also rebuilds the mouse hit map, so
// the regions always match what is on screen.
func (m *Model) View() string {
	m.mouse.Clear()
	if m.cancelled || m.submitted {
		return ""
	}

	width := m.controlWidth()
	var b strings.Builder
	y := 0
	for i, e := range m.entries {
		y = m.renderEntry(&b, i, e, y, width)
		b.WriteString("\n")
		y++
	}
	if m.cfg.UI.ShowHelp {
		b.WriteString(m.help.View(m.keys))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) controlWidth() int {
	w := m.cfg.UI.Width
	if m.width > 0 && m.width < w {
		w = m.width
	}
	if w < config.MinWidth {
		w = config.MinWidth
	}
	return w
}

// renderEntry draws one dropdown starting at line y0 and returns the line
// after it.
func (m *Model) renderEntry(b *strings.Builder, idx int, e *entry, y0, width int) int {
	v := e.widget.Snapshot()
	focus := m.ring[m.focused]
	focusedHere := focus.entry == idx
	clearFocused := focusedHere && focus.element == v.ClearID
	cw := width - chromeWidth

	title := e.def.Label
	if title == "" {
		title = e.def.ID
	}
	titleStyle := m.styles.title
	if focusedHere {
		titleStyle = m.styles.titleFocused
	}
	b.WriteString(titleStyle.Render(option.Truncate(title, width)))
	b.WriteString("\n")

	border := m.styles.border
	if focusedHere {
		border = m.styles.borderActive
	}
	b.WriteString(border.Render("╭" + strings.Repeat("─", width-2) + "╮"))
	b.WriteString("\n")

	content := m.renderContent(v, cw)
	clearStyle := m.styles.clear
	if clearFocused {
		clearStyle = m.styles.clearFocused
	}
	caret := "▾"
	if v.Open {
		caret = "▴"
	}
	b.WriteString(border.Render("│ "))
	b.WriteString(content)
	b.WriteString(" ")
	b.WriteString(clearStyle.Render("×"))
	b.WriteString(m.styles.dim.Render(" ┆ "))
	b.WriteString(m.styles.caret.Render(caret))
	b.WriteString(border.Render(" │"))
	b.WriteString("\n")

	b.WriteString(border.Render("╰" + strings.Repeat("─", width-2) + "╯"))
	b.WriteString("\n")

	m.mouse.HitMap.AddRect(v.ID, 0, y0, width, 4, idx)
	m.mouse.HitMap.AddRect(v.ClearID, 2+cw, y0+2, 3, 1, idx)
	m.addBadgeRegions(v, idx, y0+2, cw)

	y := y0 + 4
	if !v.Open {
		return y
	}
	m.mouse.HitMap.AddRect(v.ListID, 0, y, width, len(v.Rows), idx)
	for _, row := range v.Rows {
		b.WriteString(m.renderRow(row, width))
		b.WriteString("\n")
		m.mouse.HitMap.AddRect(row.ID, 0, y, width, 1, idx)
		y++
	}
	return y
}

// renderContent draws the value area, padded to exactly cw cells.
func (m *Model) renderContent(v dropdown.View, cw int) string {
	if !v.Multiple && v.Label != "" {
		text := option.Truncate(v.Label, cw)
		return pad(m.styles.value.Render(text), option.Width(text), cw)
	}
	if !v.Multiple || len(v.Badges) == 0 {
		text := option.Truncate(placeholder, cw)
		return pad(m.styles.placeholder.Render(text), option.Width(text), cw)
	}

	var out strings.Builder
	used := 0
	for i, bd := range layoutBadges(v.Badges, cw) {
		if i > 0 {
			out.WriteString(" ")
		}
		if bd.overflow != "" {
			out.WriteString(m.styles.dim.Render(bd.overflow))
		} else {
			out.WriteString(m.styles.badge.Render(bd.text))
		}
		used = bd.x + option.Width(bd.label())
	}
	return pad(out.String(), used, cw)
}

func (m *Model) addBadgeRegions(v dropdown.View, idx, y, cw int) {
	if !v.Multiple {
		return
	}
	for _, bd := range layoutBadges(v.Badges, cw) {
		if bd.overflow != "" {
			continue
		}
		m.mouse.HitMap.AddRect(bd.id, 2+bd.x, y, option.Width(bd.text), 1, idx)
	}
}

func (m *Model) renderRow(row dropdown.Row, width int) string {
	cursor := "  "
	if row.Highlighted {
		cursor = "› "
	}
	check := "  "
	if row.Selected {
		check = "✓ "
	}
	label := option.Truncate(row.Option.Label, width-4)
	line := cursor + check + label
	line += strings.Repeat(" ", max(0, width-option.Width(line)))

	switch {
	case row.Highlighted:
		return m.styles.rowHighlight.Render(line)
	case row.Selected:
		return m.styles.rowSelected.Render(line)
	default:
		return m.styles.row.Render(line)
	}
}

// placedBadge is a badge positioned within the content area. x is relative
// to the start of the content.
type placedBadge struct {
	id       string
	x        int
	text     string
	overflow string
}

func (p placedBadge) label() string {
	if p.overflow != "" {
		return p.overflow
	}
	return p.text
}

// layoutBadges places "label ×" badges left to right. Badges that do not fit
// collapse into a trailing "+N".
func layoutBadges(badges []dropdown.Badge, cw int) []placedBadge {
	var out []placedBadge
	x := 0
	for i, bd := range badges {
		text := option.Truncate(bd.Option.Label, badgeMaxWidth) + " ×"
		w := option.Width(text)
		rest := len(badges) - i - 1
		limit := cw
		if rest > 0 {
			limit = cw - len(fmt.Sprintf("+%d", rest)) - 1
		}
		if x+w > limit {
			more := fmt.Sprintf("+%d", len(badges)-i)
			if x+len(more) <= cw {
				out = append(out, placedBadge{x: x, overflow: more})
			}
			return out
		}
		out = append(out, placedBadge{id: bd.ID, x: x, text: text})
		x += w + 1
	}
	return out
}

// pad right-fills s, whose visible width is w, to n cells.
func pad(s string, w, n int) string {
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}
