package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title        lipgloss.Style
	titleFocused lipgloss.Style
	border       lipgloss.Style
	borderActive lipgloss.Style
	placeholder  lipgloss.Style
	value        lipgloss.Style
	badge        lipgloss.Style
	clear        lipgloss.Style
	clearFocused lipgloss.Style
	caret        lipgloss.Style
	row          lipgloss.Style
	rowHighlight lipgloss.Style
	rowSelected  lipgloss.Style
	dim          lipgloss.Style
}

func newStyles(accent lipgloss.Color) styles {
	return styles{
		title:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		titleFocused: lipgloss.NewStyle().Bold(true).Foreground(accent),
		border:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		borderActive: lipgloss.NewStyle().Foreground(accent),
		placeholder:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		value:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		badge:        lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("238")),
		clear:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		clearFocused: lipgloss.NewStyle().Bold(true).Foreground(accent),
		caret:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		row:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		rowHighlight: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(accent),
		rowSelected:  lipgloss.NewStyle().Foreground(accent),
		dim:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
