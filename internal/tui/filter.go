package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matakom/informator-3000/internal/classify"
)

// filterBar selects one category at a time. Index 0 is "All".
type filterBar struct {
	categories   []string
	selected     int
	filterMode   bool
	filterCursor int
}

func newFilterBar(initial string) filterBar {
	f := filterBar{categories: []string{""}}
	for _, c := range classify.AllCategories() {
		f.categories = append(f.categories, string(c))
	}
	for i, c := range f.categories {
		if c == initial {
			f.selected = i
		}
	}
	f.filterCursor = f.selected
	return f
}

// category is the selected category, "" for all.
func (f *filterBar) category() string {
	return f.categories[f.selected]
}

// choose selects index i and reports whether the selection changed.
func (f *filterBar) choose(i int) bool {
	if i < 0 || i >= len(f.categories) || i == f.selected {
		return false
	}
	f.selected = i
	f.filterCursor = i
	return true
}

func (f *filterBar) label() string {
	if f.selected == 0 {
		return "All"
	}
	return f.categories[f.selected]
}

func (f *filterBar) render(width int, accent string) string {
	sep := tabSeparatorStyle.Render(" · ")
	active := tabActiveStyle.Background(accentColor(accent))

	var row string
	for i, c := range f.categories {
		label := c
		if i == 0 {
			label = "All"
		}
		if f.filterMode && i == f.filterCursor {
			label = "[" + label + "]"
		}
		style := tabInactiveStyle
		if i == f.selected {
			style = active
		}
		part := style.Render(label)

		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	return lipgloss.NewStyle().
		Background(colorTabBg).
		Width(width).
		PaddingLeft(1).
		Render(row)
}
