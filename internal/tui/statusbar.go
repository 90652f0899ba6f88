package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(articleCount int, filterLabel, message, hint string, width int) string {
	left := fmt.Sprintf("%d articles", articleCount)
	if filterLabel != "All" {
		left += " · " + filterLabel
	}
	if message != "" {
		left += " · " + message
	}

	right := hint + " "
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
	}
	bar := left + fmt.Sprintf("%*s", gap, "") + right
	return statusBarStyle.Width(width).Render(bar)
}
