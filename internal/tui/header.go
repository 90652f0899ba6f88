package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

const clockLayout = "15:04:05.000"

// renderHeader draws the title, the live clock in the accent colour and
// the two connectivity indicators.
func renderHeader(width int, now time.Time, accent string, apiOnline, live bool) string {
	title := titleStyle.Foreground(accentColor(accent)).Render("Informator 3000")
	clock := lipgloss.NewStyle().Foreground(accentColor(accent)).Bold(true).Render(now.Format(clockLayout))

	api := offlineStyle.Render("Offline")
	if apiOnline {
		api = onlineStyle.Render("Online")
	}
	push := pendingStyle.Render("Connecting...")
	if live {
		push = onlineStyle.Render("Live")
	}
	status := itemMetaStyle.Render("REST API: ") + api + itemMetaStyle.Render("  Real-time: ") + push + " "

	left := title + "  " + clock
	gap := width - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + status
}
