package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matakom/informator-3000/internal/article"
)

// renderToast shows the most recently published article.
func renderToast(a article.Article, width int, accent string) string {
	w := min(width-2, 48)
	if w < 20 {
		w = 20
	}
	heading := lipgloss.NewStyle().Foreground(accentColor(accent)).Bold(true).Render("Last Article published")
	body := itemTitleStyle.Render(truncateStr(a.Title, w-4)) + "\n" +
		itemMetaStyle.Render(truncateStr(a.Author+" · "+a.Category, w-4)) + "\n" +
		helpDimStyle.Render("x dismiss")
	return toastStyle.BorderForeground(accentColor(accent)).Width(w).Render(heading + "\n" + body)
}

// renderAlert is the blocking alert shown after a failed mutation.
func renderAlert(message string, width, height int) string {
	card := alertStyle.Render(offlineStyle.Render("Something went wrong") + "\n\n" +
		message + "\n\n" + helpDimStyle.Render("press any key to continue"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
