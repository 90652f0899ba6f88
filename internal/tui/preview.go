package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matakom/informator-3000/internal/article"
)

const dateLayout = "Jan 2, 2006 15:04"

// articleBody renders the title, metadata and wrapped content shared by
// the preview pane and the detail view.
func articleBody(a article.Article, width int) string {
	if width < 10 {
		width = 10
	}

	title := previewTitleStyle.Width(width).Render(a.Title)

	meta := categoryStyle(a.Category).Render(a.Category) +
		previewMetaStyle.Render(fmt.Sprintf(" · %s · %s", a.Author, a.CreatedAt.Local().Format(dateLayout)))
	if a.UpdatedAt.After(a.CreatedAt) {
		meta += "\n" + previewMetaStyle.Render("edited "+a.UpdatedAt.Local().Format(dateLayout))
	}

	content := a.Content
	if strings.TrimSpace(content) == "" {
		content = "(No content)"
	}
	body := previewBodyStyle.Width(width).Render(wrapText(content, width))

	return lipgloss.JoinVertical(lipgloss.Left, title, meta, "", body)
}

func renderPreview(a *article.Article, width, height, scroll int) string {
	if a == nil {
		return centerLine("Select an article", width, height)
	}

	lines := strings.Split(articleBody(*a, width-2), "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// wrapText wraps each paragraph of s at width, keeping blank lines.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
				out = append(out, line)
				line = w
			} else {
				line += " " + w
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
