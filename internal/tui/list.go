package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/matakom/informator-3000/internal/article"
)

// snippetLimit caps the content excerpt shown under each title, in runes.
const snippetLimit = 120

func relativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// snippet flattens content to one line and caps it at snippetLimit.
func snippet(content string) string {
	return truncateStr(strings.Join(strings.Fields(content), " "), snippetLimit)
}

func renderListItem(a article.Article, selected bool, width int, now time.Time, accent string) string {
	if width < 10 {
		width = 30
	}

	marker := "  "
	titleStyle := itemTitleStyle
	if selected {
		marker = "> "
		titleStyle = titleStyle.Foreground(accentColor(accent))
	}
	title := titleStyle.Render(marker + truncateStr(a.Title, width-4))
	body := "  " + itemSnippetStyle.Render(truncateStr(snippet(a.Content), width-4))
	meta := "  " + categoryStyle(a.Category).Render(a.Category) +
		itemMetaStyle.Render(" · "+a.Author+" · "+relativeTime(a.CreatedAt, now))

	return title + "\n" + body + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// visibleRange returns the half-open window of items to draw so that
// cursor stays on screen.
func visibleRange(total, cursor, visible int) (int, int) {
	if visible < 1 {
		visible = 1
	}
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > total {
		end = total
		start = max(0, end-visible)
	}
	return start, end
}

func renderList(articles []article.Article, cursor, height, width int, now time.Time, accent string) string {
	if len(articles) == 0 {
		return centerLine("No articles", width, height)
	}

	// Three lines per item plus a blank separator.
	start, end := visibleRange(len(articles), cursor, height/4)

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(articles[i], i == cursor, width, now, accent))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func centerLine(s string, width, height int) string {
	pad := (width - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
