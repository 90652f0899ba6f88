package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

func splitLines(s string) []string { return strings.Split(s, "\n") }

func joinLines(lines []string) string { return strings.Join(lines, "\n") }

// withBottomBar pads content to fill the screen above the bar.
func withBottomBar(content, bar string, height int) string {
	lines := splitLines(content)
	for len(lines) < height-1 {
		lines = append(lines, "")
	}
	if height > 0 && len(lines) >= height {
		lines = lines[:height-1]
	}
	return joinLines(append(lines, bar))
}

// overlayBottomRight places box over the bottom-right corner of base,
// one line above the last.
func overlayBottomRight(base, box string, width int) string {
	lines := splitLines(base)
	boxLines := splitLines(box)
	offset := len(lines) - len(boxLines) - 1
	if offset < 0 {
		return base
	}
	for i, bl := range boxLines {
		keep := width - ansi.StringWidth(bl) - 1
		lines[offset+i] = fitWidth(lines[offset+i], max(keep, 0)) + " " + bl
	}
	return joinLines(lines)
}

// fitWidth cuts or pads a rendered line to exactly n cells.
func fitWidth(s string, n int) string {
	s = ansi.Truncate(s, n, "")
	if w := ansi.StringWidth(s); w < n {
		s += strings.Repeat(" ", n-w)
	}
	return s
}
