package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#1F3A5F", Dark: "#8AB4F8"}
	colorSecondary = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}
	colorDim       = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorBorder    = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorActiveBdr = lipgloss.AdaptiveColor{Light: "#1F3A5F", Dark: "#8AB4F8"}
	colorTabBg     = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2A2A3E"}
	colorStatusBg  = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#16213E"}
	colorStatusFg  = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}
	colorOnline    = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorOffline   = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	colorWarn      = lipgloss.AdaptiveColor{Light: "#B7791F", Dark: "#F6C343"}

	// Category tags keep a fixed colour each; unknown categories are dim.
	categoryColors = map[string]lipgloss.AdaptiveColor{
		"Politika": {Light: "#6B46C1", Dark: "#B794F4"},
		"Sport":    {Light: "#2F855A", Dark: "#68D391"},
		"Tech":     {Light: "#2B6CB0", Dark: "#63B3ED"},
	}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			PaddingLeft(1)

	listPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	listPaneActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorActiveBdr)

	previewPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder)

	previewPaneActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorActiveBdr)

	itemTitleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	itemSnippetStyle = lipgloss.NewStyle().
				Foreground(colorSecondary)

	itemMetaStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	previewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary).
				MarginBottom(1)

	previewMetaStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				MarginBottom(1)

	previewBodyStyle = lipgloss.NewStyle().
				Foreground(colorSecondary)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1).
			Bold(true)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorSecondary).
				Background(colorTabBg).
				Padding(0, 1)

	tabSeparatorStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Background(colorTabBg)

	statusBarStyle = lipgloss.NewStyle().
			Background(colorStatusBg).
			Foreground(colorStatusFg).
			PaddingLeft(1).
			PaddingRight(1)

	onlineStyle  = lipgloss.NewStyle().Foreground(colorOnline).Bold(true)
	offlineStyle = lipgloss.NewStyle().Foreground(colorOffline).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorOffline).
			Padding(1, 2)

	formLabelStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(10)

	formFocusLabelStyle = formLabelStyle.
				Foreground(colorPrimary).
				Bold(true)

	helpCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 3)

	helpDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// accentColor is the header accent, which the colour prompt animates.
func accentColor(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

func categoryStyle(category string) lipgloss.Style {
	c, ok := categoryColors[category]
	if !ok {
		return lipgloss.NewStyle().Foreground(colorDim).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}
