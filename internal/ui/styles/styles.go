// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"} // Main/primary text
	TextMutedColor   = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Key surface colors
	KeyCapColor       = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#2D3436"} // resting key background
	KeyLabelColor     = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F5F6FA"}
	KeyHighlightColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // pulse flash
	KeyActiveColor    = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#1A5276"} // engaged modifier
	KeyModifierColor  = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"} // shift/caps badge

	// Buffer pane colors
	BufferCursorColor = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}

	// Toast colors
	ToastSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastInfoColor    = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	ToastWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
)

// Style objects rebuilt by rebuildStyles after theme changes.
var (
	KeyCapStyle lipgloss.Style

	KeyCapHighlightStyle lipgloss.Style

	KeyCapActiveStyle lipgloss.Style

	KeyModifierBadgeStyle lipgloss.Style

	BufferPaneStyle lipgloss.Style

	BufferCursorStyle lipgloss.Style

	StatusBarStyle lipgloss.Style

	HelpHintStyle lipgloss.Style

	ToastSuccessStyle lipgloss.Style

	ToastErrorStyle lipgloss.Style

	ToastInfoStyle lipgloss.Style

	ToastWarnStyle lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles recreates every Style object from the current color
// variables. Called at init and again whenever a theme is applied.
func rebuildStyles() {
	KeyCapStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderDefaultColor).
		Background(KeyCapColor).
		Foreground(KeyLabelColor).
		Align(lipgloss.Center)

	KeyCapHighlightStyle = KeyCapStyle.
		Background(KeyHighlightColor).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1A1A1A"}).
		Bold(true)

	KeyCapActiveStyle = KeyCapStyle.
		Background(KeyActiveColor).
		Bold(true)

	KeyModifierBadgeStyle = lipgloss.NewStyle().
		Foreground(KeyModifierColor).
		Bold(true)

	BufferPaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderDefaultColor).
		Foreground(TextPrimaryColor).
		Padding(0, 1)

	BufferCursorStyle = lipgloss.NewStyle().
		Foreground(BufferCursorColor).
		Blink(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextMutedColor)

	HelpHintStyle = lipgloss.NewStyle().
		Foreground(TextMutedColor)

	ToastSuccessStyle = lipgloss.NewStyle().
		Foreground(ToastSuccessColor).
		Bold(true)

	ToastErrorStyle = lipgloss.NewStyle().
		Foreground(ToastErrorColor).
		Bold(true)

	ToastInfoStyle = lipgloss.NewStyle().
		Foreground(ToastInfoColor)

	ToastWarnStyle = lipgloss.NewStyle().
		Foreground(ToastWarnColor).
		Bold(true)

	for _, fn := range styleRebuilders {
		fn()
	}
}
