// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// styleRebuilders holds callbacks to rebuild styles in other packages.
// This avoids import cycles (styles can't import the surface, but the
// surface can register).
var styleRebuilders []func()

// RegisterStyleRebuilder adds a callback that will be called after ApplyTheme
// updates colors. Use this to rebuild styles in packages that depend on styles.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Mode   string
	Colors map[string]string
}

// ApplyTheme applies a theme configuration.
// Order of application:
// 1. Force light/dark mode if requested
// 2. Apply individual color overrides
// 3. Rebuild all Style objects
func ApplyTheme(cfg ThemeConfig) error {
	switch cfg.Mode {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "":
		// Terminal detection
	default:
		return fmt.Errorf("unknown theme mode: %s", cfg.Mode)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		applyColor(token, value)
	}

	rebuildStyles()

	return nil
}

// applyColor sets one color variable from its token.
func applyColor(token ColorToken, hex string) {
	// Overrides use the same color for both modes.
	c := lipgloss.AdaptiveColor{Light: hex, Dark: hex}

	switch token {
	case TokenTextPrimary:
		TextPrimaryColor = c
	case TokenTextMuted:
		TextMutedColor = c
	case TokenBorderDefault:
		BorderDefaultColor = c
	case TokenStatusSuccess:
		StatusSuccessColor = c
	case TokenStatusError:
		StatusErrorColor = c
	case TokenKeyCap:
		KeyCapColor = c
	case TokenKeyLabel:
		KeyLabelColor = c
	case TokenKeyHighlight:
		KeyHighlightColor = c
	case TokenKeyActive:
		KeyActiveColor = c
	case TokenKeyModifier:
		KeyModifierColor = c
	case TokenBufferCursor:
		BufferCursorColor = c
	case TokenToastSuccess:
		ToastSuccessColor = c
	case TokenToastError:
		ToastErrorColor = c
	case TokenToastInfo:
		ToastInfoColor = c
	case TokenToastWarn:
		ToastWarnColor = c
	}
}

func isValidToken(token ColorToken) bool {
	for _, t := range AllTokens() {
		if t == token {
			return true
		}
	}
	return false
}

// isValidHexColor accepts #RGB and #RRGGBB.
func isValidHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
