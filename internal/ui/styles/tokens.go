// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override in their config.
const (
	// Text hierarchy
	TokenTextPrimary ColorToken = "text.primary"
	TokenTextMuted   ColorToken = "text.muted"

	// Borders
	TokenBorderDefault ColorToken = "border.default"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusError   ColorToken = "status.error"

	// Key surface
	TokenKeyCap       ColorToken = "key.cap"
	TokenKeyLabel     ColorToken = "key.label"
	TokenKeyHighlight ColorToken = "key.highlight"
	TokenKeyActive    ColorToken = "key.active"
	TokenKeyModifier  ColorToken = "key.modifier"

	// Buffer pane
	TokenBufferCursor ColorToken = "buffer.cursor"

	// Toast notifications
	TokenToastSuccess ColorToken = "toast.success"
	TokenToastError   ColorToken = "toast.error"
	TokenToastInfo    ColorToken = "toast.info"
	TokenToastWarn    ColorToken = "toast.warn"
)

// AllTokens returns all valid color tokens for validation.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary,
		TokenTextMuted,
		TokenBorderDefault,
		TokenStatusSuccess,
		TokenStatusError,
		TokenKeyCap,
		TokenKeyLabel,
		TokenKeyHighlight,
		TokenKeyActive,
		TokenKeyModifier,
		TokenBufferCursor,
		TokenToastSuccess,
		TokenToastError,
		TokenToastInfo,
		TokenToastWarn,
	}
}
