package adapter

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Built-in adapter keys.
const (
	KeyFoundation5 = "foundation5"
	KeyBootstrap3  = "bootstrap3"
	KeyTheme       = "theme"
)

// Token names read by NewThemed from a theme's resolved tokens.
const (
	TokenInvalidClass      = "validation.invalid-class"
	TokenValidClass        = "validation.valid-class"
	TokenGroupClass        = "validation.group-class"
	TokenGroupInvalidClass = "validation.group-invalid-class"
	TokenGroupValidClass   = "validation.group-valid-class"
	TokenHelpTag           = "validation.help-tag"
	TokenHelpClass         = "validation.help-class"
)

// Foundation5Config marks invalid controls with the "error" class followed by
// a <small class="error"> helper. Valid and default states simply reset.
func Foundation5Config() ClassConfig {
	return ClassConfig{
		InvalidClass: "error",
		HelpTag:      "small",
		HelpClass:    "error",
	}
}

// Bootstrap3Config toggles has-error/has-success on the wrapping form-group
// and appends a help-block after the control.
func Bootstrap3Config() ClassConfig {
	return ClassConfig{
		GroupClass:        "form-group",
		GroupInvalidClass: "has-error",
		GroupValidClass:   "has-success",
		HelpTag:           "span",
		HelpClass:         "help-block error-msg",
	}
}

// NewFoundation5 returns the Foundation 5 adapter.
func NewFoundation5() StyleAdapter {
	return NewClassAdapter(KeyFoundation5, Foundation5Config())
}

// NewBootstrap3 returns the Bootstrap 3 adapter.
func NewBootstrap3() StyleAdapter {
	return NewClassAdapter(KeyBootstrap3, Bootstrap3Config())
}

// NewThemed builds a class adapter from the validation.* tokens of a
// resolved go-theme configuration. Missing tokens fall back to the Foundation
// 5 classes.
func NewThemed(cfg *theme.RendererConfig) StyleAdapter {
	classes := Foundation5Config()
	if cfg == nil {
		return NewClassAdapter(KeyTheme, classes)
	}

	tokens := cfg.Tokens
	override := func(target *string, token string) {
		if value := strings.TrimSpace(tokens[token]); value != "" {
			*target = value
		}
	}
	override(&classes.InvalidClass, TokenInvalidClass)
	override(&classes.ValidClass, TokenValidClass)
	override(&classes.GroupClass, TokenGroupClass)
	override(&classes.GroupInvalidClass, TokenGroupInvalidClass)
	override(&classes.GroupValidClass, TokenGroupValidClass)
	override(&classes.HelpTag, TokenHelpTag)
	override(&classes.HelpClass, TokenHelpClass)

	return NewClassAdapter(KeyTheme, classes)
}
