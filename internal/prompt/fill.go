package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-autovalidate/pkg/htmldom"
)

// Fill prompts for the value of every visible control under form and stores
// the answers on doc. Hidden inputs are skipped.
func Fill(ctx context.Context, driver Driver, doc *htmldom.Document, form *htmldom.Element) error {
	for _, el := range doc.Controls(form) {
		if el.InputType() == "hidden" {
			continue
		}
		value, err := ask(ctx, driver, el)
		if err != nil {
			return fmt.Errorf("prompt: %s: %w", el.Name(), err)
		}
		if err := doc.SetValue(el, value); err != nil {
			return fmt.Errorf("prompt: %s: %w", el.Name(), err)
		}
	}
	return nil
}

func ask(ctx context.Context, driver Driver, el *htmldom.Element) (string, error) {
	message := el.Name()
	help := describe(el)

	switch el.InputType() {
	case "select":
		options := el.OptionValues()
		idx, err := driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOf(options, el.Value()),
			Help:         help,
		})
		if err != nil || idx < 0 {
			return "", err
		}
		return options[idx], nil
	case "textarea":
		return driver.TextArea(ctx, TextAreaConfig{Message: message, Default: el.Value(), Help: help})
	case "checkbox", "radio":
		checked, err := driver.Confirm(ctx, ConfirmConfig{Message: message, Default: el.Value() != "", Help: help})
		if err != nil || !checked {
			return "", err
		}
		return "on", nil
	case "password":
		return driver.Password(ctx, InputConfig{Message: message, Help: help})
	default:
		return driver.Input(ctx, InputConfig{Message: message, Default: el.Value(), Help: help})
	}
}

func describe(el *htmldom.Element) string {
	var parts []string
	for _, name := range []string{"type", "required", "minlength", "maxlength", "pattern", "min", "max"} {
		value, ok := el.Attribute(name)
		if !ok {
			continue
		}
		if value == "" {
			parts = append(parts, name)
			continue
		}
		parts = append(parts, name+"="+value)
	}
	return strings.Join(parts, ", ")
}
