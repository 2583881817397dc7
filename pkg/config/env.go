package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/goliatone/go-autovalidate/pkg/model"
)

// DefaultEnvPrefix prefixes every variable read by FromEnv.
const DefaultEnvPrefix = "AUTOVALIDATE_"

type envOptions struct {
	Disabled                               bool     `env:"DISABLED"`
	ValidateNonVisibleControls             bool     `env:"VALIDATE_NON_VISIBLE_CONTROLS"`
	ErrorsAllowedOnSubmit                  []string `env:"ERRORS_ALLOWED_ON_SUBMIT" envSeparator:","`
	DisplayErrorsAfterSubmit               bool     `env:"DISPLAY_ERRORS_AFTER_SUBMIT"`
	RemoveExternalValidationErrorsOnSubmit bool     `env:"REMOVE_EXTERNAL_VALIDATION_ERRORS_ON_SUBMIT" envDefault:"true"`
}

// FromEnv reads options from environment variables named with prefix
// (DefaultEnvPrefix when empty), e.g. AUTOVALIDATE_DISPLAY_ERRORS_AFTER_SUBMIT.
// ForceValidation is transient and never read from the environment.
func FromEnv(prefix string) (model.FormValidationOptions, error) {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	var raw envOptions
	if err := env.ParseWithOptions(&raw, env.Options{Prefix: prefix}); err != nil {
		return model.FormValidationOptions{}, fmt.Errorf("config: parse environment: %w", err)
	}

	opts := model.FormValidationOptions{
		Disabled:                               raw.Disabled,
		ValidateNonVisibleControls:             raw.ValidateNonVisibleControls,
		DisplayErrorsAfterSubmit:               raw.DisplayErrorsAfterSubmit,
		RemoveExternalValidationErrorsOnSubmit: raw.RemoveExternalValidationErrorsOnSubmit,
	}
	for _, kind := range raw.ErrorsAllowedOnSubmit {
		opts.ErrorsAllowedOnSubmit = append(opts.ErrorsAllowedOnSubmit, model.ErrorKind(kind))
	}
	return normalise(opts), nil
}
