package htmldom

import (
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-autovalidate/pkg/model"
)

// Form option attributes.
const (
	AttrAutoValidate                     = "data-autovalidate"
	AttrDisableValidation                = "data-disable-validation"
	AttrValidateNonVisibleControls       = "data-validate-non-visible-controls"
	AttrDisplayErrorsAfterSubmit         = "data-display-errors-after-submit"
	AttrErrorsAllowedOnSubmit            = "data-errors-allowed-on-submit"
	AttrRemoveExternalValidationOnSubmit = "data-remove-external-validation-errors-on-submit"
)

func applyOptionAttributes(n *html.Node, opts model.FormValidationOptions, logger *slog.Logger) model.FormValidationOptions {
	flag := func(target *bool, name string) {
		if !hasAttr(n, name) {
			return
		}
		raw := strings.TrimSpace(attrOf(n, name))
		if raw == "" {
			*target = true
			return
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			logger.Warn("htmldom: ignoring malformed option attribute",
				slog.String("attribute", name),
				slog.String("value", raw),
			)
			return
		}
		*target = value
	}

	flag(&opts.Disabled, AttrDisableValidation)
	flag(&opts.ValidateNonVisibleControls, AttrValidateNonVisibleControls)
	flag(&opts.DisplayErrorsAfterSubmit, AttrDisplayErrorsAfterSubmit)
	flag(&opts.RemoveExternalValidationErrorsOnSubmit, AttrRemoveExternalValidationOnSubmit)
	if hasAttr(n, AttrErrorsAllowedOnSubmit) {
		opts.ErrorsAllowedOnSubmit = model.ParseErrorKinds(attrOf(n, AttrErrorsAllowedOnSubmit))
	}
	return opts
}
