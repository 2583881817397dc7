// Package inspect answers side-effect free questions about a single
// element: whether it is visible, which validation options govern it,
// whether an error flag set holds anything beyond an excluded list, and
// whether the element should be validated at all.
package inspect

import (
	"slices"
	"strings"

	"github.com/goliatone/go-autovalidate/pkg/config"
	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/model"
)

var validatableTags = []string{"input", "textarea", "select", "form"}

// Inspector resolves element level facts. The zero value falls back to the
// library defaults when no enclosing form options exist.
type Inspector struct {
	defaults *config.Defaults
}

// New constructs an Inspector that falls back to defaults for detached
// elements. A nil defaults holder yields model.DefaultOptions.
func New(defaults *config.Defaults) *Inspector {
	return &Inspector{defaults: defaults}
}

// IsVisible reports whether el occupies a non-zero layout area.
func (i *Inspector) IsVisible(el host.Element) bool {
	return IsVisible(el)
}

// HasErrorsOtherThanExcluded reports whether flags holds an active kind that
// is not listed in excluded.
func (i *Inspector) HasErrorsOtherThanExcluded(flags model.ErrorFlags, excluded []model.ErrorKind) bool {
	return HasErrorsOtherThanExcluded(flags, excluded)
}

// ShouldValidate reports whether el is eligible for validation under opts.
func (i *Inspector) ShouldValidate(el host.Element, opts model.FormValidationOptions) bool {
	return ShouldValidate(el, opts)
}

// ResolveOptions returns a copy of the options of the nearest enclosing form
// or, when there is none, of the process-wide defaults.
func (i *Inspector) ResolveOptions(el host.Element) model.FormValidationOptions {
	if el != nil {
		if form := el.Form(); form != nil {
			if opts := form.Options(); opts != nil {
				return opts.Clone()
			}
		}
	}
	if i == nil {
		return model.DefaultOptions()
	}
	return i.defaults.Get()
}

// IsVisible reports whether el has both a positive width and height.
func IsVisible(el host.Element) bool {
	if el == nil {
		return false
	}
	width, height := el.Size()
	return width > 0 && height > 0
}

// HasErrorsOtherThanExcluded reports whether any active kind in flags is
// missing from excluded. An empty excluded list matches any active kind.
func HasErrorsOtherThanExcluded(flags model.ErrorFlags, excluded []model.ErrorKind) bool {
	for kind, active := range flags.All() {
		if active && !slices.Contains(excluded, kind) {
			return true
		}
	}
	return false
}

// ShouldValidate is the single gate deciding whether any work happens on a
// control: it must exist, be visible (unless opts allows hidden controls) and
// be either a native input-like element or a registered custom control.
func ShouldValidate(el host.Element, opts model.FormValidationOptions) bool {
	if el == nil {
		return false
	}
	if !IsVisible(el) && !opts.ValidateNonVisibleControls {
		return false
	}
	tag := strings.ToLower(el.TagName())
	return slices.Contains(validatableTags, tag) || el.HasAttribute(host.AttrCustomControl)
}
