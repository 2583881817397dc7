package host

import (
	"iter"
	"strings"

	"github.com/goliatone/go-autovalidate/pkg/model"
)

// AttrCustomControl marks a non-native element as a validatable control.
const AttrCustomControl = "register-custom-form-control"

// AttrSubForm marks a non-form container as a nested form.
const AttrSubForm = "data-subform"

// Element is a handle to a single node of the host tree. Implementations must
// be comparable (typically pointer types) because the engine keys per-element
// render state on them.
type Element interface {
	// TagName returns the lower-case tag name.
	TagName() string
	HasAttribute(name string) bool
	Attribute(name string) (string, bool)
	// Size reports the layout box of the element. A zero area means the
	// element is not visible.
	Size() (width, height float64)
	// Form returns the controller of the nearest enclosing form, the element
	// itself when it is a form, or nil when the element is detached.
	Form() Form
	// Control returns the model state bound to the element, or nil.
	Control() Control
}

// Control exposes the model state a host framework keeps for one control.
type Control interface {
	Pristine() bool
	Invalid() bool
	ErrorFlags() model.ErrorFlags
	// SetPristine returns the control to its untouched state.
	SetPristine()
}

// ExternalErrorClearer is implemented by controls that accept externally
// injected errors (for example server side validation results).
type ExternalErrorClearer interface {
	RemoveAllExternalValidation()
}

// Form exposes the aggregate state of a form controller.
type Form interface {
	Submitted() bool
	// Options returns the validation options attached to the form, or nil
	// when the form has not opted into validation.
	Options() *model.FormValidationOptions
	// ErrorFlags aggregates the error flags of every control in the form.
	ErrorFlags() model.ErrorFlags
}

// ControlCollections is implemented by form-like elements. Each accessor
// returns nil when the host does not provide that collection.
type ControlCollections interface {
	// AllElements is the legacy all-elements collection.
	AllElements() []Element
	// Elements is the native form controls collection.
	Elements() []Element
	// ChildNodes is the raw list of element children.
	ChildNodes() []Element
}

// CustomControlRegistry is implemented by form elements that track
// registered custom controls outside the native collection.
type CustomControlRegistry interface {
	CustomControls() []Element
}

// Children enumerates the child controls of el, preferring the all-elements
// collection, then the native collection, then raw children. Absent
// collections yield an empty sequence. The sequence is restartable.
func Children(el Element) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		if el == nil {
			return
		}
		collections, ok := el.(ControlCollections)
		if !ok {
			return
		}
		items := collections.AllElements()
		if items == nil {
			items = collections.Elements()
		}
		if items == nil {
			items = collections.ChildNodes()
		}
		for _, item := range items {
			if item == nil {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

// CustomControls enumerates the custom controls registered on el.
func CustomControls(el Element) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		registry, ok := el.(CustomControlRegistry)
		if !ok || el == nil {
			return
		}
		for _, item := range registry.CustomControls() {
			if item == nil {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

// IsForm reports whether el is a form or a container marked as a sub-form.
func IsForm(el Element) bool {
	if el == nil {
		return false
	}
	return strings.EqualFold(el.TagName(), "form") || el.HasAttribute(AttrSubForm)
}
