package model

import "slices"

// FormValidationOptions configures how the controls of a single form are
// validated. One value is owned by each form; callers clone it for transient
// overrides such as forced validation on submit.
type FormValidationOptions struct {
	// Disabled turns validation into a no-op where every control reports valid.
	Disabled bool `json:"disabled" yaml:"disabled"`
	// ForceValidation validates controls the user has not interacted with yet.
	ForceValidation bool `json:"forceValidation" yaml:"forceValidation"`
	// ValidateNonVisibleControls includes controls without layout area.
	ValidateNonVisibleControls bool `json:"validateNonVisibleControls" yaml:"validateNonVisibleControls"`
	// ErrorsAllowedOnSubmit lists kinds that do not block a submit when they
	// are the only active errors.
	ErrorsAllowedOnSubmit []ErrorKind `json:"errorsAllowedOnSubmit,omitempty" yaml:"errorsAllowedOnSubmit,omitempty"`
	// DisplayErrorsAfterSubmit hides invalid styling until the owning form has
	// been submitted at least once.
	DisplayErrorsAfterSubmit bool `json:"displayErrorsAfterSubmit" yaml:"displayErrorsAfterSubmit"`
	// RemoveExternalValidationErrorsOnSubmit clears externally injected error
	// flags before a control is re-validated.
	RemoveExternalValidationErrorsOnSubmit bool `json:"removeExternalValidationErrorsOnSubmit" yaml:"removeExternalValidationErrorsOnSubmit"`
}

// DefaultOptions returns the library defaults applied when no form options
// can be resolved.
func DefaultOptions() FormValidationOptions {
	return FormValidationOptions{
		RemoveExternalValidationErrorsOnSubmit: true,
	}
}

// Clone returns a deep copy so slice fields can be mutated independently.
func (o FormValidationOptions) Clone() FormValidationOptions {
	out := o
	out.ErrorsAllowedOnSubmit = slices.Clone(o.ErrorsAllowedOnSubmit)
	return out
}

// AllowedOnSubmit reports whether kind is listed in ErrorsAllowedOnSubmit.
func (o FormValidationOptions) AllowedOnSubmit(kind ErrorKind) bool {
	return slices.Contains(o.ErrorsAllowedOnSubmit, kind)
}
