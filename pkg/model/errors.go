package model

import (
	"iter"
	"slices"
	"strings"
)

// ErrorKind identifies a single validation rule such as "required" or
// "minlength". Any string is a legal kind.
type ErrorKind string

// Built-in kinds reported by the bundled HTML host. Hosts are free to report
// any other kind.
const (
	ErrorRequired  ErrorKind = "required"
	ErrorMinLength ErrorKind = "minlength"
	ErrorMaxLength ErrorKind = "maxlength"
	ErrorPattern   ErrorKind = "pattern"
	ErrorEmail     ErrorKind = "email"
	ErrorURL       ErrorKind = "url"
	ErrorNumber    ErrorKind = "number"
	ErrorMin       ErrorKind = "min"
	ErrorMax       ErrorKind = "max"
)

// ParseErrorKinds splits a comma separated list into kinds, dropping blanks.
func ParseErrorKinds(raw string) []ErrorKind {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []ErrorKind
	for _, part := range strings.Split(raw, ",") {
		if kind := ErrorKind(strings.TrimSpace(part)); kind != "" {
			out = append(out, kind)
		}
	}
	return out
}

// Flag is a single entry of an ErrorFlags mapping.
type Flag struct {
	Kind   ErrorKind `json:"kind" yaml:"kind"`
	Active bool      `json:"active" yaml:"active"`
}

// ErrorFlags maps error kinds to their active state while preserving the
// order in which kinds were first set. Error selection depends on that order,
// so hosts must report flags in a stable sequence.
type ErrorFlags []Flag

// NewErrorFlags builds a mapping from the supplied flags. Later duplicates
// overwrite the value but keep the first position.
func NewErrorFlags(flags ...Flag) ErrorFlags {
	var out ErrorFlags
	for _, flag := range flags {
		out.Set(flag.Kind, flag.Active)
	}
	return out
}

// Set records the state for kind, appending it when not yet present.
func (f *ErrorFlags) Set(kind ErrorKind, active bool) {
	if f == nil {
		return
	}
	for idx := range *f {
		if (*f)[idx].Kind == kind {
			(*f)[idx].Active = active
			return
		}
	}
	*f = append(*f, Flag{Kind: kind, Active: active})
}

// Get reports the state of kind and whether the kind is present at all.
func (f ErrorFlags) Get(kind ErrorKind) (active, ok bool) {
	for _, flag := range f {
		if flag.Kind == kind {
			return flag.Active, true
		}
	}
	return false, false
}

// All iterates the mapping in insertion order.
func (f ErrorFlags) All() iter.Seq2[ErrorKind, bool] {
	return func(yield func(ErrorKind, bool) bool) {
		for _, flag := range f {
			if !yield(flag.Kind, flag.Active) {
				return
			}
		}
	}
}

// Active returns the kinds currently flagged, in insertion order.
func (f ErrorFlags) Active() []ErrorKind {
	var out []ErrorKind
	for _, flag := range f {
		if flag.Active {
			out = append(out, flag.Kind)
		}
	}
	return out
}

// Any reports whether at least one kind is active.
func (f ErrorFlags) Any() bool {
	return slices.ContainsFunc(f, func(flag Flag) bool { return flag.Active })
}

// Merge appends the entries of other, OR-ing the state of kinds present in
// both. The receiver order wins for shared kinds.
func (f ErrorFlags) Merge(other ErrorFlags) ErrorFlags {
	out := slices.Clone(f)
	for _, flag := range other {
		current, _ := out.Get(flag.Kind)
		out.Set(flag.Kind, current || flag.Active)
	}
	return out
}
