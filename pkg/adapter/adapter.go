// Package adapter defines the StyleAdapter contract used to reflect
// validation decisions visually, a registry that keeps exactly one adapter
// active per process, and the built-in Foundation 5, Bootstrap 3 and
// theme-token driven adapters.
package adapter

import "github.com/goliatone/go-autovalidate/pkg/host"

// StyleAdapter renders valid, invalid and default states for an element.
type StyleAdapter interface {
	// Key identifies the adapter for registry selection.
	Key() string
	MakeValid(el host.Element)
	MakeInvalid(el host.Element, message string)
	MakeDefault(el host.Element)
}

// Markup is the mutation surface the built-in adapters need from an element.
// Elements that do not implement it are left untouched.
type Markup interface {
	AddClass(names ...string)
	RemoveClass(names ...string)
	HasClass(name string) bool
	// NextElement returns the next element sibling.
	NextElement() (Markup, bool)
	// Closest returns the nearest ancestor carrying class.
	Closest(class string) (Markup, bool)
	// InsertAfter parses fragment as HTML and inserts it after the element.
	InsertAfter(fragment string) error
	// Remove detaches the element from its parent.
	Remove()
}

func markupOf(el host.Element) (Markup, bool) {
	if el == nil {
		return nil, false
	}
	m, ok := el.(Markup)
	return m, ok
}
