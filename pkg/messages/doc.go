// Package messages resolves human readable error messages for error kinds.
//
// CatalogResolver looks messages up in per-locale catalogs (JSON or YAML,
// see catalogs/en.yaml for the bundled English set), negotiates the locale
// with golang.org/x/text/language and renders each message as a pongo2
// template. Templates receive the error kind as {{ kind }} and the
// constraint attributes of the element (minlength, maxlength, min, max,
// pattern, step, type, name) under their own names:
//
//	minlength: "Please enter at least {{ minlength }} characters"
//
// The locale comes from the element's lang attribute, then from the context
// (see WithLocale), then from the resolver's fallback locale.
package messages
