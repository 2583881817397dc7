// Package host describes the narrow capabilities the validation pipeline
// needs from a UI host framework: element queries, per-control model state,
// per-form state, child enumeration and lifecycle events. The pipeline reads
// this state and never depends on a concrete framework; pkg/htmldom provides
// a reference implementation backed by golang.org/x/net/html.
package host
