// Package validation orchestrates control and form validation. Engine
// decides whether a control needs validation, derives its validity from the
// host's invalid flag, selects a single representative error, and drives
// the active style adapter. It also validates and resets whole forms,
// recursing into sub-forms and registered custom controls.
//
// Validity decisions are synchronous. Rendering an invalid state first
// resolves a message, which happens on a separate goroutine; every render is
// tagged with a per-element sequence number so a late message never
// overwrites a newer valid, default or invalid state. Call Wait to block
// until pending renders settle.
package validation
