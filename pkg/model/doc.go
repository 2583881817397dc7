// Package model defines the value types shared by the validation pipeline:
// error kinds, the insertion-ordered error flag mapping reported by a host
// framework for every control, and the per-form FormValidationOptions. The
// types carry no behaviour beyond cloning and lookups so host adapters,
// inspectors, style adapters and the validation engine can depend on them
// without pulling in each other.
package model
