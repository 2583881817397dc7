// Package testsupport provides in-memory host fakes, a recording style
// adapter and a controllable message resolver so package tests can exercise
// the validation pipeline without a real document.
package testsupport
