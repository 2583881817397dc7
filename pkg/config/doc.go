// Package config resolves FormValidationOptions outside of a form: the
// process-wide Defaults holder consulted when a control has no enclosing
// form, plus loaders that read options from JSON/YAML documents and from
// environment variables.
//
// Defaults replaces a global singleton. Construct one per process (or per
// test), initialise it once, and inject it into the inspector:
//
//	defaults := config.NewDefaults()
//	if err := defaults.Init(opts); err != nil {
//		return err
//	}
//	inspector := inspect.New(defaults)
package config
