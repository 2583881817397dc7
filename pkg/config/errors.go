package config

import "errors"

var (
	// ErrAlreadyInitialised is returned when Defaults.Init is called twice.
	ErrAlreadyInitialised = errors.New("config: defaults already initialised")
	// ErrEmptyDocument is returned when an options document has no content.
	ErrEmptyDocument = errors.New("config: options document is empty")
)
