package config

import (
	"sync"

	"github.com/goliatone/go-autovalidate/pkg/model"
)

// Defaults holds the process-wide fallback options. Init may succeed once;
// until then Get returns model.DefaultOptions.
type Defaults struct {
	mu          sync.RWMutex
	opts        model.FormValidationOptions
	initialised bool
}

// NewDefaults returns a holder seeded with model.DefaultOptions.
func NewDefaults() *Defaults {
	return &Defaults{opts: model.DefaultOptions()}
}

// Init stores opts as the process-wide defaults.
func (d *Defaults) Init(opts model.FormValidationOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialised {
		return ErrAlreadyInitialised
	}
	d.opts = opts.Clone()
	d.initialised = true
	return nil
}

// MustInit panics when Init fails. Useful for init-time wiring.
func (d *Defaults) MustInit(opts model.FormValidationOptions) {
	if err := d.Init(opts); err != nil {
		panic(err)
	}
}

// Initialised reports whether Init has succeeded.
func (d *Defaults) Initialised() bool {
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.initialised
}

// Get returns a copy of the current defaults. A nil holder yields the
// library defaults.
func (d *Defaults) Get() model.FormValidationOptions {
	if d == nil {
		return model.DefaultOptions()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.opts.Clone()
}
