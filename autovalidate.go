// Package autovalidate wires the validation pipeline together: process-wide
// default options, the element inspector, a style adapter registry, message
// catalogs, the validation engine and the submit gate. Hosts supply their
// tree through the interfaces in pkg/host; pkg/htmldom provides one over
// parsed HTML.
package autovalidate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-autovalidate/internal/logging"
	"github.com/goliatone/go-autovalidate/pkg/adapter"
	"github.com/goliatone/go-autovalidate/pkg/config"
	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/inspect"
	"github.com/goliatone/go-autovalidate/pkg/messages"
	"github.com/goliatone/go-autovalidate/pkg/model"
	"github.com/goliatone/go-autovalidate/pkg/submit"
	"github.com/goliatone/go-autovalidate/pkg/validation"
)

// Options aliases model.FormValidationOptions for callers of the root package.
type Options = model.FormValidationOptions

// ErrorKind aliases model.ErrorKind.
type ErrorKind = model.ErrorKind

// StyleAdapter aliases adapter.StyleAdapter.
type StyleAdapter = adapter.StyleAdapter

// ErrNotEventTarget is returned by GuardSubmit when the form element cannot
// register listeners.
var ErrNotEventTarget = errors.New("autovalidate: form element does not accept listeners")

// Option configures New.
type Option func(*settings)

type settings struct {
	defaults       *config.Defaults
	defaultOpts    *model.FormValidationOptions
	registry       *adapter.Registry
	extraAdapters  []adapter.StyleAdapter
	activeAdapter  string
	resolver       messages.Resolver
	catalogs       []messages.Catalog
	fallbackLocale string
	messageTimeout time.Duration
	logger         *slog.Logger
}

// WithDefaults shares an existing defaults holder.
func WithDefaults(defaults *config.Defaults) Option {
	return func(s *settings) {
		if defaults != nil {
			s.defaults = defaults
		}
	}
}

// WithDefaultOptions initialises the defaults holder with opts. It fails when
// the holder was already initialised.
func WithDefaultOptions(opts Options) Option {
	return func(s *settings) {
		clone := opts.Clone()
		s.defaultOpts = &clone
	}
}

// WithAdapterRegistry replaces the built-in adapter registry.
func WithAdapterRegistry(registry *adapter.Registry) Option {
	return func(s *settings) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithStyleAdapter registers a custom adapter and makes it active.
func WithStyleAdapter(styleAdapter StyleAdapter) Option {
	return func(s *settings) {
		if styleAdapter != nil {
			s.extraAdapters = append(s.extraAdapters, styleAdapter)
			s.activeAdapter = styleAdapter.Key()
		}
	}
}

// WithTheme registers an adapter driven by the validation tokens of a
// resolved go-theme configuration and makes it active.
func WithTheme(cfg *theme.RendererConfig) Option {
	return WithStyleAdapter(adapter.NewThemed(cfg))
}

// WithActiveAdapter selects a registered adapter by key.
func WithActiveAdapter(key string) Option {
	return func(s *settings) {
		s.activeAdapter = key
	}
}

// WithMessageResolver replaces the catalog based message resolver.
func WithMessageResolver(resolver messages.Resolver) Option {
	return func(s *settings) {
		if resolver != nil {
			s.resolver = resolver
		}
	}
}

// WithMessageCatalogs adds catalogs on top of the embedded ones.
func WithMessageCatalogs(catalogs ...messages.Catalog) Option {
	return func(s *settings) {
		s.catalogs = append(s.catalogs, catalogs...)
	}
}

// WithFallbackLocale sets the catalog locale used when negotiation fails.
func WithFallbackLocale(locale string) Option {
	return func(s *settings) {
		s.fallbackLocale = locale
	}
}

// WithMessageTimeout bounds each message lookup.
func WithMessageTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.messageTimeout = timeout
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Validator is the assembled pipeline.
type Validator struct {
	defaults  *config.Defaults
	inspector *inspect.Inspector
	adapters  *adapter.Registry
	engine    *validation.Engine
	gate      *submit.Gate
	logger    *slog.Logger
}

// New assembles a Validator. Without options it uses fresh defaults, the
// Foundation 5 adapter and the embedded English and German catalogs.
func New(opts ...Option) (*Validator, error) {
	s := &settings{logger: logging.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.defaults == nil {
		s.defaults = config.NewDefaults()
	}
	if s.defaultOpts != nil {
		if err := s.defaults.Init(*s.defaultOpts); err != nil {
			return nil, fmt.Errorf("autovalidate: default options: %w", err)
		}
	}

	if s.registry == nil {
		s.registry = adapter.NewDefaultRegistry()
	}
	for _, extra := range s.extraAdapters {
		if s.registry.Has(extra.Key()) {
			continue
		}
		if err := s.registry.Register(extra); err != nil {
			return nil, fmt.Errorf("autovalidate: %w", err)
		}
	}
	if s.activeAdapter != "" {
		if err := s.registry.SetActive(s.activeAdapter); err != nil {
			return nil, fmt.Errorf("autovalidate: %w", err)
		}
	}
	styleAdapter, err := s.registry.Active()
	if err != nil {
		return nil, fmt.Errorf("autovalidate: %w", err)
	}

	if s.resolver == nil {
		catalogOpts := []messages.Option{
			messages.WithLogger(s.logger),
			messages.WithCatalogs(s.catalogs...),
		}
		if s.fallbackLocale != "" {
			catalogOpts = append(catalogOpts, messages.WithFallbackLocale(s.fallbackLocale))
		}
		resolver, err := messages.NewCatalogResolver(catalogOpts...)
		if err != nil {
			return nil, fmt.Errorf("autovalidate: %w", err)
		}
		s.resolver = resolver
	}

	inspector := inspect.New(s.defaults)
	engine := validation.New(inspector, styleAdapter,
		validation.WithLogger(s.logger),
		validation.WithMessageResolver(s.resolver),
		validation.WithMessageTimeout(s.messageTimeout),
	)

	s.logger.Debug("autovalidate: pipeline ready", slog.String("adapter", styleAdapter.Key()))

	return &Validator{
		defaults:  s.defaults,
		inspector: inspector,
		adapters:  s.registry,
		engine:    engine,
		gate:      submit.New(engine, submit.WithLogger(s.logger)),
		logger:    s.logger,
	}, nil
}

// Defaults returns the process-wide defaults holder.
func (v *Validator) Defaults() *config.Defaults { return v.defaults }

// Inspector returns the element inspector.
func (v *Validator) Inspector() *inspect.Inspector { return v.inspector }

// Adapters returns the style adapter registry.
func (v *Validator) Adapters() *adapter.Registry { return v.adapters }

// Engine returns the validation engine.
func (v *Validator) Engine() *validation.Engine { return v.engine }

// Gate returns the submit gate.
func (v *Validator) Gate() *submit.Gate { return v.gate }

// ValidateElement validates el against the options of its enclosing form.
func (v *Validator) ValidateElement(ctx context.Context, el host.Element) bool {
	if el == nil {
		return true
	}
	return v.engine.ValidateElement(ctx, el.Form(), el.Control(), el, nil)
}

// ValidateForm force-validates every control under root.
func (v *Validator) ValidateForm(ctx context.Context, root host.Element) bool {
	return v.engine.ValidateForm(ctx, root)
}

// ResetElement returns el to its default visual state.
func (v *Validator) ResetElement(el host.Element) {
	v.engine.ResetElement(el)
}

// ResetForm marks every control under root pristine.
func (v *Validator) ResetForm(root host.Element) {
	v.engine.ResetForm(root)
}

// SetElementValidationError renders el invalid with the message for kind, or
// with rawMessage when kind is empty.
func (v *Validator) SetElementValidationError(ctx context.Context, el host.Element, kind ErrorKind, rawMessage string) <-chan struct{} {
	return v.engine.SetElementValidationError(ctx, el, kind, rawMessage)
}

// ShouldSubmit reports whether the submit of formEl should be forwarded.
func (v *Validator) ShouldSubmit(ctx context.Context, formEl host.Element, force bool) bool {
	return v.gate.ShouldSubmit(ctx, formEl, force)
}

// GuardSubmit binds handler to the submit events of formEl and attaches the
// binding. The force flag is read from the data-submit-force attribute. The
// binding detaches itself when formEl receives a destroy event.
func (v *Validator) GuardSubmit(formEl host.Element, handler submit.Handler) (*submit.Binding, error) {
	target, ok := formEl.(host.EventTarget)
	if !ok || formEl == nil {
		return nil, ErrNotEventTarget
	}
	binding := v.gate.Bind(formEl, target, handler, submit.ForceFor(formEl))
	binding.Attach()
	return binding, nil
}

// Wait blocks until pending error renders settle.
func (v *Validator) Wait() {
	v.engine.Wait()
}
