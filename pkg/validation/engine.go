package validation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-autovalidate/internal/logging"
	"github.com/goliatone/go-autovalidate/pkg/adapter"
	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/inspect"
	"github.com/goliatone/go-autovalidate/pkg/messages"
	"github.com/goliatone/go-autovalidate/pkg/model"
)

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for skipped controls and message lookup
// failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMessageResolver overrides the resolver used to build error messages.
func WithMessageResolver(resolver messages.Resolver) Option {
	return func(e *Engine) {
		if resolver != nil {
			e.messages = resolver
		}
	}
}

// WithMessageTimeout bounds each message lookup. Zero disables the bound.
func WithMessageTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		if timeout >= 0 {
			e.messageTimeout = timeout
		}
	}
}

// Engine validates controls and forms and drives a style adapter.
type Engine struct {
	inspector      *inspect.Inspector
	adapter        adapter.StyleAdapter
	messages       messages.Resolver
	messageTimeout time.Duration
	logger         *slog.Logger

	renders *renderTracker
	pending sync.WaitGroup
}

// New constructs an Engine rendering through styleAdapter. When no message
// resolver is supplied the embedded catalogs are used.
func New(inspector *inspect.Inspector, styleAdapter adapter.StyleAdapter, opts ...Option) *Engine {
	e := &Engine{
		inspector: inspector,
		adapter:   styleAdapter,
		logger:    logging.Discard(),
		renders:   newRenderTracker(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.inspector == nil {
		e.inspector = inspect.New(nil)
	}
	if e.adapter == nil {
		e.adapter = noopAdapter{}
	}
	if e.messages == nil {
		resolver, err := messages.NewCatalogResolver(messages.WithLogger(e.logger))
		if err != nil {
			e.logger.Warn("validation: embedded message catalogs unavailable", logging.Error(err))
		} else {
			e.messages = resolver
		}
	}
	return e
}

// Adapter returns the style adapter the engine renders through.
func (e *Engine) Adapter() adapter.StyleAdapter {
	return e.adapter
}

// ValidateElement validates a single control and renders the outcome. A nil
// opts resolves the options governing el. It returns true when the control
// is valid or was not validated.
func (e *Engine) ValidateElement(ctx context.Context, form host.Form, control host.Control, el host.Element, opts *model.FormValidationOptions) bool {
	var resolved model.FormValidationOptions
	if opts != nil {
		resolved = *opts
	} else {
		resolved = e.inspector.ResolveOptions(el)
	}

	if resolved.Disabled {
		return true
	}
	if control == nil {
		return true
	}

	needsValidation := !control.Pristine() || resolved.ForceValidation
	if !(resolved.ForceValidation || needsValidation) || !e.inspector.ShouldValidate(el, resolved) {
		return true
	}

	isValid := !control.Invalid()
	if resolved.RemoveExternalValidationErrorsOnSubmit {
		if clearer, ok := control.(host.ExternalErrorClearer); ok {
			clearer.RemoveAllExternalValidation()
		}
	}

	if isValid {
		e.renders.now(el, func() { e.adapter.MakeValid(el) })
		return true
	}

	kind, found := SelectError(control.ErrorFlags(), resolved.ErrorsAllowedOnSubmit)
	if !found {
		// Invalid without an active kind: nothing to show, treat as valid.
		e.logger.Warn("validation: invalid control without active error kind", logging.Element(el))
		return true
	}

	if !resolved.DisplayErrorsAfterSubmit || (form != nil && form.Submitted()) {
		e.SetElementValidationError(ctx, el, kind, "")
	}
	return false
}

// ValidateForm force-validates every control reachable from root, including
// registered custom controls, and recurses into sub-forms. Results of nested
// sub-forms are not folded into the returned value. A nil root is invalid; a
// root without validation options is valid.
func (e *Engine) ValidateForm(ctx context.Context, root host.Element) bool {
	if root == nil {
		return false
	}
	visited := make(map[host.Element]struct{})
	return e.validateForm(ctx, root, visited)
}

func (e *Engine) validateForm(ctx context.Context, root host.Element, visited map[host.Element]struct{}) bool {
	visited[root] = struct{}{}

	form := root.Form()
	if form == nil || form.Options() == nil {
		return true
	}
	formOpts := form.Options().Clone()
	if formOpts.Disabled {
		return true
	}

	valid := true
	for child := range host.Children(root) {
		if _, seen := visited[child]; seen {
			continue
		}
		if host.IsForm(child) {
			e.validateForm(ctx, child, visited)
			continue
		}
		valid = e.validateChild(ctx, form, child) && valid
	}
	for custom := range host.CustomControls(root) {
		if _, seen := visited[custom]; seen {
			continue
		}
		valid = e.validateChild(ctx, form, custom) && valid
	}

	e.logger.Debug("validation: form validated", logging.Element(root), slog.Bool("valid", valid))
	return valid
}

func (e *Engine) validateChild(ctx context.Context, form host.Form, child host.Element) bool {
	control := child.Control()
	if control == nil {
		return true
	}
	opts := e.inspector.ResolveOptions(child)
	opts.ForceValidation = true
	return e.ValidateElement(ctx, form, control, child, &opts)
}

// ResetElement returns el to its default visual state.
func (e *Engine) ResetElement(el host.Element) {
	if el == nil {
		return
	}
	e.renders.now(el, func() { e.adapter.MakeDefault(el) })
}

// ResetForm marks every control under root pristine and recurses into
// sub-forms. It renders nothing.
func (e *Engine) ResetForm(root host.Element) {
	if root == nil {
		return
	}
	e.resetForm(root, make(map[host.Element]struct{}))
}

func (e *Engine) resetForm(root host.Element, visited map[host.Element]struct{}) {
	visited[root] = struct{}{}
	for child := range host.Children(root) {
		if _, seen := visited[child]; seen {
			continue
		}
		control := child.Control()
		if control == nil {
			continue
		}
		if host.IsForm(child) {
			e.resetForm(child, visited)
			continue
		}
		control.SetPristine()
	}
}

// SetElementValidationError renders el as invalid. When kind is empty
// rawMessage is rendered immediately; otherwise the message for kind is
// resolved in the background and rendered unless a newer render for el
// happened first. The returned channel is closed once the render was applied
// or dropped.
func (e *Engine) SetElementValidationError(ctx context.Context, el host.Element, kind model.ErrorKind, rawMessage string) <-chan struct{} {
	done := make(chan struct{})
	if el == nil {
		close(done)
		return done
	}

	if kind == "" {
		e.renders.now(el, func() { e.adapter.MakeInvalid(el, rawMessage) })
		close(done)
		return done
	}

	token := e.renders.reserve(el)
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		defer close(done)

		message := e.resolveMessage(ctx, kind, el)
		applied := e.renders.apply(el, token, func() { e.adapter.MakeInvalid(el, message) })
		if !applied {
			e.logger.Debug("validation: dropped stale error render", logging.Element(el), logging.Kind(kind))
		}
	}()
	return done
}

// Wait blocks until every pending error render has been applied or dropped.
func (e *Engine) Wait() {
	e.pending.Wait()
}

func (e *Engine) resolveMessage(ctx context.Context, kind model.ErrorKind, el host.Element) string {
	if e.messages == nil {
		return messages.GenericMessage
	}
	if ctx == nil {
		ctx = context.Background()
	}
	lookupCtx := context.WithoutCancel(ctx)
	if e.messageTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(lookupCtx, e.messageTimeout)
		defer cancel()
	}

	message, err := e.messages.ErrorMessage(lookupCtx, kind, el)
	if err != nil || strings.TrimSpace(message) == "" {
		e.logger.Warn("validation: message lookup failed",
			logging.Element(el),
			logging.Kind(kind),
			logging.Error(err),
		)
		return messages.GenericMessage
	}
	return message
}

type noopAdapter struct{}

func (noopAdapter) Key() string                      { return "noop" }
func (noopAdapter) MakeValid(host.Element)           {}
func (noopAdapter) MakeInvalid(host.Element, string) {}
func (noopAdapter) MakeDefault(host.Element)         {}
