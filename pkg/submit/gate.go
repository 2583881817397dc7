// Package submit gates a form's submit handler on the outcome of whole-form
// validation.
package submit

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/goliatone/go-autovalidate/internal/logging"
	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/inspect"
)

// AttrForce is the form attribute that forces submission regardless of
// validity.
const AttrForce = "data-submit-force"

// Validator validates a whole form.
type Validator interface {
	ValidateForm(ctx context.Context, root host.Element) bool
}

// Handler is the submit action guarded by a Gate.
type Handler func(ctx context.Context, ev host.Event)

// Decision records how a submit signal was evaluated.
type Decision struct {
	OptedIn           bool `json:"optedIn"`
	Valid             bool `json:"valid"`
	Disabled          bool `json:"disabled"`
	Forced            bool `json:"forced"`
	OnlyAllowedErrors bool `json:"onlyAllowedErrors"`
	Forward           bool `json:"forward"`
}

// Option customises a Gate.
type Option func(*Gate)

// WithLogger sets the logger used to report blocked submissions.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Gate decides whether a submit signal reaches its handler.
type Gate struct {
	validator Validator
	logger    *slog.Logger
}

// New constructs a Gate backed by validator.
func New(validator Validator, opts ...Option) *Gate {
	g := &Gate{validator: validator, logger: logging.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// ParseForce interprets a force attribute value. Only "true" forces.
func ParseForce(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

// ForceFor reads AttrForce from formEl.
func ForceFor(formEl host.Element) bool {
	if formEl == nil {
		return false
	}
	raw, _ := formEl.Attribute(AttrForce)
	return ParseForce(raw)
}

// Evaluate validates formEl and reports whether its submit should be
// forwarded. Forms without validation options always forward.
func (g *Gate) Evaluate(ctx context.Context, formEl host.Element, force bool) Decision {
	var form host.Form
	if formEl != nil {
		form = formEl.Form()
	}
	if form == nil || form.Options() == nil {
		return Decision{Forward: true, Valid: true, Forced: force}
	}

	opts := form.Options().Clone()
	decision := Decision{
		OptedIn:  true,
		Disabled: opts.Disabled,
		Forced:   force,
	}
	if g.validator != nil {
		decision.Valid = g.validator.ValidateForm(ctx, formEl)
	}
	decision.OnlyAllowedErrors = len(opts.ErrorsAllowedOnSubmit) > 0 &&
		!inspect.HasErrorsOtherThanExcluded(form.ErrorFlags(), opts.ErrorsAllowedOnSubmit)
	decision.Forward = decision.Disabled ||
		decision.Forced ||
		decision.Valid ||
		(!decision.Valid && decision.OnlyAllowedErrors)
	return decision
}

// ShouldSubmit reports whether the submit of formEl should be forwarded.
func (g *Gate) ShouldSubmit(ctx context.Context, formEl host.Element, force bool) bool {
	return g.Evaluate(ctx, formEl, force).Forward
}

// Bind prepares a Binding that guards handler for submits dispatched on
// target. Call Attach to start listening.
func (g *Gate) Bind(formEl host.Element, target host.EventTarget, handler Handler, force bool) *Binding {
	return &Binding{
		gate:    g,
		formEl:  formEl,
		target:  target,
		handler: handler,
		force:   force,
	}
}

// Binding ties a Gate to one form's submit and destroy events.
type Binding struct {
	gate    *Gate
	formEl  host.Element
	target  host.EventTarget
	handler Handler
	force   bool

	mu       sync.Mutex
	removers []func()
	last     Decision
}

// Attach registers the submit and destroy listeners. It is a no-op when the
// binding is already attached.
func (b *Binding) Attach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.removers != nil || b.target == nil {
		return
	}
	b.removers = []func(){
		b.target.On(host.EventSubmit, b.onSubmit),
		b.target.On(host.EventDestroy, func(context.Context, host.Event) { b.Detach() }),
	}
}

// Detach removes every listener registered by Attach. Safe to call more than
// once.
func (b *Binding) Detach() {
	b.mu.Lock()
	removers := b.removers
	b.removers = nil
	b.mu.Unlock()

	for _, remove := range removers {
		if remove != nil {
			remove()
		}
	}
}

// Attached reports whether the listeners are registered.
func (b *Binding) Attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removers != nil
}

// LastDecision returns the decision made for the most recent submit.
func (b *Binding) LastDecision() Decision {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

func (b *Binding) onSubmit(ctx context.Context, ev host.Event) {
	decision := b.gate.Evaluate(ctx, b.formEl, b.force)

	b.mu.Lock()
	b.last = decision
	b.mu.Unlock()

	if !decision.Forward {
		b.gate.logger.Debug("submit: blocked invalid form", logging.Element(b.formEl))
		return
	}
	if b.handler != nil {
		b.handler(ctx, ev)
	}
}
