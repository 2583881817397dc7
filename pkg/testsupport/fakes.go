package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/model"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Control is a mutable host.Control.
type Control struct {
	IsPristine    bool
	IsInvalid     bool
	Flags         model.ErrorFlags
	PristineCalls int
}

var _ host.Control = (*Control)(nil)

// Pristine implements host.Control.
func (c *Control) Pristine() bool { return c.IsPristine }

// Invalid implements host.Control.
func (c *Control) Invalid() bool { return c.IsInvalid }

// ErrorFlags implements host.Control.
func (c *Control) ErrorFlags() model.ErrorFlags { return c.Flags }

// SetPristine implements host.Control.
func (c *Control) SetPristine() {
	c.IsPristine = true
	c.PristineCalls++
}

// ClearableControl additionally accepts external error removal.
type ClearableControl struct {
	*Control
	ClearCalls int
}

// RemoveAllExternalValidation implements host.ExternalErrorClearer.
func (c *ClearableControl) RemoveAllExternalValidation() {
	c.ClearCalls++
}

// Form is a mutable host.Form.
type Form struct {
	IsSubmitted bool
	Opts        *model.FormValidationOptions
	Flags       model.ErrorFlags
}

var _ host.Form = (*Form)(nil)

// Submitted implements host.Form.
func (f *Form) Submitted() bool { return f.IsSubmitted }

// Options implements host.Form.
func (f *Form) Options() *model.FormValidationOptions { return f.Opts }

// ErrorFlags implements host.Form.
func (f *Form) ErrorFlags() model.ErrorFlags { return f.Flags }

// Element is a configurable host.Element. Collections left nil are reported
// as absent.
type Element struct {
	Tag    string
	Attrs  map[string]string
	Width  float64
	Height float64
	Owner  *Form
	Model  host.Control

	All    []host.Element
	Native []host.Element
	Raw    []host.Element
	Custom []host.Element

	mu        sync.Mutex
	nextID    int
	listeners map[host.EventType]map[int]host.Listener
}

var (
	_ host.Element               = (*Element)(nil)
	_ host.ControlCollections    = (*Element)(nil)
	_ host.CustomControlRegistry = (*Element)(nil)
	_ host.EventTarget           = (*Element)(nil)
)

// TagName implements host.Element.
func (e *Element) TagName() string { return e.Tag }

// HasAttribute implements host.Element.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.Attrs[name]
	return ok
}

// Attribute implements host.Element.
func (e *Element) Attribute(name string) (string, bool) {
	value, ok := e.Attrs[name]
	return value, ok
}

// Size implements host.Element.
func (e *Element) Size() (float64, float64) { return e.Width, e.Height }

// Form implements host.Element.
func (e *Element) Form() host.Form {
	if e.Owner == nil {
		return nil
	}
	return e.Owner
}

// Control implements host.Element.
func (e *Element) Control() host.Control {
	if e.Model == nil {
		return nil
	}
	return e.Model
}

// AllElements implements host.ControlCollections.
func (e *Element) AllElements() []host.Element { return e.All }

// Elements implements host.ControlCollections.
func (e *Element) Elements() []host.Element { return e.Native }

// ChildNodes implements host.ControlCollections.
func (e *Element) ChildNodes() []host.Element { return e.Raw }

// CustomControls implements host.CustomControlRegistry.
func (e *Element) CustomControls() []host.Element { return e.Custom }

// On implements host.EventTarget.
func (e *Element) On(event host.EventType, listener host.Listener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[host.EventType]map[int]host.Listener)
	}
	if e.listeners[event] == nil {
		e.listeners[event] = make(map[int]host.Listener)
	}
	id := e.nextID
	e.nextID++
	e.listeners[event][id] = listener

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners[event], id)
	}
}

// ListenerCount reports how many listeners are registered for event.
func (e *Element) ListenerCount(event host.EventType) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}

// Dispatch delivers event to the registered listeners.
func (e *Element) Dispatch(ctx context.Context, event host.EventType) {
	e.mu.Lock()
	listeners := make([]host.Listener, 0, len(e.listeners[event]))
	for _, listener := range e.listeners[event] {
		listeners = append(listeners, listener)
	}
	e.mu.Unlock()

	for _, listener := range listeners {
		listener(ctx, host.Event{Type: event, Target: e})
	}
}

// Input returns a visible input bound to control and owned by form.
func Input(form *Form, control host.Control) *Element {
	return &Element{Tag: "input", Width: 120, Height: 24, Owner: form, Model: control}
}

// FormElement returns a visible form element whose native collection holds
// children.
func FormElement(form *Form, children ...host.Element) *Element {
	return &Element{Tag: "form", Width: 400, Height: 300, Owner: form, Native: children}
}

// InvalidControl returns a dirty, invalid control reporting flags.
func InvalidControl(flags ...model.Flag) *Control {
	return &Control{IsInvalid: true, Flags: model.NewErrorFlags(flags...)}
}

// Active is shorthand for an active flag.
func Active(kind model.ErrorKind) model.Flag {
	return model.Flag{Kind: kind, Active: true}
}

// Inactive is shorthand for an inactive flag.
func Inactive(kind model.ErrorKind) model.Flag {
	return model.Flag{Kind: kind}
}
