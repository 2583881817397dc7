package htmldom

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/goliatone/go-autovalidate/internal/logging"
	"github.com/goliatone/go-autovalidate/pkg/config"
	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/model"
)

var (
	// ErrNotControl is returned when a value or error is applied to an element
	// without control state.
	ErrNotControl = errors.New("htmldom: element is not a control")
	// ErrForeignElement is returned when an element belongs to another document.
	ErrForeignElement = errors.New("htmldom: element belongs to another document")
)

// Option customises a Document.
type Option func(*Document)

// WithDefaults sets the holder whose options seed every opted-in form.
func WithDefaults(defaults *config.Defaults) Option {
	return func(d *Document) {
		if defaults != nil {
			d.defaults = defaults
		}
	}
}

// WithLogger sets the logger used for malformed option attributes.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Document is a parsed HTML tree with form and control state attached.
type Document struct {
	mu       sync.Mutex
	root     *html.Node
	defaults *config.Defaults
	logger   *slog.Logger

	elements  map[*html.Node]*Element
	forms     map[*html.Node]*formState
	controls  map[*html.Node]*controlState
	listeners map[*html.Node]map[host.EventType]map[int]host.Listener
	nextID    int
}

// Parse reads an HTML document from r.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse: %w", err)
	}

	d := &Document{
		root:      root,
		defaults:  config.NewDefaults(),
		logger:    logging.Discard(),
		elements:  make(map[*html.Node]*Element),
		forms:     make(map[*html.Node]*formState),
		controls:  make(map[*html.Node]*controlState),
		listeners: make(map[*html.Node]map[host.EventType]map[int]host.Listener),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	d.attachForms(root, nil)
	return d, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(src string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(src), opts...)
}

// Render writes the current tree to w.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("htmldom: render: %w", err)
	}
	return nil
}

// String renders the tree, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Forms returns the outermost <form> elements in document order.
func (d *Document) Forms() []*Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "form" {
				out = append(out, d.wrap(c))
				continue
			}
			walk(c)
		}
	}
	walk(d.root)
	return out
}

// Form returns the first form whose name or id equals key. An empty key
// selects the first form.
func (d *Document) Form(key string) (*Element, bool) {
	for _, form := range d.Forms() {
		if key == "" || form.attr("name") == key || form.attr("id") == key {
			return form, true
		}
	}
	return nil, false
}

// ByID returns the element with the given id.
func (d *Document) ByID(id string) (*Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := find(d.root, func(n *html.Node) bool { return attrOf(n, "id") == id })
	if n == nil {
		return nil, false
	}
	return d.wrap(n), true
}

// Controls returns every element with control state under root, including
// those in nested sub-forms, in document order.
func (d *Document) Controls(root *Element) []*Element {
	if root == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if isControlNode(c) {
				out = append(out, d.wrap(c))
			}
			walk(c)
		}
	}
	walk(root.node)
	return out
}

// Control returns the control named name under root.
func (d *Document) Control(root *Element, name string) (*Element, bool) {
	for _, el := range d.Controls(root) {
		if el.attr("name") == name {
			return el, true
		}
	}
	return nil, false
}

// SetValue stores value on a control and marks it dirty.
func (d *Document) SetValue(el *Element, value string) error {
	state, err := d.controlFor(el)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	setValue(el.node, value)
	state.pristine = false
	return nil
}

// SetExternalError flags kind on a control as if reported by an external
// source such as a server response.
func (d *Document) SetExternalError(el *Element, kind model.ErrorKind) error {
	state, err := d.controlFor(el)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	state.external.Set(kind, true)
	return nil
}

// Submit marks the form owning formEl as submitted and dispatches a submit
// event to its listeners.
func (d *Document) Submit(ctx context.Context, formEl *Element) error {
	if formEl == nil || formEl.doc != d {
		return ErrForeignElement
	}
	d.mu.Lock()
	if state := d.forms[formEl.node]; state != nil {
		state.submitted = true
	}
	d.mu.Unlock()

	d.dispatch(ctx, formEl, host.EventSubmit)
	return nil
}

// Destroy dispatches a destroy event to the listeners of el.
func (d *Document) Destroy(ctx context.Context, el *Element) {
	if el == nil || el.doc != d {
		return
	}
	d.dispatch(ctx, el, host.EventDestroy)
}

func (d *Document) controlFor(el *Element) (*controlState, error) {
	if el == nil || el.doc != d {
		return nil, ErrForeignElement
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	state := d.controlState(el.node)
	if state == nil || state.subForm {
		return nil, fmt.Errorf("%w: <%s>", ErrNotControl, el.node.Data)
	}
	return state, nil
}

func (d *Document) dispatch(ctx context.Context, el *Element, event host.EventType) {
	d.mu.Lock()
	registered := d.listeners[el.node][event]
	listeners := make([]host.Listener, 0, len(registered))
	for _, listener := range registered {
		listeners = append(listeners, listener)
	}
	d.mu.Unlock()

	for _, listener := range listeners {
		listener(ctx, host.Event{Type: event, Target: el})
	}
}

func (d *Document) on(n *html.Node, event host.EventType, listener host.Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.listeners[n] == nil {
		d.listeners[n] = make(map[host.EventType]map[int]host.Listener)
	}
	if d.listeners[n][event] == nil {
		d.listeners[n][event] = make(map[int]host.Listener)
	}
	id := d.nextID
	d.nextID++
	d.listeners[n][event][id] = listener

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners[n][event], id)
	}
}

// ListenerCount reports how many listeners el has for event.
func (d *Document) ListenerCount(el *Element, event host.EventType) int {
	if el == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners[el.node][event])
}

// wrap returns the cached Element for n. Callers hold d.mu.
func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elements[n] = el
	return el
}

// attachForms builds form state for every form-like node. Sub-forms inherit
// the options of the enclosing form before applying their own attributes.
func (d *Document) attachForms(n *html.Node, parent *formState) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		next := parent
		if c.Type == html.ElementNode && isFormNode(c) {
			state := &formState{doc: d, node: c}
			state.opts = d.optionsFor(c, parent)
			d.forms[c] = state
			next = state
		}
		d.attachForms(c, next)
	}
}

func (d *Document) optionsFor(n *html.Node, parent *formState) *model.FormValidationOptions {
	var base model.FormValidationOptions
	switch {
	case hasAttr(n, AttrAutoValidate) && attrOf(n, AttrAutoValidate) != "false":
		base = d.defaults.Get()
	case parent != nil && parent.opts != nil && isSubFormNode(n):
		base = parent.opts.Clone()
	default:
		return nil
	}
	opts := applyOptionAttributes(n, base, d.logger)
	return &opts
}

// controlState returns the control state of n, creating it on first use.
// Callers hold d.mu.
func (d *Document) controlState(n *html.Node) *controlState {
	if state, ok := d.controls[n]; ok {
		return state
	}
	var state *controlState
	switch {
	case isControlNode(n):
		state = &controlState{doc: d, node: n, pristine: true}
	case isSubFormNode(n) && enclosingForm(n.Parent) != nil:
		state = &controlState{doc: d, node: n, pristine: true, subForm: true}
	default:
		return nil
	}
	d.controls[n] = state
	return state
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}
