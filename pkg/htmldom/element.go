package htmldom

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-autovalidate/pkg/adapter"
	"github.com/goliatone/go-autovalidate/pkg/host"
)

// Element wraps a single element node. Elements are cached per node, so the
// same node always yields the same *Element.
type Element struct {
	doc  *Document
	node *html.Node
}

var (
	_ host.Element               = (*Element)(nil)
	_ host.ControlCollections    = (*Element)(nil)
	_ host.CustomControlRegistry = (*Element)(nil)
	_ host.EventTarget           = (*Element)(nil)
	_ adapter.Markup             = (*Element)(nil)
)

// TagName implements host.Element.
func (e *Element) TagName() string {
	return strings.ToLower(e.node.Data)
}

// HasAttribute implements host.Element.
func (e *Element) HasAttribute(name string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return hasAttr(e.node, name)
}

// Attribute implements host.Element.
func (e *Element) Attribute(name string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if !hasAttr(e.node, name) {
		return "", false
	}
	return attrOf(e.node, name), true
}

// Size implements host.Element. Hidden elements report a zero box; visible
// ones report their width and height attributes, defaulting to 1.
func (e *Element) Size() (float64, float64) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if isHidden(e.node) {
		return 0, 0
	}
	return dimension(e.node, "width"), dimension(e.node, "height")
}

// Form implements host.Element.
func (e *Element) Form() host.Form {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	n := enclosingForm(e.node)
	if n == nil {
		return nil
	}
	state := e.doc.forms[n]
	if state == nil {
		return nil
	}
	return state
}

// Control implements host.Element.
func (e *Element) Control() host.Control {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	state := e.doc.controlState(e.node)
	if state == nil {
		return nil
	}
	return state
}

// Value returns the current value of a control.
func (e *Element) Value() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return valueOf(e.node)
}

// Name returns the name attribute, falling back to the id.
func (e *Element) Name() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if name := attrOf(e.node, "name"); name != "" {
		return name
	}
	return attrOf(e.node, "id")
}

// InputType returns the type of an input element ("text" when unset) or
// the tag name for other elements.
func (e *Element) InputType() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.node.Data != "input" {
		return e.TagName()
	}
	return inputType(e.node)
}

// OptionValues lists the option values of a select element.
func (e *Element) OptionValues() []string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var out []string
	for _, opt := range options(e.node) {
		out = append(out, optionValue(opt))
	}
	return out
}

// AllElements implements host.ControlCollections. The document never exposes
// a separate all-elements collection.
func (e *Element) AllElements() []host.Element { return nil }

// Elements implements host.ControlCollections. For form-like elements it
// lists the native controls and direct sub-forms owned by the element; other
// elements have no native collection.
func (e *Element) Elements() []host.Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if !isFormNode(e.node) {
		return nil
	}
	out := []host.Element{}
	e.walkOwned(func(n *html.Node) {
		if isSubFormNode(n) || (isControlNode(n) && !isCustomNode(n)) {
			out = append(out, e.doc.wrap(n))
		}
	})
	return out
}

// ChildNodes implements host.ControlCollections.
func (e *Element) ChildNodes() []host.Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var out []host.Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// CustomControls implements host.CustomControlRegistry.
func (e *Element) CustomControls() []host.Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if !isFormNode(e.node) {
		return nil
	}
	var out []host.Element
	e.walkOwned(func(n *html.Node) {
		if isCustomNode(n) {
			out = append(out, e.doc.wrap(n))
		}
	})
	return out
}

// walkOwned visits descendants whose nearest form-like ancestor is e,
// including the sub-form nodes themselves but not their contents.
func (e *Element) walkOwned(visit func(*html.Node)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			visit(c)
			if isFormNode(c) {
				continue
			}
			walk(c)
		}
	}
	walk(e.node)
}

// On implements host.EventTarget.
func (e *Element) On(event host.EventType, listener host.Listener) func() {
	return e.doc.on(e.node, event, listener)
}

// Submit is shorthand for Document.Submit.
func (e *Element) Submit(ctx context.Context) error {
	return e.doc.Submit(ctx, e)
}

// AddClass implements adapter.Markup.
func (e *Element) AddClass(names ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	classes := strings.Fields(attrOf(e.node, "class"))
	for _, name := range names {
		if !slices.Contains(classes, name) {
			classes = append(classes, name)
		}
	}
	setAttr(e.node, "class", strings.Join(classes, " "))
}

// RemoveClass implements adapter.Markup.
func (e *Element) RemoveClass(names ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if !hasAttr(e.node, "class") {
		return
	}
	classes := slices.DeleteFunc(strings.Fields(attrOf(e.node, "class")), func(class string) bool {
		return slices.Contains(names, class)
	})
	if len(classes) == 0 {
		removeAttr(e.node, "class")
		return
	}
	setAttr(e.node, "class", strings.Join(classes, " "))
}

// HasClass implements adapter.Markup.
func (e *Element) HasClass(name string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return hasClass(e.node, name)
}

// NextElement implements adapter.Markup.
func (e *Element) NextElement() (adapter.Markup, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for n := e.node.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return e.doc.wrap(n), true
		}
	}
	return nil, false
}

// Closest implements adapter.Markup. The element itself is not considered.
func (e *Element) Closest(class string) (adapter.Markup, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for n := e.node.Parent; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && hasClass(n, class) {
			return e.doc.wrap(n), true
		}
	}
	return nil, false
}

// InsertAfter implements adapter.Markup.
func (e *Element) InsertAfter(fragment string) error {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.node.Parent == nil {
		return fmt.Errorf("htmldom: insert after detached <%s>", e.node.Data)
	}
	parent := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
	if err != nil {
		return fmt.Errorf("htmldom: parse fragment: %w", err)
	}
	anchor := e.node.NextSibling
	for _, n := range nodes {
		e.node.Parent.InsertBefore(n, anchor)
	}
	return nil
}

// Remove implements adapter.Markup.
func (e *Element) Remove() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// String renders the element.
func (e *Element) String() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var b strings.Builder
	if err := html.Render(&b, e.node); err != nil {
		return ""
	}
	return b.String()
}

func (e *Element) attr(name string) string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return attrOf(e.node, name)
}

func dimension(n *html.Node, name string) float64 {
	raw := strings.TrimSuffix(strings.TrimSpace(attrOf(n, name)), "px")
	if raw == "" {
		return 1
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 1
	}
	return value
}
