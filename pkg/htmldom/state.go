package htmldom

import (
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/model"
)

// formState is the host.Form of a form-like node.
type formState struct {
	doc       *Document
	node      *html.Node
	opts      *model.FormValidationOptions
	submitted bool
}

var _ host.Form = (*formState)(nil)

// Submitted reports whether this form or an enclosing one was submitted.
func (f *formState) Submitted() bool {
	f.doc.mu.Lock()
	defer f.doc.mu.Unlock()
	for n := f.node; n != nil; n = n.Parent {
		if state := f.doc.forms[n]; state != nil && state.submitted {
			return true
		}
	}
	return false
}

// Options returns a copy of the form options, or nil when the form has not
// opted in.
func (f *formState) Options() *model.FormValidationOptions {
	if f.opts == nil {
		return nil
	}
	clone := f.opts.Clone()
	return &clone
}

// ErrorFlags aggregates the flags of every control under the form.
func (f *formState) ErrorFlags() model.ErrorFlags {
	f.doc.mu.Lock()
	defer f.doc.mu.Unlock()
	return f.doc.aggregateFlags(f.node)
}

// controlState is the host.Control of a field, custom control or sub-form.
type controlState struct {
	doc      *Document
	node     *html.Node
	pristine bool
	subForm  bool
	external model.ErrorFlags
}

var (
	_ host.Control              = (*controlState)(nil)
	_ host.ExternalErrorClearer = (*controlState)(nil)
)

// Pristine implements host.Control. A sub-form is pristine while all of its
// controls are.
func (c *controlState) Pristine() bool {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	if !c.subForm {
		return c.pristine
	}
	pristine := true
	c.doc.eachControl(c.node, func(state *controlState) {
		pristine = pristine && state.pristine
	})
	return pristine
}

// Invalid implements host.Control.
func (c *controlState) Invalid() bool {
	return c.ErrorFlags().Any()
}

// ErrorFlags implements host.Control.
func (c *controlState) ErrorFlags() model.ErrorFlags {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	if c.subForm {
		return c.doc.aggregateFlags(c.node)
	}
	return c.flags()
}

// SetPristine implements host.Control.
func (c *controlState) SetPristine() {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	if c.subForm {
		c.doc.eachControl(c.node, func(state *controlState) { state.pristine = true })
		return
	}
	c.pristine = true
}

// RemoveAllExternalValidation implements host.ExternalErrorClearer.
func (c *controlState) RemoveAllExternalValidation() {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	c.external = nil
}

// flags derives constraint validation flags from the current value followed
// by external flags. Callers hold doc.mu.
func (c *controlState) flags() model.ErrorFlags {
	return constraintFlags(c.node).Merge(c.external)
}

// eachControl visits the field controls under root. Callers hold d.mu.
func (d *Document) eachControl(root *html.Node, visit func(*controlState)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			if isControlNode(child) {
				visit(d.controlState(child))
			}
			walk(child)
		}
	}
	walk(root)
}

func (d *Document) aggregateFlags(root *html.Node) model.ErrorFlags {
	var out model.ErrorFlags
	d.eachControl(root, func(state *controlState) {
		out = out.Merge(state.flags())
	})
	return out
}

// constraintFlags evaluates the HTML constraint attributes of n against its
// value in a fixed order: required, minlength, maxlength, pattern, email,
// url, number, min, max.
func constraintFlags(n *html.Node) model.ErrorFlags {
	value := valueOf(n)
	empty := strings.TrimSpace(value) == ""
	kind := ""
	if n.Data == "input" {
		kind = inputType(n)
	}

	var flags model.ErrorFlags
	if hasAttr(n, "required") {
		flags.Set(model.ErrorRequired, empty)
	}
	if limit, ok := intAttr(n, "minlength"); ok {
		flags.Set(model.ErrorMinLength, !empty && utf8.RuneCountInString(value) < limit)
	}
	if limit, ok := intAttr(n, "maxlength"); ok {
		flags.Set(model.ErrorMaxLength, utf8.RuneCountInString(value) > limit)
	}
	if pattern := attrOf(n, "pattern"); pattern != "" {
		if re, err := regexp.Compile("^(?:" + pattern + ")$"); err == nil {
			flags.Set(model.ErrorPattern, !empty && !re.MatchString(value))
		}
	}
	switch kind {
	case "email":
		flags.Set(model.ErrorEmail, !empty && !validEmail(value))
	case "url":
		flags.Set(model.ErrorURL, !empty && !validURL(value))
	case "number", "range":
		number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		flags.Set(model.ErrorNumber, !empty && err != nil)
		if limit, ok := floatAttr(n, "min"); ok {
			flags.Set(model.ErrorMin, !empty && err == nil && number < limit)
		}
		if limit, ok := floatAttr(n, "max"); ok {
			flags.Set(model.ErrorMax, !empty && err == nil && number > limit)
		}
	}
	return flags
}

func intAttr(n *html.Node, name string) (int, bool) {
	if !hasAttr(n, name) {
		return 0, false
	}
	value, err := strconv.Atoi(strings.TrimSpace(attrOf(n, name)))
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

func floatAttr(n *html.Node, name string) (float64, bool) {
	if !hasAttr(n, name) {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(attrOf(n, name)), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == strings.TrimSpace(value) && strings.Contains(addr.Address, "@")
}

func validURL(value string) bool {
	u, err := url.ParseRequestURI(strings.TrimSpace(value))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
