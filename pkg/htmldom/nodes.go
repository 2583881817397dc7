package htmldom

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-autovalidate/pkg/host"
)

var (
	controlTags      = []string{"input", "textarea", "select"}
	nonControlInputs = []string{"submit", "button", "reset", "image"}
)

func attrOf(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, name string) bool {
	return slices.ContainsFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == name
	})
}

func setAttr(n *html.Node, name, value string) {
	for idx := range n.Attr {
		if n.Attr[idx].Namespace == "" && n.Attr[idx].Key == name {
			n.Attr[idx].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == name
	})
}

func hasClass(n *html.Node, name string) bool {
	return slices.Contains(strings.Fields(attrOf(n, "class")), name)
}

func isSubFormNode(n *html.Node) bool {
	return n.Type == html.ElementNode && hasAttr(n, host.AttrSubForm)
}

func isFormNode(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "form" || hasAttr(n, host.AttrSubForm))
}

func isCustomNode(n *html.Node) bool {
	return n.Type == html.ElementNode && hasAttr(n, host.AttrCustomControl)
}

// isControlNode reports whether n carries control state: a named native
// field other than a button, or a registered custom control.
func isControlNode(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if isCustomNode(n) {
		return true
	}
	if !slices.Contains(controlTags, n.Data) || attrOf(n, "name") == "" {
		return false
	}
	if n.Data == "input" && slices.Contains(nonControlInputs, inputType(n)) {
		return false
	}
	return true
}

func inputType(n *html.Node) string {
	kind := strings.ToLower(strings.TrimSpace(attrOf(n, "type")))
	if kind == "" {
		return "text"
	}
	return kind
}

// enclosingForm returns the nearest form-like node at or above n.
func enclosingForm(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if isFormNode(n) {
			return n
		}
	}
	return nil
}

func isHidden(n *html.Node) bool {
	if n.Data == "input" && inputType(n) == "hidden" {
		return true
	}
	for ; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if hasAttr(n, "hidden") {
			return true
		}
		style := strings.ReplaceAll(strings.ToLower(attrOf(n, "style")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func options(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "option" {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func optionValue(n *html.Node) string {
	if hasAttr(n, "value") {
		return attrOf(n, "value")
	}
	return strings.TrimSpace(textOf(n))
}

func valueOf(n *html.Node) string {
	switch {
	case isCustomNode(n):
		return attrOf(n, "data-value")
	case n.Data == "textarea":
		return textOf(n)
	case n.Data == "select":
		opts := options(n)
		for _, opt := range opts {
			if hasAttr(opt, "selected") {
				return optionValue(opt)
			}
		}
		if len(opts) > 0 {
			return optionValue(opts[0])
		}
		return ""
	case n.Data == "input" && (inputType(n) == "checkbox" || inputType(n) == "radio"):
		if !hasAttr(n, "checked") {
			return ""
		}
		if hasAttr(n, "value") {
			return attrOf(n, "value")
		}
		return "on"
	default:
		return attrOf(n, "value")
	}
}

func setValue(n *html.Node, value string) {
	switch {
	case isCustomNode(n):
		setAttr(n, "data-value", value)
	case n.Data == "textarea":
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		if value != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		}
	case n.Data == "select":
		for _, opt := range options(n) {
			if optionValue(opt) == value {
				setAttr(opt, "selected", "")
			} else {
				removeAttr(opt, "selected")
			}
		}
	case n.Data == "input" && (inputType(n) == "checkbox" || inputType(n) == "radio"):
		if value == "" || value == "false" {
			removeAttr(n, "checked")
		} else {
			setAttr(n, "checked", "")
		}
	default:
		setAttr(n, "value", value)
	}
}
