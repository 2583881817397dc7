package adapter

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-autovalidate/pkg/host"
)

// ClassConfig describes a class based adapter. Empty class names are skipped.
type ClassConfig struct {
	// InvalidClass and ValidClass are toggled on the control itself.
	InvalidClass string
	ValidClass   string
	// GroupClass locates the wrapping group (e.g. "form-group"); the group
	// classes are toggled on it when present.
	GroupClass        string
	GroupInvalidClass string
	GroupValidClass   string
	// HelpTag and HelpClass build the helper text element inserted after the
	// control. HelpMarker identifies previously inserted helper text.
	HelpTag    string
	HelpClass  string
	HelpMarker string
}

type classAdapter struct {
	key string
	cfg ClassConfig
}

// NewClassAdapter builds a StyleAdapter that toggles CSS classes and inserts
// helper text according to cfg.
func NewClassAdapter(key string, cfg ClassConfig) StyleAdapter {
	if strings.TrimSpace(cfg.HelpTag) == "" || !isTagName(cfg.HelpTag) {
		cfg.HelpTag = "small"
	}
	if cfg.HelpMarker == "" {
		if fields := strings.Fields(cfg.HelpClass); len(fields) > 0 {
			cfg.HelpMarker = fields[len(fields)-1]
		}
	}
	return &classAdapter{key: key, cfg: cfg}
}

func (a *classAdapter) Key() string { return a.key }

func (a *classAdapter) MakeValid(el host.Element) {
	m, ok := markupOf(el)
	if !ok {
		return
	}
	a.reset(m)
	addClass(m, a.cfg.ValidClass)
	if group, ok := a.group(m); ok {
		addClass(group, a.cfg.GroupValidClass)
	}
}

func (a *classAdapter) MakeInvalid(el host.Element, message string) {
	m, ok := markupOf(el)
	if !ok {
		return
	}
	a.reset(m)
	addClass(m, a.cfg.InvalidClass)
	if group, ok := a.group(m); ok {
		addClass(group, a.cfg.GroupInvalidClass)
	}
	if a.cfg.HelpMarker == "" {
		return
	}
	fragment := fmt.Sprintf(`<%s class="%s">%s</%s>`,
		a.cfg.HelpTag, html.EscapeString(a.cfg.HelpClass), sanitizeMessage(message), a.cfg.HelpTag)
	// Markup errors leave the class state applied; the message is lost.
	_ = m.InsertAfter(fragment)
}

func (a *classAdapter) MakeDefault(el host.Element) {
	m, ok := markupOf(el)
	if !ok {
		return
	}
	a.reset(m)
}

func (a *classAdapter) reset(m Markup) {
	if a.cfg.HelpMarker != "" {
		for {
			next, ok := m.NextElement()
			if !ok || !next.HasClass(a.cfg.HelpMarker) || !a.isHelp(next) {
				break
			}
			next.Remove()
		}
	}
	removeClass(m, a.cfg.InvalidClass, a.cfg.ValidClass)
	if group, ok := a.group(m); ok {
		removeClass(group, a.cfg.GroupInvalidClass, a.cfg.GroupValidClass)
	}
}

func (a *classAdapter) isHelp(m Markup) bool {
	if tagged, ok := m.(interface{ TagName() string }); ok {
		return strings.EqualFold(tagged.TagName(), a.cfg.HelpTag)
	}
	return true
}

func (a *classAdapter) group(m Markup) (Markup, bool) {
	if a.cfg.GroupClass == "" {
		return nil, false
	}
	return m.Closest(a.cfg.GroupClass)
}

func addClass(m Markup, names ...string) {
	var clean []string
	for _, name := range names {
		clean = append(clean, strings.Fields(name)...)
	}
	if len(clean) > 0 {
		m.AddClass(clean...)
	}
}

func removeClass(m Markup, names ...string) {
	var clean []string
	for _, name := range names {
		clean = append(clean, strings.Fields(name)...)
	}
	if len(clean) > 0 {
		m.RemoveClass(clean...)
	}
}

func isTagName(tag string) bool {
	for idx, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case idx > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return tag != ""
}
