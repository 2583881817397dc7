// Package logging holds the slog helpers shared by the pipeline packages:
// a discard logger used as the default, a small factory for the CLI, and
// attribute constructors that keep key names consistent.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/model"
)

// Format selects the handler built by New.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New builds a text or JSON logger writing to w at level.
func New(format Format, level slog.Level, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = io.Discard
	}
	opts := &slog.HandlerOptions{Level: level}
	switch Format(strings.ToLower(string(format))) {
	case FormatText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("logging: invalid format %q: must be %q or %q", format, FormatText, FormatJSON)
	}
}

// ParseLevel maps debug/info/warn/error to a slog.Level. Unknown values map
// to info.
func ParseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Error records err under "error". A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Kind records an error kind under "kind".
func Kind(kind model.ErrorKind) slog.Attr {
	return slog.String("kind", string(kind))
}

// Element groups the tag and identifying attributes of el under "element".
func Element(el host.Element) slog.Attr {
	if el == nil {
		return slog.Attr{}
	}
	attrs := []slog.Attr{slog.String("tag", el.TagName())}
	for _, name := range []string{"name", "id"} {
		if value, ok := el.Attribute(name); ok && value != "" {
			attrs = append(attrs, slog.String(name, value))
		}
	}
	return slog.Attr{Key: "element", Value: slog.GroupValue(attrs...)}
}
