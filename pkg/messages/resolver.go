package messages

import (
	"context"
	"errors"

	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/model"
)

// GenericMessage is rendered when a message cannot be resolved.
const GenericMessage = "Please correct this field"

// ErrMessageNotFound is returned when neither the kind nor the catalog
// default message exist.
var ErrMessageNotFound = errors.New("messages: message not found")

// Resolver looks up the message displayed for an error kind on el.
type Resolver interface {
	ErrorMessage(ctx context.Context, kind model.ErrorKind, el host.Element) (string, error)
}

// ResolverFunc adapts a function into a Resolver.
type ResolverFunc func(ctx context.Context, kind model.ErrorKind, el host.Element) (string, error)

// ErrorMessage delegates to the underlying function.
func (fn ResolverFunc) ErrorMessage(ctx context.Context, kind model.ErrorKind, el host.Element) (string, error) {
	return fn(ctx, kind, el)
}

type localeKey struct{}

// WithLocale stores the preferred message locale on ctx.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFromContext returns the locale stored by WithLocale, or "".
func LocaleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	locale, _ := ctx.Value(localeKey{}).(string)
	return locale
}
