package messages

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"golang.org/x/text/language"

	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/model"
)

// DefaultLocale is used when no fallback locale is configured.
const DefaultLocale = "en"

var templateAttributes = []string{"minlength", "maxlength", "min", "max", "pattern", "step", "type", "name"}

// Option configures a CatalogResolver.
type Option func(*CatalogResolver)

// WithFallbackLocale sets the locale used when negotiation fails.
func WithFallbackLocale(locale string) Option {
	return func(r *CatalogResolver) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			r.fallback = trimmed
		}
	}
}

// WithCatalogs registers additional catalogs after the embedded ones. A
// catalog for an already known locale overrides individual messages.
func WithCatalogs(catalogs ...Catalog) Option {
	return func(r *CatalogResolver) {
		r.pending = append(r.pending, catalogs...)
	}
}

// WithoutEmbeddedCatalogs skips the bundled catalogs.
func WithoutEmbeddedCatalogs() Option {
	return func(r *CatalogResolver) {
		r.skipEmbedded = true
	}
}

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *CatalogResolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// CatalogResolver resolves messages from locale catalogs.
type CatalogResolver struct {
	mu        sync.RWMutex
	tags      []language.Tag
	catalogs  []Catalog
	matcher   language.Matcher
	templates map[string]*pongo2.Template

	fallback     string
	skipEmbedded bool
	pending      []Catalog
	logger       *slog.Logger
}

var _ Resolver = (*CatalogResolver)(nil)

// NewCatalogResolver constructs a resolver seeded with the embedded catalogs
// plus any catalogs supplied through options.
func NewCatalogResolver(opts ...Option) (*CatalogResolver, error) {
	r := &CatalogResolver{
		templates: make(map[string]*pongo2.Template),
		fallback:  DefaultLocale,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}

	var catalogs []Catalog
	if !r.skipEmbedded {
		embedded, err := LoadFS(EmbeddedFS())
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, embedded...)
	}
	catalogs = append(catalogs, r.pending...)
	r.pending = nil

	for _, catalog := range catalogs {
		if err := r.Register(catalog); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds catalog, merging its messages into an existing catalog for
// the same locale.
func (r *CatalogResolver) Register(catalog Catalog) error {
	tag, err := language.Parse(catalog.Locale)
	if err != nil {
		return fmt.Errorf("messages: catalog locale %q: %w", catalog.Locale, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx, existing := range r.tags {
		if existing.String() != tag.String() {
			continue
		}
		merged := make(map[string]string, len(r.catalogs[idx].Messages)+len(catalog.Messages))
		for key, msg := range r.catalogs[idx].Messages {
			merged[key] = msg
		}
		for key, msg := range catalog.Messages {
			merged[key] = msg
		}
		r.catalogs[idx].Messages = merged
		r.dropTemplates(tag.String())
		return nil
	}

	messages := make(map[string]string, len(catalog.Messages))
	for key, msg := range catalog.Messages {
		messages[key] = msg
	}
	r.tags = append(r.tags, tag)
	r.catalogs = append(r.catalogs, Catalog{Locale: tag.String(), Messages: messages})
	r.matcher = language.NewMatcher(r.tags)
	return nil
}

// Locales lists the registered catalog locales in registration order.
func (r *CatalogResolver) Locales() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.tags))
	for _, tag := range r.tags {
		out = append(out, tag.String())
	}
	return out
}

// ErrorMessage implements Resolver.
func (r *CatalogResolver) ErrorMessage(ctx context.Context, kind model.ErrorKind, el host.Element) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	locale := localeFor(ctx, el)

	r.mu.RLock()
	idx := r.indexFor(locale)
	fallbackIdx := r.indexFor("")
	var candidates []Catalog
	if idx >= 0 {
		candidates = append(candidates, r.catalogs[idx])
	}
	if fallbackIdx >= 0 && fallbackIdx != idx {
		candidates = append(candidates, r.catalogs[fallbackIdx])
	}
	r.mu.RUnlock()

	for _, catalog := range candidates {
		key, raw, ok := lookup(catalog, kind)
		if !ok {
			continue
		}
		if key == DefaultKey {
			r.logger.DebugContext(ctx, "no message for error kind, using catalog default",
				slog.String("kind", string(kind)),
				slog.String("locale", catalog.Locale),
			)
		}
		tpl, err := r.template(catalog.Locale, key, raw)
		if err != nil {
			return "", err
		}
		out, err := tpl.Execute(templateContext(kind, el))
		if err != nil {
			return "", fmt.Errorf("messages: render %s/%s: %w", catalog.Locale, key, err)
		}
		return strings.TrimSpace(out), nil
	}

	return "", fmt.Errorf("%w: %q", ErrMessageNotFound, kind)
}

func (r *CatalogResolver) indexFor(locale string) int {
	if len(r.tags) == 0 {
		return -1
	}
	if locale != "" {
		if tag, err := language.Parse(locale); err == nil {
			if _, idx, conf := r.matcher.Match(tag); conf != language.No {
				return idx
			}
		}
	}
	if locale != r.fallback {
		return r.indexFor(r.fallback)
	}
	return 0
}

func (r *CatalogResolver) template(locale, key, raw string) (*pongo2.Template, error) {
	cacheKey := locale + "\x00" + key

	r.mu.RLock()
	tpl, ok := r.templates[cacheKey]
	r.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	tpl, err := pongo2.FromString("{% autoescape off %}" + raw + "{% endautoescape %}")
	if err != nil {
		return nil, fmt.Errorf("messages: compile %s/%s: %w", locale, key, err)
	}

	r.mu.Lock()
	r.templates[cacheKey] = tpl
	r.mu.Unlock()
	return tpl, nil
}

func (r *CatalogResolver) dropTemplates(locale string) {
	prefix := locale + "\x00"
	for key := range r.templates {
		if strings.HasPrefix(key, prefix) {
			delete(r.templates, key)
		}
	}
}

func lookup(catalog Catalog, kind model.ErrorKind) (string, string, bool) {
	if msg, ok := catalog.Messages[string(kind)]; ok && strings.TrimSpace(msg) != "" {
		return string(kind), msg, true
	}
	if msg, ok := catalog.Messages[DefaultKey]; ok && strings.TrimSpace(msg) != "" {
		return DefaultKey, msg, true
	}
	return "", "", false
}

func localeFor(ctx context.Context, el host.Element) string {
	if el != nil {
		if lang, ok := el.Attribute("lang"); ok && strings.TrimSpace(lang) != "" {
			return strings.TrimSpace(lang)
		}
	}
	return LocaleFromContext(ctx)
}

func templateContext(kind model.ErrorKind, el host.Element) pongo2.Context {
	data := pongo2.Context{"kind": string(kind)}
	if el == nil {
		return data
	}
	for _, attr := range templateAttributes {
		if value, ok := el.Attribute(attr); ok {
			data[attr] = value
		}
	}
	return data
}
