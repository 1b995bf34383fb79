package localization

import (
	"context"
	"sync"
)

type contextKey string

func (c contextKey) String() string {
	return "localedomain/localization/" + string(c)
}

const ctxKeyLocale = contextKey("localeKey")

type localeHolder struct {
	mu     sync.RWMutex
	locale string
}

func (h *localeHolder) get() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.locale
}

func (h *localeHolder) set(locale string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.locale = locale
}

// ToContext adds the active locale to the supplied context.
// Handlers further down the chain may change it through a ContextStore.
func ToContext(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, &localeHolder{locale: locale})
}

// FromContext extracts the active locale from the supplied context if any exist.
func FromContext(ctx context.Context) string {
	h, ok := ctx.Value(ctxKeyLocale).(*localeHolder)
	if !ok {
		return ""
	}
	return h.get()
}

// LocaleStore gives the resolver access to the host application's notion of the active locale.
type LocaleStore interface {
	Locale(ctx context.Context) string
	SetLocale(ctx context.Context, locale string)
}

// ContextStore keeps the active locale in the request context set up by ToContext.
// Setting a locale on a context without one is a no-op.
type ContextStore struct{}

func (ContextStore) Locale(ctx context.Context) string {
	return FromContext(ctx)
}

func (ContextStore) SetLocale(ctx context.Context, locale string) {
	if h, ok := ctx.Value(ctxKeyLocale).(*localeHolder); ok {
		h.set(locale)
	}
}
