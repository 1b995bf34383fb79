package localization

import (
	"context"
	"time"

	"github.com/pitabwire/localedomain/cache"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithLocaleGetter sets the function used to read the active locale.
func WithLocaleGetter(getter func(ctx context.Context) string) Option {
	return func(r *Resolver) {
		r.getter = getter
	}
}

// WithLocaleSetter sets the function used to change the active locale.
func WithLocaleSetter(setter func(ctx context.Context, locale string)) Option {
	return func(r *Resolver) {
		r.setter = setter
	}
}

// WithLocaleStore wires both accessors to store.
func WithLocaleStore(store LocaleStore) Option {
	return func(r *Resolver) {
		r.getter = store.Locale
		r.setter = store.SetLocale
	}
}

// WithTLDCache memoizes host to tld resolution in c for ttl.
func WithTLDCache(c cache.Cache[string, string], ttl time.Duration) Option {
	return func(r *Resolver) {
		r.tldCache = c
		r.tldCacheTTL = ttl
	}
}
