package localization

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pitabwire/util"
	"go.opentelemetry.io/otel/metric"

	"github.com/pitabwire/localedomain/cache"
	"github.com/pitabwire/localedomain/telemetry"
)

const instrumentationName = "localedomain/localization"

// Resolver maps urls onto the domains of the configured locales.
// It is immutable once constructed and safe for concurrent use.
type Resolver struct {
	defaultLocale string
	locales       *localeSet

	getter func(ctx context.Context) string
	setter func(ctx context.Context, locale string)

	tldCache    cache.Cache[string, string]
	tldCacheTTL time.Duration

	fallbacks metric.Int64Counter
}

// NewResolver registers the supplied locales and validates that defaultLocale is one of them.
func NewResolver(defaultLocale string, locales []Locale, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		defaultLocale: defaultLocale,
		locales:       newLocaleSet(len(locales)),
		fallbacks: telemetry.DimensionlessMeasure(
			instrumentationName, "/tld_fallbacks", "Hosts that matched no configured tld"),
	}

	for _, l := range locales {
		r.locales.add(l)
	}

	if !r.locales.has(defaultLocale) {
		return nil, fmt.Errorf("%w: default locale %q is not among the supported locales",
			ErrUnsupportedLocale, defaultLocale)
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

func (r *Resolver) DefaultLocale() string {
	return r.defaultLocale
}

// CurrentLocale returns the active locale as reported by the configured getter.
func (r *Resolver) CurrentLocale(ctx context.Context) (string, error) {
	if r.getter == nil {
		return "", ErrNoLocaleGetter
	}
	return r.getter(ctx), nil
}

// SetCurrentLocale hands locale to the configured setter. The locale is not
// checked against the supported locales, that is left to the setter.
func (r *Resolver) SetCurrentLocale(ctx context.Context, locale string) error {
	if r.setter == nil {
		return ErrNoLocaleSetter
	}
	r.setter(ctx, locale)
	return nil
}

// TLDFromURL returns the configured tld that best matches the host of rawURL.
// When none matches, the last label of the host is returned prefixed with a dot.
// Only hosts matching a configured tld are cached, fallbacks are resolved every time.
func (r *Resolver) TLDFromURL(ctx context.Context, rawURL string) (string, error) {
	host, err := hostFromURL(rawURL)
	if err != nil {
		return "", err
	}

	if r.tldCache != nil {
		tld, found, cacheErr := r.tldCache.Get(ctx, host)
		if cacheErr != nil {
			util.Log(ctx).WithError(cacheErr).WithField("host", host).Warn("TLDFromURL -- could not read tld cache")
		} else if found {
			return tld, nil
		}
	}

	tld, matched := r.matchTLD(host)
	if !matched {
		r.fallbacks.Add(ctx, 1)
		util.Log(ctx).WithField("host", host).WithField("tld", tld).
			Debug("TLDFromURL -- host matches no configured tld, using its last label")
		return tld, nil
	}

	if r.tldCache != nil {
		if cacheErr := r.tldCache.Set(ctx, host, tld, r.tldCacheTTL); cacheErr != nil {
			util.Log(ctx).WithError(cacheErr).WithField("host", host).Warn("TLDFromURL -- could not store tld in cache")
		}
	}

	return tld, nil
}

// matchTLD reports the longest configured tld host ends with, or the fallback and false.
func (r *Resolver) matchTLD(host string) (string, bool) {
	best := ""
	for _, key := range r.locales.keys {
		tld := r.locales.locales[key].TLD
		// A suffix match keeps ".com" from matching "example.com.dev".
		if tld == "" || !strings.HasSuffix(host, tld) {
			continue
		}
		// Strictly longer only, so equal lengths keep the first configured locale.
		if len(tld) > len(best) {
			best = tld
		}
	}

	if best != "" {
		return best, true
	}

	return "." + host[strings.LastIndex(host, ".")+1:], false
}

// LocalizedURL rewrites rawURL to the domain of the locale identified by key,
// an empty key selects the default locale.
//
// The first occurrence of the current tld anywhere in rawURL is replaced,
// so a tld repeated earlier in the url (for instance in the user info) is the one rewritten.
func (r *Resolver) LocalizedURL(ctx context.Context, rawURL string, key string) (string, error) {
	if key == "" {
		key = r.DefaultLocale()
	}

	target, ok := r.locales.get(key)
	if !ok {
		return "", fmt.Errorf("%w: %q is not among the supported locales", ErrUnsupportedLocale, key)
	}

	if target.TLD == "" {
		return "", fmt.Errorf("%w: %q", ErrLocaleWithoutTLD, key)
	}

	currentTLD, err := r.TLDFromURL(ctx, rawURL)
	if err != nil {
		return "", err
	}

	return strings.Replace(rawURL, currentTLD, target.TLD, 1), nil
}

// LocaleForURL returns the locale whose tld rawURL is served from,
// or the default locale when no locale claims that tld.
func (r *Resolver) LocaleForURL(ctx context.Context, rawURL string) (string, error) {
	tld, err := r.TLDFromURL(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if locale, ok := r.LocaleNameByTLD(tld); ok {
		return locale, nil
	}

	return r.DefaultLocale(), nil
}

func hostFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %q could not be parsed: %w", ErrInvalidURL, rawURL, err)
	}

	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("%w: %q could not be parsed, make sure the url contains a host", ErrInvalidURL, rawURL)
	}

	return host, nil
}
