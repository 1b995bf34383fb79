package http

import (
	"net/http"

	"github.com/pitabwire/util"

	"github.com/pitabwire/localedomain/localization"
	"github.com/pitabwire/localedomain/telemetry"
)

// DomainLocaleMiddleware resolves the locale from the domain a request was sent to and sets it in the context.
// Requests to unknown domains, or without a usable host, get the default locale.
// The DomainLocale span stays open while next runs, so spans started by next are its children.
func DomainLocaleMiddleware(resolver *localization.Resolver, next http.Handler) http.Handler {
	tracer := telemetry.NewTracer("localedomain/localization/http")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DomainLocale")

		locale := resolver.DefaultLocale()
		tld, err := resolver.TLDFromURL(ctx, "//"+r.Host)
		if err != nil {
			util.Log(ctx).WithError(err).WithField("host", r.Host).
				Warn("DomainLocaleMiddleware -- could not resolve locale from host")
		} else {
			span.SetAttributes(telemetry.AttrTLDKey.String(tld))
			if matched, ok := resolver.LocaleNameByTLD(tld); ok {
				locale = matched
			}
		}
		span.SetAttributes(telemetry.AttrLocaleKey.String(locale))

		ctx = localization.ToContext(ctx, locale)
		// Only fails when the host application has not configured a setter.
		_ = resolver.SetCurrentLocale(ctx, locale)

		w.Header().Set("Content-Language", locale)

		next.ServeHTTP(w, r.WithContext(ctx))

		tracer.End(ctx, span, err)
	})
}
