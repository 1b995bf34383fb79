package grpc

import (
	"context"

	"github.com/pitabwire/util"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/pitabwire/localedomain/localization"
)

// authorityFromContext returns the :authority pseudo header of an incoming call.
func authorityFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	authority := md.Get(":authority")
	if len(authority) == 0 {
		return ""
	}
	return authority[0]
}

func resolveLocale(ctx context.Context, resolver *localization.Resolver) context.Context {
	authority := authorityFromContext(ctx)

	locale, err := resolver.LocaleForURL(ctx, "//"+authority)
	if err != nil {
		util.Log(ctx).WithError(err).WithField("authority", authority).
			Warn("resolveLocale -- could not resolve locale from authority")
		locale = resolver.DefaultLocale()
	}

	ctx = localization.ToContext(ctx, locale)
	_ = resolver.SetCurrentLocale(ctx, locale)
	return ctx
}

// DomainLocaleUnaryInterceptor resolves the locale from the authority a call was sent to.
func DomainLocaleUnaryInterceptor(resolver *localization.Resolver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any,
		_ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		return handler(resolveLocale(ctx, resolver), req)
	}
}

// DomainLocaleStreamInterceptor is the streaming counterpart of DomainLocaleUnaryInterceptor.
func DomainLocaleStreamInterceptor(resolver *localization.Resolver) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx := resolveLocale(ss.Context(), resolver)

		// Wrap the original stream with ctx this ensures the handlers always receives a stream from which it can get the correct context.
		return handler(srv, &serverStreamWrapper{ctx, ss})
	}
}

type serverStreamWrapper struct {
	ctx context.Context
	grpc.ServerStream
}

func (s *serverStreamWrapper) Context() context.Context {
	return s.ctx
}
