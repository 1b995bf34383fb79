package localization_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/pitabwire/localedomain/cache"
	"github.com/pitabwire/localedomain/localization"
)

func testLocales() []localization.Locale {
	return []localization.Locale{
		{Key: "en", TLD: ".com", Name: "English", Native: "English", Script: "Latn", Dir: "ltr"},
		{Key: "nl", TLD: ".nl", Name: "Dutch", Native: "Nederlands", Script: "Latn", Dir: "ltr"},
		{Key: "uk", TLD: ".uk", Name: "British English", Native: "English", Script: "Latn", Dir: "ltr"},
		{Key: "en-GB", TLD: ".co.uk", Name: "British English", Native: "English", Script: "Latn", Dir: "ltr"},
		{Key: "ar", TLD: ".ae", Name: "Arabic", Native: "العربية", Script: "Arab", Dir: "rtl",
			Extra: map[string]any{"regional": "ar_AE"}},
		{Key: "x-internal", Name: "Internal"},
	}
}

type ResolverTestSuite struct {
	suite.Suite
	resolver *localization.Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) SetupTest() {
	r, err := localization.NewResolver("en", testLocales())
	s.Require().NoError(err)
	s.resolver = r
}

func (s *ResolverTestSuite) TestNewResolver() {
	testCases := []struct {
		name          string
		defaultLocale string
		locales       []localization.Locale
		wantErr       error
	}{
		{
			name:          "default locale configured",
			defaultLocale: "nl",
			locales:       testLocales(),
		},
		{
			name:          "default locale missing",
			defaultLocale: "fr",
			locales:       testLocales(),
			wantErr:       localization.ErrUnsupportedLocale,
		},
		{
			name:          "no locales at all",
			defaultLocale: "en",
			wantErr:       localization.ErrUnsupportedLocale,
		},
		{
			name:          "default locale without tld",
			defaultLocale: "x-internal",
			locales:       testLocales(),
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			r, err := localization.NewResolver(tc.defaultLocale, tc.locales)
			if tc.wantErr != nil {
				s.Require().ErrorIs(err, tc.wantErr)
				s.Nil(r)
				return
			}

			s.Require().NoError(err)
			s.Equal(tc.defaultLocale, r.DefaultLocale())
		})
	}
}

func (s *ResolverTestSuite) TestRepeatedKeyKeepsPosition() {
	r, err := localization.NewResolver("en", []localization.Locale{
		{Key: "en", TLD: ".com"},
		{Key: "nl", TLD: ".nl"},
		{Key: "en", TLD: ".us"},
	})
	s.Require().NoError(err)

	locales := r.SupportedLocales()
	s.Require().Len(locales, 2)
	s.Equal("en", locales[0].Key)
	s.Equal(".us", locales[0].TLD)
	s.Equal("nl", locales[1].Key)
}

func (s *ResolverTestSuite) TestTLDFromURL() {
	testCases := []struct {
		name    string
		url     string
		want    string
		wantErr error
	}{
		{name: "configured tld", url: "http://example.com", want: ".com"},
		{name: "configured tld with path and query", url: "https://www.example.nl/over-ons?x=1", want: ".nl"},
		{name: "port is ignored", url: "http://example.nl:8080/", want: ".nl"},
		{name: "longest suffix wins", url: "http://example.co.uk", want: ".co.uk"},
		{name: "shorter suffix still matches its own host", url: "http://example.uk", want: ".uk"},
		{name: "suffix boundary, com inside com.dev", url: "http://example.com.dev", want: ".dev"},
		{name: "unmatched host falls back to last label", url: "http://example.xyz", want: ".xyz"},
		{name: "host without dot", url: "http://localhost:3000", want: ".localhost"},
		{name: "scheme relative url", url: "//example.ae/", want: ".ae"},
		{name: "no scheme means no host", url: "example.com", wantErr: localization.ErrInvalidURL},
		{name: "empty url", url: "", wantErr: localization.ErrInvalidURL},
		{name: "empty host", url: "http://", wantErr: localization.ErrInvalidURL},
		{name: "unparseable url", url: "://example.com", wantErr: localization.ErrInvalidURL},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, err := s.resolver.TLDFromURL(context.Background(), tc.url)
			if tc.wantErr != nil {
				s.Require().ErrorIs(err, tc.wantErr)
				s.Empty(got)
				return
			}

			s.Require().NoError(err)
			s.Equal(tc.want, got)
		})
	}
}

func (s *ResolverTestSuite) TestTLDFromURLEveryConfiguredLocale() {
	for _, l := range s.resolver.SupportedLocales() {
		if l.TLD == "" {
			continue
		}
		got, err := s.resolver.TLDFromURL(context.Background(), "https://shop.example"+l.TLD+"/cart")
		s.Require().NoError(err)
		s.Equal(l.TLD, got, l.Key)
	}
}

func (s *ResolverTestSuite) TestLocalizedURL() {
	testCases := []struct {
		name    string
		url     string
		key     string
		want    string
		wantErr error
	}{
		{name: "com to nl", url: "http://example.com", key: "nl", want: "http://example.nl"},
		{name: "empty key uses default", url: "http://example.nl/path?q=1", key: "", want: "http://example.com/path?q=1"},
		{name: "multi label tld", url: "http://www.example.co.uk:8080/x", key: "nl", want: "http://www.example.nl:8080/x"},
		{name: "to multi label tld", url: "https://example.nl", key: "en-GB", want: "https://example.co.uk"},
		{name: "same locale is a no-op", url: "http://example.com/a", key: "en", want: "http://example.com/a"},
		{name: "fallback tld is rewritten", url: "http://example.xyz/a", key: "nl", want: "http://example.nl/a"},
		{
			name: "only the first occurrence is rewritten",
			url:  "http://example.com/go/example.com",
			key:  "nl",
			want: "http://example.nl/go/example.com",
		},
		{
			name: "first textual occurrence may sit before the host suffix",
			url:  "http://shop.nlx.example.nl",
			key:  "en",
			want: "http://shop.comx.example.nl",
		},
		{name: "unknown locale", url: "http://example.com", key: "unknown", wantErr: localization.ErrUnsupportedLocale},
		{name: "locale without tld", url: "http://example.com", key: "x-internal", wantErr: localization.ErrLocaleWithoutTLD},
		{name: "unknown locale wins over bad url", url: "example.com", key: "unknown", wantErr: localization.ErrUnsupportedLocale},
		{name: "bad url", url: "example.com", key: "nl", wantErr: localization.ErrInvalidURL},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, err := s.resolver.LocalizedURL(context.Background(), tc.url, tc.key)
			if tc.wantErr != nil {
				s.Require().ErrorIs(err, tc.wantErr)
				s.Empty(got)
				return
			}

			s.Require().NoError(err)
			s.Equal(tc.want, got)
		})
	}
}

func (s *ResolverTestSuite) TestCurrentLocaleAccessors() {
	ctx := context.Background()

	_, err := s.resolver.CurrentLocale(ctx)
	s.Require().ErrorIs(err, localization.ErrNoLocaleGetter)
	s.Require().ErrorIs(s.resolver.SetCurrentLocale(ctx, "nl"), localization.ErrNoLocaleSetter)

	current := "en"
	r, err := localization.NewResolver("en", testLocales(),
		localization.WithLocaleGetter(func(_ context.Context) string { return current }),
		localization.WithLocaleSetter(func(_ context.Context, locale string) { current = locale }),
	)
	s.Require().NoError(err)

	got, err := r.CurrentLocale(ctx)
	s.Require().NoError(err)
	s.Equal("en", got)

	s.Require().NoError(r.SetCurrentLocale(ctx, "nl"))
	got, err = r.CurrentLocale(ctx)
	s.Require().NoError(err)
	s.Equal("nl", got)

	// The setter decides what to accept.
	s.Require().NoError(r.SetCurrentLocale(ctx, "fr"))
	s.Equal("fr", current)
}

func (s *ResolverTestSuite) TestResolversDoNotShareAccessors() {
	ctx := context.Background()

	first, err := localization.NewResolver("en", testLocales(),
		localization.WithLocaleGetter(func(_ context.Context) string { return "nl" }))
	s.Require().NoError(err)

	second, err := localization.NewResolver("en", testLocales())
	s.Require().NoError(err)

	got, err := first.CurrentLocale(ctx)
	s.Require().NoError(err)
	s.Equal("nl", got)

	_, err = second.CurrentLocale(ctx)
	s.Require().ErrorIs(err, localization.ErrNoLocaleGetter)
}

func (s *ResolverTestSuite) TestTLDCache() {
	ctx := context.Background()
	raw := cache.NewInMemoryCache()
	s.T().Cleanup(func() { _ = raw.Close() })
	tldCache := cache.NewGenericCache[string, string](raw, nil)

	r, err := localization.NewResolver("en", testLocales(), localization.WithTLDCache(tldCache, time.Minute))
	s.Require().NoError(err)

	got, err := r.TLDFromURL(ctx, "http://example.co.uk/a")
	s.Require().NoError(err)
	s.Equal(".co.uk", got)

	cached, found, err := tldCache.Get(ctx, "example.co.uk")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(".co.uk", cached)

	s.Require().NoError(tldCache.Set(ctx, "example.com", ".nl", time.Minute))
	localized, err := r.LocalizedURL(ctx, "http://example.nl", "en")
	s.Require().NoError(err)
	s.Equal("http://example.com", localized)

	got, err = r.TLDFromURL(ctx, "http://example.com")
	s.Require().NoError(err)
	s.Equal(".nl", got, "cached value is served without matching again")
}

func (s *ResolverTestSuite) TestTLDCacheKeepsOnlyMatchedHosts() {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	raw := cache.NewInMemoryCache()
	s.T().Cleanup(func() { _ = raw.Close() })

	r, err := localization.NewResolver("en", testLocales(),
		localization.WithTLDCache(cache.NewGenericCache[string, string](raw, nil), 5*time.Minute))
	s.Require().NoError(err)

	const unmatched = 1000
	for i := range unmatched {
		got, tldErr := r.TLDFromURL(ctx, fmt.Sprintf("http://x%d.attacker.invalid/", i))
		s.Require().NoError(tldErr)
		s.Equal(".invalid", got)
	}
	s.Equal(0, raw.Len(), "hosts matching no locale are never cached")

	for range 3 {
		_, err = r.TLDFromURL(ctx, "http://repeat.attacker.invalid/")
		s.Require().NoError(err)
	}
	s.Equal(int64(unmatched+3), s.fallbackCount(ctx, reader), "every fallback is counted")

	_, err = r.TLDFromURL(ctx, "https://shop.example.co.uk/")
	s.Require().NoError(err)
	s.Equal(1, raw.Len())
}

func (s *ResolverTestSuite) fallbackCount(ctx context.Context, reader sdkmetric.Reader) int64 {
	var rm metricdata.ResourceMetrics
	s.Require().NoError(reader.Collect(ctx, &rm))

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "localedomain/localization/tld_fallbacks" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			s.Require().True(ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}
