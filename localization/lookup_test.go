package localization_test

import (
	"context"
	"sync"

	"github.com/pitabwire/localedomain/localization"
)

func (s *ResolverTestSuite) TestLocaleLookups() {
	s.True(s.resolver.HasSupportedLocale("nl"))
	s.False(s.resolver.HasSupportedLocale("fr"))

	s.Equal(".co.uk", s.resolver.TLDForLocale("en-GB"))
	s.Equal("Dutch", s.resolver.NameForLocale("nl"))
	s.Equal("Nederlands", s.resolver.NativeForLocale("nl"))
	s.Equal("Arab", s.resolver.ScriptForLocale("ar"))
	s.Equal("rtl", s.resolver.DirForLocale("ar"))
	s.Empty(s.resolver.TLDForLocale("x-internal"))
	s.Empty(s.resolver.NameForLocale("fr"))

	ar, ok := s.resolver.SupportedLocale("ar")
	s.Require().True(ok)
	regional, ok := ar.Setting("regional")
	s.Require().True(ok)
	s.Equal("ar_AE", regional)

	_, ok = s.resolver.SupportedLocale("fr")
	s.False(ok)

	keys := make([]string, 0)
	for _, l := range s.resolver.SupportedLocales() {
		keys = append(keys, l.Key)
	}
	s.Equal([]string{"en", "nl", "uk", "en-GB", "ar", "x-internal"}, keys)
}

func (s *ResolverTestSuite) TestLocaleByTLD() {
	r, err := localization.NewResolver("en", []localization.Locale{
		{Key: "en", TLD: ".com"},
		{Key: "en-US", TLD: ".com"},
		{Key: "nl", TLD: ".nl"},
		{Key: "x-internal"},
	})
	s.Require().NoError(err)

	testCases := []struct {
		name   string
		tld    string
		want   string
		wantOK bool
	}{
		{name: "first configured locale wins a shared tld", tld: ".com", want: "en", wantOK: true},
		{name: "single match", tld: ".nl", want: "nl", wantOK: true},
		{name: "unknown tld", tld: ".xyz"},
		{name: "empty tld never matches a locale without tld", tld: ""},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, ok := r.LocaleNameByTLD(tc.tld)
			s.Equal(tc.wantOK, ok)
			s.Equal(tc.want, got)
		})
	}
}

func (s *ResolverTestSuite) TestContextStore() {
	ctx := context.Background()

	s.Empty(localization.FromContext(ctx))
	localization.ContextStore{}.SetLocale(ctx, "nl")
	s.Empty(localization.FromContext(ctx), "setting without a holder is a no-op")

	ctx = localization.ToContext(ctx, "en")
	r, err := localization.NewResolver("en", testLocales(), localization.WithLocaleStore(localization.ContextStore{}))
	s.Require().NoError(err)

	got, err := r.CurrentLocale(ctx)
	s.Require().NoError(err)
	s.Equal("en", got)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.SetCurrentLocale(ctx, "nl")
		}()
	}
	wg.Wait()

	got, err = r.CurrentLocale(ctx)
	s.Require().NoError(err)
	s.Equal("nl", got)
	s.Equal("nl", localization.FromContext(ctx))
}
