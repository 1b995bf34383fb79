package localization

import "errors"

var (
	// ErrUnsupportedLocale is returned when a locale key is not configured.
	ErrUnsupportedLocale = errors.New("unsupported locale")
	// ErrInvalidURL is returned when a url has no parseable host.
	ErrInvalidURL = errors.New("invalid url")
	// ErrLocaleWithoutTLD is returned when a url is localized to a locale with no tld configured.
	ErrLocaleWithoutTLD = errors.New("locale has no tld configured")
	// ErrNoLocaleGetter is returned when the current locale is read without a getter configured.
	ErrNoLocaleGetter = errors.New("no locale getter configured")
	// ErrNoLocaleSetter is returned when the current locale is set without a setter configured.
	ErrNoLocaleSetter = errors.New("no locale setter configured")
)
