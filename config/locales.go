package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pitabwire/util"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/pitabwire/localedomain/cache"
	"github.com/pitabwire/localedomain/localization"
)

var ErrUnsupportedLocalesFormat = errors.New("unsupported locales file format")

// localeFields are the settings mapped onto localization.Locale fields, anything else ends up in Extra.
var localeFields = map[string]func(*localization.Locale, string){ //nolint:gochecknoglobals // lookup table
	"tld":    func(l *localization.Locale, v string) { l.TLD = v },
	"name":   func(l *localization.Locale, v string) { l.Name = v },
	"native": func(l *localization.Locale, v string) { l.Native = v },
	"script": func(l *localization.Locale, v string) { l.Script = v },
	"dir":    func(l *localization.Locale, v string) { l.Dir = v },
}

// LoadLocales reads the supported locales from a toml or yaml file, keeping the order they are declared in.
//
//	[nl]
//	tld = ".nl"
//	name = "Dutch"
func LoadLocales(path string) ([]localization.Locale, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locales file: %w", err)
	}

	var (
		keys     []string
		settings map[string]map[string]any
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		keys, settings, err = decodeTOMLLocales(data)
	case ".yaml", ".yml":
		keys, settings, err = decodeYAMLLocales(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocalesFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode locales file %s: %w", path, err)
	}

	locales := make([]localization.Locale, 0, len(keys))
	for _, key := range keys {
		l, localeErr := toLocale(key, settings[key])
		if localeErr != nil {
			return nil, fmt.Errorf("locales file %s: %w", path, localeErr)
		}
		locales = append(locales, l)
	}

	return locales, nil
}

func decodeTOMLLocales(data []byte) ([]string, map[string]map[string]any, error) {
	var settings map[string]map[string]any
	md, err := toml.Decode(string(data), &settings)
	if err != nil {
		return nil, nil, err
	}

	keys := make([]string, 0, len(settings))
	for _, k := range md.Keys() {
		if len(k) == 1 {
			keys = append(keys, k[0])
		}
	}
	return keys, settings, nil
}

func decodeYAMLLocales(data []byte) ([]string, map[string]map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("line %d: expected a mapping of locales", root.Line)
	}

	keys := make([]string, 0, len(root.Content)/2)
	settings := make(map[string]map[string]any, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]

		var s map[string]any
		if err := value.Decode(&s); err != nil {
			return nil, nil, fmt.Errorf("locale %q: %w", key, err)
		}
		if _, seen := settings[key]; !seen {
			keys = append(keys, key)
		}
		settings[key] = s
	}
	return keys, settings, nil
}

func toLocale(key string, settings map[string]any) (localization.Locale, error) {
	if _, err := language.Parse(key); err != nil {
		return localization.Locale{}, fmt.Errorf("locale %q is not a valid language tag: %w", key, err)
	}

	l := localization.Locale{Key: key}
	for name, value := range settings {
		assign, known := localeFields[name]
		if !known {
			if l.Extra == nil {
				l.Extra = map[string]any{}
			}
			l.Extra[name] = value
			continue
		}

		str, ok := value.(string)
		if !ok {
			return localization.Locale{}, fmt.Errorf("locale %q: %s must be a string, got %T", key, name, value)
		}
		assign(&l, str)
	}
	return l, nil
}

// NewResolver builds a resolver from the configured locales file and default locale.
// The returned function releases the tld cache and must be called once the resolver is no longer used.
func NewResolver(
	ctx context.Context,
	cfg ConfigurationLocalization,
	opts ...localization.Option,
) (*localization.Resolver, func(), error) {
	locales, err := LoadLocales(cfg.LocalesFile())
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	if ttl := cfg.TLDCacheTTL(); ttl > 0 {
		raw := cache.NewInMemoryCache(cache.WithMaxEntries(cfg.TLDCacheSize()))
		cleanup = func() { util.CloseAndLogOnError(ctx, raw) }
		opts = append(opts, localization.WithTLDCache(cache.NewGenericCache[string, string](raw, nil), ttl))
	}

	resolver, err := localization.NewResolver(cfg.DefaultLocale(), locales, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	util.Log(ctx).WithField("locales", len(locales)).WithField("default", cfg.DefaultLocale()).
		Debug("NewResolver -- loaded supported locales")

	return resolver, cleanup, nil
}
