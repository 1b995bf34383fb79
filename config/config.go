package config

import (
	"context"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type contextKey string

func (c contextKey) String() string {
	return "localedomain/config/" + string(c)
}

const ctxKeyConfiguration = contextKey("configurationKey")

// ToContext adds service configuration to the current supplied context.
func ToContext(ctx context.Context, config any) context.Context {
	return context.WithValue(ctx, ctxKeyConfiguration, config)
}

// FromContext extracts service configuration from the supplied context if any exist.
func FromContext[T any](ctx context.Context) T {
	if cfg, ok := ctx.Value(ctxKeyConfiguration).(T); ok {
		return cfg
	}
	var zero T
	return zero
}

// FromEnv convenience method to process configs.
func FromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// FillEnv convenience method to fill a config object with environment data.
func FillEnv(v any) error {
	return env.Parse(v)
}

type ConfigurationDefault struct {
	LogLevel      string `envDefault:"info"                      env:"LOG_LEVEL"       yaml:"log_level"`
	LogTimeFormat string `envDefault:"2006-01-02T15:04:05Z07:00" env:"LOG_TIME_FORMAT" yaml:"log_time_format"`
	LogColored    bool   `envDefault:"true"                      env:"LOG_COLORED"     yaml:"log_colored"`

	LogShowStackTrace bool `envDefault:"false" env:"LOG_SHOW_STACK_TRACE" yaml:"log_show_stack_trace"`

	ServiceName string `envDefault:"localedomain" env:"SERVICE_NAME" yaml:"service_name"`

	DefaultLocaleValue string `envDefault:"en"           env:"DEFAULT_LOCALE"      yaml:"default_locale"`
	LocalesFileValue   string `envDefault:"locales.toml" env:"LOCALES_FILE"        yaml:"locales_file"`
	TranslationsPath   string `envDefault:"localization" env:"TRANSLATIONS_FOLDER" yaml:"translations_folder"`

	TLDCacheTTLValue  time.Duration `envDefault:"5m"    env:"TLD_CACHE_TTL"  yaml:"tld_cache_ttl"`
	TLDCacheSizeValue int           `envDefault:"10000" env:"TLD_CACHE_SIZE" yaml:"tld_cache_size"`
}

type ConfigurationLogLevel interface {
	LoggingLevel() string
	LoggingTimeFormat() string
	LoggingColored() bool
	LoggingShowStackTrace() bool
	LoggingLevelIsDebug() bool
}

var _ ConfigurationLogLevel = new(ConfigurationDefault)

func (c *ConfigurationDefault) LoggingLevel() string {
	return strings.ToLower(c.LogLevel)
}

func (c *ConfigurationDefault) LoggingTimeFormat() string {
	return c.LogTimeFormat
}

func (c *ConfigurationDefault) LoggingColored() bool {
	return c.LogColored
}

func (c *ConfigurationDefault) LoggingShowStackTrace() bool {
	return c.LogShowStackTrace
}

func (c *ConfigurationDefault) LoggingLevelIsDebug() bool {
	switch c.LoggingLevel() {
	case "debug", "trace":
		return true
	default:
		return false
	}
}

type ConfigurationLocalization interface {
	DefaultLocale() string
	LocalesFile() string
	TranslationsFolder() string
	// TLDCacheTTL is how long host to tld resolutions are kept, zero or less disables caching.
	TLDCacheTTL() time.Duration
	// TLDCacheSize caps the number of cached hosts.
	TLDCacheSize() int
}

var _ ConfigurationLocalization = new(ConfigurationDefault)

func (c *ConfigurationDefault) DefaultLocale() string {
	return c.DefaultLocaleValue
}

func (c *ConfigurationDefault) LocalesFile() string {
	return c.LocalesFileValue
}

func (c *ConfigurationDefault) TranslationsFolder() string {
	return c.TranslationsPath
}

func (c *ConfigurationDefault) TLDCacheTTL() time.Duration {
	return c.TLDCacheTTLValue
}

func (c *ConfigurationDefault) TLDCacheSize() int {
	return c.TLDCacheSizeValue
}
