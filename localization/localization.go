package localization

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pitabwire/util"
	"golang.org/x/text/language"
)

// Manager translates messages into the locale a request was resolved to.
type Manager interface {
	Bundle() *i18n.Bundle
	Translate(ctx context.Context, messageID string) string
	TranslateWithMap(ctx context.Context, messageID string, variables map[string]any) string
	TranslateWithMapAndCount(
		ctx context.Context,
		messageID string,
		variables map[string]any,
		count int,
	) string
}

type managerImpl struct {
	bundle   *i18n.Bundle
	resolver *Resolver
}

// NewManager loads messages.<locale>.toml from translationsFolder for every supported
// locale of resolver. Locales without a messages file fall back to the default locale.
func NewManager(ctx context.Context, resolver *Resolver, translationsFolder string) (Manager, error) {
	if translationsFolder == "" {
		translationsFolder = "localization"
	}

	defaultTag, err := language.Parse(resolver.DefaultLocale())
	if err != nil {
		util.Log(ctx).WithError(err).WithField("locale", resolver.DefaultLocale()).
			Warn("NewManager -- default locale is not a valid language tag, using english")
		defaultTag = language.English
	}

	bundle := i18n.NewBundle(defaultTag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, l := range resolver.SupportedLocales() {
		path := filepath.Join(translationsFolder, fmt.Sprintf("messages.%s.toml", l.Key))

		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			util.Log(ctx).WithField("locale", l.Key).WithField("path", path).
				Debug("NewManager -- no messages file for locale")
			continue
		}

		if _, loadErr := bundle.LoadMessageFile(path); loadErr != nil {
			return nil, fmt.Errorf("load messages for locale %q: %w", l.Key, loadErr)
		}
	}

	return &managerImpl{bundle: bundle, resolver: resolver}, nil
}

// Bundle Access the translation bundle instantiated in the system.
func (m *managerImpl) Bundle() *i18n.Bundle {
	return m.bundle
}

// Translate performs a quick translation based on the supplied message id.
func (m *managerImpl) Translate(ctx context.Context, messageID string) string {
	return m.TranslateWithMap(ctx, messageID, map[string]any{})
}

// TranslateWithMap performs a translation with variables based on the supplied message id.
func (m *managerImpl) TranslateWithMap(ctx context.Context, messageID string, variables map[string]any) string {
	return m.TranslateWithMapAndCount(ctx, messageID, variables, 1)
}

// TranslateWithMapAndCount performs a translation with variables based on the supplied message id and can pluralize.
func (m *managerImpl) TranslateWithMapAndCount(
	ctx context.Context,
	messageID string,
	variables map[string]any,
	count int,
) string {
	localizer := i18n.NewLocalizer(m.bundle, m.activeLocale(ctx), m.resolver.DefaultLocale())

	translated, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:      messageID,
		DefaultMessage: &i18n.Message{ID: messageID},
		TemplateData:   variables,
		PluralCount:    count,
	})
	if err != nil {
		util.Log(ctx).WithError(err).WithField("messageID", messageID).
			Error("TranslateWithMapAndCount -- could not perform translation")
	}

	return translated
}

// activeLocale prefers the locale carried by the request, then the host
// application's current locale and finally the default locale.
func (m *managerImpl) activeLocale(ctx context.Context) string {
	if locale := FromContext(ctx); locale != "" {
		return locale
	}

	if locale, err := m.resolver.CurrentLocale(ctx); err == nil && locale != "" {
		return locale
	}

	return m.resolver.DefaultLocale()
}
