// Package i18nsvc localizes the labels shown by the calendar.
package i18nsvc

import (
	"io/fs"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/fs"
)

const localesDir = "locales"

// Translator is a thin wrapper around go-i18n's Bundle.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	logger          core.Logger
}

// NewTranslator loads every embedded active.*.toml file.
// defaultLocale is used when a request asks for no or an unknown language.
func NewTranslator(defaultLocale string, logger core.Logger) (*Translator, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(appfs.FS, path.Join(localesDir, "active.*.toml"))
	if err != nil {
		return nil, errors.Wrap(err, "listing locale files")
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(appfs.FS, file); err != nil {
			return nil, errors.Wrapf(err, "loading %s", file)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		logger:          logger,
	}, nil
}

// Languages returns the tags with loaded messages.
func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}

// T renders the message identified by key for the given locale, which may also be an
// Accept-Language header value. It falls back to the default language, then to the key itself.
func (t *Translator) T(locale, key string, data map[string]interface{}) string {
	if key == "" {
		return ""
	}

	languages := make([]string, 0, 2)
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		if t.logger != nil {
			t.logger.Debug("i18n: localize failed", map[string]interface{}{"key": key, "locales": languages}, err)
		}
		return key
	}
	return msg
}
