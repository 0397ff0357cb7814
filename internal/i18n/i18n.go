package i18n

import (
	"os"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
)

// SupportedLanguages lists the language codes with an embedded locale file.
var SupportedLanguages = []string{"en", "es"}

// Init loads the embedded locales and picks the active language.
// Priority: explicit language > LANG > LC_ALL > en
func Init(configLang string) error {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)

	if err := loadEmbeddedTranslations(); err != nil {
		return err
	}

	localizer = i18n.NewLocalizer(bundle, detectLanguage(configLang), "en")
	return nil
}

func detectLanguage(configLang string) string {
	if configLang != "" {
		return normalizeLanguage(configLang)
	}
	if envLang := os.Getenv("LANG"); envLang != "" {
		return normalizeLanguage(envLang)
	}
	if lcAll := os.Getenv("LC_ALL"); lcAll != "" {
		return normalizeLanguage(lcAll)
	}
	return "en"
}

// normalizeLanguage turns a locale such as "es_MX.UTF-8" into a supported
// code, falling back to English.
func normalizeLanguage(locale string) string {
	locale = strings.Split(locale, ".")[0]
	locale = strings.Replace(locale, "_", "-", 1)

	code := strings.ToLower(strings.Split(locale, "-")[0])
	if IsSupported(code) {
		return code
	}
	return "en"
}

// T translates a message ID with optional template data
func T(id string, data ...map[string]interface{}) string {
	if localizer == nil {
		return id
	}

	cfg := &i18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 && data[0] != nil {
		cfg.TemplateData = data[0]
	}

	msg, err := localizer.Localize(cfg)
	if err != nil {
		return id
	}
	return msg
}

// IsSupported checks if a language code is supported
func IsSupported(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}
