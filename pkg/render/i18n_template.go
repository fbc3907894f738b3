package render

import "strings"

// TemplateI18nConfig configures template-level translation helpers.
type TemplateI18nConfig struct {
	// FuncName customizes the translator helper name (defaults to "translate").
	FuncName string
	// OnMissing controls the string returned when a translation is missing.
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns helpers suitable for a template context:
//
//	translate(localeSrc, key, fallback) string
//	current_locale(localeSrc) string
//
// localeSrc is either a locale string or a PageView.
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	translateName := strings.TrimSpace(cfg.FuncName)
	if translateName == "" {
		translateName = "translate"
	}

	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	return map[string]any{
		translateName: func(localeSrc any, key string, fallback string) string {
			return translate(resolveLocale(localeSrc), key, fallback, t, onMissing)
		},
		"current_locale": resolveLocale,
	}
}

func resolveLocale(src any) string {
	switch value := src.(type) {
	case string:
		return value
	case PageView:
		return value.Locale
	case *PageView:
		if value != nil {
			return value.Locale
		}
	case map[string]any:
		if locale, ok := value["locale"].(string); ok {
			return locale
		}
	}
	return ""
}
