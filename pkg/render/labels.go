package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is reported to the missing handler when no Translator
// is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated. params carries {"default": fallback} as its first element.
type MissingTranslationHandler func(locale, key string, params []any, err error) string

func missingTranslationDefault(_ string, key string, params []any, _ error) string {
	if len(params) > 0 {
		if defaults, ok := params[0].(map[string]any); ok {
			if fallback, ok := defaults["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// Labels carries the user-visible captions of the page chrome and field
// controls.
type Labels struct {
	Submit           string
	SettingsSaved    string
	SelectFile       string
	SelectImage      string
	RemoveImage      string
	AddGalleryImages string
	AddToGallery     string
	ChooseFile       string
	AddFile          string
}

// DefaultLabels returns the English captions.
func DefaultLabels() Labels {
	return Labels{
		Submit:           "Save Changes",
		SettingsSaved:    "Settings saved.",
		SelectFile:       "Select file",
		SelectImage:      "Select image",
		RemoveImage:      "Remove image",
		AddGalleryImages: "Add images in gallery",
		AddToGallery:     "Add in gallery",
		ChooseFile:       "Choose a file",
		AddFile:          "Add file",
	}
}

// Translation keys looked up by Localize.
const (
	LabelKeySubmit           = "optionspage.submit"
	LabelKeySettingsSaved    = "optionspage.settings_saved"
	LabelKeySelectFile       = "optionspage.select_file"
	LabelKeySelectImage      = "optionspage.select_image"
	LabelKeyRemoveImage      = "optionspage.remove_image"
	LabelKeyAddGalleryImages = "optionspage.gallery_add"
	LabelKeyAddToGallery     = "optionspage.gallery_button"
	LabelKeyChooseFile       = "optionspage.upload_title"
	LabelKeyAddFile          = "optionspage.upload_button"
)

// Localize returns a copy of l with every caption passed through t. Captions
// that cannot be translated go through onMissing, which defaults to keeping
// the current caption.
func (l Labels) Localize(locale string, t Translator, onMissing MissingTranslationHandler) Labels {
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	out := l
	pairs := []struct {
		key    string
		target *string
	}{
		{LabelKeySubmit, &out.Submit},
		{LabelKeySettingsSaved, &out.SettingsSaved},
		{LabelKeySelectFile, &out.SelectFile},
		{LabelKeySelectImage, &out.SelectImage},
		{LabelKeyRemoveImage, &out.RemoveImage},
		{LabelKeyAddGalleryImages, &out.AddGalleryImages},
		{LabelKeyAddToGallery, &out.AddToGallery},
		{LabelKeyChooseFile, &out.ChooseFile},
		{LabelKeyAddFile, &out.AddFile},
	}
	for _, pair := range pairs {
		*pair.target = translate(locale, pair.key, *pair.target, t, onMissing)
	}
	return out
}

// WithDefaults fills empty captions from DefaultLabels.
func (l Labels) WithDefaults() Labels {
	def := DefaultLabels()
	fill := func(value *string, fallback string) {
		if strings.TrimSpace(*value) == "" {
			*value = fallback
		}
	}
	fill(&l.Submit, def.Submit)
	fill(&l.SettingsSaved, def.SettingsSaved)
	fill(&l.SelectFile, def.SelectFile)
	fill(&l.SelectImage, def.SelectImage)
	fill(&l.RemoveImage, def.RemoveImage)
	fill(&l.AddGalleryImages, def.AddGalleryImages)
	fill(&l.AddToGallery, def.AddToGallery)
	fill(&l.ChooseFile, def.ChooseFile)
	fill(&l.AddFile, def.AddFile)
	return l
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	params := []any{map[string]any{"default": fallback}}
	if t == nil {
		return onMissing(locale, key, params, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, params, err)
}
