package translation

import (
	"fmt"

	"horse.fit/ansa/internal/language"
)

const (
	LangEnglish = "en"
	LangItalian = "it"
)

// SupportedLanguageCodes lists the only pair the translation endpoint serves.
func SupportedLanguageCodes() []string {
	return []string{LangEnglish, LangItalian}
}

// ResolvePair classifies an item language. Exactly "en" (or no language at
// all) translates en->it; any other value translates it->en.
func ResolvePair(itemLanguage string) (lang, target string) {
	if itemLanguage == "" || itemLanguage == LangEnglish {
		return LangEnglish, LangItalian
	}
	return LangItalian, LangEnglish
}

// Opposite returns the other member of the en/it pair, or "" for anything else.
func Opposite(lang string) string {
	switch normalizeLangCode(lang) {
	case LangEnglish:
		return LangItalian
	case LangItalian:
		return LangEnglish
	default:
		return ""
	}
}

func validatePair(lang, target string) error {
	if Opposite(lang) == "" {
		return fmt.Errorf("unsupported source language %q", lang)
	}
	if Opposite(lang) != normalizeLangCode(target) {
		return fmt.Errorf("unsupported language pair %s->%s", lang, target)
	}
	return nil
}

func normalizeLangCode(raw string) string {
	return language.Primary(raw)
}
