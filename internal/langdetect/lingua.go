// Package langdetect guesses whether a text is English or Italian.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

const minLetters = 6

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Detect returns "en", "it" or "" when the sample is too short or ambiguous.
func Detect(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < minLetters {
		return ""
	}

	language, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.Italian).
			WithMinimumRelativeDistance(0.1).
			Build()
	})
	return detector
}
