// Package language normalizes language tags coming from items and flags.
package language

import "strings"

// Primary returns the lowercase primary subtag of raw, so "en_GB" and
// "EN-us" both give "en". Blank or non-alphabetic input gives "".
func Primary(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if cut := strings.IndexAny(tag, "-_"); cut >= 0 {
		tag = tag[:cut]
	}
	if len(tag) < 2 || len(tag) > 8 || !isAlphaLower(tag) {
		return ""
	}
	return tag
}

func isAlphaLower(value string) bool {
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
