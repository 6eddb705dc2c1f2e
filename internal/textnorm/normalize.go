// Package textnorm provides the text normalisation shared by lookup, scoring and discovery.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize trims surrounding whitespace and lowercases the text.
// The lowercase mapping is language-neutral so that lookups agree across locales.
func Normalize(text string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(text))
}

// Capitalize uppercases the first letter and lowercases the rest,
// e.g. "kITEsurfen" becomes "Kitesurfen".
func Capitalize(text string) string {
	if text == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(text)
	rest := cases.Lower(language.Und).String(text[size:])
	return string(unicode.ToTitle(first)) + rest
}

// BaseLanguage returns the ISO 639-1 base language of a locale such as
// "nl-BE" -> "nl". Unparseable locales yield fallback.
func BaseLanguage(locale, fallback string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return fallback
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return fallback
	}
	return base.String()
}
