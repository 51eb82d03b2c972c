package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonKeyword matches anything a normalized name may not contain.
var nonKeyword = regexp.MustCompile(`[^a-z0-9\s]`)

// Normalize lowercases text, strips diacritics and removes every character
// that is not an ASCII letter, digit or whitespace.
//
// Example: "Botiquín de Primeros-Auxilios!" -> "botiquin de primerosauxilios"
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}
	return nonKeyword.ReplaceAllString(strings.ToLower(stripped), "")
}

// Keyword normalizes text and returns its first whitespace-delimited token.
// Returns "" when nothing survives normalization.
func Keyword(text string) string {
	fields := strings.Fields(Normalize(text))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Matches reports whether the normalized name contains the normalized target.
// An empty target never matches.
func Matches(name, target string) bool {
	t := Normalize(target)
	if strings.TrimSpace(t) == "" {
		return false
	}
	return strings.Contains(Normalize(name), t)
}

// TitleCase capitalizes each word using Spanish casing rules, used when a
// lowercase keyword has to be shown back to the player.
func TitleCase(text string) string {
	return cases.Title(language.Spanish).String(text)
}
