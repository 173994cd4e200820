package scribe

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/annals/lang"
)

// Transform rewrites the text produced by the inner token of an expression.
type Transform func(string) string

// defaultTransforms maps each command to its built-in transform.
var defaultTransforms = map[lang.Command]Transform{
	lang.Capitalize:        Capitalize,
	lang.Lowercase:         strings.ToLower,
	lang.Titlecase:         Titlecase,
	lang.IndefiniteArticle: IndefiniteArticle,
}

// Capitalize upper-cases the first rune of s and leaves the rest unchanged.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

// Titlecase title-cases every word of s using English rules.
func Titlecase(s string) string {
	// A Caser holds state and cannot be shared between goroutines.
	return cases.Title(language.English).String(s)
}

// IndefiniteArticle prefixes s with "an " if it begins with a vowel and with
// "a " otherwise. The empty string is returned unchanged.
func IndefiniteArticle(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}

	if strings.ContainsRune("aeiou", unicode.ToLower(r)) {
		return "an " + s
	}

	return "a " + s
}
