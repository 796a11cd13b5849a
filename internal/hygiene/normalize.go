// Package hygiene standardizes the contact fields of raw source records so
// identity resolution can match on them.
package hygiene

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nonDigitRe = regexp.MustCompile(`\D`)

// NormalizePhone formats a phone number as (AAA) BBB-CCCC:
//  1. Strip every non-digit character
//  2. Keep the last 10 digits when more remain (drops a country code)
//  3. Slice into area code, exchange and line
//
// Inputs with fewer than 10 digits still produce the same shape with short
// groups; no validation is performed.
func NormalizePhone(raw string) string {
	d := nonDigitRe.ReplaceAllString(raw, "")
	if len(d) > 10 {
		d = d[len(d)-10:]
	}
	return "(" + span(d, 0, 3) + ") " + span(d, 3, 6) + "-" + span(d, 6, len(d))
}

// span is s[from:to] clamped to the bounds of s.
func span(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

// NormalizeEmail trims surrounding whitespace and lowercases.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ProperCase upper-cases the first letter of a name and lower-cases the rest.
// Surrounding whitespace is left for the trim rule.
func ProperCase(raw string) string {
	start := strings.IndexFunc(raw, func(r rune) bool { return !unicode.IsSpace(r) })
	if start < 0 {
		return raw
	}
	r, size := utf8.DecodeRuneInString(raw[start:])
	head := cases.Title(language.Und).String(string(r))
	tail := cases.Lower(language.Und).String(raw[start+size:])
	return raw[:start] + head + tail
}
