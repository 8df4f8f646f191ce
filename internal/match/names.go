package match

import (
	"strings"
	"unicode"
)

// stemTokens are trailing words dropped by StemName. CustomerID and
// Customer, or CreatedAt and Created, then rank as near matches.
var stemTokens = map[string]struct{}{
	"id":        {},
	"ids":       {},
	"at":        {},
	"utc":       {},
	"timestamp": {},
}

// SplitName splits a member name into words at separators, at lower to
// upper transitions and before the last capital of an acronym:
//
//	CustomerAddressCity -> Customer Address City
//	OrderID             -> Order ID
//	HTTPStatus          -> HTTP Status
//	customer_id         -> customer id
//
// Digits stay with the word they follow.
func SplitName(name string) []string {
	var (
		words []string
		start = -1
	)

	runes := []rune(name)

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}

		start = -1
	}

	for i, r := range runes {
		if isSeparator(r) {
			flush(i)
			continue
		}

		if start < 0 {
			start = i
			continue
		}

		if unicode.IsUpper(r) && wordBoundary(runes, i) {
			flush(i)
			start = i
		}
	}

	flush(len(runes))

	return words
}

// wordBoundary reports whether the upper case rune at i opens a word.
func wordBoundary(runes []rune, i int) bool {
	prev := runes[i-1]
	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// NormalizeName folds case and drops separators so that customer_id,
// customerId and CustomerID compare equal.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(SplitName(name), ""))
}

// StemName is NormalizeName without a trailing identifier or timestamp
// word. A single word name is returned whole.
func StemName(name string) string {
	words := SplitName(name)
	if n := len(words); n > 1 {
		if _, ok := stemTokens[strings.ToLower(words[n-1])]; ok {
			words = words[:n-1]
		}
	}

	return strings.ToLower(strings.Join(words, ""))
}
