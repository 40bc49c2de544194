package util

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reCorpForm = regexp.MustCompile(`\(주\)|㈜|\(유\)|주식회사|유한회사`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

// NormalizeCompanyName folds a company name for comparison: legal-form markers,
// punctuation and whitespace are dropped and Latin letters lower-cased.
func NormalizeCompanyName(input string) string {
	s := strings.ToLower(input)
	s = reCorpForm.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LooksLikeCorpCode reports whether input is an 8-digit disclosure company code.
func LooksLikeCorpCode(input string) bool {
	return isDigits(strings.TrimSpace(input), 8)
}

// LooksLikeStockCode reports whether input is a 6-digit exchange ticker.
func LooksLikeStockCode(input string) bool {
	return isDigits(strings.TrimSpace(input), 6)
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
