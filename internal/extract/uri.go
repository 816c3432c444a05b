package extract

import (
	"strings"

	"golang.org/x/net/publicsuffix"

	"pass2bw/internal/spec"
)

// InferURI guesses a login URI from the record's name field when the entry
// itself carried none. The name is returned verbatim when it reads as a DNS
// hostname ending in a real ICANN suffix, so "example.com" is accepted while
// file-like names such as "notes.txt" are not. Best-effort: never fails,
// returns "" on any non-match.
func InferURI(rec Record) string {
	name, ok := rec[spec.FieldName]
	if !ok || !looksLikeHostname(name) {
		return ""
	}
	suffix, icann := publicsuffix.PublicSuffix(strings.ToLower(name))
	if suffix == "" || !icann {
		return ""
	}
	return name
}

// looksLikeHostname checks DNS syntax: dot-separated labels of 1-63
// alphanumeric-or-hyphen characters with no leading or trailing hyphen, and
// an alphabetic final label of 2-6 characters.
func looksLikeHostname(name string) bool {
	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !validLabel(label) {
			return false
		}
	}
	tld := labels[len(labels)-1]
	if len(tld) < 2 || len(tld) > 6 {
		return false
	}
	for i := 0; i < len(tld); i++ {
		if !isAlpha(tld[i]) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c != '-' && !isAlpha(c) && !isDigit(c) {
			return false
		}
	}
	return true
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
