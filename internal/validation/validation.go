// Package validation holds the field validators and the single lower-casing
// routine applied to user supplied identifiers and names.
package validation

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z_]+[a-zA-Z0-9]{1,10}$`)
	passwordPattern = regexp.MustCompile(`^\w{6,25}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9_.]+@[a-zA-Z0-9]+\.[a-zA-Z0-9.]+$`)
	namePattern     = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// Username reports whether s starts with letters or underscores followed by
// one to ten alphanumerics.
func Username(s string) bool {
	return usernamePattern.MatchString(s)
}

// Password reports whether s is 6 to 25 word characters.
func Password(s string) bool {
	return passwordPattern.MatchString(s)
}

// Email reports whether s looks like local@domain.tld.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Name reports whether the whole of s is letters and whitespace.
// Used for category and recipe names.
func Name(s string) bool {
	return namePattern.MatchString(s)
}

// Normalize lower-cases s and trims surrounding whitespace.
func Normalize(s string) string {
	// Casers are stateful, so one per call.
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}
