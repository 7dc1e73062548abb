package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces HTML-sensitive characters with their entities.
func Escape(v string) string { return htmlEscaper.Replace(v) }

// IsUnsafe reports whether v changes when HTML-escaped.
func IsUnsafe(v string) bool { return v != Escape(v) }

// HasWhitespace reports whether v contains any whitespace character.
func HasWhitespace(v string) bool {
	return strings.IndexFunc(v, unicode.IsSpace) >= 0
}

const passwordSymbols = "@$!%*?&"

var passwordAlphabet = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,}$`)

// PasswordPolicy describes the password strength requirement.
const PasswordPolicy = "Password must be at least 8 characters long, contain at least one uppercase letter, one lowercase letter, one number, and one special character!"

// ValidPassword reports whether v satisfies PasswordPolicy.
func ValidPassword(v string) bool {
	if !passwordAlphabet.MatchString(v) {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
