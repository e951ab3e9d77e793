package textutil

import (
	"regexp"
	"strings"
)

var (
	controlWhitespaceRegex = regexp.MustCompile(`[\n\t]`)
	bracketAnnotationRegex = regexp.MustCompile(`\s*\[.*?\]`)
	classCodeSuffixRegex   = regexp.MustCompile(`\s*\[.*?\]\s*\d+\s*[A-Z]*$`)
	firstDigitsRegex       = regexp.MustCompile(`\d+`)
)

// StripControlWhitespace removes every embedded newline and tab and trims the
// surrounding whitespace.
func StripControlWhitespace(s string) string {
	return strings.TrimSpace(controlWhitespaceRegex.ReplaceAllString(s, ""))
}

// StripBracketAnnotations removes every "[...]" annotation along with the
// whitespace that precedes it.
func StripBracketAnnotations(s string) string {
	return bracketAnnotationRegex.ReplaceAllString(s, "")
}

// StripClassCodeSuffix removes a trailing "[...] <digits> <UPPERCASE>" class code,
// ex. "English [ENG] 10 A" becomes "English".
func StripClassCodeSuffix(s string) string {
	return classCodeSuffixRegex.ReplaceAllString(s, "")
}

// FirstDigits returns the first run of decimal digits in s, or "" if s has none.
func FirstDigits(s string) string {
	return firstDigitsRegex.FindString(s)
}
