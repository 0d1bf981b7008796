package services

import (
	"regexp"
	"strings"
	"unicode"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// StripANSI removes ANSI CSI and OSC escape sequences from provider data
// before it reaches a terminal.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// Sanitize strips escape sequences, drops any remaining control characters
// and trims surrounding whitespace. Every provider string passes through it.
func Sanitize(s string) string {
	s = strings.TrimSpace(StripANSI(s))
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
}
