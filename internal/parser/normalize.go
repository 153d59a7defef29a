package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares extracted text for matching: accents are composed (NFC),
// CRLF becomes LF and exotic spaces (NBSP, thin space) become ASCII spaces so
// that \s in the label patterns sees them.
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r != '\n' && r != '\t' && r != ' ' && unicode.IsSpace(r) {
			if r == '\r' {
				return '\n'
			}
			return ' '
		}
		return r
	}, text)
}
