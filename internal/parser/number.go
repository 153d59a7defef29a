package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

const (
	absentToken = "-"
	// divisionByZero is printed by the source spreadsheet when no station
	// reported a price.
	divisionByZero = "#ΔΙΑΙΡ./0!"
)

var (
	// priceToken matches a price (digit, separator, 2-3 digits, interior
	// spaces allowed) or the absent marker.
	priceToken = regexp.MustCompile(`\d[,.]\s?\d\s?\d(?:\s?\d)?|-`)
	// numericToken is priceToken without the absent marker.
	numericToken = regexp.MustCompile(`\d[,.]\s?\d\s?\d(?:\s?\d)?`)
)

func absent(tok string) bool {
	return tok == "" || tok == absentToken || tok == divisionByZero
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// parseCount parses a station count such as "1.234". Absent markers yield nil.
func parseCount(tok string) (*int64, error) {
	if absent(tok) {
		return nil, nil
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(stripSpaces(tok), ".", ""), 10, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "parse count %q", tok)
	}
	return &n, nil
}

// parsePrice parses a price such as "1,789" or "1.789". When a comma is
// present it is the decimal separator and periods are thousands separators.
func parsePrice(tok string) (decimal.NullDecimal, error) {
	if absent(tok) {
		return decimal.NullDecimal{}, nil
	}
	s := stripSpaces(tok)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, eris.Wrapf(err, "parse price %q", tok)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// firstLine skips leading whitespace and returns text up to the next line break.
func firstLine(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
