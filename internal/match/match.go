// Package match recognises vocabulary labels (fuel types, prefectures, section
// headers) in noisy text extracted from the bulletins.
//
// Each entry compiles to its own tolerant regular expression: every letter may
// be replaced by the letters OCR confuses it with, and up to two stray
// whitespace characters may appear between letters.
package match

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

// Classes maps a rune to the runes the text extraction step confuses it with.
// The mapped string must include the rune itself.
type Classes map[rune]string

// Pattern builds the tolerant expression for label. Letters are joined by
// \s{0,2}; a run of spaces in the label becomes \s+.
func Pattern(label string, classes Classes) string {
	var b strings.Builder
	prevRune := false
	for _, r := range label {
		if unicode.IsSpace(r) {
			if prevRune {
				b.WriteString(`\s+`)
			}
			prevRune = false
			continue
		}
		if prevRune {
			b.WriteString(`\s{0,2}`)
		}
		if alts, ok := classes[r]; ok && utf8.RuneCountInString(alts) > 1 {
			b.WriteByte('[')
			b.WriteString(regexp.QuoteMeta(alts))
			b.WriteByte(']')
		} else {
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
		prevRune = true
	}
	return b.String()
}

// Spec describes one vocabulary entry before compilation.
type Spec struct {
	Key     string
	Label   string
	Classes Classes
	// Tail is a raw expression appended after the label, for optional
	// trailing words or punctuation.
	Tail string
	// Aliases are extra labels compiled with the same classes.
	Aliases []string
}

// Entry is a compiled vocabulary entry.
type Entry struct {
	Key   string
	Label string

	find   *regexp.Regexp
	prefix *regexp.Regexp
}

func compile(s Spec) (Entry, error) {
	alts := make([]string, 0, 1+len(s.Aliases))
	alts = append(alts, Pattern(s.Label, s.Classes))
	for _, a := range s.Aliases {
		alts = append(alts, Pattern(a, s.Classes))
	}
	expr := "(?:" + strings.Join(alts, "|") + ")" + s.Tail

	find, err := regexp.Compile(expr)
	if err != nil {
		return Entry{}, eris.Wrapf(err, "match: compile %s", s.Key)
	}
	prefix, err := regexp.Compile(`^` + expr)
	if err != nil {
		return Entry{}, eris.Wrapf(err, "match: compile %s prefix", s.Key)
	}
	return Entry{Key: s.Key, Label: s.Label, find: find, prefix: prefix}, nil
}

// Find returns the byte span of the first occurrence of the entry in text.
func (e Entry) Find(text string) (start, end int, ok bool) {
	loc := e.find.FindStringIndex(text)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}

// MatchPrefix reports whether span starts with the entry, followed by a
// non-letter or the end of span. It returns the byte length matched.
func (e Entry) MatchPrefix(span string) (int, bool) {
	loc := e.prefix.FindStringIndex(span)
	if loc == nil {
		return 0, false
	}
	end := loc[1]
	if end < len(span) {
		r, _ := utf8.DecodeRuneInString(span[end:])
		if unicode.IsLetter(r) {
			return 0, false
		}
	}
	return end, true
}

// Table is an immutable set of compiled entries. It is safe for concurrent use.
type Table struct {
	entries []Entry
	byKey   map[string]int
}

// NewTable compiles specs in order.
func NewTable(specs []Spec) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(specs)),
		byKey:   make(map[string]int, len(specs)),
	}
	for _, s := range specs {
		if _, dup := t.byKey[s.Key]; dup {
			return nil, eris.Errorf("match: duplicate key %s", s.Key)
		}
		e, err := compile(s)
		if err != nil {
			return nil, err
		}
		t.byKey[s.Key] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// Entries returns the compiled entries in declaration order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Get returns the entry for key.
func (t *Table) Get(key string) (Entry, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// MatchPrefix resolves the entry that span starts with. When several entries
// match, the longest match wins.
func (t *Table) MatchPrefix(span string) (Entry, int, bool) {
	best, bestLen := -1, 0
	for i, e := range t.entries {
		if n, ok := e.MatchPrefix(span); ok && n > bestLen {
			best, bestLen = i, n
		}
	}
	if best < 0 {
		return Entry{}, 0, false
	}
	return t.entries[best], bestLen, true
}
