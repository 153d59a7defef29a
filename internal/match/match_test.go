package match

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

// spaced inserts one space between every pair of letters in each word.
func spaced(label string) string {
	words := strings.Fields(label)
	for i, w := range words {
		words[i] = strings.Join(strings.Split(w, ""), " ")
	}
	return strings.Join(words, " ")
}

// confused replaces every rune that has a confusion class with its first
// alternative.
func confused(label string, classes Classes) string {
	var b strings.Builder
	for _, r := range label {
		if alts, ok := classes[r]; ok {
			rs := []rune(alts)
			if len(rs) > 1 {
				b.WriteRune(rs[1])
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestPattern(t *testing.T) {
	assert.Equal(t, `Α\s{0,2}[ΤΣ]`, Pattern("ΑΤ", Classes{'Τ': "ΤΣ"}))
	assert.Equal(t, `S\s{0,2}u`, Pattern("Su", nil))
	assert.Equal(t, `a\s+b`, Pattern("a  b", nil))
	assert.Equal(t, `\(\s{0,2}x`, Pattern("(x", nil))
}

func TestRegions_MatchOwnLabel(t *testing.T) {
	tables := Defaults()
	for _, p := range model.Prefectures() {
		e, ok := tables.Regions.Get(string(p))
		require.True(t, ok, p)

		for _, variant := range []string{p.Label(), spaced(p.Label()), confused(p.Label(), RegionClasses)} {
			t.Run(string(p)+"/"+variant, func(t *testing.T) {
				n, ok := e.MatchPrefix(variant + "  1,234 1,456")
				assert.True(t, ok)
				assert.Equal(t, len(variant), n)
			})
		}

		got, _, ok := tables.Prefecture(spaced(p.Label()) + " 1,500")
		assert.True(t, ok, p)
		assert.Equal(t, p, got)
	}
}

func TestRegions_NoCrossMatch(t *testing.T) {
	tables := Defaults()
	for _, a := range tables.Regions.Entries() {
		for _, b := range tables.Regions.Entries() {
			if a.Key == b.Key {
				continue
			}
			_, ok := a.MatchPrefix(b.Label)
			assert.False(t, ok, "%s pattern matched %s", a.Key, b.Label)
		}
	}
}

// oneConfusion returns every variant of label with a single letter swapped
// for one of its confusions.
func oneConfusion(label string, classes Classes) []string {
	rs := []rune(label)
	var out []string
	for i, r := range rs {
		alts, ok := classes[r]
		if !ok {
			continue
		}
		for _, alt := range alts {
			if alt == r {
				continue
			}
			v := append([]rune{}, rs...)
			v[i] = alt
			out = append(out, string(v))
		}
	}
	return out
}

func TestRegions_ConfusedVariantsNoCrossMatch(t *testing.T) {
	tables := Defaults()
	for _, p := range model.Prefectures() {
		label := p.Label()
		variants := append([]string{
			confused(label, RegionClasses),
			spaced(confused(label, RegionClasses)),
		}, oneConfusion(label, RegionClasses)...)

		for _, v := range variants {
			for _, other := range tables.Regions.Entries() {
				if other.Key == string(p) {
					continue
				}
				_, ok := other.MatchPrefix(v + "  1,234 1,456")
				assert.False(t, ok, "%s pattern matched %q (variant of %s)", other.Key, v, p)
			}
			got, _, ok := tables.Prefecture(v + "  1,234")
			if assert.True(t, ok, "%q not resolved", v) {
				assert.Equal(t, p, got, "%q", v)
			}
		}
	}
}

func TestRegions_RejectsLongerWord(t *testing.T) {
	tables := Defaults()
	// "ΧΙΟΥ" followed by more letters is not Chios.
	_, _, ok := tables.Prefecture("ΧΙΟΥΣ 1,234")
	assert.False(t, ok)

	_, _, ok = tables.Prefecture("ΑΓΝΩΣΤΟΥ 1,234")
	assert.False(t, ok)
}

func TestLabels_MatchOwnLabel(t *testing.T) {
	tables := Defaults()
	for name, table := range map[string]*Table{"daily": tables.Daily, "weekly": tables.Weekly} {
		for _, e := range table.Entries() {
			for _, variant := range []string{e.Label, spaced(e.Label), confused(e.Label, LabelClasses)} {
				_, _, ok := e.Find("xx " + variant + " 1.234 1,567")
				assert.True(t, ok, "%s %s: %q", name, e.Key, variant)
			}
			for _, other := range table.Entries() {
				if other.Key == e.Key {
					continue
				}
				_, _, ok := e.Find(other.Label)
				assert.False(t, ok, "%s %s matched %s", name, e.Key, other.Label)
			}
		}
	}
}

func TestDailyLabels_Tails(t *testing.T) {
	tables := Defaults()

	e, _ := tables.Daily.Get(string(model.FuelDieselHeating))
	text := "Diesel Θέρμανσης Κατ΄οίκον 1.234 1,456"
	_, end, ok := e.Find(text)
	require.True(t, ok)
	assert.Equal(t, " 1.234 1,456", text[end:])

	e, _ = tables.Daily.Get(string(model.FuelUnleaded95))
	text = "Αμόλυβδη 95 οκτ. 1.234 1,789"
	_, end, ok = e.Find(text)
	require.True(t, ok)
	assert.Equal(t, " 1.234 1,789", text[end:])
}

func TestRegionMarker(t *testing.T) {
	assert.True(t, RegionMarker.MatchString("ΝΟΜΟΣ ΑΤΤΙΚΗΣ"))
	assert.True(t, RegionMarker.MatchString("Ν Ο Μ Ο ΢  ΑΤΤΙΚΗΣ"))
	assert.False(t, RegionMarker.MatchString("ΝΟΜΟΣΑΤΤΙΚΗΣ"))
}

func TestLoadAliases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	content := `
prefectures:
  ATTICA: ["ΑΘΗΝΩΝ"]
labels:
  GAS: ["Υγραέριο LPG"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	a, err := LoadAliases(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ΑΘΗΝΩΝ"}, a.Prefectures["ATTICA"])

	tables, err := NewTables(a)
	require.NoError(t, err)

	p, _, ok := tables.Prefecture("ΑΘΗΝΩΝ 1,234")
	require.True(t, ok)
	assert.Equal(t, model.PrefectureAttica, p)

	gas, _ := tables.Daily.Get(string(model.FuelGas))
	_, _, ok = gas.Find("Υγραέριο LPG 123 0,899")
	assert.True(t, ok)
}

func TestLoadAliases_Errors(t *testing.T) {
	a, err := LoadAliases("")
	require.NoError(t, err)
	assert.Empty(t, a.Prefectures)

	_, err = LoadAliases(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read aliases")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefectures:\n  ATLANTIS: [\"X\"]\n"), 0o644))
	_, err = LoadAliases(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown prefecture")
}

func TestNewTable_DuplicateKey(t *testing.T) {
	_, err := NewTable([]Spec{{Key: "A", Label: "a"}, {Key: "A", Label: "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
}
