package match

import (
	"regexp"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

// RegionClasses holds the uppercase confusions seen in the regional tables.
var RegionClasses = Classes{
	'Τ': "ΤΣ",
	'Ι': "ΙΗ",
	'Η': "ΗΖ",
	'Σ': "Σ΢",
	'Δ': "ΔΓ",
	'Ε': "ΕΔ",
	'Υ': "ΥΤ",
	'Χ': "ΧΥ",
	'Ζ': "ΖΕ",
}

// LabelClasses holds the confusions seen in fuel labels and section headers.
// The Latin entries cover Greek look-alikes inside "Autogas".
var LabelClasses = Classes{
	'υ': "υσ",
	'η': "ηθ",
	'τ': "τη",
	'σ': "σςζ",
	'ς': "ςσ",
	'έ': "έζ",
	'ή': "ήι",
	'ζ': "ζη",
	'Υ': "ΥΤ",
	'A': "AΑ",
	'a': "aα",
	'o': "oο",
}

// RegionMarker matches the keyword that opens every regional table row.
var RegionMarker = regexp.MustCompile(Pattern("ΝΟΜΟΣ", RegionClasses) + `\s+`)

// Tables bundles the compiled vocabularies the parser needs.
type Tables struct {
	Regions *Table
	Daily   *Table
	Weekly  *Table
}

func optional(label string) string {
	return `(?:\s+` + Pattern(label, LabelClasses) + `)?`
}

const dotTail = `\s{0,2}\.?`

func regionSpecs(aliases map[string][]string) []Spec {
	specs := make([]Spec, 0, model.PrefectureCount)
	for _, p := range model.Prefectures() {
		specs = append(specs, Spec{
			Key:     string(p),
			Label:   p.Label(),
			Classes: RegionClasses,
			Aliases: aliases[string(p)],
		})
	}
	return specs
}

func dailySpecs(aliases map[string][]string) []Spec {
	specs := []Spec{
		{Key: string(model.FuelUnleaded95), Label: "Αμόλυβδη 95 οκτ", Tail: dotTail},
		{Key: string(model.FuelUnleaded100), Label: "Αμόλυβδη 100 οκτ", Tail: dotTail},
		{Key: string(model.FuelSuper), Label: "Super"},
		{Key: string(model.FuelDiesel), Label: "Diesel Κίνησης"},
		{Key: string(model.FuelDieselHeating), Label: "Diesel Θέρμανσης", Tail: optional("Κατ΄οίκον")},
		{Key: string(model.FuelGas), Label: "Υγραέριο κίνησης (Autogas)"},
	}
	return withLabelClasses(specs, aliases)
}

func weeklySpecs(aliases map[string][]string) []Spec {
	specs := []Spec{
		{Key: string(model.FuelUnleaded95), Label: "Απλή Αμόλυβδη Βενζίνη 95 οκτανίων"},
		{Key: string(model.FuelUnleaded100), Label: "Αμόλυβδη Βενζίνη 100 οκτανίων"},
		{Key: string(model.FuelSuper), Label: "Βενζίνη Super"},
		{Key: string(model.FuelDiesel), Label: "Πετρέλαιο Κίνησης"},
		{Key: string(model.FuelDieselHeating), Label: "Πετρέλαιο Θέρμανσης"},
		{Key: string(model.FuelGas), Label: "Υγραέριο Κίνησης (Autogas)"},
	}
	return withLabelClasses(specs, aliases)
}

func withLabelClasses(specs []Spec, aliases map[string][]string) []Spec {
	for i := range specs {
		specs[i].Classes = LabelClasses
		specs[i].Aliases = aliases[specs[i].Key]
	}
	return specs
}

// NewTables compiles the region, daily label and weekly header tables,
// extending each with the given aliases.
func NewTables(a Aliases) (*Tables, error) {
	regions, err := NewTable(regionSpecs(a.Prefectures))
	if err != nil {
		return nil, err
	}
	daily, err := NewTable(dailySpecs(a.Labels))
	if err != nil {
		return nil, err
	}
	weekly, err := NewTable(weeklySpecs(a.Headers))
	if err != nil {
		return nil, err
	}
	return &Tables{Regions: regions, Daily: daily, Weekly: weekly}, nil
}

// Defaults returns the built-in tables without aliases.
func Defaults() *Tables {
	t, err := NewTables(Aliases{})
	if err != nil {
		panic(err)
	}
	return t
}

// Prefecture resolves the region a table row starts with.
func (t *Tables) Prefecture(span string) (model.Prefecture, int, bool) {
	e, n, ok := t.Regions.MatchPrefix(span)
	if !ok {
		return "", 0, false
	}
	return model.Prefecture(e.Key), n, true
}
