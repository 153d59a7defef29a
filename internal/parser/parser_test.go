package parser

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sells-group/fuelprices-cli/internal/match"
	"github.com/sells-group/fuelprices-cli/internal/model"
)

var (
	summerBeforeCutoff = model.Day(2021, time.June, 15)
	winterAfterCutoff  = model.Day(2023, time.March, 10)
)

var dailyLabels = map[model.FuelType]string{
	model.FuelUnleaded95:    "Αμόλυβδη 95 οκτ.",
	model.FuelUnleaded100:   "Αμόλυβδη 100 οκτ.",
	model.FuelSuper:         "Super",
	model.FuelDiesel:        "Diesel Κίνησης",
	model.FuelDieselHeating: "Diesel Θέρμανσης Κατ΄οίκον",
	model.FuelGas:           "Υγραέριο κίνησης (Autogas)",
}

var weeklyHeaders = map[model.FuelType]string{
	model.FuelUnleaded95:    "Απλή Αμόλυβδη Βενζίνη 95 οκτανίων",
	model.FuelUnleaded100:   "Αμόλυβδη Βενζίνη 100 οκτανίων",
	model.FuelSuper:         "Βενζίνη Super",
	model.FuelDiesel:        "Πετρέλαιο Κίνησης",
	model.FuelDieselHeating: "Πετρέλαιο Θέρμανσης",
	model.FuelGas:           "Υγραέριο Κίνησης (Autogas)",
}

func parse(t *testing.T, kind model.ReportKind, text string, date time.Time) (model.Records, error) {
	t.Helper()
	p, err := New(kind, match.Defaults())
	require.NoError(t, err)
	assert.Equal(t, kind, p.Kind())
	return p.Parse(text, date)
}

func requireFailure(t *testing.T, err error, reason Reason) {
	t.Helper()
	require.Error(t, err)
	pf, ok := AsParseFailure(err)
	require.True(t, ok, "expected ParseFailure, got %v", err)
	assert.Equal(t, reason, pf.Reason, pf.Detail)
}

func byFuel(recs []model.PriceRecord) map[model.FuelType]model.PriceRecord {
	out := make(map[model.FuelType]model.PriceRecord, len(recs))
	for _, r := range recs {
		out[r.FuelType] = r
	}
	return out
}

// --- daily national ---

func nationalDoc(rows map[model.FuelType]string, order []model.FuelType) string {
	var b strings.Builder
	b.WriteString("ΥΠΟΥΡΓΕΙΟ ΑΝΑΠΤΥΞΗΣ\nΠΑΝΕΛΛΑΔΙΚΕΣ ΤΙΜΕΣ\n\n")
	for _, f := range order {
		fmt.Fprintf(&b, "%s   %s\n", dailyLabels[f], rows[f])
	}
	b.WriteString("\nΠηγή: Παρατηρητήριο Τιμών\n")
	return b.String()
}

func TestDailyNational_Parse(t *testing.T) {
	text := nationalDoc(map[model.FuelType]string{
		model.FuelUnleaded95:    "1.234 1,789",
		model.FuelUnleaded100:   "567 1,987",
		model.FuelSuper:         "12 1,950",
		model.FuelDiesel:        "1.100 1,567",
		model.FuelDieselHeating: "- -",
		model.FuelGas:           "345 0,899",
	}, model.FuelTypes)

	recs, err := parse(t, model.ReportDailyNational, text, summerBeforeCutoff)
	require.NoError(t, err)
	country := recs[model.RecordDailyCountry]
	require.Len(t, country, 5)

	got := byFuel(country)
	u95 := got[model.FuelUnleaded95]
	require.NotNil(t, u95.Stations)
	assert.Equal(t, int64(1234), *u95.Stations)
	assert.True(t, u95.Price.Valid)
	assert.True(t, decimal.RequireFromString("1.789").Equal(u95.Price.Decimal))
	assert.Equal(t, summerBeforeCutoff, u95.Date)
	assert.Empty(t, u95.Prefecture)

	_, ok := got[model.FuelDieselHeating]
	assert.False(t, ok, "row without values is not stored")
}

func TestDailyNational_FieldOrderVaries(t *testing.T) {
	order := []model.FuelType{
		model.FuelGas, model.FuelDiesel, model.FuelUnleaded95,
		model.FuelSuper, model.FuelUnleaded100,
	}
	text := nationalDoc(map[model.FuelType]string{
		model.FuelUnleaded95:  "100 1,701",
		model.FuelUnleaded100: "200 1,802",
		model.FuelSuper:       "300 1,903",
		model.FuelDiesel:      "400 1,504",
		model.FuelGas:         "500 0,805",
	}, order)

	recs, err := parse(t, model.ReportDailyNational, text, summerBeforeCutoff)
	require.NoError(t, err)
	got := byFuel(recs[model.RecordDailyCountry])
	require.Len(t, got, 5)
	assert.Equal(t, int64(500), *got[model.FuelGas].Stations)
	assert.Equal(t, "1.903", got[model.FuelSuper].Price.Decimal.StringFixed(3))
	assert.Equal(t, "1.504", got[model.FuelDiesel].Price.Decimal.StringFixed(3))
}

func TestDailyNational_AllAnchorsOutOfOrder(t *testing.T) {
	order := []model.FuelType{
		model.FuelDiesel, model.FuelGas, model.FuelDieselHeating,
		model.FuelUnleaded100, model.FuelSuper, model.FuelUnleaded95,
	}
	text := nationalDoc(map[model.FuelType]string{
		model.FuelDiesel:        "1.100 1,567",
		model.FuelGas:           "345 0,899",
		model.FuelDieselHeating: "812 1,301",
		model.FuelUnleaded100:   "567 1,987",
		model.FuelSuper:         "- -",
		model.FuelUnleaded95:    "1.234 1,789",
	}, order)

	recs, err := parse(t, model.ReportDailyNational, text, winterAfterCutoff)
	require.NoError(t, err)
	country := recs[model.RecordDailyCountry]
	require.Len(t, country, 5)

	var fuels []model.FuelType
	for _, r := range country {
		fuels = append(fuels, r.FuelType)
	}
	assert.Equal(t, []model.FuelType{
		model.FuelDiesel, model.FuelGas, model.FuelDieselHeating,
		model.FuelUnleaded100, model.FuelUnleaded95,
	}, fuels)

	got := byFuel(country)
	assert.Equal(t, int64(812), *got[model.FuelDieselHeating].Stations)
	assert.Equal(t, "0.899", got[model.FuelGas].Price.Decimal.StringFixed(3))
	assert.Equal(t, "1.789", got[model.FuelUnleaded95].Price.Decimal.StringFixed(3))
	_, ok := got[model.FuelSuper]
	assert.False(t, ok)
}

func TestNationalRow_Tokens(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		stations int64
		price    string
		noCount  bool
		noPrice  bool
		skipped  bool
	}{
		{name: "two tokens", line: "1.234 1,789", stations: 1234, price: "1.789"},
		{name: "split price", line: "1234 1, 789", stations: 1234, price: "1.789"},
		{name: "split count", line: "1. 234 1,789", stations: 1234, price: "1.789"},
		{name: "both split", line: "1. 234 1, 789", stations: 1234, price: "1.789"},
		{name: "absent price", line: "12 -", stations: 12, noPrice: true},
		{name: "division by zero", line: "12 #ΔΙΑΙΡ./0!", stations: 12, noPrice: true},
		{name: "absent count", line: "- 1,789", noCount: true, price: "1.789"},
		{name: "separators present", line: "1.234 9,876", stations: 1234, price: "9.876"},
		{name: "small count", line: "123 9,876", stations: 123, price: "9.876"},
		{name: "count split without separator", line: "1 234 9,876", stations: 1234, price: "9.876"},
		{name: "price split without separator", line: "123 9 876", stations: 123, price: "9.876"},
		{name: "three ambiguous", line: "12 34 56", skipped: true},
		{name: "count group too short", line: "1 23 9,876", skipped: true},
		{name: "one token", line: "1,789", skipped: true},
		{name: "five tokens", line: "1 2 3 4 5", skipped: true},
		{name: "nothing present", line: "- -", skipped: true},
		{name: "zeroes", line: "0 0,000", skipped: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := nationalRow(model.FuelDiesel, tt.line, summerBeforeCutoff)
			if tt.skipped {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			if tt.noCount {
				assert.Nil(t, rec.Stations)
			} else {
				require.NotNil(t, rec.Stations)
				assert.Equal(t, tt.stations, *rec.Stations)
			}
			if tt.noPrice {
				assert.False(t, rec.Price.Valid)
			} else {
				require.True(t, rec.Price.Valid)
				assert.Equal(t, tt.price, rec.Price.Decimal.StringFixed(3))
			}
		})
	}
}

func TestDailyNational_SuperCutoff(t *testing.T) {
	rows := map[model.FuelType]string{
		model.FuelUnleaded95:  "1.234 1,789",
		model.FuelUnleaded100: "567 1,987",
		model.FuelDiesel:      "1.100 1,567",
		model.FuelGas:         "345 0,899",
	}
	order := []model.FuelType{model.FuelUnleaded95, model.FuelUnleaded100, model.FuelDiesel, model.FuelGas}
	text := nationalDoc(rows, order)

	recs, err := parse(t, model.ReportDailyNational, text, model.Day(2022, time.August, 5))
	require.NoError(t, err)
	assert.Len(t, recs[model.RecordDailyCountry], 4)

	_, err = parse(t, model.ReportDailyNational, text, model.Day(2022, time.August, 4))
	requireFailure(t, err, ReasonMissingAnchor)
}

func TestDailyNational_MissingMandatory(t *testing.T) {
	text := nationalDoc(map[model.FuelType]string{
		model.FuelUnleaded95:  "1.234 1,789",
		model.FuelUnleaded100: "567 1,987",
		model.FuelSuper:       "12 1,950",
		model.FuelGas:         "345 0,899",
	}, []model.FuelType{model.FuelUnleaded95, model.FuelUnleaded100, model.FuelSuper, model.FuelGas})

	_, err := parse(t, model.ReportDailyNational, text, summerBeforeCutoff)
	requireFailure(t, err, ReasonMissingAnchor)
	assert.Contains(t, err.Error(), string(model.FuelDiesel))
}

func TestDailyNational_GasOptionalBeforeLPG(t *testing.T) {
	text := nationalDoc(map[model.FuelType]string{
		model.FuelUnleaded95:  "1.234 1,789",
		model.FuelUnleaded100: "567 1,987",
		model.FuelSuper:       "12 1,950",
		model.FuelDiesel:      "1.100 1,567",
	}, []model.FuelType{model.FuelUnleaded95, model.FuelUnleaded100, model.FuelSuper, model.FuelDiesel})

	recs, err := parse(t, model.ReportDailyNational, text, model.Day(2012, time.June, 1))
	require.NoError(t, err)
	assert.Len(t, recs[model.RecordDailyCountry], 4)

	_, err = parse(t, model.ReportDailyNational, text, model.Day(2012, time.June, 2))
	requireFailure(t, err, ReasonMissingAnchor)
}

func TestDailyNational_HeatingSeasonWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	undo := zap.ReplaceGlobals(zap.New(core))
	defer undo()

	text := nationalDoc(map[model.FuelType]string{
		model.FuelUnleaded95:  "1.234 1,789",
		model.FuelUnleaded100: "567 1,987",
		model.FuelDiesel:      "1.100 1,567",
		model.FuelGas:         "345 0,899",
	}, []model.FuelType{model.FuelUnleaded95, model.FuelUnleaded100, model.FuelDiesel, model.FuelGas})

	// Out of season: silent.
	_, err := parse(t, model.ReportDailyNational, text, model.Day(2023, time.August, 10))
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessage("parser: fuel label missing").Len())

	// In season: warning, still parsed.
	recs, err := parse(t, model.ReportDailyNational, text, winterAfterCutoff)
	require.NoError(t, err)
	assert.Len(t, recs[model.RecordDailyCountry], 4)
	missing := logs.FilterMessage("parser: fuel label missing").All()
	require.Len(t, missing, 1)
	assert.Equal(t, string(model.FuelDieselHeating), missing[0].ContextMap()["fuel"])
}

func TestParse_EmptyText(t *testing.T) {
	for _, kind := range model.ReportKinds {
		_, err := parse(t, kind, " \n\t ", summerBeforeCutoff)
		requireFailure(t, err, ReasonUnreadable)
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(model.ReportKind("monthly"), match.Defaults())
	require.Error(t, err)

	_, err = NewSet(match.Defaults()).Parse(model.ReportKind("monthly"), "x", summerBeforeCutoff)
	require.Error(t, err)
}

// --- anchors ---

func TestSortAnchors_StableUnderPermutation(t *testing.T) {
	want := []Anchor{
		{Fuel: model.FuelGas, Start: 3, End: 9},
		{Fuel: model.FuelDiesel, Start: 10, End: 20},
		{Fuel: model.FuelUnleaded95, Start: 25, End: 30},
		{Fuel: model.FuelSuper, Start: 40, End: 45},
	}
	perms := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2}}
	for _, p := range perms {
		in := make([]Anchor, len(p))
		for i, j := range p {
			in[i] = want[j]
		}
		SortAnchors(in)
		assert.Equal(t, want, in)
	}
}

func TestLocateAnchors_Order(t *testing.T) {
	text := "Diesel Κίνησης 1 1,5\nΑμόλυβδη 95 οκτ 2 1,6\nΥγραέριο κίνησης (Autogas) 3 0,8\nΑμόλυβδη 100 οκτ 4 1,9\n"
	anchors, err := LocateAnchors(match.Defaults().Daily, text, model.Day(2023, time.August, 10))
	require.NoError(t, err)

	fuels := make([]model.FuelType, len(anchors))
	for i, a := range anchors {
		fuels[i] = a.Fuel
		if i > 0 {
			assert.Less(t, anchors[i-1].Start, a.Start)
		}
	}
	assert.Equal(t, []model.FuelType{
		model.FuelDiesel, model.FuelUnleaded95, model.FuelGas, model.FuelUnleaded100,
	}, fuels)
}

func TestPresenceOf(t *testing.T) {
	assert.Equal(t, Mandatory, PresenceOf(model.FuelSuper, model.Day(2022, time.August, 4)))
	assert.Equal(t, Optional, PresenceOf(model.FuelSuper, model.Day(2022, time.August, 5)))
	assert.Equal(t, Optional, PresenceOf(model.FuelGas, model.Day(2012, time.June, 1)))
	assert.Equal(t, Mandatory, PresenceOf(model.FuelGas, model.Day(2012, time.June, 2)))
	assert.Equal(t, Mandatory, PresenceOf(model.FuelUnleaded95, model.Day(2012, time.June, 1)))
	assert.Equal(t, Expected, PresenceOf(model.FuelDieselHeating, model.Day(2023, time.January, 3)))
	assert.Equal(t, Optional, PresenceOf(model.FuelDieselHeating, model.Day(2023, time.July, 3)))
	assert.Equal(t, "expected", Expected.String())
}

func TestInHeatingSeason(t *testing.T) {
	tests := map[string]bool{
		"2023-10-14": false,
		"2023-10-15": true,
		"2023-11-01": true,
		"2023-12-31": true,
		"2024-01-01": true,
		"2024-04-30": true,
		"2024-05-01": false,
		"2024-08-15": false,
	}
	for s, want := range tests {
		d, err := model.ParseDate(s)
		require.NoError(t, err)
		assert.Equal(t, want, InHeatingSeason(d), s)
	}
}

// --- numbers ---

func TestParsePrice(t *testing.T) {
	tests := map[string]string{
		"1,789":    "1.789",
		"1.789":    "1.789",
		"1, 7 8 9": "1.789",
		"0,89":     "0.89",
		"1.001,5":  "1001.5",
	}
	for in, want := range tests {
		got, err := parsePrice(in)
		require.NoError(t, err, in)
		require.True(t, got.Valid, in)
		assert.True(t, decimal.RequireFromString(want).Equal(got.Decimal), "%s -> %s", in, got.Decimal)
	}

	for _, in := range []string{"-", "#ΔΙΑΙΡ./0!", ""} {
		got, err := parsePrice(in)
		require.NoError(t, err)
		assert.False(t, got.Valid, in)
	}

	_, err := parsePrice("abc")
	assert.Error(t, err)
}

func TestParseCount(t *testing.T) {
	n, err := parseCount("1.234")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), *n)

	n, err = parseCount("-")
	require.NoError(t, err)
	assert.Nil(t, n)

	_, err = parseCount("1,5")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	// alpha + combining acute composes to the precomposed rune.
	assert.Equal(t, "\u03ac", Normalize("\u03b1\u0301"))
	assert.Equal(t, "a b", Normalize("a\u00a0b"))
	assert.Equal(t, "a b\nc", Normalize("a b\r\nc"))
}

func TestParseFailure_Error(t *testing.T) {
	assert.Equal(t, "parse: unreadable-text", (&ParseFailure{Reason: ReasonUnreadable}).Error())
	err := failf(ReasonRegionCount, "found %d", 50)
	assert.Equal(t, "parse: region-count-mismatch: found 50", err.Error())

	_, ok := AsParseFailure(assert.AnError)
	assert.False(t, ok)
}
