package parser

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/fuelprices-cli/internal/match"
	"github.com/sells-group/fuelprices-cli/internal/model"
)

// triplet is a weekly (lowest, highest, median) price group.
type triplet struct {
	Lowest, Highest, Median decimal.Decimal
}

// parseTriplet converts the first three tokens. ok is false when all three
// are absent.
func parseTriplet(tokens []string) (triplet, bool, error) {
	if len(tokens) < 3 {
		return triplet{}, false, failf(ReasonRowTokens, "%d of 3 values", len(tokens))
	}
	var vals [3]decimal.NullDecimal
	present := 0
	for i := range vals {
		v, err := parsePrice(tokens[i])
		if err != nil {
			return triplet{}, false, failf(ReasonRowTokens, "%v", err)
		}
		if v.Valid {
			present++
		}
		vals[i] = v
	}
	switch present {
	case 0:
		return triplet{}, false, nil
	case 3:
		return triplet{Lowest: vals[0].Decimal, Highest: vals[1].Decimal, Median: vals[2].Decimal}, true, nil
	default:
		return triplet{}, false, failf(ReasonRowTokens, "partial values %v", tokens[:3])
	}
}

// weeklySection is one fuel's part of a weekly bulletin.
type weeklySection struct {
	Country     []model.PriceRecord
	Prefectures []model.PriceRecord
}

// extractWeeklySection reads the national triplet printed before the first
// region marker and then the 51 per-prefecture triplets.
func extractWeeklySection(tables *match.Tables, fuel model.FuelType, text string, date time.Time) (weeklySection, error) {
	var sec weeklySection

	head := text
	if loc := match.RegionMarker.FindStringIndex(text); loc != nil {
		head = text[:loc[0]]
	}
	t, ok, err := parseTriplet(numericToken.FindAllString(head, -1))
	if err != nil {
		return sec, failf(ReasonRowTokens, "%s national: %s", fuel, err.(*ParseFailure).Detail)
	}
	if ok {
		sec.Country = append(sec.Country, weeklyRecord(date, fuel, "", t))
	}

	rows, err := scanRegions(tables, text[len(head):], priceTokens)
	if err != nil {
		return sec, err
	}
	for _, row := range rows {
		t, ok, err := parseTriplet(row.Tokens)
		if err != nil {
			return sec, failf(ReasonRowTokens, "%s %s: %s", fuel, row.Prefecture, err.(*ParseFailure).Detail)
		}
		if !ok {
			continue
		}
		sec.Prefectures = append(sec.Prefectures, weeklyRecord(date, fuel, row.Prefecture, t))
	}
	return sec, nil
}

func weeklyRecord(date time.Time, fuel model.FuelType, p model.Prefecture, t triplet) model.PriceRecord {
	return model.PriceRecord{
		Date:       date,
		FuelType:   fuel,
		Prefecture: p,
		Lowest:     t.Lowest,
		Highest:    t.Highest,
		Median:     t.Median,
	}
}

func extractWeekly(tables *match.Tables, text string, anchors []Anchor, date time.Time) (model.Records, error) {
	out := model.Records{
		model.RecordWeeklyCountry:    nil,
		model.RecordWeeklyPrefecture: nil,
	}
	for i, a := range anchors {
		sec, err := extractWeeklySection(tables, a.Fuel, window(text, anchors, i), date)
		if err != nil {
			return nil, err
		}
		out[model.RecordWeeklyCountry] = append(out[model.RecordWeeklyCountry], sec.Country...)
		out[model.RecordWeeklyPrefecture] = append(out[model.RecordWeeklyPrefecture], sec.Prefectures...)
		zap.L().Debug("parser: weekly section read",
			zap.String("fuel", string(a.Fuel)),
			zap.Int("prefectures", len(sec.Prefectures)),
		)
	}
	return out, nil
}
