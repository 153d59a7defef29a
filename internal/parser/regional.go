package parser

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/fuelprices-cli/internal/match"
	"github.com/sells-group/fuelprices-cli/internal/model"
)

// regionRow is one row of a per-prefecture table: the resolved region and the
// raw value tokens that follow its name on the same line.
type regionRow struct {
	Prefecture model.Prefecture
	Tokens     []string
}

// scanRegions splits text on the region marker and resolves every row. Each
// row's tokens are those matched by tok on the first line after the region
// name. It fails unless exactly the 51 distinct prefectures are present.
func scanRegions(tables *match.Tables, text string, tok tokenizer) ([]regionRow, error) {
	locs := match.RegionMarker.FindAllStringIndex(text, -1)
	rows := make([]regionRow, 0, len(locs))
	seen := make(map[model.Prefecture]bool, model.PrefectureCount)

	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		seg := text[loc[1]:end]
		p, n, ok := tables.Prefecture(seg)
		if !ok {
			return nil, failf(ReasonUnknownRegion, "row %d: %q", i+1, firstLine(seg))
		}
		if seen[p] {
			return nil, failf(ReasonRegionCount, "%s listed twice", p)
		}
		seen[p] = true
		rows = append(rows, regionRow{Prefecture: p, Tokens: tok(firstLine(seg[n:]))})
	}

	if len(rows) != model.PrefectureCount {
		return nil, failf(ReasonRegionCount, "found %d of %d regions", len(rows), model.PrefectureCount)
	}
	return rows, nil
}

type tokenizer func(line string) []string

func priceTokens(line string) []string {
	return priceToken.FindAllString(line, -1)
}

// alignTokens maps a row's tokens onto the fuel columns. A row that is one
// token short while a Super column exists is assumed to lack only the Super
// price; the gap is filled with an absent placeholder.
func alignTokens(row regionRow, fuels []model.FuelType) ([]string, error) {
	tokens := row.Tokens
	if len(tokens) == len(fuels) {
		return tokens, nil
	}
	super := -1
	for i, f := range fuels {
		if f == model.FuelSuper {
			super = i
		}
	}
	if len(tokens) == len(fuels)-1 && super >= 0 {
		out := make([]string, 0, len(fuels))
		out = append(out, tokens[:super]...)
		out = append(out, "")
		out = append(out, tokens[super:]...)
		return out, nil
	}
	return nil, failf(ReasonRowTokens, "%s: %d values for %d columns", row.Prefecture, len(tokens), len(fuels))
}

// extractRegional reads the per-prefecture table that follows the last
// anchor. The anchors give the column order.
func extractRegional(tables *match.Tables, text string, anchors []Anchor, date time.Time) ([]model.PriceRecord, error) {
	if len(anchors) == 0 {
		return nil, failf(ReasonMissingAnchor, "no column headers")
	}
	fuels := make([]model.FuelType, len(anchors))
	for i, a := range anchors {
		fuels[i] = a.Fuel
	}

	rows, err := scanRegions(tables, text[anchors[len(anchors)-1].End:], priceTokens)
	if err != nil {
		return nil, err
	}

	out := make([]model.PriceRecord, 0, len(rows)*len(fuels))
	for _, row := range rows {
		tokens, err := alignTokens(row, fuels)
		if err != nil {
			return nil, err
		}
		for i, tok := range tokens {
			price, err := parsePrice(tok)
			if err != nil {
				return nil, failf(ReasonRowTokens, "%s %s: %v", row.Prefecture, fuels[i], err)
			}
			if !price.Valid || price.Decimal.IsZero() {
				continue
			}
			out = append(out, model.PriceRecord{
				Date:       date,
				FuelType:   fuels[i],
				Prefecture: row.Prefecture,
				Price:      price,
			})
		}
	}
	zap.L().Debug("parser: regional table read",
		zap.String("date", date.Format(model.DateLayout)),
		zap.Int("records", len(out)),
	)
	return out, nil
}
