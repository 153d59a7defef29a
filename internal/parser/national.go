package parser

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

// splitNational decides which of a national row's tokens are the station
// count and the price. Some bulletins split a four digit count ("1 234",
// "1. 234") or a price ("1, 789", "9 876") across two tokens.
func splitNational(tokens []string) (count, price string, ok bool) {
	switch len(tokens) {
	case 2:
		return tokens[0], tokens[1], true
	case 3:
		t0, t1, t2 := tokens[0], tokens[1], tokens[2]
		switch {
		case strings.Contains(t1, ","):
			return t0, t1 + t2, true
		case strings.Contains(t0, "."):
			return t0 + t1, t2, true
		case strings.Contains(t2, ","):
			// "1 234 9,876": the thousands separator was lost.
			if digits(t0, 1, 3) && digits(t1, 3, 3) {
				return t0 + t1, t2, true
			}
		case !hasSeparator(t0) && !hasSeparator(t1) && !hasSeparator(t2):
			// "123 9 876": the decimal comma was lost.
			if digits(t0, 1, 4) && digits(t1, 1, 1) && digits(t2, 2, 3) {
				return t0, t1 + "," + t2, true
			}
		}
	case 4:
		return tokens[0] + tokens[1], tokens[2] + tokens[3], true
	}
	return "", "", false
}

func hasSeparator(tok string) bool {
	return strings.ContainsAny(tok, ",.")
}

// digits reports whether tok is all ASCII digits with a length in [lo, hi].
func digits(tok string, lo, hi int) bool {
	if len(tok) < lo || len(tok) > hi {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

// nationalRow converts the first line after a fuel label into a record.
// ok is false when the row is unusable or carries neither value.
func nationalRow(fuel model.FuelType, line string, date time.Time) (model.PriceRecord, bool) {
	tokens := strings.Fields(line)
	countTok, priceTok, ok := splitNational(tokens)
	if !ok {
		zap.L().Warn("parser: unexpected national row",
			zap.String("fuel", string(fuel)),
			zap.String("date", date.Format(model.DateLayout)),
			zap.Strings("tokens", tokens),
		)
		return model.PriceRecord{}, false
	}

	stations, err := parseCount(countTok)
	if err != nil {
		zap.L().Warn("parser: bad station count", zap.String("fuel", string(fuel)), zap.Error(err))
		return model.PriceRecord{}, false
	}
	price, err := parsePrice(priceTok)
	if err != nil {
		zap.L().Warn("parser: bad national price", zap.String("fuel", string(fuel)), zap.Error(err))
		return model.PriceRecord{}, false
	}

	if stations != nil && *stations == 0 {
		stations = nil
	}
	if price.Valid && price.Decimal.IsZero() {
		price.Valid = false
	}
	if stations == nil && !price.Valid {
		return model.PriceRecord{}, false
	}
	return model.PriceRecord{
		Date:     date,
		FuelType: fuel,
		Stations: stations,
		Price:    price,
	}, true
}

func extractNational(text string, anchors []Anchor, date time.Time) []model.PriceRecord {
	var out []model.PriceRecord
	for i, a := range anchors {
		if rec, ok := nationalRow(a.Fuel, firstLine(window(text, anchors, i)), date); ok {
			out = append(out, rec)
		}
	}
	return out
}
