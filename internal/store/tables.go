package store

import (
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

const (
	colDate       = "date"
	colPrefecture = "prefecture"
	colFuel       = "fuel_type"
	colStations   = "number_of_stations"
	colPrice      = "price"
	colLowest     = "lowest_price"
	colHighest    = "highest_price"
	colMedian     = "median_price"
)

// table maps a record kind to its relation. Each kind lives in a table named
// after it.
type table struct {
	name    string
	columns []string
	// key is the ordering and uniqueness key within one date.
	key []string
}

var tables = map[model.RecordKind]table{
	model.RecordDailyCountry: {
		name:    string(model.RecordDailyCountry),
		columns: []string{colDate, colFuel, colStations, colPrice},
		key:     []string{colFuel},
	},
	model.RecordDailyPrefecture: {
		name:    string(model.RecordDailyPrefecture),
		columns: []string{colDate, colPrefecture, colFuel, colPrice},
		key:     []string{colPrefecture, colFuel},
	},
	model.RecordWeeklyCountry: {
		name:    string(model.RecordWeeklyCountry),
		columns: []string{colDate, colFuel, colLowest, colHighest, colMedian},
		key:     []string{colFuel},
	},
	model.RecordWeeklyPrefecture: {
		name:    string(model.RecordWeeklyPrefecture),
		columns: []string{colDate, colPrefecture, colFuel, colLowest, colHighest, colMedian},
		key:     []string{colPrefecture, colFuel},
	},
}

func tableOf(kind model.RecordKind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, eris.Errorf("store: unknown record kind %q", kind)
	}
	return t, nil
}

// values returns rec's column values in table order. date is the driver
// value for the date column and num converts prices for the driver.
func (t table) values(rec model.PriceRecord, date any, num func(decimal.NullDecimal) any) []any {
	out := make([]any, len(t.columns))
	for i, c := range t.columns {
		switch c {
		case colDate:
			out[i] = date
		case colPrefecture:
			out[i] = string(rec.Prefecture)
		case colFuel:
			out[i] = string(rec.FuelType)
		case colStations:
			if rec.Stations != nil {
				out[i] = *rec.Stations
			}
		case colPrice:
			out[i] = num(rec.Price)
		case colLowest:
			out[i] = num(valid(rec.Lowest))
		case colHighest:
			out[i] = num(valid(rec.Highest))
		case colMedian:
			out[i] = num(valid(rec.Median))
		}
	}
	return out
}

// dests returns scan destinations for t's columns pointing into rec. The
// date column scans into date.
func (t table) dests(rec *model.PriceRecord, date any) []any {
	out := make([]any, len(t.columns))
	for i, c := range t.columns {
		switch c {
		case colDate:
			out[i] = date
		case colPrefecture:
			out[i] = &rec.Prefecture
		case colFuel:
			out[i] = &rec.FuelType
		case colStations:
			out[i] = &rec.Stations
		case colPrice:
			out[i] = &rec.Price
		case colLowest:
			out[i] = &rec.Lowest
		case colHighest:
			out[i] = &rec.Highest
		case colMedian:
			out[i] = &rec.Median
		}
	}
	return out
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
