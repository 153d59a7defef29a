package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord is one parsed price row. Which fields are meaningful depends on
// the RecordKind it is stored under:
//
//	daily_country      FuelType, Stations, Price
//	daily_prefecture   Prefecture, FuelType, Price
//	weekly_country     FuelType, Lowest, Highest, Median
//	weekly_prefecture  Prefecture, FuelType, Lowest, Highest, Median
type PriceRecord struct {
	Date       time.Time           `json:"date"`
	FuelType   FuelType            `json:"fuel_type"`
	Prefecture Prefecture          `json:"prefecture,omitempty"`
	Stations   *int64              `json:"number_of_stations,omitempty"`
	Price      decimal.NullDecimal `json:"price"`
	Lowest     decimal.Decimal     `json:"lowest_price"`
	Highest    decimal.Decimal     `json:"highest_price"`
	Median     decimal.Decimal     `json:"median_price"`
}

// Key returns the uniqueness key of the record within its RecordKind.
func (r PriceRecord) Key() string {
	if r.Prefecture != "" {
		return r.Date.Format(DateLayout) + "/" + string(r.Prefecture) + "/" + string(r.FuelType)
	}
	return r.Date.Format(DateLayout) + "/" + string(r.FuelType)
}

// Records groups parsed rows by the record kind they are stored under.
type Records map[RecordKind][]PriceRecord

// Count returns the total number of records across kinds.
func (r Records) Count() int {
	n := 0
	for _, recs := range r {
		n += len(recs)
	}
	return n
}
