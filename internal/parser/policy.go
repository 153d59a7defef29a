package parser

import (
	"time"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

// Presence says how to treat a fuel label missing from a document.
type Presence int

const (
	// Mandatory labels abort the document when missing.
	Mandatory Presence = iota
	// Expected labels are logged as a warning when missing.
	Expected
	// Optional labels are silently skipped when missing.
	Optional
)

func (p Presence) String() string {
	switch p {
	case Mandatory:
		return "mandatory"
	case Expected:
		return "expected"
	default:
		return "optional"
	}
}

var (
	// SuperCutoff is the first date without Super grade data.
	SuperCutoff = model.Day(2022, time.August, 5)
	// GasStart is the last date before LPG prices were published.
	GasStart = model.Day(2012, time.June, 1)
)

// InHeatingSeason reports whether heating diesel is sold on date
// (15 October through 30 April).
func InHeatingSeason(date time.Time) bool {
	m, d := date.Month(), date.Day()
	return m > time.October || (m == time.October && d >= 15) || m <= time.April
}

// PresenceOf returns the policy for fuel on date.
func PresenceOf(fuel model.FuelType, date time.Time) Presence {
	switch fuel {
	case model.FuelSuper:
		if !date.Before(SuperCutoff) {
			return Optional
		}
	case model.FuelGas:
		if !date.After(GasStart) {
			return Optional
		}
	case model.FuelDieselHeating:
		if InHeatingSeason(date) {
			return Expected
		}
		return Optional
	}
	return Mandatory
}
