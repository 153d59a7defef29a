package model

import "github.com/rotisserie/eris"

// FuelType identifies a fuel grade reported in the bulletins.
type FuelType string

const (
	FuelUnleaded95    FuelType = "UNLEADED_95"
	FuelUnleaded100   FuelType = "UNLEADED_100"
	FuelSuper         FuelType = "SUPER"
	FuelDiesel        FuelType = "DIESEL"
	FuelDieselHeating FuelType = "DIESEL_HEATING"
	FuelGas           FuelType = "GAS"
)

// FuelTypes lists every fuel type in declaration order.
var FuelTypes = []FuelType{
	FuelUnleaded95,
	FuelUnleaded100,
	FuelSuper,
	FuelDiesel,
	FuelDieselHeating,
	FuelGas,
}

var fuelLabels = map[FuelType]string{
	FuelUnleaded95:    "Αμόλυβδη 95",
	FuelUnleaded100:   "Αμόλυβδη 100",
	FuelSuper:         "Super",
	FuelDiesel:        "Diesel",
	FuelDieselHeating: "Diesel Θέρμανσης",
	FuelGas:           "Υγραέριο",
}

// Label returns the Greek display label.
func (f FuelType) Label() string {
	return fuelLabels[f]
}

func (f FuelType) String() string {
	return string(f)
}

// Valid reports whether f is a known fuel type.
func (f FuelType) Valid() bool {
	_, ok := fuelLabels[f]
	return ok
}

// ParseFuelType converts an identifier like "DIESEL" into a FuelType.
func ParseFuelType(s string) (FuelType, error) {
	f := FuelType(s)
	if !f.Valid() {
		return "", eris.Errorf("unknown fuel type: %q", s)
	}
	return f, nil
}
