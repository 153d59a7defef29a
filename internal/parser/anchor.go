package parser

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/fuelprices-cli/internal/match"
	"github.com/sells-group/fuelprices-cli/internal/model"
)

// Anchor is the position of a fuel label (or weekly section header) in the
// document text.
type Anchor struct {
	Fuel  model.FuelType
	Start int
	End   int
}

// SortAnchors orders anchors by position. Ties keep their input order.
func SortAnchors(anchors []Anchor) {
	sort.SliceStable(anchors, func(i, j int) bool {
		return anchors[i].Start < anchors[j].Start
	})
}

// LocateAnchors finds the first occurrence of every fuel label of table in
// text and returns them ordered by position. A missing mandatory label is a
// ParseFailure; a missing heating-season label is logged.
func LocateAnchors(table *match.Table, text string, date time.Time) ([]Anchor, error) {
	anchors := make([]Anchor, 0, len(model.FuelTypes))
	for _, fuel := range model.FuelTypes {
		entry, ok := table.Get(string(fuel))
		if !ok {
			continue
		}
		start, end, found := entry.Find(text)
		if found {
			anchors = append(anchors, Anchor{Fuel: fuel, Start: start, End: end})
			continue
		}
		switch PresenceOf(fuel, date) {
		case Mandatory:
			return nil, failf(ReasonMissingAnchor, "%s not found (%s)", fuel, date.Format(model.DateLayout))
		case Expected:
			zap.L().Warn("parser: fuel label missing",
				zap.String("fuel", string(fuel)),
				zap.String("date", date.Format(model.DateLayout)),
			)
		}
	}
	SortAnchors(anchors)
	return anchors, nil
}

// indexOf returns the position of fuel among anchors, or -1.
func indexOf(anchors []Anchor, fuel model.FuelType) int {
	for i, a := range anchors {
		if a.Fuel == fuel {
			return i
		}
	}
	return -1
}

// window returns the text between the end of anchors[i] and the start of the
// next anchor, or the end of text for the last one.
func window(text string, anchors []Anchor, i int) string {
	end := len(text)
	if i+1 < len(anchors) {
		end = anchors[i+1].Start
	}
	if end < anchors[i].End {
		return ""
	}
	return text[anchors[i].End:end]
}
