// Package parser turns the extracted text of a fuel price bulletin into
// price records.
package parser

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fuelprices-cli/internal/match"
	"github.com/sells-group/fuelprices-cli/internal/model"
)

// Parser parses one report kind.
type Parser interface {
	Kind() model.ReportKind
	Parse(text string, date time.Time) (model.Records, error)
}

// New returns the parser for kind.
func New(kind model.ReportKind, tables *match.Tables) (Parser, error) {
	switch kind {
	case model.ReportDailyNational:
		return &dailyNational{tables: tables}, nil
	case model.ReportDailyRegional:
		return &dailyRegional{tables: tables}, nil
	case model.ReportWeekly:
		return &weekly{tables: tables}, nil
	default:
		return nil, eris.Errorf("parser: unknown report kind %q", kind)
	}
}

// Set holds one parser per report kind.
type Set struct {
	parsers map[model.ReportKind]Parser
}

// NewSet builds parsers for every report kind over tables.
func NewSet(tables *match.Tables) *Set {
	s := &Set{parsers: make(map[model.ReportKind]Parser, len(model.ReportKinds))}
	for _, k := range model.ReportKinds {
		p, err := New(k, tables)
		if err != nil {
			panic(err)
		}
		s.parsers[k] = p
	}
	return s
}

// Parse normalises text and parses it as a document of kind published on date.
func (s *Set) Parse(kind model.ReportKind, text string, date time.Time) (model.Records, error) {
	p, ok := s.parsers[kind]
	if !ok {
		return nil, eris.Errorf("parser: unknown report kind %q", kind)
	}
	return p.Parse(text, date)
}

func prepare(text string) (string, error) {
	text = Normalize(text)
	if strings.TrimSpace(text) == "" {
		return "", &ParseFailure{Reason: ReasonUnreadable, Detail: "empty text"}
	}
	return text, nil
}

type dailyNational struct {
	tables *match.Tables
}

func (p *dailyNational) Kind() model.ReportKind { return model.ReportDailyNational }

func (p *dailyNational) Parse(text string, date time.Time) (model.Records, error) {
	text, err := prepare(text)
	if err != nil {
		return nil, err
	}
	anchors, err := LocateAnchors(p.tables.Daily, text, date)
	if err != nil {
		return nil, err
	}
	return model.Records{model.RecordDailyCountry: extractNational(text, anchors, date)}, nil
}

type dailyRegional struct {
	tables *match.Tables
}

func (p *dailyRegional) Kind() model.ReportKind { return model.ReportDailyRegional }

func (p *dailyRegional) Parse(text string, date time.Time) (model.Records, error) {
	text, err := prepare(text)
	if err != nil {
		return nil, err
	}
	anchors, err := LocateAnchors(p.tables.Daily, text, date)
	if err != nil {
		return nil, err
	}
	recs, err := extractRegional(p.tables, text, anchors, date)
	if err != nil {
		return nil, err
	}
	return model.Records{model.RecordDailyPrefecture: recs}, nil
}

type weekly struct {
	tables *match.Tables
}

func (p *weekly) Kind() model.ReportKind { return model.ReportWeekly }

func (p *weekly) Parse(text string, date time.Time) (model.Records, error) {
	text, err := prepare(text)
	if err != nil {
		return nil, err
	}
	anchors, err := LocateAnchors(p.tables.Weekly, text, date)
	if err != nil {
		return nil, err
	}
	return extractWeekly(p.tables, text, anchors, date)
}
