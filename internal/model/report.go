package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// DateLayout is the canonical date format used for cache keys, flags and logs.
const DateLayout = "2006-01-02"

// ReportKind identifies one of the three bulletin families.
type ReportKind string

const (
	ReportDailyNational ReportKind = "daily_national"
	ReportDailyRegional ReportKind = "daily_regional"
	ReportWeekly        ReportKind = "weekly"
)

// ReportKinds lists every report kind.
var ReportKinds = []ReportKind{ReportDailyNational, ReportDailyRegional, ReportWeekly}

// RecordKind is the storage granularity replaced atomically per date.
type RecordKind string

const (
	RecordDailyCountry     RecordKind = "daily_country"
	RecordDailyPrefecture  RecordKind = "daily_prefecture"
	RecordWeeklyCountry    RecordKind = "weekly_country"
	RecordWeeklyPrefecture RecordKind = "weekly_prefecture"
)

// RecordKinds lists every record kind.
var RecordKinds = []RecordKind{
	RecordDailyCountry,
	RecordDailyPrefecture,
	RecordWeeklyCountry,
	RecordWeeklyPrefecture,
}

type reportInfo struct {
	page    string
	prefix  string
	records []RecordKind
}

var reports = map[ReportKind]reportInfo{
	ReportDailyNational: {
		page:    "deltia_d.view",
		prefix:  "IMERISIO_DELTIO_PANELLINIO",
		records: []RecordKind{RecordDailyCountry},
	},
	ReportDailyRegional: {
		page:    "deltia_dn.view",
		prefix:  "IMERISIO_DELTIO_ANA_NOMO",
		records: []RecordKind{RecordDailyPrefecture},
	},
	ReportWeekly: {
		page:    "deltia.view",
		prefix:  "EBDOM_DELTIO",
		records: []RecordKind{RecordWeeklyCountry, RecordWeeklyPrefecture},
	},
}

// weeklyFileDates maps publication dates whose file carries a different date.
var weeklyFileDates = map[string]time.Time{
	"2015-03-06": Day(2015, time.March, 2),
	"2017-07-07": Day(2017, time.July, 10),
	"2022-12-23": Day(2022, time.December, 22),
	"2024-01-26": Day(2024, time.January, 25),
}

// weeklyDoubleDot lists publication dates whose file name ends in "..pdf".
var weeklyDoubleDot = map[string]bool{
	"2018-01-05": true,
}

func (k ReportKind) String() string {
	return string(k)
}

// Valid reports whether k is a known report kind.
func (k ReportKind) Valid() bool {
	_, ok := reports[k]
	return ok
}

// Page returns the listing page path relative to the site root.
func (k ReportKind) Page() string {
	return reports[k].page
}

// Prefix returns the document file-name prefix.
func (k ReportKind) Prefix() string {
	return reports[k].prefix
}

// RecordKinds returns the record kinds a document of this kind yields.
func (k ReportKind) RecordKinds() []RecordKind {
	return append([]RecordKind(nil), reports[k].records...)
}

// Publishes reports whether a document is issued on date.
// Weekly bulletins are dated on Fridays.
func (k ReportKind) Publishes(date time.Time) bool {
	if k == ReportWeekly {
		return date.Weekday() == time.Friday
	}
	return true
}

// Dates returns the publication dates in [start, end], ascending.
func (k ReportKind) Dates(start, end time.Time) []time.Time {
	start, end = DateOf(start), DateOf(end)
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if k.Publishes(d) {
			out = append(out, d)
		}
	}
	return out
}

// FileName returns the remote document name for date.
func (k ReportKind) FileName(date time.Time) string {
	key := date.Format(DateLayout)
	fileDate := date
	ext := ".pdf"
	if k == ReportWeekly {
		if d, ok := weeklyFileDates[key]; ok {
			fileDate = d
		}
		if weeklyDoubleDot[key] {
			ext = "..pdf"
		}
	}
	return fmt.Sprintf("%s_%s%s", k.Prefix(), fileDate.Format("02_01_2006"), ext)
}

// URL returns the document location under baseURL.
func (k ReportKind) URL(baseURL string, date time.Time) string {
	return strings.TrimRight(baseURL, "/") + "/files/deltia/" + k.FileName(date)
}

// PageURL returns the listing page location under baseURL.
func (k ReportKind) PageURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/" + k.Page()
}

// ParseReportKind converts a name like "weekly" into a ReportKind.
func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(s)
	if !k.Valid() {
		return "", eris.Errorf("unknown report kind: %q (valid: daily_national, daily_regional, weekly)", s)
	}
	return k, nil
}

var recordMinDates = map[RecordKind]time.Time{
	RecordWeeklyCountry:    Day(2012, time.April, 27),
	RecordWeeklyPrefecture: Day(2012, time.April, 27),
	RecordDailyCountry:     Day(2017, time.March, 14),
	RecordDailyPrefecture:  Day(2017, time.March, 14),
}

func (r RecordKind) String() string {
	return string(r)
}

// Valid reports whether r is a known record kind.
func (r RecordKind) Valid() bool {
	_, ok := recordMinDates[r]
	return ok
}

// MinDate returns the earliest date the source has data for.
func (r RecordKind) MinDate() time.Time {
	return recordMinDates[r]
}

// Report returns the report kind that produces r.
func (r RecordKind) Report() ReportKind {
	switch r {
	case RecordDailyCountry:
		return ReportDailyNational
	case RecordDailyPrefecture:
		return ReportDailyRegional
	default:
		return ReportWeekly
	}
}

// Regional reports whether records of this kind are keyed by prefecture.
func (r RecordKind) Regional() bool {
	return r == RecordDailyPrefecture || r == RecordWeeklyPrefecture
}

// Weekly reports whether records of this kind carry price triplets.
func (r RecordKind) Weekly() bool {
	return r == RecordWeeklyCountry || r == RecordWeeklyPrefecture
}

// ParseRecordKind converts a name like "daily_country" into a RecordKind.
func ParseRecordKind(s string) (RecordKind, error) {
	r := RecordKind(s)
	if !r.Valid() {
		return "", eris.Errorf("unknown record kind: %q", s)
	}
	return r, nil
}

// Day returns midnight UTC of the given calendar day.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Day(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parse date %q", s)
	}
	return t, nil
}
