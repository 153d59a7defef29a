package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Stage names the pipeline step a date failed in.
type Stage string

const (
	StageFetch   Stage = "fetch"
	StageExtract Stage = "extract"
	StageParse   Stage = "parse"
	StageStore   Stage = "store"
)

// DateFailure records why one (record kind, date) could not be imported.
type DateFailure struct {
	Kind   RecordKind `json:"kind"`
	Date   time.Time  `json:"date"`
	Stage  Stage      `json:"stage"`
	Reason string     `json:"reason"`
}

// KindCounts holds per record kind date counters.
type KindCounts struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	NoData    int `json:"no_data"`
	Failed    int `json:"failed"`
	Records   int `json:"records"`
}

// RunReport is the aggregate outcome of one import run.
type RunReport struct {
	ID         string                    `json:"id"`
	StartedAt  time.Time                 `json:"started_at"`
	FinishedAt time.Time                 `json:"finished_at"`
	Counts     map[RecordKind]KindCounts `json:"counts"`
	Failures   []DateFailure             `json:"failures,omitempty"`
	Cancelled  bool                      `json:"cancelled,omitempty"`
}

// NewRunReport creates an empty report.
func NewRunReport(id string, startedAt time.Time) *RunReport {
	return &RunReport{
		ID:        id,
		StartedAt: startedAt,
		Counts:    make(map[RecordKind]KindCounts),
	}
}

// Totals sums the counters across record kinds.
func (r *RunReport) Totals() KindCounts {
	var t KindCounts
	for _, c := range r.Counts {
		t.Processed += c.Processed
		t.Skipped += c.Skipped
		t.NoData += c.NoData
		t.Failed += c.Failed
		t.Records += c.Records
	}
	return t
}

// HasErrors reports whether any date failed or the run was cancelled.
func (r *RunReport) HasErrors() bool {
	return len(r.Failures) > 0 || r.Cancelled
}

// Summary renders a short multi-line text for humans.
func (r *RunReport) Summary() string {
	var b strings.Builder
	t := r.Totals()
	fmt.Fprintf(&b, "import run %s: processed=%d skipped=%d no_data=%d failed=%d records=%d\n",
		r.ID, t.Processed, t.Skipped, t.NoData, t.Failed, t.Records)

	kinds := make([]string, 0, len(r.Counts))
	for k := range r.Counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		c := r.Counts[RecordKind(k)]
		fmt.Fprintf(&b, "  %-18s processed=%d skipped=%d no_data=%d failed=%d records=%d\n",
			k, c.Processed, c.Skipped, c.NoData, c.Failed, c.Records)
	}
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "  FAILED %s %s [%s]: %s\n", f.Kind, f.Date.Format(DateLayout), f.Stage, f.Reason)
	}
	if r.Cancelled {
		b.WriteString("  run cancelled before all dates were processed\n")
	}
	return b.String()
}
