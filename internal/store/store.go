// Package store persists parsed price records and the import run log.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

// Sink is the narrow persistence surface the importer writes through.
type Sink interface {
	// Exists reports whether any record of kind is stored for date.
	Exists(ctx context.Context, kind model.RecordKind, date time.Time) (bool, error)
	// DateRange returns the earliest and latest stored dates for kind.
	// ok is false when nothing is stored.
	DateRange(ctx context.Context, kind model.RecordKind) (min, max time.Time, ok bool, err error)
	// Replace deletes every record of kind on date and inserts recs, atomically.
	Replace(ctx context.Context, kind model.RecordKind, date time.Time, recs []model.PriceRecord) error
	// MinDate returns the earliest of the latest stored dates across the
	// record kinds report produces. ok is false when none has data.
	MinDate(ctx context.Context, report model.ReportKind) (time.Time, bool, error)
}

// Store is a Sink with lifecycle, read-back and run log operations.
type Store interface {
	Sink

	Records(ctx context.Context, kind model.RecordKind, date time.Time) ([]model.PriceRecord, error)

	SaveRun(ctx context.Context, report *model.RunReport) error
	// LastRun returns the most recently started run, or nil.
	LastRun(ctx context.Context) (*model.RunReport, error)

	Migrate(ctx context.Context) error
	Close() error
}

// StorageFailure wraps a database error with the record kind and date it
// was raised for.
type StorageFailure struct {
	Op   string
	Kind model.RecordKind
	Date time.Time
	Err  error
}

func (e *StorageFailure) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("store: %s %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("store: %s %s %s: %v", e.Op, e.Kind, e.Date.Format(model.DateLayout), e.Err)
}

func (e *StorageFailure) Unwrap() error { return e.Err }

func failure(op string, kind model.RecordKind, date time.Time, err error) error {
	if err == nil {
		return nil
	}
	return &StorageFailure{Op: op, Kind: kind, Date: date, Err: err}
}

// minDate folds per-kind ranges into the earliest latest date.
func minDate(ctx context.Context, s Sink, report model.ReportKind) (time.Time, bool, error) {
	var (
		out   time.Time
		found bool
	)
	for _, kind := range report.RecordKinds() {
		_, last, ok, err := s.DateRange(ctx, kind)
		if err != nil {
			return time.Time{}, false, err
		}
		if !ok {
			continue
		}
		if !found || last.Before(out) {
			out, found = last, true
		}
	}
	return out, found, nil
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
