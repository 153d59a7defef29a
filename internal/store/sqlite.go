package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

// runTimeLayout sorts lexically in chronological order.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// One writer keeps replace transactions from tripping SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// Prices are TEXT so SQLite's numeric affinity never rounds them.
const sqliteMigration = `
CREATE TABLE IF NOT EXISTS daily_country (
	date               TEXT NOT NULL,
	fuel_type          TEXT NOT NULL,
	number_of_stations INTEGER,
	price              TEXT,
	PRIMARY KEY (date, fuel_type)
);

CREATE TABLE IF NOT EXISTS daily_prefecture (
	date       TEXT NOT NULL,
	prefecture TEXT NOT NULL,
	fuel_type  TEXT NOT NULL,
	price      TEXT NOT NULL,
	PRIMARY KEY (date, prefecture, fuel_type)
);

CREATE TABLE IF NOT EXISTS weekly_country (
	date          TEXT NOT NULL,
	fuel_type     TEXT NOT NULL,
	lowest_price  TEXT NOT NULL,
	highest_price TEXT NOT NULL,
	median_price  TEXT NOT NULL,
	PRIMARY KEY (date, fuel_type)
);

CREATE TABLE IF NOT EXISTS weekly_prefecture (
	date          TEXT NOT NULL,
	prefecture    TEXT NOT NULL,
	fuel_type     TEXT NOT NULL,
	lowest_price  TEXT NOT NULL,
	highest_price TEXT NOT NULL,
	median_price  TEXT NOT NULL,
	PRIMARY KEY (date, prefecture, fuel_type)
);

CREATE TABLE IF NOT EXISTS import_runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	has_errors  INTEGER NOT NULL DEFAULT 0,
	report      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_import_runs_started_at ON import_runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Exists(ctx context.Context, kind model.RecordKind, date time.Time) (bool, error) {
	t, err := tableOf(kind)
	if err != nil {
		return false, err
	}
	query, args, err := s.sb.Select("1").From(t.name).
		Where(sq.Eq{colDate: sqliteDate(date)}).Limit(1).ToSql()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: build exists")
	}
	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, failure("exists", kind, date, err)
	}
	return true, nil
}

func (s *SQLiteStore) DateRange(ctx context.Context, kind model.RecordKind) (time.Time, time.Time, bool, error) {
	t, err := tableOf(kind)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	query, args, err := s.sb.Select("MIN(date)", "MAX(date)").From(t.name).ToSql()
	if err != nil {
		return time.Time{}, time.Time{}, false, eris.Wrap(err, "sqlite: build date range")
	}
	var lo, hi sql.NullString
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&lo, &hi); err != nil {
		return time.Time{}, time.Time{}, false, failure("date range", kind, time.Time{}, err)
	}
	if !lo.Valid || !hi.Valid {
		return time.Time{}, time.Time{}, false, nil
	}
	minD, err := model.ParseDate(lo.String)
	if err != nil {
		return time.Time{}, time.Time{}, false, failure("date range", kind, time.Time{}, err)
	}
	maxD, err := model.ParseDate(hi.String)
	if err != nil {
		return time.Time{}, time.Time{}, false, failure("date range", kind, time.Time{}, err)
	}
	return minD, maxD, true, nil
}

func (s *SQLiteStore) MinDate(ctx context.Context, report model.ReportKind) (time.Time, bool, error) {
	return minDate(ctx, s, report)
}

// Replace deletes the stored rows for (kind, date) and inserts recs in one
// transaction.
func (s *SQLiteStore) Replace(ctx context.Context, kind model.RecordKind, date time.Time, recs []model.PriceRecord) error {
	t, err := tableOf(kind)
	if err != nil {
		return err
	}
	day := sqliteDate(date)

	del, delArgs, err := s.sb.Delete(t.name).Where(sq.Eq{colDate: day}).ToSql()
	if err != nil {
		return eris.Wrap(err, "sqlite: build delete")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return failure("begin", kind, date, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
		return failure("delete", kind, date, err)
	}

	if len(recs) > 0 {
		ins := s.sb.Insert(t.name).Columns(t.columns...)
		for _, rec := range recs {
			ins = ins.Values(t.values(rec, day, sqliteNum)...)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return eris.Wrap(err, "sqlite: build insert")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return failure("insert", kind, date, err)
		}
	}

	return failure("commit", kind, date, tx.Commit())
}

func (s *SQLiteStore) Records(ctx context.Context, kind model.RecordKind, date time.Time) ([]model.PriceRecord, error) {
	t, err := tableOf(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := s.sb.Select(t.columns...).From(t.name).
		Where(sq.Eq{colDate: sqliteDate(date)}).OrderBy(t.key...).ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: build records")
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, failure("records", kind, date, err)
	}
	defer rows.Close() //nolint:errcheck

	var out []model.PriceRecord
	for rows.Next() {
		var (
			rec model.PriceRecord
			day string
		)
		if err := rows.Scan(t.dests(&rec, &day)...); err != nil {
			return nil, failure("records", kind, date, err)
		}
		if rec.Date, err = model.ParseDate(day); err != nil {
			return nil, failure("records", kind, date, err)
		}
		out = append(out, rec)
	}
	return out, failure("records", kind, date, rows.Err())
}

func (s *SQLiteStore) SaveRun(ctx context.Context, report *model.RunReport) error {
	data, err := sonic.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal run report")
	}
	query, args, err := s.sb.Insert("import_runs").
		Columns("id", "started_at", "finished_at", "has_errors", "report").
		Values(report.ID,
			report.StartedAt.UTC().Format(runTimeLayout),
			report.FinishedAt.UTC().Format(runTimeLayout),
			report.HasErrors(),
			string(data)).
		Suffix("ON CONFLICT (id) DO UPDATE SET finished_at = excluded.finished_at, has_errors = excluded.has_errors, report = excluded.report").
		ToSql()
	if err != nil {
		return eris.Wrap(err, "sqlite: build save run")
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return eris.Wrapf(err, "sqlite: save run %s", report.ID)
}

func (s *SQLiteStore) LastRun(ctx context.Context) (*model.RunReport, error) {
	query, args, err := s.sb.Select("report").From("import_runs").
		OrderBy("started_at DESC").Limit(1).ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: build last run")
	}
	var data string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: last run")
	}
	var report model.RunReport
	if err := sonic.UnmarshalString(data, &report); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal run report")
	}
	return &report, nil
}

func sqliteDate(t time.Time) string {
	return t.Format(model.DateLayout)
}

func sqliteNum(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}
