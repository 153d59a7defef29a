package store

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/fuelprices-cli/internal/db"
	"github.com/sells-group/fuelprices-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

var pgsq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS daily_country (
	date               DATE NOT NULL,
	fuel_type          TEXT NOT NULL,
	number_of_stations INTEGER,
	price              NUMERIC(6, 3),
	PRIMARY KEY (date, fuel_type)
);

CREATE TABLE IF NOT EXISTS daily_prefecture (
	date       DATE NOT NULL,
	prefecture TEXT NOT NULL,
	fuel_type  TEXT NOT NULL,
	price      NUMERIC(6, 3) NOT NULL,
	PRIMARY KEY (date, prefecture, fuel_type)
);

CREATE TABLE IF NOT EXISTS weekly_country (
	date          DATE NOT NULL,
	fuel_type     TEXT NOT NULL,
	lowest_price  NUMERIC(6, 3) NOT NULL,
	highest_price NUMERIC(6, 3) NOT NULL,
	median_price  NUMERIC(6, 3) NOT NULL,
	PRIMARY KEY (date, fuel_type)
);

CREATE TABLE IF NOT EXISTS weekly_prefecture (
	date          DATE NOT NULL,
	prefecture    TEXT NOT NULL,
	fuel_type     TEXT NOT NULL,
	lowest_price  NUMERIC(6, 3) NOT NULL,
	highest_price NUMERIC(6, 3) NOT NULL,
	median_price  NUMERIC(6, 3) NOT NULL,
	PRIMARY KEY (date, prefecture, fuel_type)
);

CREATE TABLE IF NOT EXISTS import_runs (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	has_errors  BOOLEAN NOT NULL DEFAULT false,
	report      JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_import_runs_started_at ON import_runs(started_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Exists(ctx context.Context, kind model.RecordKind, date time.Time) (bool, error) {
	t, err := tableOf(kind)
	if err != nil {
		return false, err
	}
	query, args, err := pgsq.Select("1").From(t.name).
		Where(sq.Eq{colDate: date}).Limit(1).ToSql()
	if err != nil {
		return false, eris.Wrap(err, "postgres: build exists")
	}
	var one int
	err = s.pool.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, failure("exists", kind, date, err)
	}
	return true, nil
}

func (s *PostgresStore) DateRange(ctx context.Context, kind model.RecordKind) (time.Time, time.Time, bool, error) {
	t, err := tableOf(kind)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	query, args, err := pgsq.Select("MIN(date)", "MAX(date)").From(t.name).ToSql()
	if err != nil {
		return time.Time{}, time.Time{}, false, eris.Wrap(err, "postgres: build date range")
	}
	var lo, hi pgtype.Date
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&lo, &hi); err != nil {
		return time.Time{}, time.Time{}, false, failure("date range", kind, time.Time{}, err)
	}
	if !lo.Valid || !hi.Valid {
		return time.Time{}, time.Time{}, false, nil
	}
	return model.DateOf(lo.Time), model.DateOf(hi.Time), true, nil
}

func (s *PostgresStore) MinDate(ctx context.Context, report model.ReportKind) (time.Time, bool, error) {
	return minDate(ctx, s, report)
}

// Replace deletes the stored rows for (kind, date) and copies recs in, in
// one transaction.
func (s *PostgresStore) Replace(ctx context.Context, kind model.RecordKind, date time.Time, recs []model.PriceRecord) error {
	t, err := tableOf(kind)
	if err != nil {
		return err
	}
	rows := make([][]any, len(recs))
	for i, rec := range recs {
		rows[i] = t.values(rec, date, pgNum)
	}
	_, _, err = db.ReplaceRows(ctx, s.pool, db.ReplaceConfig{
		Table:   t.name,
		Columns: t.columns,
		Where:   sq.Eq{colDate: date},
	}, rows)
	return failure("replace", kind, date, err)
}

func (s *PostgresStore) Records(ctx context.Context, kind model.RecordKind, date time.Time) ([]model.PriceRecord, error) {
	t, err := tableOf(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := pgsq.Select(t.columns...).From(t.name).
		Where(sq.Eq{colDate: date}).OrderBy(t.key...).ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "postgres: build records")
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, failure("records", kind, date, err)
	}
	defer rows.Close()

	var out []model.PriceRecord
	for rows.Next() {
		var (
			rec model.PriceRecord
			day time.Time
		)
		if err := rows.Scan(t.dests(&rec, &day)...); err != nil {
			return nil, failure("records", kind, date, err)
		}
		rec.Date = model.DateOf(day)
		out = append(out, rec)
	}
	return out, failure("records", kind, date, rows.Err())
}

func (s *PostgresStore) SaveRun(ctx context.Context, report *model.RunReport) error {
	data, err := sonic.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal run report")
	}
	query, args, err := pgsq.Insert("import_runs").
		Columns("id", "started_at", "finished_at", "has_errors", "report").
		Values(report.ID, report.StartedAt.UTC(), report.FinishedAt.UTC(), report.HasErrors(), data).
		Suffix("ON CONFLICT (id) DO UPDATE SET finished_at = EXCLUDED.finished_at, has_errors = EXCLUDED.has_errors, report = EXCLUDED.report").
		ToSql()
	if err != nil {
		return eris.Wrap(err, "postgres: build save run")
	}
	_, err = s.pool.Exec(ctx, query, args...)
	return eris.Wrapf(err, "postgres: save run %s", report.ID)
}

func (s *PostgresStore) LastRun(ctx context.Context) (*model.RunReport, error) {
	query, args, err := pgsq.Select("report").From("import_runs").
		OrderBy("started_at DESC").Limit(1).ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "postgres: build last run")
	}
	var data []byte
	err = s.pool.QueryRow(ctx, query, args...).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: last run")
	}
	var report model.RunReport
	if err := sonic.Unmarshal(data, &report); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal run report")
	}
	return &report, nil
}

func pgNum(d decimal.NullDecimal) any {
	if !d.Valid {
		return pgtype.Numeric{}
	}
	return pgtype.Numeric{Int: d.Decimal.Coefficient(), Exp: d.Decimal.Exponent(), Valid: true}
}
