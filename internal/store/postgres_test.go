package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fuelprices-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Replace(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	day := model.Day(2023, time.March, 14)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM daily_country WHERE date = \$1`).
		WithArgs(day).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCopyFrom(pgx.Identifier{"daily_country"}, []string{"date", "fuel_type", "number_of_stations", "price"}).
		WillReturnResult(3)
	mock.ExpectCommit()

	err := s.Replace(context.Background(), model.RecordDailyCountry, day, dailyCountry(day))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ReplaceDeleteError(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	day := model.Day(2023, time.March, 17)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM weekly_prefecture`).
		WithArgs(day).
		WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	err := s.Replace(context.Background(), model.RecordWeeklyPrefecture, day, nil)
	require.Error(t, err)

	var sf *StorageFailure
	require.True(t, errors.As(err, &sf))
	assert.Equal(t, model.RecordWeeklyPrefecture, sf.Kind)
	assert.Contains(t, err.Error(), "relation does not exist")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Exists(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	day := model.Day(2023, time.March, 14)

	mock.ExpectQuery(`SELECT 1 FROM daily_prefecture WHERE date = \$1 LIMIT 1`).
		WithArgs(day).
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(`SELECT 1 FROM daily_prefecture`).
		WithArgs(day).
		WillReturnError(pgx.ErrNoRows)

	ok, err := s.Exists(context.Background(), model.RecordDailyPrefecture, day)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(context.Background(), model.RecordDailyPrefecture, day)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DateRange(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	lo := model.Day(2017, time.March, 14)
	hi := model.Day(2023, time.March, 14)
	mock.ExpectQuery(`SELECT MIN\(date\), MAX\(date\) FROM daily_country`).
		WillReturnRows(pgxmock.NewRows([]string{"min", "max"}).
			AddRow(pgtype.Date{Time: lo, Valid: true}, pgtype.Date{Time: hi, Valid: true}))
	mock.ExpectQuery(`SELECT MIN\(date\), MAX\(date\) FROM weekly_country`).
		WillReturnRows(pgxmock.NewRows([]string{"min", "max"}).
			AddRow(pgtype.Date{}, pgtype.Date{}))

	gotLo, gotHi, ok, err := s.DateRange(context.Background(), model.RecordDailyCountry)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lo, gotLo)
	assert.Equal(t, hi, gotHi)

	_, _, ok, err = s.DateRange(context.Background(), model.RecordWeeklyCountry)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	report := model.NewRunReport("run-1", time.Date(2023, 3, 14, 8, 0, 0, 0, time.UTC))
	report.FinishedAt = report.StartedAt.Add(time.Minute)

	mock.ExpectExec(`INSERT INTO import_runs .* ON CONFLICT \(id\) DO UPDATE`).
		WithArgs("run-1", report.StartedAt, report.FinishedAt, false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.SaveRun(context.Background(), report))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LastRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT report FROM import_runs ORDER BY started_at DESC LIMIT 1`).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT report FROM import_runs`).
		WillReturnRows(pgxmock.NewRows([]string{"report"}).
			AddRow([]byte(`{"id":"run-9","counts":{"weekly_country":{"processed":2}}}`)))

	last, err := s.LastRun(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)

	last, err = s.LastRun(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "run-9", last.ID)
	assert.Equal(t, 2, last.Counts[model.RecordWeeklyCountry].Processed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgNum(t *testing.T) {
	n := pgNum(price("1.789")).(pgtype.Numeric)
	assert.True(t, n.Valid)
	assert.Equal(t, int64(1789), n.Int.Int64())
	assert.Equal(t, int32(-3), n.Exp)

	assert.False(t, pgNum(decimal.NullDecimal{}).(pgtype.Numeric).Valid)
}
