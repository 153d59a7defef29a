package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/rotisserie/eris"
)

// ReplaceConfig describes a replace-whole write.
type ReplaceConfig struct {
	Table   string
	Columns []string
	// Where selects the rows being replaced, e.g. sq.Eq{"date": d}.
	Where sq.Sqlizer
}

// ReplaceRows deletes the rows selected by cfg.Where and copies rows in, in
// one transaction. Readers see either the old set or the new one.
func ReplaceRows(ctx context.Context, pool Pool, cfg ReplaceConfig, rows [][]any) (deleted, inserted int64, err error) {
	if cfg.Where == nil {
		return 0, 0, eris.New("db: replace: no selector")
	}
	query, args, err := sq.Delete(cfg.Table).Where(cfg.Where).PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return 0, 0, eris.Wrapf(err, "db: replace: build delete for %s", cfg.Table)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, 0, eris.Wrap(err, "db: replace: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "db: replace: delete from %s", cfg.Table)
	}

	inserted, err = CopyFrom(ctx, tx, cfg.Table, cfg.Columns, rows)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, eris.Wrap(err, "db: replace: commit")
	}
	return tag.RowsAffected(), inserted, nil
}
