// repository/setting/settingRepository.go
package settingrepo

import (
	"context"
	"database/sql"
	"errors"

	"bookrent/model"
)

// The settings table is a singleton row pinned to id 1.
type Repo interface {
	Get(ctx context.Context) (*model.Setting, error)
	// EnsureDefault creates the row if absent. ON CONFLICT DO NOTHING
	// keeps concurrent first reads idempotent: only one row ever exists.
	EnsureDefault(ctx context.Context, perDay float64) error
	Set(ctx context.Context, perDay float64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Get(ctx context.Context) (*model.Setting, error) {
	const q = `SELECT id, late_fee_per_day FROM settings WHERE id = 1`
	var s model.Setting
	err := r.db.QueryRowContext(ctx, q).Scan(&s.ID, &s.LateFeePerDay)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) EnsureDefault(ctx context.Context, perDay float64) error {
	const q = `
INSERT INTO settings (id, late_fee_per_day)
VALUES (1, $1)
ON CONFLICT (id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, q, perDay)
	return err
}

func (r *repo) Set(ctx context.Context, perDay float64) error {
	const q = `
INSERT INTO settings (id, late_fee_per_day)
VALUES (1, $1)
ON CONFLICT (id) DO UPDATE SET late_fee_per_day = EXCLUDED.late_fee_per_day`
	_, err := r.db.ExecContext(ctx, q, perDay)
	return err
}
