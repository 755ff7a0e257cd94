package authrepo

import (
	"context"
	"database/sql"
	"errors"

	"bookrent/model"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users(name, email, password_hash, role, address, phone)
		VALUES ($1, NULLIF($2,''), $3, $4, $5, $6)
		RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Address, u.Phone,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, name, COALESCE(email,''), password_hash, role, COALESCE(address,''), COALESCE(phone,''), created_at
        FROM users
        WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Address, &u.Phone, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $2 WHERE id = $1`,
		id, hash,
	)
	return err
}
