// repository/book/bookRepository.go
package bookrepo

import (
	"context"
	"database/sql"
	"errors"

	"bookrent/model"
)

type Repo interface {
	Create(ctx context.Context, title, author, category string, stock int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Book, error)
	ByID(ctx context.Context, id int64) (*model.Book, error)

	// DecrementStock is the conditional atomic decrement guarding the
	// last copy: it matches no row when stock is already 0.
	DecrementStock(ctx context.Context, id int64) (bool, error)
	IncrementStock(ctx context.Context, id int64) error
	SetStock(ctx context.Context, id int64, stock int64) error
	SetRating(ctx context.Context, id int64, avg float64, count int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, title, author, category string, stock int64) (int64, error) {
	const q = `
INSERT INTO books (title, author, category, stock, is_rented)
VALUES ($1,$2,$3,$4,$4 <= 0)
RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, title, author, category, stock).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM books WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) List(ctx context.Context) ([]model.Book, error) {
	const q = `
SELECT id, title, author, COALESCE(category,''), stock, is_rented, avg_rating, rating_count
FROM books
ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Stock, &b.IsRented, &b.AvgRating, &b.RatingCount); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
SELECT id, title, author, COALESCE(category,''), stock, is_rented, avg_rating, rating_count
FROM books
WHERE id = $1`
	var b model.Book
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Stock, &b.IsRented, &b.AvgRating, &b.RatingCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) DecrementStock(ctx context.Context, id int64) (bool, error) {
	// Guard: only decrement while a copy remains.
	const q = `
UPDATE books
SET stock = stock - 1,
    is_rented = (stock - 1 <= 0)
WHERE id = $1
  AND stock > 0`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) IncrementStock(ctx context.Context, id int64) error {
	const q = `
UPDATE books
SET stock = stock + 1,
    is_rented = false
WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func (r *repo) SetStock(ctx context.Context, id int64, stock int64) error {
	const q = `
UPDATE books
SET stock = $2,
    is_rented = ($2 <= 0)
WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, stock)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) SetRating(ctx context.Context, id int64, avg float64, count int64) error {
	const q = `
UPDATE books
SET avg_rating = $2,
    rating_count = $3
WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, avg, count)
	return err
}
