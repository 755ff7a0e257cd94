// repository/review/reviewRepository.go
package reviewrepo

import (
	"context"
	"database/sql"

	"bookrent/model"
)

type Repo interface {
	Insert(ctx context.Context, rv *model.Review) (int64, error)
	ListByBook(ctx context.Context, bookID int64) ([]model.Review, error)

	// StatsByBook rescans every review for the book. Deliberately not an
	// incremental running average: the full AVG/COUNT cannot drift.
	StatsByBook(ctx context.Context, bookID int64) (avg float64, count int64, err error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, rv *model.Review) (int64, error) {
	const q = `
INSERT INTO reviews (book_id, user_id, renter_name, rating, review, rental_date, return_date, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		rv.BookID, rv.UserID, rv.RenterName, rv.Rating, rv.Review,
		rv.RentalDate, rv.ReturnDate, rv.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) ListByBook(ctx context.Context, bookID int64) ([]model.Review, error) {
	const q = `
SELECT id, book_id, user_id, renter_name, rating, review, rental_date, return_date, created_at
FROM reviews
WHERE book_id = $1
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(
			&rv.ID, &rv.BookID, &rv.UserID, &rv.RenterName, &rv.Rating, &rv.Review,
			&rv.RentalDate, &rv.ReturnDate, &rv.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *repo) StatsByBook(ctx context.Context, bookID int64) (float64, int64, error) {
	const q = `
SELECT COALESCE(AVG(rating), 0), COUNT(*)
FROM reviews
WHERE book_id = $1`
	var avg float64
	var count int64
	err := r.db.QueryRowContext(ctx, q, bookID).Scan(&avg, &count)
	return avg, count, err
}
