// repository/rental/rentalRepository.go
package rentalrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bookrent/model"
)

// StatusFilter narrows admin listings.
type StatusFilter string

const (
	FilterOpen     StatusFilter = "open"
	FilterReturned StatusFilter = "returned"
	FilterAll      StatusFilter = "all"
)

type Repo interface {
	Insert(ctx context.Context, r *model.Rental) (int64, error)
	CountOpenByUser(ctx context.Context, userID string) (int64, error)

	// LatestOpen picks the most recently created open rental for the
	// (book, user) pair; older open rentals for the pair stay untouched.
	LatestOpen(ctx context.Context, bookID int64, userID string) (*model.Rental, error)
	// LatestAny ignores the returned flag, for review snapshots.
	LatestAny(ctx context.Context, bookID int64, userID string) (*model.Rental, error)
	Close(ctx context.Context, id int64, returnedAt time.Time, fee float64) error

	ListByUser(ctx context.Context, userID string) ([]model.Rental, error)
	ListOpenByUser(ctx context.Context, userID string) ([]model.Rental, error)
	ListOverdueByUser(ctx context.Context, userID string, now time.Time) ([]model.Rental, error)
	ListOverdue(ctx context.Context, now time.Time) ([]model.Rental, error)
	List(ctx context.Context, filter StatusFilter) ([]model.Rental, error)
	RentedBookIDs(ctx context.Context, userID string) ([]int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const rentalCols = `id, user_id, book_id, book_title, renter_name, renter_address, renter_phone,
rental_date, due_date, return_date, returned, late_fee_charged`

func scanRental(row interface{ Scan(...any) error }) (*model.Rental, error) {
	var r model.Rental
	err := row.Scan(
		&r.ID, &r.UserID, &r.BookID, &r.BookTitle, &r.RenterName, &r.RenterAddress, &r.RenterPhone,
		&r.RentalDate, &r.DueDate, &r.ReturnDate, &r.Returned, &r.LateFeeCharged,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *repo) Insert(ctx context.Context, m *model.Rental) (int64, error) {
	const q = `
INSERT INTO rentals (user_id, book_id, book_title, renter_name, renter_address, renter_phone,
                     rental_date, due_date, returned, late_fee_charged)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,false,0)
RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		m.UserID, m.BookID, m.BookTitle, m.RenterName, m.RenterAddress, m.RenterPhone,
		m.RentalDate, m.DueDate,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) CountOpenByUser(ctx context.Context, userID string) (int64, error) {
	const q = `SELECT COUNT(*) FROM rentals WHERE user_id = $1 AND returned = false`
	var n int64
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&n)
	return n, err
}

func (r *repo) LatestOpen(ctx context.Context, bookID int64, userID string) (*model.Rental, error) {
	const q = `
SELECT ` + rentalCols + `
FROM rentals
WHERE book_id = $1 AND user_id = $2 AND returned = false
ORDER BY rental_date DESC, id DESC
LIMIT 1`
	m, err := scanRental(r.db.QueryRowContext(ctx, q, bookID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (r *repo) LatestAny(ctx context.Context, bookID int64, userID string) (*model.Rental, error) {
	const q = `
SELECT ` + rentalCols + `
FROM rentals
WHERE book_id = $1 AND user_id = $2
ORDER BY rental_date DESC, id DESC
LIMIT 1`
	m, err := scanRental(r.db.QueryRowContext(ctx, q, bookID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (r *repo) Close(ctx context.Context, id int64, returnedAt time.Time, fee float64) error {
	const q = `
UPDATE rentals
SET returned = true,
    return_date = $2,
    late_fee_charged = $3
WHERE id = $1
  AND returned = false`
	res, err := r.db.ExecContext(ctx, q, id, returnedAt, fee)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]model.Rental, error) {
	const q = `
SELECT ` + rentalCols + `
FROM rentals
WHERE user_id = $1
ORDER BY rental_date DESC, id DESC`
	return r.queryList(ctx, q, userID)
}

func (r *repo) ListOpenByUser(ctx context.Context, userID string) ([]model.Rental, error) {
	const q = `
SELECT ` + rentalCols + `
FROM rentals
WHERE user_id = $1 AND returned = false
ORDER BY rental_date DESC, id DESC`
	return r.queryList(ctx, q, userID)
}

func (r *repo) ListOverdueByUser(ctx context.Context, userID string, now time.Time) ([]model.Rental, error) {
	const q = `
SELECT ` + rentalCols + `
FROM rentals
WHERE user_id = $1 AND returned = false AND due_date < $2
ORDER BY rental_date DESC, id DESC`
	return r.queryList(ctx, q, userID, now)
}

func (r *repo) ListOverdue(ctx context.Context, now time.Time) ([]model.Rental, error) {
	const q = `
SELECT ` + rentalCols + `
FROM rentals
WHERE returned = false AND due_date < $1
ORDER BY due_date`
	return r.queryList(ctx, q, now)
}

func (r *repo) List(ctx context.Context, filter StatusFilter) ([]model.Rental, error) {
	q := `
SELECT ` + rentalCols + `
FROM rentals`
	switch filter {
	case FilterOpen:
		q += ` WHERE returned = false`
	case FilterReturned:
		q += ` WHERE returned = true`
	}
	q += ` ORDER BY rental_date DESC, id DESC`
	return r.queryList(ctx, q)
}

func (r *repo) RentedBookIDs(ctx context.Context, userID string) ([]int64, error) {
	const q = `SELECT DISTINCT book_id FROM rentals WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *repo) queryList(ctx context.Context, q string, args ...any) ([]model.Rental, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Rental
	for rows.Next() {
		m, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
