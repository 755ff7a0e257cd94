package rentalsvc

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"bookrent/fault"
	"bookrent/model"
	rentalrepo "bookrent/repository/rental"
	"bookrent/util/keylock"
	"bookrent/util/latefee"
)

type StatusFilter = rentalrepo.StatusFilter

const (
	FilterOpen     = rentalrepo.FilterOpen
	FilterReturned = rentalrepo.FilterReturned
	FilterAll      = rentalrepo.FilterAll
)

// Repo is the rental ledger.
type Repo interface {
	Insert(ctx context.Context, r *model.Rental) (int64, error)
	CountOpenByUser(ctx context.Context, userID string) (int64, error)
	LatestOpen(ctx context.Context, bookID int64, userID string) (*model.Rental, error)
	Close(ctx context.Context, id int64, returnedAt time.Time, fee float64) error
	ListByUser(ctx context.Context, userID string) ([]model.Rental, error)
	ListOpenByUser(ctx context.Context, userID string) ([]model.Rental, error)
	ListOverdueByUser(ctx context.Context, userID string, now time.Time) ([]model.Rental, error)
	List(ctx context.Context, filter StatusFilter) ([]model.Rental, error)
}

// Books is the slice of the catalog store the lifecycle mutates.
type Books interface {
	ByID(ctx context.Context, id int64) (*model.Book, error)
	DecrementStock(ctx context.Context, id int64) (bool, error)
	IncrementStock(ctx context.Context, id int64) error
}

// Rates reads the late-fee rate in force right now. Never cached across a
// return: a rate change between rent and return applies the return-time rate.
type Rates interface {
	PerDay(ctx context.Context) (float64, error)
}

type RentReq struct {
	BookID        int64
	UserID        string
	RenterName    string
	RenterAddress string
	RenterPhone   string
	DueDate       *time.Time // optional; defaults to now + configured horizon
}

// LedgerRow is an admin-view rental. LateFeeDueNow is only set for open
// overdue rentals, projected against the current time; closed rentals carry
// their charged fee in the embedded record instead.
type LedgerRow struct {
	model.Rental
	LateFeeDueNow float64 `json:"late_fee_due_now"`
}

type Ledger struct {
	LateFeePerDay float64     `json:"late_fee_per_day"`
	Rentals       []LedgerRow `json:"rentals"`
}

type Service interface {
	// Rent moves one copy from available to rented and opens a rental.
	Rent(ctx context.Context, req RentReq) error

	// Return closes the latest open rental for the (book, user) pair and
	// reports the late fee charged, zero when on time.
	Return(ctx context.Context, bookID int64, userID string, returnedAt time.Time) (float64, error)

	History(ctx context.Context, userID string) ([]model.Rental, error)
	Overdue(ctx context.Context, userID string) ([]model.Rental, error)
	AdminList(ctx context.Context, filter StatusFilter) (*Ledger, error)

	// CloseAllForUser force-returns every open rental for a user without
	// charging fees. Dev tooling only.
	CloseAllForUser(ctx context.Context, userID string) (int, error)
}

type service struct {
	r       Repo
	b       Books
	rates   Rates
	locks   *keylock.KeyLock
	limit   int
	dueDays int
	now     func() time.Time
}

func New(r Repo, b Books, rates Rates, limit, dueDays int) Service {
	return NewWithClock(r, b, rates, limit, dueDays, time.Now)
}

func NewWithClock(r Repo, b Books, rates Rates, limit, dueDays int, now func() time.Time) Service {
	return &service{
		r:       r,
		b:       b,
		rates:   rates,
		locks:   keylock.New(),
		limit:   limit,
		dueDays: dueDays,
		now:     now,
	}
}

func bookKey(id int64) string { return "book:" + strconv.FormatInt(id, 10) }

func (s *service) Rent(ctx context.Context, req RentReq) error {
	if req.BookID <= 0 || req.UserID == "" || req.RenterName == "" || req.RenterAddress == "" || req.RenterPhone == "" {
		return fault.New(fault.Validation, "bookId, userId, renterName, renterAddress and renterPhone are required")
	}

	// Per-book critical section: the stock check and decrement below must
	// not interleave with a conflicting rent or return of the same book.
	key := bookKey(req.BookID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	open, err := s.r.CountOpenByUser(ctx, req.UserID)
	if err != nil {
		return fault.Wrap(fault.Store, "count open rentals", err)
	}
	if open >= int64(s.limit) {
		return fault.Newf(fault.LimitExceeded, "rental limit reached (%d), return a book first", s.limit)
	}

	b, err := s.b.ByID(ctx, req.BookID)
	if err != nil {
		return fault.Wrap(fault.Store, "load book", err)
	}
	if b == nil {
		return fault.New(fault.NotFound, "book not found")
	}
	if b.Stock <= 0 {
		return fault.New(fault.OutOfStock, "out of stock")
	}

	ok, err := s.b.DecrementStock(ctx, req.BookID)
	if err != nil {
		return fault.Wrap(fault.Store, "decrement stock", err)
	}
	if !ok {
		// Another writer took the last copy between our read and the
		// guarded decrement.
		return fault.New(fault.Conflict, "copy no longer available, retry")
	}

	now := s.now()
	due := now.AddDate(0, 0, s.dueDays)
	if req.DueDate != nil && !req.DueDate.IsZero() {
		due = *req.DueDate
	}

	_, err = s.r.Insert(ctx, &model.Rental{
		UserID:        req.UserID,
		BookID:        req.BookID,
		BookTitle:     b.Title,
		RenterName:    req.RenterName,
		RenterAddress: req.RenterAddress,
		RenterPhone:   req.RenterPhone,
		RentalDate:    now,
		DueDate:       due,
	})
	if err != nil {
		// Put the copy back so the decrement does not leak.
		if rbErr := s.b.IncrementStock(ctx, req.BookID); rbErr != nil {
			slog.Error("rent compensation failed, stock off by one", "book_id", req.BookID, "err", rbErr)
		}
		return fault.Wrap(fault.Store, "create rental", err)
	}
	return nil
}

func (s *service) Return(ctx context.Context, bookID int64, userID string, returnedAt time.Time) (float64, error) {
	if bookID <= 0 || userID == "" {
		return 0, fault.New(fault.Validation, "bookId and userId are required")
	}
	if returnedAt.IsZero() {
		returnedAt = s.now()
	}

	key := bookKey(bookID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	b, err := s.b.ByID(ctx, bookID)
	if err != nil {
		return 0, fault.Wrap(fault.Store, "load book", err)
	}
	if b == nil {
		return 0, fault.New(fault.NotFound, "book not found")
	}

	r, err := s.r.LatestOpen(ctx, bookID, userID)
	if err != nil {
		return 0, fault.Wrap(fault.Store, "find open rental", err)
	}
	if r == nil {
		return 0, fault.New(fault.NotFound, "no open rental for this user and book")
	}

	perDay, err := s.rates.PerDay(ctx)
	if err != nil {
		return 0, fault.Wrap(fault.Store, "read late-fee rate", err)
	}
	fee := latefee.Fee(r.DueDate, returnedAt, perDay)

	if err := s.r.Close(ctx, r.ID, returnedAt, fee); err != nil {
		return 0, fault.Wrap(fault.Store, "close rental", err)
	}
	if err := s.b.IncrementStock(ctx, bookID); err != nil {
		return 0, fault.Wrap(fault.Store, "restore stock", err)
	}
	return fee, nil
}

func (s *service) History(ctx context.Context, userID string) ([]model.Rental, error) {
	if userID == "" {
		return nil, fault.New(fault.Validation, "userId is required")
	}
	rows, err := s.r.ListByUser(ctx, userID)
	if err != nil {
		return nil, fault.Wrap(fault.Store, "list rentals", err)
	}
	return rows, nil
}

func (s *service) Overdue(ctx context.Context, userID string) ([]model.Rental, error) {
	if userID == "" {
		return nil, fault.New(fault.Validation, "userId is required")
	}
	rows, err := s.r.ListOverdueByUser(ctx, userID, s.now())
	if err != nil {
		return nil, fault.Wrap(fault.Store, "list overdue rentals", err)
	}
	return rows, nil
}

func (s *service) AdminList(ctx context.Context, filter StatusFilter) (*Ledger, error) {
	switch filter {
	case "":
		filter = FilterOpen
	case FilterOpen, FilterReturned, FilterAll:
	default:
		return nil, fault.Newf(fault.Validation, "unknown status filter %q", filter)
	}

	rows, err := s.r.List(ctx, filter)
	if err != nil {
		return nil, fault.Wrap(fault.Store, "list rentals", err)
	}
	perDay, err := s.rates.PerDay(ctx)
	if err != nil {
		return nil, fault.Wrap(fault.Store, "read late-fee rate", err)
	}

	now := s.now()
	out := make([]LedgerRow, 0, len(rows))
	for _, m := range rows {
		row := LedgerRow{Rental: m}
		if !m.Returned {
			row.LateFeeDueNow = latefee.Fee(m.DueDate, now, perDay)
		}
		out = append(out, row)
	}
	return &Ledger{LateFeePerDay: perDay, Rentals: out}, nil
}

func (s *service) CloseAllForUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fault.New(fault.Validation, "userId is required")
	}
	open, err := s.r.ListOpenByUser(ctx, userID)
	if err != nil {
		return 0, fault.Wrap(fault.Store, "list open rentals", err)
	}

	closed := 0
	for _, m := range open {
		key := bookKey(m.BookID)
		s.locks.Lock(key)
		err := s.r.Close(ctx, m.ID, s.now(), 0)
		if err == nil {
			err = s.b.IncrementStock(ctx, m.BookID)
		}
		s.locks.Unlock(key)
		if err != nil {
			return closed, fault.Wrap(fault.Store, "close rental", err)
		}
		closed++
	}
	return closed, nil
}
