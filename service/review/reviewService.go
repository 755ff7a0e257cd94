package reviewsvc

import (
	"context"
	"math"
	"strconv"
	"time"

	"bookrent/fault"
	"bookrent/model"
	"bookrent/util/keylock"
)

type Repo interface {
	Insert(ctx context.Context, rv *model.Review) (int64, error)
	ListByBook(ctx context.Context, bookID int64) ([]model.Review, error)
	StatsByBook(ctx context.Context, bookID int64) (avg float64, count int64, err error)
}

// Rentals resolves the renter snapshot for a new review.
type Rentals interface {
	LatestAny(ctx context.Context, bookID int64, userID string) (*model.Rental, error)
}

// Books is the slice of the catalog the aggregator writes back to.
type Books interface {
	ByID(ctx context.Context, id int64) (*model.Book, error)
	SetRating(ctx context.Context, id int64, avg float64, count int64) error
}

type SubmitReq struct {
	BookID int64
	UserID string
	Rating int
	Review string
}

type Service interface {
	// Submit records the review and recomputes the book's aggregate
	// rating from a full rescan of its reviews.
	Submit(ctx context.Context, req SubmitReq) error
	List(ctx context.Context, bookID int64) ([]model.Review, error)
}

type service struct {
	r     Repo
	rent  Rentals
	b     Books
	locks *keylock.KeyLock
	now   func() time.Time
}

func New(r Repo, rent Rentals, b Books) Service {
	return NewWithClock(r, rent, b, time.Now)
}

func NewWithClock(r Repo, rent Rentals, b Books, now func() time.Time) Service {
	return &service{r: r, rent: rent, b: b, locks: keylock.New(), now: now}
}

func bookKey(id int64) string { return "book:" + strconv.FormatInt(id, 10) }

func round2(f float64) float64 { return math.Round(f*100) / 100 }

func (s *service) Submit(ctx context.Context, req SubmitReq) error {
	if req.BookID <= 0 || req.UserID == "" {
		return fault.New(fault.Validation, "bookId and userId are required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return fault.New(fault.Validation, "rating must be between 1 and 5")
	}

	b, err := s.b.ByID(ctx, req.BookID)
	if err != nil {
		return fault.Wrap(fault.Store, "load book", err)
	}
	if b == nil {
		return fault.New(fault.NotFound, "book not found")
	}

	// Reviewing does not require a closed, or any, rental. When one
	// exists we snapshot its display fields; otherwise the raw user id
	// stands in for the name.
	last, err := s.rent.LatestAny(ctx, req.BookID, req.UserID)
	if err != nil {
		return fault.Wrap(fault.Store, "resolve renter", err)
	}
	rv := &model.Review{
		BookID:     req.BookID,
		UserID:     req.UserID,
		RenterName: req.UserID,
		Rating:     req.Rating,
		Review:     req.Review,
		CreatedAt:  s.now(),
	}
	if last != nil {
		rv.RenterName = last.RenterName
		d := last.RentalDate
		rv.RentalDate = &d
		rv.ReturnDate = last.ReturnDate
	}

	// Single writer per book for the insert-rescan-update sequence, so
	// two concurrent submissions cannot overwrite each other's recompute.
	key := bookKey(req.BookID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if _, err := s.r.Insert(ctx, rv); err != nil {
		return fault.Wrap(fault.Store, "save review", err)
	}

	avg, count, err := s.r.StatsByBook(ctx, req.BookID)
	if err != nil {
		return fault.Wrap(fault.Store, "recompute rating", err)
	}
	if err := s.b.SetRating(ctx, req.BookID, round2(avg), count); err != nil {
		return fault.Wrap(fault.Store, "store rating", err)
	}
	return nil
}

func (s *service) List(ctx context.Context, bookID int64) ([]model.Review, error) {
	if bookID <= 0 {
		return nil, fault.New(fault.Validation, "bookId is required")
	}
	rows, err := s.r.ListByBook(ctx, bookID)
	if err != nil {
		return nil, fault.Wrap(fault.Store, "list reviews", err)
	}
	return rows, nil
}
