package recommendsvc

import (
	"context"
	"sort"

	"bookrent/fault"
	"bookrent/model"
)

// Limit is how many suggestions a user gets.
const Limit = 6

// Rentals and Books are read-only here; the selector never writes.
type Rentals interface {
	RentedBookIDs(ctx context.Context, userID string) ([]int64, error)
}

type Books interface {
	List(ctx context.Context) ([]model.Book, error)
}

type Service interface {
	// Recommend ranks in-stock books the user has never rented, best
	// rated first. An empty result is a valid answer.
	Recommend(ctx context.Context, userID string) ([]model.Book, error)
}

type service struct {
	rent Rentals
	b    Books
}

func New(rent Rentals, b Books) Service { return &service{rent: rent, b: b} }

func (s *service) Recommend(ctx context.Context, userID string) ([]model.Book, error) {
	if userID == "" {
		return nil, fault.New(fault.Validation, "userId is required")
	}

	rented, err := s.rent.RentedBookIDs(ctx, userID)
	if err != nil {
		return nil, fault.Wrap(fault.Store, "list rented books", err)
	}
	seen := make(map[int64]struct{}, len(rented))
	for _, id := range rented {
		seen[id] = struct{}{}
	}

	books, err := s.b.List(ctx)
	if err != nil {
		return nil, fault.Wrap(fault.Store, "list books", err)
	}

	out := make([]model.Book, 0, Limit)
	for _, b := range books {
		if b.Stock <= 0 {
			continue
		}
		if _, ok := seen[b.ID]; ok {
			continue
		}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgRating != out[j].AvgRating {
			return out[i].AvgRating > out[j].AvgRating
		}
		if out[i].RatingCount != out[j].RatingCount {
			return out[i].RatingCount > out[j].RatingCount
		}
		return out[i].ID < out[j].ID
	})

	if len(out) > Limit {
		out = out[:Limit]
	}
	return out, nil
}
