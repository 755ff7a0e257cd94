package recommendsvc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"bookrent/fault"
	"bookrent/model"
	recommendsvc "bookrent/service/recommend"
)

type fakeData struct {
	rented map[string][]int64
	books  []model.Book
}

func (f *fakeData) RentedBookIDs(_ context.Context, userID string) ([]int64, error) {
	return f.rented[userID], nil
}

func (f *fakeData) List(_ context.Context) ([]model.Book, error) {
	return f.books, nil
}

func TestRecommend_ExcludesRentedAndOutOfStock(t *testing.T) {
	f := &fakeData{
		rented: map[string][]int64{"u1": {1, 3}},
		books: []model.Book{
			{ID: 1, Title: "Rented before", Stock: 2, AvgRating: 5},
			{ID: 2, Title: "Sold out", Stock: 0, AvgRating: 5},
			{ID: 3, Title: "Rented and returned", Stock: 1, AvgRating: 5},
			{ID: 4, Title: "Eligible", Stock: 1, AvgRating: 3.5},
		},
	}
	svc := recommendsvc.New(f, f)

	got, err := svc.Recommend(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.EqualValues(t, 4, got[0].ID)
}

func TestRecommend_OrdersByRatingThenCount(t *testing.T) {
	f := &fakeData{
		rented: map[string][]int64{},
		books: []model.Book{
			{ID: 1, Stock: 1, AvgRating: 4.0, RatingCount: 2},
			{ID: 2, Stock: 1, AvgRating: 4.5, RatingCount: 1},
			{ID: 3, Stock: 1, AvgRating: 4.0, RatingCount: 9},
		},
	}
	svc := recommendsvc.New(f, f)

	got, err := svc.Recommend(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.EqualValues(t, 2, got[0].ID)
	require.EqualValues(t, 3, got[1].ID) // same rating as #1, more reviews
	require.EqualValues(t, 1, got[2].ID)
}

func TestRecommend_CapsAtLimit(t *testing.T) {
	f := &fakeData{rented: map[string][]int64{}}
	for i := int64(1); i <= 10; i++ {
		f.books = append(f.books, model.Book{ID: i, Stock: 1, AvgRating: float64(i)})
	}
	svc := recommendsvc.New(f, f)

	got, err := svc.Recommend(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, recommendsvc.Limit)
	// Best rated first.
	require.EqualValues(t, 10, got[0].ID)
}

func TestRecommend_EmptyIsNotAnError(t *testing.T) {
	f := &fakeData{
		rented: map[string][]int64{"u1": {1}},
		books:  []model.Book{{ID: 1, Stock: 5, AvgRating: 5}},
	}
	svc := recommendsvc.New(f, f)

	got, err := svc.Recommend(context.Background(), "u1")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRecommend_RequiresUser(t *testing.T) {
	svc := recommendsvc.New(&fakeData{}, &fakeData{})
	_, err := svc.Recommend(context.Background(), "")
	require.Equal(t, fault.Validation, fault.CodeOf(err))
}
