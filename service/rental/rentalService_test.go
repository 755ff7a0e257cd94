package rentalsvc_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookrent/fault"
	"bookrent/model"
	rentalsvc "bookrent/service/rental"
)

// memStore backs both the ledger and the catalog with the same concurrency
// semantics the SQL layer gives us: a guarded conditional decrement.
type memStore struct {
	mu      sync.Mutex
	books   map[int64]*model.Book
	rentals map[int64]*model.Rental
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{
		books:   make(map[int64]*model.Book),
		rentals: make(map[int64]*model.Rental),
	}
}

func (m *memStore) addBook(b model.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := b
	m.books[b.ID] = &cp
}

func (m *memStore) stock(id int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.books[id].Stock
}

// --- rentalsvc.Books ---

func (m *memStore) ByID(_ context.Context, id int64) (*model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) DecrementStock(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok || b.Stock <= 0 {
		return false, nil
	}
	b.Stock--
	b.IsRented = b.Stock <= 0
	return true, nil
}

func (m *memStore) IncrementStock(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return errors.New("book missing")
	}
	b.Stock++
	b.IsRented = false
	return nil
}

// --- rentalsvc.Repo ---

func (m *memStore) Insert(_ context.Context, r *model.Rental) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *r
	cp.ID = m.nextID
	m.rentals[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) CountOpenByUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rentals {
		if r.UserID == userID && !r.Returned {
			n++
		}
	}
	return n, nil
}

func (m *memStore) LatestOpen(_ context.Context, bookID int64, userID string) (*model.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *model.Rental
	for _, r := range m.rentals {
		if r.BookID != bookID || r.UserID != userID || r.Returned {
			continue
		}
		if latest == nil || r.RentalDate.After(latest.RentalDate) ||
			(r.RentalDate.Equal(latest.RentalDate) && r.ID > latest.ID) {
			latest = r
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (m *memStore) Close(_ context.Context, id int64, returnedAt time.Time, fee float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rentals[id]
	if !ok || r.Returned {
		return errors.New("no open rental")
	}
	r.Returned = true
	r.ReturnDate = &returnedAt
	r.LateFeeCharged = fee
	return nil
}

func (m *memStore) list(pred func(*model.Rental) bool) []model.Rental {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Rental
	for _, r := range m.rentals {
		if pred(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RentalDate.Equal(out[j].RentalDate) {
			return out[i].RentalDate.After(out[j].RentalDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *memStore) ListByUser(_ context.Context, userID string) ([]model.Rental, error) {
	return m.list(func(r *model.Rental) bool { return r.UserID == userID }), nil
}

func (m *memStore) ListOpenByUser(_ context.Context, userID string) ([]model.Rental, error) {
	return m.list(func(r *model.Rental) bool { return r.UserID == userID && !r.Returned }), nil
}

func (m *memStore) ListOverdueByUser(_ context.Context, userID string, now time.Time) ([]model.Rental, error) {
	return m.list(func(r *model.Rental) bool {
		return r.UserID == userID && !r.Returned && r.DueDate.Before(now)
	}), nil
}

func (m *memStore) List(_ context.Context, filter rentalsvc.StatusFilter) ([]model.Rental, error) {
	return m.list(func(r *model.Rental) bool {
		switch filter {
		case rentalsvc.FilterOpen:
			return !r.Returned
		case rentalsvc.FilterReturned:
			return r.Returned
		default:
			return true
		}
	}), nil
}

type fixedRate float64

func (f fixedRate) PerDay(context.Context) (float64, error) { return float64(f), nil }

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newService(st *memStore, perDay float64) rentalsvc.Service {
	return rentalsvc.NewWithClock(st, st, fixedRate(perDay), 3, 14, func() time.Time { return baseTime })
}

func rentReq(bookID int64, userID string) rentalsvc.RentReq {
	return rentalsvc.RentReq{
		BookID:        bookID,
		UserID:        userID,
		RenterName:    "Ayesha",
		RenterAddress: "12 Lake Road",
		RenterPhone:   "01700000000",
	}
}

func TestRent_Validation(t *testing.T) {
	svc := newService(newMemStore(), 20)

	req := rentReq(1, "u1")
	req.RenterPhone = ""
	err := svc.Rent(context.Background(), req)
	require.Equal(t, fault.Validation, fault.CodeOf(err))

	req = rentReq(1, "")
	err = svc.Rent(context.Background(), req)
	require.Equal(t, fault.Validation, fault.CodeOf(err))
}

func TestRent_BookNotFound(t *testing.T) {
	svc := newService(newMemStore(), 20)
	err := svc.Rent(context.Background(), rentReq(99, "u1"))
	require.Equal(t, fault.NotFound, fault.CodeOf(err))
}

func TestRent_OutOfStock_LeavesBookUntouched(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "Clean Code", Stock: 0, IsRented: true})
	svc := newService(st, 20)

	err := svc.Rent(context.Background(), rentReq(1, "u1"))
	require.Equal(t, fault.OutOfStock, fault.CodeOf(err))
	require.EqualValues(t, 0, st.stock(1))
}

func TestRent_LimitExceeded(t *testing.T) {
	st := newMemStore()
	for i := int64(1); i <= 4; i++ {
		st.addBook(model.Book{ID: i, Title: "B", Stock: 2})
	}
	svc := newService(st, 20)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, svc.Rent(ctx, rentReq(i, "u1")))
	}

	err := svc.Rent(ctx, rentReq(4, "u1"))
	require.Equal(t, fault.LimitExceeded, fault.CodeOf(err))
	require.Contains(t, err.Error(), "3")

	// Returning one frees a slot.
	_, err = svc.Return(ctx, 1, "u1", baseTime.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, svc.Rent(ctx, rentReq(4, "u1")))
}

func TestRent_DueDateDefaultsToHorizon(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "Refactoring", Stock: 1})
	svc := newService(st, 20)

	require.NoError(t, svc.Rent(context.Background(), rentReq(1, "u1")))

	rows, err := svc.History(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, baseTime.AddDate(0, 0, 14), rows[0].DueDate)
	require.Equal(t, "Refactoring", rows[0].BookTitle)
}

func TestRent_CallerSuppliedDueDate(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "B", Stock: 1})
	svc := newService(st, 20)

	due := baseTime.AddDate(0, 0, 3)
	req := rentReq(1, "u1")
	req.DueDate = &due
	require.NoError(t, svc.Rent(context.Background(), req))

	rows, err := svc.History(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, due, rows[0].DueDate)
}

func TestStockArithmetic(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "B", Stock: 5})
	svc := newService(st, 20)
	ctx := context.Background()

	// 3 rents by different users, 2 returns.
	for _, u := range []string{"u1", "u2", "u3"} {
		require.NoError(t, svc.Rent(ctx, rentReq(1, u)))
	}
	for _, u := range []string{"u1", "u2"} {
		_, err := svc.Return(ctx, 1, u, baseTime.Add(time.Hour))
		require.NoError(t, err)
	}
	require.EqualValues(t, 5-3+2, st.stock(1))
}

func TestReturn_OnTimeNoFee(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "B", Stock: 1})
	svc := newService(st, 20)
	ctx := context.Background()

	require.NoError(t, svc.Rent(ctx, rentReq(1, "u1")))
	fee, err := svc.Return(ctx, 1, "u1", baseTime.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.Zero(t, fee)
	require.EqualValues(t, 1, st.stock(1))
}

func TestReturn_LateFeeRoundsUp(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "B", Stock: 1})
	svc := newService(st, 20)
	ctx := context.Background()

	require.NoError(t, svc.Rent(ctx, rentReq(1, "u1")))

	// 36 hours past due: ceil(1.5) = 2 days at 20/day.
	late := baseTime.AddDate(0, 0, 14).Add(36 * time.Hour)
	fee, err := svc.Return(ctx, 1, "u1", late)
	require.NoError(t, err)
	require.EqualValues(t, 40, fee)

	rows, err := svc.History(ctx, "u1")
	require.NoError(t, err)
	require.True(t, rows[0].Returned)
	require.EqualValues(t, 40, rows[0].LateFeeCharged)
}

func TestReturn_NoOpenRental(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "B", Stock: 1})
	svc := newService(st, 20)

	_, err := svc.Return(context.Background(), 1, "u1", baseTime)
	require.Equal(t, fault.NotFound, fault.CodeOf(err))
	require.Contains(t, err.Error(), "no open rental")
}

func TestReturn_ClosesLatestOpenRental(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "B", Stock: 5})

	early := baseTime.AddDate(0, 0, -10)
	st.Insert(context.Background(), &model.Rental{
		UserID: "u1", BookID: 1, RentalDate: early, DueDate: early.AddDate(0, 0, 14),
	})
	st.Insert(context.Background(), &model.Rental{
		UserID: "u1", BookID: 1, RentalDate: baseTime.AddDate(0, 0, -1), DueDate: baseTime.AddDate(0, 0, 13),
	})

	svc := newService(st, 20)
	_, err := svc.Return(context.Background(), 1, "u1", baseTime)
	require.NoError(t, err)

	rows, err := svc.History(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Newest first: the recent rental closed, the older one still open.
	require.True(t, rows[0].Returned)
	require.False(t, rows[1].Returned)
}

func TestConcurrentRent_LastCopy(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "B", Stock: 1})
	svc := newService(st, 20)
	ctx := context.Background()

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, u := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			errs <- svc.Rent(ctx, rentReq(1, user))
		}(u)
	}
	wg.Wait()
	close(errs)

	var ok, refused int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		code := fault.CodeOf(err)
		require.Contains(t, []fault.Code{fault.OutOfStock, fault.Conflict}, code)
		refused++
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, refused)
	require.EqualValues(t, 0, st.stock(1))

	openRentals, err := st.List(ctx, rentalsvc.FilterOpen)
	require.NoError(t, err)
	require.Len(t, openRentals, 1)
}

func TestOverdue_OnlyPastDueOpenRentals(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "B", Stock: 5})
	ctx := context.Background()

	st.Insert(ctx, &model.Rental{UserID: "u1", BookID: 1,
		RentalDate: baseTime.AddDate(0, 0, -20), DueDate: baseTime.AddDate(0, 0, -6)})
	st.Insert(ctx, &model.Rental{UserID: "u1", BookID: 1,
		RentalDate: baseTime.AddDate(0, 0, -1), DueDate: baseTime.AddDate(0, 0, 13)})

	svc := newService(st, 20)
	rows, err := svc.Overdue(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, baseTime.AddDate(0, 0, -6), rows[0].DueDate)
}

func TestAdminList_ProjectsDueFees(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "B", Stock: 5})
	ctx := context.Background()

	// Open and 6 days overdue.
	st.Insert(ctx, &model.Rental{UserID: "u1", BookID: 1,
		RentalDate: baseTime.AddDate(0, 0, -20), DueDate: baseTime.AddDate(0, 0, -6)})
	// Closed with a charged fee.
	ret := baseTime.AddDate(0, 0, -2)
	id, _ := st.Insert(ctx, &model.Rental{UserID: "u2", BookID: 1,
		RentalDate: baseTime.AddDate(0, 0, -30), DueDate: baseTime.AddDate(0, 0, -16)})
	require.NoError(t, st.Close(ctx, id, ret, 280))

	svc := newService(st, 20)

	ledger, err := svc.AdminList(ctx, rentalsvc.FilterAll)
	require.NoError(t, err)
	require.EqualValues(t, 20, ledger.LateFeePerDay)
	require.Len(t, ledger.Rentals, 2)

	byUser := map[string]rentalsvc.LedgerRow{}
	for _, r := range ledger.Rentals {
		byUser[r.UserID] = r
	}
	require.EqualValues(t, 6*20, byUser["u1"].LateFeeDueNow)
	require.Zero(t, byUser["u2"].LateFeeDueNow)
	require.EqualValues(t, 280, byUser["u2"].LateFeeCharged)

	open, err := svc.AdminList(ctx, rentalsvc.FilterOpen)
	require.NoError(t, err)
	require.Len(t, open.Rentals, 1)

	_, err = svc.AdminList(ctx, rentalsvc.StatusFilter("bogus"))
	require.Equal(t, fault.Validation, fault.CodeOf(err))
}

func TestCloseAllForUser(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "A", Stock: 3})
	st.addBook(model.Book{ID: 2, Title: "B", Stock: 3})
	svc := newService(st, 20)
	ctx := context.Background()

	require.NoError(t, svc.Rent(ctx, rentReq(1, "u1")))
	require.NoError(t, svc.Rent(ctx, rentReq(2, "u1")))

	n, err := svc.CloseAllForUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.EqualValues(t, 3, st.stock(1))
	require.EqualValues(t, 3, st.stock(2))

	// No fee charged by the force close.
	rows, _ := svc.History(ctx, "u1")
	for _, r := range rows {
		require.True(t, r.Returned)
		require.Zero(t, r.LateFeeCharged)
	}
}

func TestLimitMessageMentionsConfiguredLimit(t *testing.T) {
	st := newMemStore()
	st.addBook(model.Book{ID: 1, Title: "B", Stock: 10})
	svc := rentalsvc.NewWithClock(st, st, fixedRate(20), 1, 14, func() time.Time { return baseTime })
	ctx := context.Background()

	require.NoError(t, svc.Rent(ctx, rentReq(1, "u1")))
	err := svc.Rent(ctx, rentReq(1, "u1"))
	require.Equal(t, fault.LimitExceeded, fault.CodeOf(err))
	require.True(t, strings.Contains(err.Error(), "1"))
}
