package settingsvc

import (
	"context"

	"bookrent/fault"
	"bookrent/model"
	"bookrent/util/keylock"
)

const lateFeeKey = "setting:late_fee"

type Repo interface {
	Get(ctx context.Context) (*model.Setting, error)
	EnsureDefault(ctx context.Context, perDay float64) error
	Set(ctx context.Context, perDay float64) error
}

type Service interface {
	// PerDay returns the current rate, creating the singleton row with
	// the configured default on first read.
	PerDay(ctx context.Context) (float64, error)
	SetPerDay(ctx context.Context, perDay float64) error
}

type service struct {
	r     Repo
	def   float64
	locks *keylock.KeyLock
}

func New(r Repo, defaultPerDay float64) Service {
	return &service{r: r, def: defaultPerDay, locks: keylock.New()}
}

func (s *service) PerDay(ctx context.Context) (float64, error) {
	st, err := s.r.Get(ctx)
	if err != nil {
		return 0, fault.Wrap(fault.Store, "read setting", err)
	}
	if st != nil {
		return st.LateFeePerDay, nil
	}

	// Lazy first-time creation. The lock plus the store-level
	// insert-if-absent keeps concurrent first reads down to one row.
	s.locks.Lock(lateFeeKey)
	defer s.locks.Unlock(lateFeeKey)

	st, err = s.r.Get(ctx)
	if err != nil {
		return 0, fault.Wrap(fault.Store, "read setting", err)
	}
	if st == nil {
		if err := s.r.EnsureDefault(ctx, s.def); err != nil {
			return 0, fault.Wrap(fault.Store, "init setting", err)
		}
		st, err = s.r.Get(ctx)
		if err != nil {
			return 0, fault.Wrap(fault.Store, "read setting", err)
		}
		if st == nil {
			return 0, fault.New(fault.Store, "setting row missing after init")
		}
	}
	return st.LateFeePerDay, nil
}

func (s *service) SetPerDay(ctx context.Context, perDay float64) error {
	if perDay < 0 {
		return fault.New(fault.Validation, "lateFeePerDay must not be negative")
	}
	s.locks.Lock(lateFeeKey)
	defer s.locks.Unlock(lateFeeKey)

	if err := s.r.Set(ctx, perDay); err != nil {
		return fault.Wrap(fault.Store, "write setting", err)
	}
	return nil
}
