package booksvc

import (
	"context"
	"database/sql"
	"errors"

	"bookrent/fault"
	"bookrent/model"
)

type Repo interface {
	Create(ctx context.Context, title, author, category string, stock int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Book, error)
	ByID(ctx context.Context, id int64) (*model.Book, error)
	SetStock(ctx context.Context, id int64, stock int64) error
}

type Service interface {
	Add(ctx context.Context, title, author, category string, stock int64) (int64, error)
	Remove(ctx context.Context, id int64) error
	// UpdateStock is the admin restock; the fully-rented flag follows the
	// new count at the store layer.
	UpdateStock(ctx context.Context, id int64, stock int64) error
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Add(ctx context.Context, title, author, category string, stock int64) (int64, error) {
	if title == "" || author == "" {
		return 0, fault.New(fault.Validation, "title and author are required")
	}
	if stock < 0 {
		return 0, fault.New(fault.Validation, "stock must not be negative")
	}
	id, err := s.r.Create(ctx, title, author, category, stock)
	if err != nil {
		return 0, fault.Wrap(fault.Store, "create book", err)
	}
	return id, nil
}

func (s *service) Remove(ctx context.Context, id int64) error {
	if id <= 0 {
		return fault.New(fault.Validation, "bookId is required")
	}
	err := s.r.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fault.New(fault.NotFound, "book not found")
	}
	if err != nil {
		return fault.Wrap(fault.Store, "delete book", err)
	}
	return nil
}

func (s *service) UpdateStock(ctx context.Context, id int64, stock int64) error {
	if id <= 0 {
		return fault.New(fault.Validation, "bookId is required")
	}
	if stock < 0 {
		return fault.New(fault.Validation, "stock must not be negative")
	}
	err := s.r.SetStock(ctx, id, stock)
	if errors.Is(err, sql.ErrNoRows) {
		return fault.New(fault.NotFound, "book not found")
	}
	if err != nil {
		return fault.Wrap(fault.Store, "update stock", err)
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]model.Book, error) {
	rows, err := s.r.List(ctx)
	if err != nil {
		return nil, fault.Wrap(fault.Store, "list books", err)
	}
	return rows, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	if id <= 0 {
		return nil, fault.New(fault.Validation, "bookId is required")
	}
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		return nil, fault.Wrap(fault.Store, "load book", err)
	}
	if b == nil {
		return nil, fault.New(fault.NotFound, "book not found")
	}
	return b, nil
}
