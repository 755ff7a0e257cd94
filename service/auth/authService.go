package authsvc

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"bookrent/model"
	"bookrent/util/hash"
	jwtutil "bookrent/util/jwt"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrBadInput     = errors.New("bad input")
	ErrInvalidCreds = errors.New("invalid email or password")
	ErrRoleMismatch = errors.New("role mismatch")
)

const tokenTTL = 7 * 24 * time.Hour

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
}

type service struct {
	ur     Repo
	secret string
}

func New(ur Repo, secret string) Service { return &service{ur: ur, secret: secret} }

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Password == "" {
		return nil, "", ErrBadInput
	}
	role := req.Role
	if role == "" {
		role = "user"
	}
	if role != "user" && role != "admin" {
		return nil, "", ErrBadInput
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
		Role:         role,
		Address:      req.Address,
		Phone:        req.Phone,
	}

	if err := s.ur.Create(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, "", derr
		}
		return nil, "", err
	}

	token, err := s.issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	u, err := s.ur.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCreds
	}

	stored := u.PasswordHash
	ok := false
	if strings.HasPrefix(stored, "$2") {
		ok = hash.Check(stored, req.Password)
	} else if stored != "" && stored == req.Password {
		// Legacy plaintext row: accept once and upgrade in place.
		ok = true
		if hashed, herr := hash.HashPassword(req.Password); herr == nil {
			_ = s.ur.UpdatePassword(ctx, u.ID, hashed)
			u.PasswordHash = hashed
		}
	}
	if !ok {
		return nil, "", ErrInvalidCreds
	}
	if req.Role != "" && u.Role != req.Role {
		return nil, "", ErrRoleMismatch
	}

	token, err := s.issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) issue(u *model.User) (string, error) {
	return jwtutil.Issue(s.secret, strconv.FormatInt(u.ID, 10), u.Name, u.Role, u.Email, tokenTTL)
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(strings.ToLower(pgErr.ConstraintName), "email") ||
			strings.Contains(strings.ToLower(pgErr.Message), "email") {
			return ErrEmailTaken
		}
		return ErrBadInput
	}
	return nil
}
