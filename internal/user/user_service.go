package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidUUID = errors.New("user_uuid is not a valid UUID")
	ErrInvalidYear = errors.New("invalid year of birth")
)

type Service interface {
	Register(ctx context.Context, req *CreateUserRequest) (*User, error)
	GetUsers(ctx context.Context) ([]User, error)
}

type service struct {
	repo Repository
	// Accepted year-of-birth range; differs between deployments.
	yearMin int
	yearMax int
}

func NewService(repo Repository, yearMin, yearMax int) Service {
	return &service{repo: repo, yearMin: yearMin, yearMax: yearMax}
}

func (s *service) Register(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if _, err := uuid.Parse(req.UserUUID); err != nil {
		return nil, ErrInvalidUUID
	}
	if req.YearOfBirth < s.yearMin || req.YearOfBirth > s.yearMax {
		return nil, fmt.Errorf("%w: must be between %d-%d", ErrInvalidYear, s.yearMin, s.yearMax)
	}

	u := &User{
		UserUUID:    req.UserUUID,
		YearOfBirth: req.YearOfBirth,
	}
	if err := s.repo.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUsers(ctx context.Context) ([]User, error) {
	return s.repo.FindAll(ctx)
}
