package auth

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrUnknownRole     = errors.New("unrecognized role")
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrNotResolved     = errors.New("authentication still in progress")
	ErrWrongArea       = errors.New("permission denied")
)

type (
	Repository interface {
		Login(ctx context.Context, creds Credentials) (LoginResponse, error)
		Profile(ctx context.Context) (User, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	creds.Clean()
	if err := svc.validate.Struct(creds); err != nil {
		return LoginResponse{}, err
	}
	return svc.repo.Login(ctx, creds)
}

func (svc *Service) Profile(ctx context.Context) (User, error) {
	return svc.repo.Profile(ctx)
}
