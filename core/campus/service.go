package campus

import (
	"context"

	"github.com/go-playground/validator/v10"
)

type (
	// Repository maps one method to each campus endpoint of the remote API.
	// Mutations do not return a fresh collection: callers List() again.
	Repository interface {
		CreateCampus(ctx context.Context, nc NewCampus) (Campus, error)
		ListCampuses(ctx context.Context) ([]Campus, error)
		UpdateCampus(ctx context.Context, id string, uc UpdateCampus) (Campus, error)
		DeleteCampus(ctx context.Context, id string) error
		CampusSummary(ctx context.Context, id string) (Summary, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, nc NewCampus) (Campus, error) {
	nc.Clean()
	if err := svc.validate.Struct(nc); err != nil {
		return Campus{}, err
	}
	return svc.repo.CreateCampus(ctx, nc)
}

func (svc *Service) List(ctx context.Context) ([]Campus, error) {
	return svc.repo.ListCampuses(ctx)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCampus) (Campus, error) {
	uc.Clean()
	if err := svc.validate.Struct(uc); err != nil {
		return Campus{}, err
	}
	return svc.repo.UpdateCampus(ctx, id, uc)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCampus(ctx, id)
}

func (svc *Service) Summary(ctx context.Context, id string) (Summary, error) {
	return svc.repo.CampusSummary(ctx, id)
}
