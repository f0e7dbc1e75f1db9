package defaulter

import "context"

type (
	Repository interface {
		ListDefaulters(ctx context.Context) ([]Defaulter, error)
		ListCampusDefaulters(ctx context.Context, campusID string) (CampusList, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) List(ctx context.Context) ([]Defaulter, error) {
	return svc.repo.ListDefaulters(ctx)
}

func (svc *Service) ListByCampus(ctx context.Context, campusID string) (CampusList, error) {
	return svc.repo.ListCampusDefaulters(ctx, campusID)
}
