package report

import "context"

type (
	Repository interface {
		DailyCash(ctx context.Context, f DailyFilter) (DailyCashReport, error)
		CampusCashFlow(ctx context.Context, f Filter) (CashFlowReport, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) DailyCash(ctx context.Context, f DailyFilter) (DailyCashReport, error) {
	if err := f.Validate(); err != nil {
		return DailyCashReport{}, err
	}
	return svc.repo.DailyCash(ctx, f)
}

func (svc *Service) CampusCashFlow(ctx context.Context, f Filter) (CashFlowReport, error) {
	if err := f.Validate(); err != nil {
		return CashFlowReport{}, err
	}
	return svc.repo.CampusCashFlow(ctx, f)
}
