package dashboard

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type (
	Repository interface {
		Counts(ctx context.Context) (Counts, error)
		Activity(ctx context.Context) ([]Activity, error)
		MonthlyCollection(ctx context.Context) ([]MonthlyCollection, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Counts(ctx context.Context) (Counts, error) {
	return svc.repo.Counts(ctx)
}

func (svc *Service) Activity(ctx context.Context) ([]Activity, error) {
	return svc.repo.Activity(ctx)
}

func (svc *Service) MonthlyCollection(ctx context.Context) ([]MonthlyCollection, error) {
	return svc.repo.MonthlyCollection(ctx)
}

// Home issues the three landing page fetches concurrently and waits for all of them.
func (svc *Service) Home(ctx context.Context) (Home, error) {
	var home Home
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		home.Counts, err = svc.repo.Counts(gctx)
		return errors.Wrap(err, "fetching counts")
	})
	g.Go(func() (err error) {
		home.Activity, err = svc.repo.Activity(gctx)
		return errors.Wrap(err, "fetching activity")
	})
	g.Go(func() (err error) {
		home.Monthly, err = svc.repo.MonthlyCollection(gctx)
		return errors.Wrap(err, "fetching monthly collection")
	})
	if err := g.Wait(); err != nil {
		return Home{}, err
	}
	home.YearTotal = SeriesTotal(home.Monthly)
	return home, nil
}
