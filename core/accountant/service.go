package accountant

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/campus"
)

var errUnknownCampus = errors.New("campus does not exist")

type (
	Repository interface {
		CreateAccountant(ctx context.Context, na NewAccountant) (Accountant, error)
		ListAccountants(ctx context.Context) ([]Accountant, error)
		UpdateAccountant(ctx context.Context, id string, ua UpdateAccountant) (Accountant, error)
		DeleteAccountant(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// Create validates the draft then checks its campus is one of campuses.
func (svc *Service) Create(ctx context.Context, na NewAccountant, campuses []campus.Campus) (Accountant, error) {
	na.Clean()
	if err := svc.validate.Struct(na); err != nil {
		return Accountant{}, err
	}
	if err := checkCampus(na.CampusID, campuses); err != nil {
		return Accountant{}, err
	}
	return svc.repo.CreateAccountant(ctx, na)
}

func (svc *Service) List(ctx context.Context) ([]Accountant, error) {
	return svc.repo.ListAccountants(ctx)
}

func (svc *Service) Update(ctx context.Context, id string, ua UpdateAccountant, campuses []campus.Campus) (Accountant, error) {
	ua.Clean()
	if err := svc.validate.Struct(ua); err != nil {
		return Accountant{}, err
	}
	if ua.CampusID != "" {
		if err := checkCampus(ua.CampusID, campuses); err != nil {
			return Accountant{}, err
		}
	}
	return svc.repo.UpdateAccountant(ctx, id, ua)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteAccountant(ctx, id)
}

func checkCampus(id string, campuses []campus.Campus) error {
	for _, c := range campuses {
		if c.ID == id {
			return nil
		}
	}
	return core.NewValidationError(errUnknownCampus, core.FieldError{Field: "campus_id", Error: errUnknownCampus.Error()})
}
