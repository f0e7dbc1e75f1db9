package student

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
)

var errNoStudents = errors.New("no students selected")

type (
	Repository interface {
		PaidRecord(ctx context.Context, id string) (Record, error)
		FeeRecord(ctx context.Context, id string) (Record, error)
		CreateWithSlip(ctx context.Context, ns NewStudent) (Created, error)
		ListByCampus(ctx context.Context, campusID string) ([]Student, error)
		BulkDelete(ctx context.Context, ids []string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// Record is the payment record of one student.
func (svc *Service) Record(ctx context.Context, id string) (Record, error) {
	return svc.repo.PaidRecord(ctx, id)
}

// FeeRecord is the per-period fee history of one student.
func (svc *Service) FeeRecord(ctx context.Context, id string) (Record, error) {
	return svc.repo.FeeRecord(ctx, id)
}

func (svc *Service) CreateWithSlip(ctx context.Context, ns NewStudent) (Created, error) {
	ns.Clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Created{}, err
	}
	return svc.repo.CreateWithSlip(ctx, ns)
}

func (svc *Service) ListByCampus(ctx context.Context, campusID string) ([]Student, error) {
	return svc.repo.ListByCampus(ctx, campusID)
}

func (svc *Service) BulkDelete(ctx context.Context, ids []string) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return core.NewValidationError(errNoStudents, core.FieldError{Field: "ids", Error: errNoStudents.Error()})
	}
	return svc.repo.BulkDelete(ctx, ids)
}

// Delete removes one student through the bulk endpoint.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.BulkDelete(ctx, []string{id})
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
