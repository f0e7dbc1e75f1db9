package restrepos

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/trezcool/feedesk/core/student"
	gatewaysvc "github.com/trezcool/feedesk/services/gateway"
)

type studentRepository struct {
	api *gatewaysvc.Client
}

func NewStudentRepository(api *gatewaysvc.Client) student.Repository {
	return &studentRepository{api: api}
}

func (repo studentRepository) PaidRecord(ctx context.Context, id string) (student.Record, error) {
	var rec student.Record
	err := repo.api.Get(ctx, "/global/paid-defaulter/"+url.PathEscape(id), nil, &rec)
	return rec, err
}

func (repo studentRepository) FeeRecord(ctx context.Context, id string) (student.Record, error) {
	var rec student.Record
	err := repo.api.Get(ctx, "/global/student-fees", url.Values{"studentId": {id}}, &rec)
	return rec, err
}

func (repo studentRepository) CreateWithSlip(ctx context.Context, ns student.NewStudent) (student.Created, error) {
	var created student.Created
	err := repo.api.Post(ctx, "/global/create-and-generate-slip", ns, &created)
	return created, err
}

func (repo studentRepository) ListByCampus(ctx context.Context, campusID string) ([]student.Student, error) {
	var raw json.RawMessage
	if err := repo.api.Get(ctx, "/campus/"+url.PathEscape(campusID)+"/students", nil, &raw); err != nil {
		return nil, err
	}
	students := make([]student.Student, 0)
	err := decodeList(raw, &students, "students", "data")
	return students, err
}

func (repo studentRepository) BulkDelete(ctx context.Context, ids []string) error {
	body := struct {
		StudentIDs []string `json:"studentIds"`
	}{StudentIDs: ids}
	return repo.api.Post(ctx, "/global/students-delete", body, nil)
}
