package student

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core"
)

type fakeRepo struct {
	deleted [][]string
}

func (r *fakeRepo) PaidRecord(context.Context, string) (Record, error) { return Record{}, nil }

func (r *fakeRepo) FeeRecord(context.Context, string) (Record, error) { return Record{}, nil }

func (r *fakeRepo) CreateWithSlip(_ context.Context, ns NewStudent) (Created, error) {
	return Created{Student: Student{ID: "s1", Name: ns.Name}}, nil
}

func (r *fakeRepo) ListByCampus(context.Context, string) ([]Student, error) { return nil, nil }

func (r *fakeRepo) BulkDelete(_ context.Context, ids []string) error {
	r.deleted = append(r.deleted, ids)
	return nil
}

func TestService_Delete(t *testing.T) {
	repo := new(fakeRepo)
	svc := NewService(repo, validator.New())

	require.NoError(t, svc.Delete(context.Background(), "s1"))
	require.NoError(t, svc.BulkDelete(context.Background(), []string{"s2", "s3", "s2", ""}))
	assert.Equal(t, [][]string{{"s1"}, {"s2", "s3"}}, repo.deleted)

	assert.Error(t, svc.BulkDelete(context.Background(), nil))
	assert.Len(t, repo.deleted, 2)
}

func TestService_CreateWithSlip(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	svc := NewService(new(fakeRepo), validate)

	_, err := svc.CreateWithSlip(context.Background(), NewStudent{Name: "Ahmed", Class: "5"})
	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)

	got, err := svc.CreateWithSlip(context.Background(), NewStudent{Name: " Ahmed ", FatherName: "Khalid", Class: "5", CampusID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "Ahmed", got.Student.Name)
}

func TestSummarizeTrustsServerBalance(t *testing.T) {
	var students []Student
	require.NoError(t, json.Unmarshal([]byte(`[
		{"_id":"s1","name":"Ahmed","allTotal":5000,"feePaid":5000,"curBalance":0},
		{"_id":"s2","name":"Bilal","allTotal":"4000","feePaid":1000,"curBalance":3000},
		{"_id":"s3","name":"Hina","allTotal":3000,"feePaid":1000,"curBalance":2500}
	]`), &students))

	st := Summarize(students)
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, 1, st.Cleared)
	assert.Equal(t, 2, st.WithBalance)
	assert.Equal(t, 1, st.Inconsistent)
	assert.True(t, st.TotalBilled.Equal(decimal.NewFromInt(12000)))
	assert.True(t, st.TotalPaid.Equal(decimal.NewFromInt(7000)))
	// displayed as received, not recomputed
	assert.True(t, st.TotalBalance.Equal(decimal.NewFromInt(5500)))
}
