package restrepos

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/trezcool/feedesk/core/campus"
	gatewaysvc "github.com/trezcool/feedesk/services/gateway"
)

type campusRepository struct {
	api *gatewaysvc.Client
}

func NewCampusRepository(api *gatewaysvc.Client) campus.Repository {
	return &campusRepository{api: api}
}

func (repo campusRepository) CreateCampus(ctx context.Context, nc campus.NewCampus) (campus.Campus, error) {
	var raw json.RawMessage
	if err := repo.api.Post(ctx, "/campus/create", nc, &raw); err != nil {
		return campus.Campus{}, err
	}
	var c campus.Campus
	err := decodeEntity(raw, &c, "campus", "data")
	return c, err
}

func (repo campusRepository) ListCampuses(ctx context.Context) ([]campus.Campus, error) {
	var raw json.RawMessage
	if err := repo.api.Get(ctx, "/campus/list", nil, &raw); err != nil {
		return nil, err
	}
	campuses := make([]campus.Campus, 0)
	err := decodeList(raw, &campuses, "campuses", "data")
	return campuses, err
}

func (repo campusRepository) UpdateCampus(ctx context.Context, id string, uc campus.UpdateCampus) (campus.Campus, error) {
	var raw json.RawMessage
	if err := repo.api.Put(ctx, "/campus/update/"+url.PathEscape(id), uc, &raw); err != nil {
		return campus.Campus{}, err
	}
	var c campus.Campus
	err := decodeEntity(raw, &c, "campus", "data")
	return c, err
}

func (repo campusRepository) DeleteCampus(ctx context.Context, id string) error {
	return repo.api.Delete(ctx, "/campus/delete/"+url.PathEscape(id), nil)
}

func (repo campusRepository) CampusSummary(ctx context.Context, id string) (campus.Summary, error) {
	var raw json.RawMessage
	if err := repo.api.Get(ctx, "/global/dashboardSummary/"+url.PathEscape(id), nil, &raw); err != nil {
		return campus.Summary{}, err
	}
	var sum campus.Summary
	err := decodeEntity(raw, &sum, "data")
	return sum, err
}
