package restrepos

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/trezcool/feedesk/core/defaulter"
	gatewaysvc "github.com/trezcool/feedesk/services/gateway"
)

type defaulterRepository struct {
	api *gatewaysvc.Client
}

func NewDefaulterRepository(api *gatewaysvc.Client) defaulter.Repository {
	return &defaulterRepository{api: api}
}

func (repo defaulterRepository) ListDefaulters(ctx context.Context) ([]defaulter.Defaulter, error) {
	var raw json.RawMessage
	if err := repo.api.Get(ctx, "/global/defaulters/", nil, &raw); err != nil {
		return nil, err
	}
	defaulters := make([]defaulter.Defaulter, 0)
	err := decodeList(raw, &defaulters, "data")
	return defaulters, err
}

func (repo defaulterRepository) ListCampusDefaulters(ctx context.Context, campusID string) (defaulter.CampusList, error) {
	var list defaulter.CampusList
	if err := repo.api.Get(ctx, "/global/defaulter/"+url.PathEscape(campusID), nil, &list); err != nil {
		return defaulter.CampusList{}, err
	}
	if list.Defaulters == nil {
		list.Defaulters = make([]defaulter.Defaulter, 0)
	}
	return list, nil
}
