package restrepos

import (
	"context"
	"encoding/json"

	"github.com/trezcool/feedesk/core/dashboard"
	gatewaysvc "github.com/trezcool/feedesk/services/gateway"
)

type dashboardRepository struct {
	api *gatewaysvc.Client
}

func NewDashboardRepository(api *gatewaysvc.Client) dashboard.Repository {
	return &dashboardRepository{api: api}
}

func (repo dashboardRepository) Counts(ctx context.Context) (dashboard.Counts, error) {
	var raw json.RawMessage
	if err := repo.api.Get(ctx, "/global/dashboard-counts", nil, &raw); err != nil {
		return dashboard.Counts{}, err
	}
	var counts dashboard.Counts
	err := decodeEntity(raw, &counts, "data", "counts")
	return counts, err
}

func (repo dashboardRepository) Activity(ctx context.Context) ([]dashboard.Activity, error) {
	var raw json.RawMessage
	if err := repo.api.Get(ctx, "/dashboard/activity", nil, &raw); err != nil {
		return nil, err
	}
	activity := make([]dashboard.Activity, 0)
	err := decodeList(raw, &activity, "data", "activities", "activity")
	return activity, err
}

func (repo dashboardRepository) MonthlyCollection(ctx context.Context) ([]dashboard.MonthlyCollection, error) {
	var raw json.RawMessage
	if err := repo.api.Get(ctx, "/global/paid", nil, &raw); err != nil {
		return nil, err
	}
	series := make([]dashboard.MonthlyCollection, 0)
	err := decodeList(raw, &series, "data", "monthly")
	return series, err
}
