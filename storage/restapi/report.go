package restrepos

import (
	"context"

	"github.com/trezcool/feedesk/core/report"
	gatewaysvc "github.com/trezcool/feedesk/services/gateway"
)

type reportRepository struct {
	api *gatewaysvc.Client
}

func NewReportRepository(api *gatewaysvc.Client) report.Repository {
	return &reportRepository{api: api}
}

func (repo reportRepository) DailyCash(ctx context.Context, f report.DailyFilter) (report.DailyCashReport, error) {
	var r report.DailyCashReport
	err := repo.api.Post(ctx, "/global/daily-cash-report", f.Body(), &r)
	return r, err
}

func (repo reportRepository) CampusCashFlow(ctx context.Context, f report.Filter) (report.CashFlowReport, error) {
	var r report.CashFlowReport
	err := repo.api.Post(ctx, "/global/adminCash-flow-report", f.Body(), &r)
	return r, err
}
