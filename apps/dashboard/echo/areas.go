package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/feedesk/core/form"
)

// registerAdminArea mounts the admin area: every campus, accountant, student, defaulter and report.
func registerAdminArea(g *echo.Group, deps Deps, guard *form.Guard) {
	pageSize, flashTTL := deps.Conf.Server.PageSize, deps.Conf.Server.FlashTTL

	dash := &dashboardApi{svc: deps.DashboardSvc, campusSvc: deps.CampusSvc}
	g.GET("", dash.adminHome)

	registerCampusAPI(g, &campusApi{svc: deps.CampusSvc, guard: guard, pageSize: pageSize, flashTTL: flashTTL})
	registerAccountantAPI(g, &accountantApi{
		svc:       deps.AccountantSvc,
		campusSvc: deps.CampusSvc,
		guard:     guard,
		pageSize:  pageSize,
		flashTTL:  flashTTL,
	})
	registerStudentAPI(g, &studentApi{svc: deps.StudentSvc, guard: guard, pageSize: pageSize, flashTTL: flashTTL})
	registerDefaulterAPI(g, &defaulterApi{svc: deps.DefaulterSvc, pageSize: pageSize})
	registerReportAPI(g, &reportApi{svc: deps.ReportSvc, mailer: deps.Mailer, validate: deps.Validate, flashTTL: flashTTL})
}

// registerAccountantArea mounts the accountant area; every route is pinned to the accountant's own campus.
func registerAccountantArea(g *echo.Group, deps Deps, guard *form.Guard) {
	pageSize, flashTTL := deps.Conf.Server.PageSize, deps.Conf.Server.FlashTTL

	dash := &dashboardApi{svc: deps.DashboardSvc, campusSvc: deps.CampusSvc}
	g.GET("", dash.accountantHome)

	registerStudentAPI(g, &studentApi{svc: deps.StudentSvc, guard: guard, pageSize: pageSize, flashTTL: flashTTL, pinned: true})
	registerDefaulterAPI(g, &defaulterApi{svc: deps.DefaulterSvc, pageSize: pageSize, pinned: true})
	registerReportAPI(g, &reportApi{svc: deps.ReportSvc, mailer: deps.Mailer, validate: deps.Validate, flashTTL: flashTTL, pinned: true})
}
