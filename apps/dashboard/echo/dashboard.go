package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core/campus"
	"github.com/trezcool/feedesk/core/dashboard"
)

type dashboardApi struct {
	svc       *dashboard.Service
	campusSvc *campus.Service
}

func (api *dashboardApi) adminHome(ctx echo.Context) error {
	home, err := api.svc.Home(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading dashboard")
	}
	return ctx.JSON(http.StatusOK, home)
}

// accountantHome is the summary of the accountant's own campus.
func (api *dashboardApi) accountantHome(ctx echo.Context) error {
	campusID, err := sessionCampus(ctx)
	if err != nil {
		return err
	}
	sum, err := api.campusSvc.Summary(ctx.Request().Context(), campusID)
	if err != nil {
		return errors.Wrap(err, "fetching campus summary")
	}
	return ctx.JSON(http.StatusOK, sum)
}
