package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core/defaulter"
)

type defaulterApi struct {
	svc      *defaulter.Service
	pageSize int
	pinned   bool
}

type campusDefaultersPage struct {
	listResponse[defaulter.Defaulter, defaulter.Stats]
	// TotalDefaulters is the count reported by the server.
	TotalDefaulters int `json:"total_defaulters"`
}

func registerDefaulterAPI(g *echo.Group, api *defaulterApi) {
	if api.pinned {
		g.GET("/defaulters", api.queryCampus)
		return
	}
	g.GET("/defaulters", api.query)
	g.GET("/campuses/:id/defaulters", api.queryCampus)
}

func (api *defaulterApi) query(ctx echo.Context) error {
	defaulters, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing defaulters")
	}
	return ctx.JSON(http.StatusOK, listResponse[defaulter.Defaulter, defaulter.Stats]{
		Page:  defaulter.View(defaulters, bindListQuery(ctx, api.pageSize)),
		Stats: defaulter.Summarize(defaulters),
	})
}

func (api *defaulterApi) queryCampus(ctx echo.Context) error {
	campusID := ctx.Param("id")
	if api.pinned {
		var err error
		if campusID, err = sessionCampus(ctx); err != nil {
			return err
		}
	}

	list, err := api.svc.ListByCampus(ctx.Request().Context(), campusID)
	if err != nil {
		return errors.Wrap(err, "listing campus defaulters")
	}
	return ctx.JSON(http.StatusOK, campusDefaultersPage{
		listResponse: listResponse[defaulter.Defaulter, defaulter.Stats]{
			Page:  defaulter.View(list.Defaulters, bindListQuery(ctx, api.pageSize)),
			Stats: defaulter.Summarize(list.Defaulters),
		},
		TotalDefaulters: list.TotalDefaulters,
	})
}
