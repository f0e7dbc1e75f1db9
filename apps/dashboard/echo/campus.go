package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core/campus"
	"github.com/trezcool/feedesk/core/form"
)

type campusApi struct {
	svc      *campus.Service
	guard    *form.Guard
	pageSize int
	flashTTL time.Duration
}

func registerCampusAPI(g *echo.Group, api *campusApi) {
	cg := g.Group("/campuses")
	cg.GET("", api.query)
	cg.POST("", api.create)

	dg := cg.Group("/:id")
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/summary", api.summary)
}

func (api *campusApi) page(ctx echo.Context, campuses []campus.Campus) listResponse[campus.Campus, campus.Stats] {
	return listResponse[campus.Campus, campus.Stats]{
		Page:  campus.View(campuses, bindListQuery(ctx, api.pageSize)),
		Stats: campus.Summarize(campuses),
	}
}

// Handlers

func (api *campusApi) query(ctx echo.Context) error {
	campuses, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing campuses")
	}
	return ctx.JSON(http.StatusOK, api.page(ctx, campuses))
}

func (api *campusApi) create(ctx echo.Context) error {
	var data campus.NewCampus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCampus")
	}

	var created campus.Campus
	var list []campus.Campus
	wf := form.NewCreate(campus.NewCampus{}, api.flashTTL)
	wf.SuccessText = "Campus created successfully"
	wf.SetDraft(data)
	wf.Refetch = func(c context.Context) (err error) {
		list, err = api.svc.List(c)
		return
	}

	flash, listErr, err := submit(ctx, api.guard, "campus.create", wf, func(c context.Context, nc campus.NewCampus) (err error) {
		created, err = api.svc.Create(c, nc)
		return
	})
	if err != nil {
		return errors.Wrap(err, "creating campus")
	}
	resp := mutationResponse{Data: created, Flash: flash}.withList(listErr, func() interface{} { return api.page(ctx, list) })
	return ctx.JSON(http.StatusCreated, resp)
}

func (api *campusApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	var data campus.UpdateCampus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCampus")
	}

	var updated campus.Campus
	var list []campus.Campus
	wf := form.NewEdit(data, api.flashTTL)
	wf.SuccessText = "Campus updated successfully"
	wf.Refetch = func(c context.Context) (err error) {
		list, err = api.svc.List(c)
		return
	}

	flash, listErr, err := submit(ctx, api.guard, "campus.update."+id, wf, func(c context.Context, uc campus.UpdateCampus) (err error) {
		updated, err = api.svc.Update(c, id, uc)
		return
	})
	if err != nil {
		return errors.Wrap(err, "updating campus")
	}
	resp := mutationResponse{Data: updated, Flash: flash}.withList(listErr, func() interface{} { return api.page(ctx, list) })
	return ctx.JSON(http.StatusOK, resp)
}

func (api *campusApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	flash, err := remove(ctx, api.guard, "campus.delete."+id, "Campus deleted successfully", api.flashTTL,
		func(c context.Context) error { return api.svc.Delete(c, id) },
	)
	if err != nil {
		return errors.Wrap(err, "deleting campus")
	}

	campuses, listErr := api.svc.List(ctx.Request().Context())
	resp := mutationResponse{Flash: flash}.withList(listErr, func() interface{} { return api.page(ctx, campuses) })
	return ctx.JSON(http.StatusOK, resp)
}

func (api *campusApi) summary(ctx echo.Context) error {
	sum, err := api.svc.Summary(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching campus summary")
	}
	return ctx.JSON(http.StatusOK, sum)
}
