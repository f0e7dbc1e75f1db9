package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/feedesk/core/accountant"
	"github.com/trezcool/feedesk/core/campus"
	"github.com/trezcool/feedesk/core/form"
)

type accountantApi struct {
	svc       *accountant.Service
	campusSvc *campus.Service
	guard     *form.Guard
	pageSize  int
	flashTTL  time.Duration
}

type accountantsPage struct {
	listResponse[accountant.Accountant, accountant.Stats]
	// Campuses feed the campus picker of the create/edit form.
	Campuses []campus.Campus `json:"campuses"`
}

func registerAccountantAPI(g *echo.Group, api *accountantApi) {
	ag := g.Group("/accountants")
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

// load fetches campuses and accountants concurrently and fills in the campus names.
func (api *accountantApi) load(ctx context.Context) ([]accountant.Accountant, []campus.Campus, error) {
	var accts []accountant.Accountant
	var campuses []campus.Campus

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		campuses, err = api.campusSvc.List(gctx)
		return errors.Wrap(err, "listing campuses")
	})
	g.Go(func() (err error) {
		accts, err = api.svc.List(gctx)
		return errors.Wrap(err, "listing accountants")
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	accountant.ResolveCampusNames(accts, campuses)
	return accts, campuses, nil
}

func (api *accountantApi) page(ctx echo.Context, accts []accountant.Accountant, campuses []campus.Campus) accountantsPage {
	return accountantsPage{
		listResponse: listResponse[accountant.Accountant, accountant.Stats]{
			Page:  accountant.View(accts, bindListQuery(ctx, api.pageSize)),
			Stats: accountant.Summarize(accts),
		},
		Campuses: campuses,
	}
}

// Handlers

func (api *accountantApi) query(ctx echo.Context) error {
	accts, campuses, err := api.load(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.page(ctx, accts, campuses))
}

func (api *accountantApi) create(ctx echo.Context) error {
	var data accountant.NewAccountant
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAccountant")
	}

	campuses, err := api.campusSvc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing campuses")
	}

	var created accountant.Accountant
	var accts []accountant.Accountant
	wf := form.NewCreate(accountant.NewAccountant{}, api.flashTTL)
	wf.SuccessText = "Accountant created successfully"
	wf.SetDraft(data)
	wf.Refetch = func(c context.Context) (err error) {
		accts, campuses, err = api.load(c)
		return
	}

	flash, listErr, err := submit(ctx, api.guard, "accountant.create", wf, func(c context.Context, na accountant.NewAccountant) (err error) {
		created, err = api.svc.Create(c, na, campuses)
		return
	})
	if err != nil {
		return errors.Wrap(err, "creating accountant")
	}
	resp := mutationResponse{Data: created, Flash: flash}.withList(listErr, func() interface{} { return api.page(ctx, accts, campuses) })
	return ctx.JSON(http.StatusCreated, resp)
}

func (api *accountantApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	var data accountant.UpdateAccountant
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAccountant")
	}

	var campuses []campus.Campus
	if data.CampusID != "" {
		var err error
		if campuses, err = api.campusSvc.List(ctx.Request().Context()); err != nil {
			return errors.Wrap(err, "listing campuses")
		}
	}

	var updated accountant.Accountant
	var accts []accountant.Accountant
	wf := form.NewEdit(data, api.flashTTL)
	wf.SuccessText = "Accountant updated successfully"
	wf.Refetch = func(c context.Context) (err error) {
		accts, campuses, err = api.load(c)
		return
	}

	flash, listErr, err := submit(ctx, api.guard, "accountant.update."+id, wf, func(c context.Context, ua accountant.UpdateAccountant) (err error) {
		updated, err = api.svc.Update(c, id, ua, campuses)
		return
	})
	if err != nil {
		return errors.Wrap(err, "updating accountant")
	}
	resp := mutationResponse{Data: updated, Flash: flash}.withList(listErr, func() interface{} { return api.page(ctx, accts, campuses) })
	return ctx.JSON(http.StatusOK, resp)
}

func (api *accountantApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	flash, err := remove(ctx, api.guard, "accountant.delete."+id, "Accountant deleted successfully", api.flashTTL,
		func(c context.Context) error { return api.svc.Delete(c, id) },
	)
	if err != nil {
		return errors.Wrap(err, "deleting accountant")
	}

	accts, campuses, listErr := api.load(ctx.Request().Context())
	resp := mutationResponse{Flash: flash}.withList(listErr, func() interface{} { return api.page(ctx, accts, campuses) })
	return ctx.JSON(http.StatusOK, resp)
}
