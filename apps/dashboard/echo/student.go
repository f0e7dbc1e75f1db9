package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core/form"
	"github.com/trezcool/feedesk/core/student"
)

type studentApi struct {
	svc      *student.Service
	guard    *form.Guard
	pageSize int
	flashTTL time.Duration
	// pinned restricts the api to the campus of the session (accountant area).
	pinned bool
}

func registerStudentAPI(g *echo.Group, api *studentApi) {
	sg := g.Group("/students")
	if api.pinned {
		sg.GET("", api.query)
	} else {
		g.GET("/campuses/:id/students", api.query)
		sg.DELETE("", api.destroyMultiple)
		sg.DELETE("/:id", api.destroy)
	}
	sg.POST("", api.create)
	sg.GET("/:id/record", api.record)
	sg.GET("/:id/fees", api.fees)
}

func (api *studentApi) campus(ctx echo.Context, given string) (string, error) {
	if api.pinned {
		return sessionCampus(ctx)
	}
	return given, nil
}

func (api *studentApi) page(ctx echo.Context, students []student.Student) listResponse[student.Student, student.Stats] {
	return listResponse[student.Student, student.Stats]{
		Page:  student.View(students, bindListQuery(ctx, api.pageSize)),
		Stats: student.Summarize(students),
	}
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	campusID, err := api.campus(ctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	students, err := api.svc.ListByCampus(ctx.Request().Context(), campusID)
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	return ctx.JSON(http.StatusOK, api.page(ctx, students))
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	campusID, err := api.campus(ctx, data.CampusID)
	if err != nil {
		return err
	}
	data.CampusID = campusID

	var created student.Created
	var list []student.Student
	wf := form.NewCreate(student.NewStudent{}, api.flashTTL)
	wf.SuccessText = "Student created and fee slip generated"
	wf.SetDraft(data)
	wf.Refetch = func(c context.Context) (err error) {
		list, err = api.svc.ListByCampus(c, campusID)
		return
	}

	flash, listErr, err := submit(ctx, api.guard, "student.create", wf, func(c context.Context, ns student.NewStudent) (err error) {
		created, err = api.svc.CreateWithSlip(c, ns)
		return
	})
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	resp := mutationResponse{Data: created, Flash: flash}.withList(listErr, func() interface{} { return api.page(ctx, list) })
	return ctx.JSON(http.StatusCreated, resp)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	var data bulkDeleteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to bulkDeleteRequest")
	}
	flash, err := remove(ctx, api.guard, "student.delete", "Students deleted successfully", api.flashTTL,
		func(c context.Context) error { return api.svc.BulkDelete(c, data.IDs) },
	)
	if err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return api.afterDelete(ctx, flash, data.CampusID)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	flash, err := remove(ctx, api.guard, "student.delete", "Student deleted successfully", api.flashTTL,
		func(c context.Context) error { return api.svc.Delete(c, id) },
	)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return api.afterDelete(ctx, flash, ctx.QueryParam("campus_id"))
}

func (api *studentApi) afterDelete(ctx echo.Context, flash form.Flash, campusID string) error {
	resp := mutationResponse{Flash: flash}
	if campusID != "" {
		students, listErr := api.svc.ListByCampus(ctx.Request().Context(), campusID)
		resp = resp.withList(listErr, func() interface{} { return api.page(ctx, students) })
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *studentApi) record(ctx echo.Context) error {
	rec, err := api.svc.Record(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching student record")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *studentApi) fees(ctx echo.Context) error {
	rec, err := api.svc.FeeRecord(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching student fees")
	}
	return ctx.JSON(http.StatusOK, rec)
}
