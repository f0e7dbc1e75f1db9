package echoapi

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/form"
	"github.com/trezcool/feedesk/core/listing"
)

type (
	listResponse[T, S any] struct {
		Page  listing.Page[T] `json:"page"`
		Stats S               `json:"stats"`
	}

	mutationResponse struct {
		Data  interface{} `json:"data,omitempty"`
		Flash form.Flash  `json:"flash"`
		// List is the collection reloaded once the change went through.
		List interface{} `json:"list,omitempty"`
		// ListError is set instead of List when reloading failed; the view keeps its last known list.
		ListError string `json:"list_error,omitempty"`
	}

	// campusScope resolves the campus a request works on.
	campusScope func(ctx echo.Context) (string, error)
)

// withList attaches the reloaded collection, or why it could not be reloaded.
func (r mutationResponse) withList(refetchErr error, page func() interface{}) mutationResponse {
	if refetchErr != nil {
		r.ListError = "the list could not be reloaded: " + core.ErrorMessage(refetchErr, "server unreachable")
		return r
	}
	r.List = page()
	return r
}

func paramCampus(ctx echo.Context) (string, error) {
	return ctx.Param("id"), nil
}

// sessionCampus pins accountants to their own campus.
func sessionCampus(ctx echo.Context) (string, error) {
	sess, err := getContextSession(ctx)
	if err != nil {
		return "", err
	}
	if sess.User.CampusID == "" {
		return "", errNoCampus
	}
	return sess.User.CampusID, nil
}

// submit sends the draft of wf once; a second submission of the same action by the same session
// is refused while the first one is outstanding.
// A failed reload is returned as refetchErr, apart from err: the change itself went through.
func submit[T any](
	ctx echo.Context,
	guard *form.Guard,
	action string,
	wf *form.Workflow[T],
	fn func(context.Context, T) error,
) (flash form.Flash, refetchErr error, err error) {
	release, err := acquire(ctx, guard, action)
	if err != nil {
		return form.Flash{}, nil, err
	}
	defer release()

	if err = wf.Submit(ctx.Request().Context(), fn); err != nil {
		rErr, ok := err.(*form.RefetchError)
		if !ok {
			return form.Flash{}, nil, err
		}
		refetchErr = rErr.Err
	}
	flash, _ = wf.Flash()
	return flash, refetchErr, nil
}

// remove runs a confirmed deletion.
func remove(
	ctx echo.Context,
	guard *form.Guard,
	action string,
	successText string,
	ttl time.Duration,
	fn func(context.Context) error,
) (form.Flash, error) {
	if err := form.Confirm(queryFlag(ctx, confirmParam)); err != nil {
		return form.Flash{}, err
	}
	release, err := acquire(ctx, guard, action)
	if err != nil {
		return form.Flash{}, err
	}
	defer release()

	if err = fn(ctx.Request().Context()); err != nil {
		return form.Flash{}, err
	}
	return form.NewFlash(form.FlashSuccess, successText, ttl), nil
}

func acquire(ctx echo.Context, guard *form.Guard, action string) (func(), error) {
	sess, err := getContextSession(ctx)
	if err != nil {
		return nil, err
	}
	return guard.Acquire(sess.Token + "|" + action)
}
