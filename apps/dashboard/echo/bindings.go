package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/listing"
	"github.com/trezcool/feedesk/core/report"
)

const (
	searchParam  = "search"
	pageParam    = "page"
	confirmParam = "confirm"
	formatParam  = "format"
	printParam   = "print"
)

// bindListQuery reads ?search=&page= ; an unparsable page falls back to the first one.
func bindListQuery(ctx echo.Context, pageSize int) listing.Query {
	q := listing.Query{
		Search:   ctx.QueryParam(searchParam),
		PageSize: pageSize,
	}
	if p, err := strconv.Atoi(ctx.QueryParam(pageParam)); err == nil {
		q.Page = p
	}
	return q
}

func queryFlag(ctx echo.Context, name string) bool {
	ok, _ := strconv.ParseBool(ctx.QueryParam(name))
	return ok
}

// bindDailyFilter reads ?date=&bf_amount= ; the brought-forward amount defaults to zero.
func bindDailyFilter(ctx echo.Context) (report.DailyFilter, error) {
	f := report.DailyFilter{Date: strings.TrimSpace(ctx.QueryParam("date"))}
	if raw := strings.TrimSpace(ctx.QueryParam("bf_amount")); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return f, core.NewValidationError(
				errors.New("invalid report filter"),
				core.FieldError{Field: "bfAmount", Error: "enter a valid amount"},
			)
		}
		f.BFAmount = amount
	}
	return f, nil
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
	// CampusID, when given, is the campus list to reload afterwards.
	CampusID string `json:"campus_id"`
}
