package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/form"
	"github.com/trezcool/feedesk/core/report"
	printsvc "github.com/trezcool/feedesk/services/print"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	errUnsupportedFormat = errors.New("unsupported report format")
	reportFormats        = []string{"json", "html", "pdf", "xlsx"}
)

type reportApi struct {
	svc      *report.Service
	mailer   core.EmailService
	validate *validator.Validate
	flashTTL time.Duration
	pinned   bool
}

type (
	emailRecipients struct {
		To []string `json:"to" validate:"required,min=1,dive,email"`
	}

	emailCashFlowRequest struct {
		report.Filter
		emailRecipients
	}

	emailDailyRequest struct {
		report.DailyFilter
		emailRecipients
	}
)

func registerReportAPI(g *echo.Group, api *reportApi) {
	rg := g.Group("/reports")
	rg.GET("/cash-flow", api.cashFlow)
	rg.POST("/cash-flow/email", api.emailCashFlow)
	rg.GET("/daily", api.daily)
	rg.POST("/daily/email", api.emailDaily)
}

func (api *reportApi) scope(ctx echo.Context, f *report.Filter) error {
	if !api.pinned {
		return nil
	}
	campusID, err := sessionCampus(ctx)
	if err != nil {
		return err
	}
	f.CampusID = campusID
	return nil
}

func (api *reportApi) composeCashFlow(ctx echo.Context, f report.Filter) (report.Document, error) {
	if err := api.scope(ctx, &f); err != nil {
		return report.Document{}, err
	}
	r, err := api.svc.CampusCashFlow(ctx.Request().Context(), f)
	if err != nil {
		return report.Document{}, errors.Wrap(err, "fetching cash flow report")
	}
	doc := report.Compose(r)
	if doc.Period == "" {
		doc.Period = f.Label()
	}
	return doc, nil
}

func (api *reportApi) composeDaily(ctx echo.Context, f report.DailyFilter) (report.Document, error) {
	r, err := api.svc.DailyCash(ctx.Request().Context(), f)
	if err != nil {
		return report.Document{}, errors.Wrap(err, "fetching daily cash report")
	}
	return report.ComposeDaily(r), nil
}

// Handlers

func (api *reportApi) cashFlow(ctx echo.Context) error {
	if err := checkFormat(ctx); err != nil {
		return err
	}
	var f report.Filter
	if err := ctx.Bind(&f); err != nil {
		return errors.Wrap(err, "binding to Filter")
	}
	doc, err := api.composeCashFlow(ctx, f)
	if err != nil {
		return err
	}
	return api.render(ctx, doc)
}

func (api *reportApi) daily(ctx echo.Context) error {
	if err := checkFormat(ctx); err != nil {
		return err
	}
	f, err := bindDailyFilter(ctx)
	if err != nil {
		return err
	}
	doc, err := api.composeDaily(ctx, f)
	if err != nil {
		return err
	}
	return api.render(ctx, doc)
}

func (api *reportApi) emailCashFlow(ctx echo.Context) error {
	var data emailCashFlowRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to emailCashFlowRequest")
	}
	if err := api.validate.Struct(data.emailRecipients); err != nil {
		return err
	}
	doc, err := api.composeCashFlow(ctx, data.Filter)
	if err != nil {
		return err
	}
	return api.send(ctx, doc, data.To)
}

func (api *reportApi) emailDaily(ctx echo.Context) error {
	var data emailDailyRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to emailDailyRequest")
	}
	if err := api.validate.Struct(data.emailRecipients); err != nil {
		return err
	}
	doc, err := api.composeDaily(ctx, data.DailyFilter)
	if err != nil {
		return err
	}
	return api.send(ctx, doc, data.To)
}

// render answers with the format asked by ?format= : json (default), html, pdf or xlsx.
func (api *reportApi) render(ctx echo.Context, doc report.Document) error {
	var buf bytes.Buffer

	switch format := ctx.QueryParam(formatParam); format {
	case "", "json":
		return ctx.JSON(http.StatusOK, doc)
	case "html":
		opts := printsvc.Options{
			PrintOnly: queryFlag(ctx, printParam),
			BackURL:   areaHome(ctx),
			Exports: []printsvc.Export{
				{Label: "PDF", URL: exportURL(ctx, "pdf")},
				{Label: "Excel", URL: exportURL(ctx, "xlsx")},
			},
		}
		if err := printsvc.RenderHTML(&buf, doc, opts); err != nil {
			return err
		}
		return ctx.HTMLBlob(http.StatusOK, buf.Bytes())
	case "pdf":
		if err := printsvc.RenderPDF(&buf, doc); err != nil {
			return err
		}
		return attachment(ctx, doc.FileName()+".pdf", mimePDF, buf.Bytes())
	case "xlsx":
		if err := printsvc.RenderXLSX(&buf, doc); err != nil {
			return err
		}
		return attachment(ctx, doc.FileName()+".xlsx", mimeXLSX, buf.Bytes())
	default:
		return unsupportedFormat(format)
	}
}

// checkFormat rejects an unknown ?format= before the report is requested from the API.
func checkFormat(ctx echo.Context) error {
	format := ctx.QueryParam(formatParam)
	if format == "" {
		return nil
	}
	for _, f := range reportFormats {
		if format == f {
			return nil
		}
	}
	return unsupportedFormat(format)
}

func unsupportedFormat(format string) error {
	return core.NewValidationError(
		errUnsupportedFormat,
		core.FieldError{Field: formatParam, Error: fmt.Sprintf("%q is not one of %s", format, strings.Join(reportFormats, ", "))},
	)
}

// send e-mails the report with its PDF rendering attached.
func (api *reportApi) send(ctx echo.Context, doc report.Document, to []string) error {
	var pdf bytes.Buffer
	if err := printsvc.RenderPDF(&pdf, doc); err != nil {
		return err
	}

	msg := &core.EmailMessage{
		Subject:      doc.Title,
		TemplateName: "report",
		TemplateData: doc,
	}
	for _, addr := range to {
		msg.To = append(msg.To, mail.Address{Address: addr})
	}
	if err := msg.Attach(&pdf, doc.FileName()+".pdf", mimePDF); err != nil {
		return errors.Wrap(err, "attaching report")
	}
	api.mailer.SendMessages(msg)

	flash := form.NewFlash(form.FlashSuccess, "Report sent", api.flashTTL)
	return ctx.JSON(http.StatusAccepted, mutationResponse{Flash: flash})
}

func attachment(ctx echo.Context, filename, contentType string, data []byte) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, contentType, data)
}

func exportURL(ctx echo.Context, format string) string {
	u := *ctx.Request().URL
	q := u.Query()
	q.Set(formatParam, format)
	q.Del(printParam)
	u.RawQuery = q.Encode()
	return u.RequestURI()
}

func areaHome(ctx echo.Context) string {
	if sess, err := getContextSession(ctx); err == nil {
		return sess.Home()
	}
	return "/"
}
