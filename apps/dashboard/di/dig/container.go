package dig_container

import (
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/feedesk/apps/dashboard/echo"
	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/accountant"
	"github.com/trezcool/feedesk/core/auth"
	"github.com/trezcool/feedesk/core/campus"
	"github.com/trezcool/feedesk/core/dashboard"
	"github.com/trezcool/feedesk/core/defaulter"
	"github.com/trezcool/feedesk/core/report"
	"github.com/trezcool/feedesk/core/student"
	emailsvc "github.com/trezcool/feedesk/services/email"
	gatewaysvc "github.com/trezcool/feedesk/services/gateway"
	logsvc "github.com/trezcool/feedesk/services/logger"
	restrepos "github.com/trezcool/feedesk/storage/restapi"
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DASHBOARD : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

// newGateway builds the only HTTP client of the remote fee API.
// Session tokens are bound per request, so no TokenSource is attached.
func newGateway(conf *core.Config, logger core.Logger) (*gatewaysvc.Client, error) {
	return gatewaysvc.New(
		conf.API.BaseURL,
		gatewaysvc.WithTimeout(conf.API.Timeout),
		gatewaysvc.WithLogger(logger),
		gatewaysvc.WithMetrics(gatewaysvc.NewMetrics(prometheus.DefaultRegisterer)),
	)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newEmailService))
	must(c.Provide(newGateway))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))

	// repositories
	must(c.Provide(restrepos.NewAuthRepository))
	must(c.Provide(restrepos.NewCampusRepository))
	must(c.Provide(restrepos.NewAccountantRepository))
	must(c.Provide(restrepos.NewStudentRepository))
	must(c.Provide(restrepos.NewDefaulterRepository))
	must(c.Provide(restrepos.NewDashboardRepository))
	must(c.Provide(restrepos.NewReportRepository))

	// services
	must(c.Provide(auth.NewService))
	must(c.Provide(campus.NewService))
	must(c.Provide(accountant.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(defaulter.NewService))
	must(c.Provide(dashboard.NewService))
	must(c.Provide(report.NewService))

	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
