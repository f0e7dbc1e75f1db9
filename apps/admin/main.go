package main

import (
	"io"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/accountant"
	"github.com/trezcool/feedesk/core/auth"
	"github.com/trezcool/feedesk/core/campus"
	"github.com/trezcool/feedesk/core/defaulter"
	"github.com/trezcool/feedesk/core/report"
	"github.com/trezcool/feedesk/core/student"
	gatewaysvc "github.com/trezcool/feedesk/services/gateway"
	logsvc "github.com/trezcool/feedesk/services/logger"
	sessionstore "github.com/trezcool/feedesk/storage/session"
	restrepos "github.com/trezcool/feedesk/storage/restapi"
)

var logger core.Logger

// tokenFunc adapts a func to the gateway token source.
type tokenFunc func() string

func (f tokenFunc) Token() string { return f() }

func main() {
	conf := core.NewConfig()
	logger = logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	cli, err := newCommandLine(conf, sessionstore.NewFileStore(conf.Session.FilePath), os.Stdin, os.Stdout)
	errAndDie(err)

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Info("\nerror: " + cli.describe(err))
		}
		os.Exit(1)
	}
}

// newCommandLine wires the services on top of the fee API and restores the saved session.
func newCommandLine(conf *core.Config, store auth.Store, in io.Reader, out io.Writer) (*commandLine, error) {
	var mgr *auth.Manager
	client, err := gatewaysvc.New(
		conf.API.BaseURL,
		gatewaysvc.WithTimeout(conf.API.Timeout),
		gatewaysvc.WithLogger(logger),
		gatewaysvc.WithTokenSource(tokenFunc(func() string { return mgr.Token() })),
	)
	if err != nil {
		return nil, err
	}

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)

	mgr = auth.NewManager(store, auth.NewService(restrepos.NewAuthRepository(client), validate))
	mgr.Restore()

	return &commandLine{
		mgr:           mgr,
		campusSvc:     campus.NewService(restrepos.NewCampusRepository(client), validate),
		accountantSvc: accountant.NewService(restrepos.NewAccountantRepository(client), validate),
		studentSvc:    student.NewService(restrepos.NewStudentRepository(client), validate),
		defaulterSvc:  defaulter.NewService(restrepos.NewDefaulterRepository(client)),
		reportSvc:     report.NewService(restrepos.NewReportRepository(client)),
		translator:    translator,
		pageSize:      conf.Server.PageSize,
		in:            in,
		out:           out,
	}, nil
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
