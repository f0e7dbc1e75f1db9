package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/accountant"
	"github.com/trezcool/feedesk/core/auth"
	"github.com/trezcool/feedesk/core/campus"
	"github.com/trezcool/feedesk/core/dashboard"
	"github.com/trezcool/feedesk/core/defaulter"
	"github.com/trezcool/feedesk/core/form"
	"github.com/trezcool/feedesk/core/report"
	"github.com/trezcool/feedesk/core/student"
)

const csrfHeader = "X-CSRF-Token"

// Deps are the services the dashboard server talks to.
type Deps struct {
	dig.In

	Conf          *core.Config
	Logger        core.Logger
	Validate      *validator.Validate
	Translator    ut.Translator
	Mailer        core.EmailService
	AuthSvc       *auth.Service
	CampusSvc     *campus.Service
	AccountantSvc *accountant.Service
	StudentSvc    *student.Service
	DefaulterSvc  *defaulter.Service
	DashboardSvc  *dashboard.Service
	ReportSvc     *report.Service
}

type Server struct {
	app      *echo.Echo
	deps     Deps
	guard    *form.Guard
	shutdown chan os.Signal
	errors   chan error
}

func NewServer(deps Deps) *Server {
	s := &Server{
		app:      echo.New(),
		deps:     deps,
		guard:    form.NewGuard(),
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:" + csrfHeader,
		CookiePath:     "/",
		CookieSecure:   conf.Server.CookieSecure,
		CookieHTTPOnly: false, // read by the browser to fill csrfHeader
	}))
	s.app.Use(sessionMiddleware(s.deps.AuthSvc, conf.Server.CookieSecure))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, conf.Server.CookieSecure, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	registerAuthAPI(s.app, s.deps.AuthSvc, conf.Server.CookieSecure)

	admin := s.app.Group(auth.AdminHome, requireRole(auth.RoleAdmin))
	registerAdminArea(admin, s.deps, s.guard)

	acct := s.app.Group(auth.AccountantHome, requireRole(auth.RoleAccountant))
	registerAccountantArea(acct, s.deps, s.guard)
}

// Start blocks until the server stops; failures are reported on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- errors.Wrap(err, "starting server")
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGSTOP:
	default: // already shutting down
	}
}

// home sends the visitor to the area of their session, or to the login page.
func home(ctx echo.Context) error {
	if sess, err := getContextManager(ctx).Require(); err == nil {
		return ctx.Redirect(http.StatusFound, sess.Home())
	}
	return ctx.Redirect(http.StatusFound, auth.LoginPage)
}
