package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/hackathon"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
)

type (
	Options struct {
		Address    string
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		// Shutdown is called when a handler reports a shutdown error.
		Shutdown func()

		UserSvc       user.ServiceInterface
		ChallengeSvc  *challenge.Service
		CurriculumSvc *curriculum.Service
		PlannerSvc    *planner.Service
		HackathonSvc  *hackathon.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	vala.BeginValidation().Validate(
		vala.IsNotNil(opts, "opts"),
	).CheckAndPanic()
	vala.BeginValidation().Validate(
		vala.IsNotNil(opts.Conf, "Conf"),
		vala.IsNotNil(opts.Logger, "Logger"),
		vala.IsNotNil(opts.Validate, "Validate"),
		vala.IsNotNil(opts.Translator, "Translator"),
		vala.IsNotNil(opts.UserSvc, "UserSvc"),
		vala.IsNotNil(opts.ChallengeSvc, "ChallengeSvc"),
		vala.IsNotNil(opts.CurriculumSvc, "CurriculumSvc"),
		vala.IsNotNil(opts.PlannerSvc, "PlannerSvc"),
		vala.IsNotNil(opts.HackathonSvc, "HackathonSvc"),
	).CheckAndPanic()

	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = conf.TestMode
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.Shutdown)
	s.app.Debug = conf.Debug
	if conf.Debug {
		s.app.Logger.SetLevel(log.DEBUG)
	}

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))
	authed := []echo.MiddlewareFunc{jwt, activeUserMiddleware(s.opts.UserSvc)}

	registerUserAPI(v1, jwt, conf, s.opts.UserSvc, s.opts.Validate)
	registerChallengeAPI(v1, authed, s.opts.ChallengeSvc, s.opts.UserSvc, s.opts.Validate)
	registerCurriculumAPI(v1, authed, s.opts.CurriculumSvc, s.opts.PlannerSvc, s.opts.UserSvc)
	registerPlannerAPI(v1, authed, s.opts.PlannerSvc, s.opts.UserSvc)
	registerHackathonAPI(v1, authed, s.opts.HackathonSvc, s.opts.UserSvc)
	registerAdminAPI(v1, authed, s.opts.UserSvc, s.opts.ChallengeSvc, s.opts.CurriculumSvc)
}

func (s *server) Start() {
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		s.app.Logger.Fatal(err)
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the "+s.opts.Conf.AppName+" API!")
}
