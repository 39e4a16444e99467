package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // debug endpoints
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/dannygardner26/GVCS-Main-Page-sub000/apps/api/echo"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/curriculum"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/hackathon"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/schoolday"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/user"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/services/digest"
	emailsvc "github.com/dannygardner26/GVCS-Main-Page-sub000/services/email"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/services/genai"
	logsvc "github.com/dannygardner26/GVCS-Main-Page-sub000/services/logger"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/storage"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/storage/database"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up storage
	if conf.Backend == core.BackendLive {
		if err := database.CreateIfNotExist(conf); err != nil {
			logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
		}
	}
	repos, err := storage.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening storage: %v", err), err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// set up content
	cal, err := schoolday.NewCalendar(conf.Schedule.Epoch, conf.Schedule.Location)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up calendar: %v", err), err)
	}
	pools, err := challenge.LoadPoolsFile(conf.Schedule.PoolsFile)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading problem pools: %v", err), err)
	}
	catalog, err := curriculum.LoadCatalogFile("")
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading course catalog: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := newValidator()
	core.ParseEmailTemplates(logger, false)
	user.LoadCommonPasswords(logger)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	var completer planner.Completer
	if conf.Backend == core.BackendMock || conf.AI.APIKey == "" {
		logger.Warn("AI key not set: using canned plans & ideas")
		if completer, err = genai.NewCannedCompleter(catalog); err != nil {
			logger.Fatal(fmt.Sprintf("setting up canned completer: %v", err), err)
		}
	} else {
		completer = genai.NewGeminiClient(conf.AI, logger)
	}

	usrSvc := user.NewService(repos.Users, mailSvc, conf, logger)
	challengeSvc := challenge.NewService(repos.Activities, cal, pools)
	curriculumSvc := curriculum.NewService(repos.Enrollments, catalog, curriculum.NewPlaceholderGrader(nil), validate)
	plannerSvc := planner.NewService(completer, catalog, repos.Plans, validate)
	hackathonSvc := hackathon.NewService(repos.Hackathons, validate)

	if conf.Digest.Enabled {
		job := digest.NewJob(challengeSvc, usrSvc, mailSvc, logger)
		if err := job.Start(conf.Digest, conf.Schedule.Location); err != nil {
			logger.Fatal(fmt.Sprintf("starting weekly digest: %v", err), err)
		}
		defer job.Stop()
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("backend").Set(string(conf.Backend))

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:    conf.Server.Address(),
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		Shutdown: func() {
			select {
			case shutdown <- syscall.SIGTERM:
			default:
			}
		},
		UserSvc:       usrSvc,
		ChallengeSvc:  challengeSvc,
		CurriculumSvc: curriculumSvc,
		PlannerSvc:    plannerSvc,
		HackathonSvc:  hackathonSvc,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}
