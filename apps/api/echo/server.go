package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/feedback"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/goal"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/recommend"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/schedule"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/stats"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/studylog"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/support"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc      *user.Service
		GoalSvc      *goal.Service
		ScheduleSvc  *schedule.Service
		StudyLogSvc  *studylog.Service
		FeedbackSvc  *feedback.Service
		SupportSvc   *support.Service
		StatsSvc     *stats.Service
		RecommendSvc *recommend.Service
	}

	Server struct {
		ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		ServerDeps: deps,
		app:        echo.New(),
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	s.setup()
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	return s
}

func (s *Server) setup() {
	conf := s.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     conf.Server.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	s.app.Use(metricsMiddleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	auth := sessionMiddleware(conf.Server.CookieName, s.UserSvc)
	admin := adminMiddleware()

	registerAccountAPI(s.app.Group(""), auth, s.UserSvc, s.Validate, conf)

	api := s.app.Group("/api", auth)
	registerProfileAPI(api, s.UserSvc, s.Validate)
	registerGoalAPI(api, s.GoalSvc, s.Validate)
	registerScheduleAPI(api, s.ScheduleSvc, s.Validate)
	registerStudyLogAPI(api, s.StudyLogSvc, s.Validate)
	registerFeedbackAPI(api, s.FeedbackSvc, s.Validate)
	registerSupportAPI(api, s.SupportSvc, s.Validate)
	registerRecommendAPI(api, s.RecommendSvc, s.Validate, s.Logger)
	registerAdminAPI(api.Group("/admin", admin), &adminDeps{
		users:    s.UserSvc,
		stats:    s.StatsSvc,
		feedback: s.FeedbackSvc,
		support:  s.SupportSvc,
		validate: s.Validate,
	})
}

func (s *Server) Start() {
	if err := s.app.Start(s.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

// Errors is fed with the listener errors.
func (s *Server) Errors() <-chan error { return s.errors }

// ShutdownSignal receives SIGINT, SIGTERM and the shutdowns requested by handlers.
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown asks the server to shutdown gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the StudyAI API!")
}
