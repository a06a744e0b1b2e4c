package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/dig"

	echoapi "github.com/2023UCA1802/Infosys-Study-AI-Recommender/apps/api/echo"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/feedback"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/goal"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/otp"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/recommend"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/schedule"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/session"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/stats"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/studylog"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/support"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
	emailsvc "github.com/2023UCA1802/Infosys-Study-AI-Recommender/services/email"
	logsvc "github.com/2023UCA1802/Infosys-Study-AI-Recommender/services/logger"
	recommendersvc "github.com/2023UCA1802/Infosys-Study-AI-Recommender/services/recommender"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database"
	inmemdb "github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database/inmem"
	mongorepos "github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database/mongodb"
)

const sweepInterval = time.Minute

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Repositories holds one implementation per collection, backed by the configured engine.
type Repositories struct {
	Users    user.Repository
	Sessions session.Repository
	OTPs     otp.Repository
	Goals    goal.Repository
	Schedule schedule.Repository
	StudyLog studylog.Repository
	Feedback feedback.Repository
	Support  support.Repository
}

// Storage is what the API needs from the database layer. Client is nil with the memory engine.
type Storage struct {
	Client *mongo.Client
	Repos  Repositories
	Stop   context.CancelFunc
}

// ServerParams lists the server dependencies resolved by the container.
type ServerParams struct {
	dig.In

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

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) *Storage {
	dbLogger := loggerParam.Logger

	switch conf.Database.Engine {
	case "memory":
		db := inmemdb.Open()
		ctx, cancel := context.WithCancel(context.Background())
		db.StartSweeper(ctx, conf, dbLogger, sweepInterval)
		dbLogger.Info("using the in-memory database")
		return &Storage{
			Stop: cancel,
			Repos: Repositories{
				Users:    inmemdb.NewUserRepository(db),
				Sessions: inmemdb.NewSessionRepository(db),
				OTPs:     inmemdb.NewOTPRepository(db),
				Goals:    inmemdb.NewGoalRepository(db),
				Schedule: inmemdb.NewScheduleRepository(db),
				StudyLog: inmemdb.NewStudyLogRepository(db),
				Feedback: inmemdb.NewFeedbackRepository(db),
				Support:  inmemdb.NewSupportRepository(db),
			},
		}
	case "mongodb":
		setUp := func() (*mongo.Client, *mongo.Database, error) {
			client, db, err := database.Open(context.Background(), conf)
			if err != nil {
				return nil, nil, err
			}
			ctx, cancel := context.WithTimeout(context.Background(), conf.Database.ConnectTimeout)
			defer cancel()
			if err = database.Migrate(ctx, db, conf); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, nil, err
			}
			return client, db, nil
		}

		client, db, err := setUp()
		if err != nil {
			dbLogger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		return &Storage{
			Client: client,
			Stop:   func() {},
			Repos: Repositories{
				Users:    mongorepos.NewUserRepository(db),
				Sessions: mongorepos.NewSessionRepository(db),
				OTPs:     mongorepos.NewOTPRepository(db),
				Goals:    mongorepos.NewGoalRepository(db),
				Schedule: mongorepos.NewScheduleRepository(db),
				StudyLog: mongorepos.NewStudyLogRepository(db),
				Feedback: mongorepos.NewFeedbackRepository(db),
				Support:  mongorepos.NewSupportRepository(db),
			},
		}
	default:
		dbLogger.Fatal(fmt.Sprintf("unknown database engine %q", conf.Database.Engine))
		return nil
	}
}

func provideRepos(s *Storage) (
	user.Repository,
	session.Repository,
	otp.Repository,
	goal.Repository,
	schedule.Repository,
	studylog.Repository,
	feedback.Repository,
	support.Repository,
) {
	r := s.Repos
	return r.Users, r.Sessions, r.OTPs, r.Goals, r.Schedule, r.StudyLog, r.Feedback, r.Support
}

func newValidate() *validator.Validate {
	return validator.New()
}

func newUserService(repo user.Repository, codes *otp.Service, sessions *session.Manager) *user.Service {
	return user.NewService(repo, codes, sessions)
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:         p.Conf,
		Logger:       p.Logger,
		Validate:     p.Validate,
		Translator:   p.Translator,
		UserSvc:      p.UserSvc,
		GoalSvc:      p.GoalSvc,
		ScheduleSvc:  p.ScheduleSvc,
		StudyLogSvc:  p.StudyLogSvc,
		FeedbackSvc:  p.FeedbackSvc,
		SupportSvc:   p.SupportSvc,
		StatsSvc:     p.StatsSvc,
		RecommendSvc: p.RecommendSvc,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(provideRepos))
	must(c.Provide(emailsvc.NewService))
	must(c.Provide(recommendersvc.NewProcessScorer, dig.As(new(recommend.Scorer))))
	must(c.Provide(newValidate))
	must(c.Provide(core.NewTranslator))

	// services
	must(c.Provide(otp.NewService))
	must(c.Provide(session.NewManager))
	must(c.Provide(newUserService))
	must(c.Provide(goal.NewService))
	must(c.Provide(schedule.NewService))
	must(c.Provide(studylog.NewService))
	must(c.Provide(feedback.NewService))
	must(c.Provide(support.NewService))
	must(c.Provide(stats.NewService))
	must(c.Provide(recommend.NewService))

	must(c.Provide(newServer))
	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
