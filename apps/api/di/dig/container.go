package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/eventhub/apps/api/echo"
	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/calendar"
	"github.com/trezcool/eventhub/core/club"
	"github.com/trezcool/eventhub/core/event"
	"github.com/trezcool/eventhub/core/feedback"
	"github.com/trezcool/eventhub/core/user"
	emailsvc "github.com/trezcool/eventhub/services/email"
	i18nsvc "github.com/trezcool/eventhub/services/i18n"
	logsvc "github.com/trezcool/eventhub/services/logger"
	mediasvc "github.com/trezcool/eventhub/services/media"
	"github.com/trezcool/eventhub/storage/database"
	inmemdb "github.com/trezcool/eventhub/storage/database/inmem"
	mongorepos "github.com/trezcool/eventhub/storage/database/mongodb"
	sqlxrepos "github.com/trezcool/eventhub/storage/database/sqlx"
)

const (
	EngineMemory   = "memory"
	EngineMongoDB  = "mongodb"
	EnginePostgres = "postgres"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Stores holds the repositories of the configured engine.
type Stores struct {
	Users    user.Repository
	Events   event.Repository
	Clubs    club.Repository
	Feedback feedback.Repository

	close func() error
}

// Close releases the underlying connection, if any.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

type ServerParams struct {
	dig.In
	Conf        *core.Config
	Logger      core.Logger
	UserSvc     *user.Service
	EventSvc    *event.Service
	ClubSvc     *club.Service
	FeedbackSvc *feedback.Service
	CalendarSvc *calendar.Service
	Uploader    core.FileUploader
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStores(conf *core.Config, loggerParam DBLoggerParam) *Stores {
	setUp := func() (*Stores, error) {
		switch conf.Database.Engine {
		case "", EngineMemory:
			db := inmemdb.NewDB()
			return &Stores{
				Users:    inmemdb.NewUserRepository(db),
				Events:   inmemdb.NewEventRepository(db),
				Clubs:    inmemdb.NewClubRepository(db),
				Feedback: inmemdb.NewFeedbackRepository(db),
			}, nil

		case EngineMongoDB:
			db, err := mongorepos.Connect(context.Background(), conf)
			if err != nil {
				return nil, err
			}
			return &Stores{
				Users:    mongorepos.NewUserRepository(db),
				Events:   mongorepos.NewEventRepository(db),
				Clubs:    mongorepos.NewClubRepository(db),
				Feedback: mongorepos.NewFeedbackRepository(db),
				close:    func() error { return db.Close(context.Background()) },
			}, nil

		case EnginePostgres:
			if err := database.CreateIfNotExist(conf); err != nil {
				return nil, err
			}
			db, err := database.Open(conf)
			if err != nil {
				return nil, err
			}
			if err = database.Migrate(db.DB); err != nil {
				return nil, err
			}
			return &Stores{
				Users:    sqlxrepos.NewUserRepository(db),
				Events:   sqlxrepos.NewEventRepository(db),
				Clubs:    sqlxrepos.NewClubRepository(db),
				Feedback: sqlxrepos.NewFeedbackRepository(db),
				close:    db.Close,
			}, nil
		}
		return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}

	stores, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s database: %v", conf.Database.Engine, err), err)
	}
	loggerParam.Logger.Info(fmt.Sprintf("using %s database", conf.Database.Engine))
	return stores
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newTranslator(logger core.Logger) (*i18nsvc.Translator, error) {
	return i18nsvc.NewTranslator("en", logger)
}

// newUploader returns nil when Cloudinary is not configured: flyer uploads are then disabled.
func newUploader(conf *core.Config, logger core.Logger) core.FileUploader {
	if !conf.Cloudinary.Enabled() {
		logger.Info("cloudinary is not configured: flyer uploads disabled")
		return nil
	}
	uploader, err := mediasvc.NewCloudinaryUploader(conf)
	if err != nil {
		logger.Error(fmt.Sprintf("setting up cloudinary: %v", err), err)
		return nil
	}
	return uploader
}

func newCalendarService(evtSvc *event.Service, translator *i18nsvc.Translator, logger core.Logger, conf *core.Config) *calendar.Service {
	return calendar.NewService(evtSvc, translator, logger, conf)
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.Options{
		Conf:        p.Conf,
		Logger:      p.Logger,
		UserSvc:     p.UserSvc,
		EventSvc:    p.EventSvc,
		ClubSvc:     p.ClubSvc,
		FeedbackSvc: p.FeedbackSvc,
		CalendarSvc: p.CalendarSvc,
		Uploader:    p.Uploader,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStores))
	must(c.Provide(func(s *Stores) user.Repository { return s.Users }))
	must(c.Provide(func(s *Stores) event.Repository { return s.Events }))
	must(c.Provide(func(s *Stores) club.Repository { return s.Clubs }))
	must(c.Provide(func(s *Stores) feedback.Repository { return s.Feedback }))
	must(c.Provide(newEmailService))
	must(c.Provide(newTranslator))
	must(c.Provide(newUploader))
	must(c.Provide(user.NewService))
	must(c.Provide(event.NewService))
	must(c.Provide(club.NewService))
	must(c.Provide(feedback.NewService))
	must(c.Provide(newCalendarService))
	must(c.Provide(newServer))

	if os.Getenv("DIG_VISUALIZE") != "" {
		_ = dig.Visualize(c, os.Stdout)
	}

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
