package dig_container

import (
	"context"
	"fmt"
	"log"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/examally/examally/apps/api/echo"
	"github.com/examally/examally/core"
	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/core/mark"
	"github.com/examally/examally/core/notify"
	"github.com/examally/examally/core/user"
	emailsvc "github.com/examally/examally/services/email"
	logsvc "github.com/examally/examally/services/logger"
	"github.com/examally/examally/storage/database"
	sqlxrepos "github.com/examally/examally/storage/database/sqlx"
	"github.com/examally/examally/storage/localstore"
	"github.com/examally/examally/storage/redisstore"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// ServerParams are the dependencies of the API server.
type ServerParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	UserSvc    *user.Service
	ExamSvc    *exam.Service
	MarkSvc    *mark.Service
	NotifySvc  *notify.Service
	Validate   *validator.Validate
	Translator ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.New("api", conf), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.New("db", conf), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	setUp := func() (*sqlx.DB, error) {
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
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

// newLocalStore returns nil when the local fallback is disabled.
func newLocalStore(conf *core.Config, loggerParam DBLoggerParam) *localstore.Store {
	if !conf.LocalStore.Enabled {
		return nil
	}
	store, err := localstore.Open(conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("opening local store: %v", err), err)
	}
	return store
}

func newExamRepository(db *sqlx.DB, local *localstore.Store, logger core.Logger) exam.Repository {
	repo := sqlxrepos.NewExamRepository(db)
	if local == nil {
		return repo
	}
	return localstore.NewExamRepository(repo, local, logger)
}

func newMarkRepository(db *sqlx.DB, local *localstore.Store, logger core.Logger) mark.Repository {
	repo := sqlxrepos.NewMarkRepository(db)
	if local == nil {
		return repo
	}
	return localstore.NewMarkRepository(repo, local, logger)
}

func newCodeStore(conf *core.Config, logger core.Logger) notify.CodeStore {
	if conf.Notification.CodeStore != "redis" {
		return notify.NewMemoryCodeStore()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := redisstore.NewClient(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("connecting to redis: %v", err), err)
	}
	return redisstore.NewCodeStore(client)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	mark.InitValidators(validate, translator)
	return validate
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		UserSvc:    p.UserSvc,
		ExamSvc:    p.ExamSvc,
		MarkSvc:    p.MarkSvc,
		NotifySvc:  p.NotifySvc,
		Validate:   p.Validate,
		Translator: p.Translator,
	})
}

type NewConfigFunc func() *core.Config

// New returns a new dependency injection dig.Container
func New(newConfig NewConfigFunc) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newLocalStore))
	must(c.Provide(newEmailService))
	must(c.Provide(newCodeStore))
	must(c.Provide(sqlxrepos.NewUserRepository))
	must(c.Provide(newExamRepository))
	must(c.Provide(newMarkRepository))
	must(c.Provide(sqlxrepos.NewNotifyRepository))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(user.NewService))
	must(c.Provide(exam.NewService))
	must(c.Provide(mark.NewService))
	must(c.Provide(notify.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
