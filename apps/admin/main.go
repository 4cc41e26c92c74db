package main

import (
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/core/notify"
	"github.com/examally/examally/core/user"
	emailsvc "github.com/examally/examally/services/email"
	logsvc "github.com/examally/examally/services/logger"
	"github.com/examally/examally/storage/database"
	sqlxrepos "github.com/examally/examally/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(logsvc.New("admin", conf), conf)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()

	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	core.ParseEmailTemplates(logger)
	user.LoadCommonPasswords(logger)

	// start CLI
	cli := commandLine{
		conf:      conf,
		db:        db.DB,
		out:       os.Stdout,
		validate:  validate,
		usrSvc:    user.NewService(sqlxrepos.NewUserRepository(db)),
		examSvc:   exam.NewService(sqlxrepos.NewExamRepository(db), conf),
		notifySvc: notify.NewService(sqlxrepos.NewNotifyRepository(db), notify.NewMemoryCodeStore(), mailSvc, logger, conf),
	}
	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}
