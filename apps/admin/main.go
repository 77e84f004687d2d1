package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/teacher"
	logsvc "github.com/trezcool/masomo-meet/services/logger"
	meetsvc "github.com/trezcool/masomo-meet/services/meet"
	"github.com/trezcool/masomo-meet/storage/database"
	sqlxrepos "github.com/trezcool/masomo-meet/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator, conf.Departments)

	cli := &commandLine{
		conf:       conf,
		logger:     logger,
		translator: translator,
		in:         os.Stdin,
		out:        os.Stdout,
		openStorage: func(cli *commandLine) error {
			if err := database.CreateIfNotExist(conf); err != nil {
				return err
			}
			db, err := database.Open(conf)
			if err != nil {
				return err
			}
			cli.db = db.DB
			cli.teacherSvc = teacher.NewService(sqlxrepos.NewTeacherRepository(db), validate, logger)
			cli.meetings = sqlxrepos.NewMeetingRepository(db)
			return nil
		},
	}
	if conf.Meet.BaseURL != "" {
		cli.links = meetsvc.NewClient(conf, nil)
	}

	err := cli.run(os.Args)
	if cli.db != nil {
		_ = cli.db.Close()
	}
	if err != nil {
		if err != errHelp {
			logger.Error("admin: "+err.Error(), err)
		}
		os.Exit(1)
	}
}
