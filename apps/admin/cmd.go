package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
	ucli "github.com/urfave/cli/v2"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/scheduler"
	"github.com/trezcool/masomo-meet/core/teacher"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf       *core.Config
	logger     core.Logger
	translator ut.Translator
	in         io.Reader
	out        io.Writer

	// openStorage sets up the storage dependent fields below, once
	openStorage func(cli *commandLine) error
	ready       bool
	db          *sql.DB
	teacherSvc  *teacher.Service
	meetings    scheduler.MeetingStore
	links       scheduler.LinkCreator
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                         - run a goose command (up, down, status...)")
	fmt.Fprintln(cli.out, "  addteacher -name NAME -email EMAIL -department DEPT - add or update a teacher")
	fmt.Fprintln(cli.out, "  token [-subject NAME]                          - mint a service token for the API")
	fmt.Fprintln(cli.out, "  gauth                                          - authorize the Google Calendar account")
	fmt.Fprintln(cli.out, "  schedule                                       - schedule a meeting interactively")
}

func (cli *commandLine) needStorage(*ucli.Context) error {
	if cli.ready {
		return nil
	}
	if cli.openStorage == nil {
		return errors.New("storage not configured")
	}
	if err := cli.openStorage(cli); err != nil {
		return errors.Wrap(err, "setting up storage")
	}
	cli.ready = true
	return nil
}

func (cli *commandLine) app() *ucli.App {
	return &ucli.App{
		Name:            "admin",
		Usage:           "Masomo Meet administration",
		Writer:          cli.out,
		ErrWriter:       cli.out,
		HideHelpCommand: true,
		Action: func(*ucli.Context) error { // unknown command
			cli.printUsage()
			return errHelp
		},
		ExitErrHandler: func(*ucli.Context, error) {}, // errors are returned to main
		Commands: []*ucli.Command{
			{
				Name:            "migrate",
				Usage:           "run a goose command against the embedded migrations",
				ArgsUsage:       "COMMAND [ARGS]",
				SkipFlagParsing: true,
				Before:          cli.needStorage,
				Action:          cli.migrate,
			},
			{
				Name:  "addteacher",
				Usage: "add or update a teacher",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "name", Usage: "the teacher's full name"},
					&ucli.StringFlag{Name: "email", Usage: "the teacher's email address", Required: true},
					&ucli.StringFlag{Name: "department", Usage: "the teacher's department", Required: true},
				},
				Before: cli.needStorage,
				Action: cli.addTeacher,
			},
			{
				Name:  "token",
				Usage: "mint a service token for the API",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "subject", Usage: "the client the token is issued to", Value: "scheduler"},
				},
				Action: cli.token,
			},
			{
				Name:   "gauth",
				Usage:  "authorize the Google Calendar account used to create meetings",
				Action: cli.gauth,
			},
			{
				Name:   "schedule",
				Usage:  "schedule a department meeting interactively",
				Before: cli.needStorage,
				Action: cli.schedule,
			},
		},
	}
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	return cli.app().RunContext(context.Background(), args)
}
