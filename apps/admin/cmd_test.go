package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	echoapi "github.com/trezcool/masomo-meet/apps/api/echo"
	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/meeting"
	"github.com/trezcool/masomo-meet/core/teacher"
	"github.com/trezcool/masomo-meet/storage/database"
	inmemdb "github.com/trezcool/masomo-meet/storage/database/inmem"
	testutil "github.com/trezcool/masomo-meet/tests"
)

type fakeLinks struct {
	link  string
	err   error
	calls int
}

func (f *fakeLinks) CreateMeeting(context.Context, meeting.Draft, []teacher.Teacher) (string, error) {
	f.calls++
	return f.link, f.err
}

type testCLI struct {
	*commandLine
	output      *bytes.Buffer
	links       *fakeLinks
	teacherRepo teacher.Repository
	meetingRepo meeting.Repository
}

func setup(t *testing.T, input string) testCLI {
	conf := core.NewTestConfig()
	logger := core.NopLogger{}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator, conf.Departments)

	// set up DB & repos
	db := inmemdb.Open()
	teacherRepo := inmemdb.NewTeacherRepository(db)
	meetingRepo := inmemdb.NewMeetingRepository(db)

	output := new(bytes.Buffer)
	links := &fakeLinks{link: "https://meet.google.com/abc-defg-hij"}

	// start CLI
	return testCLI{
		commandLine: &commandLine{
			conf:       conf,
			logger:     logger,
			translator: translator,
			in:         strings.NewReader(input),
			out:        output,
			ready:      true,
			teacherSvc: teacher.NewService(teacherRepo, validate, logger),
			meetings:   meetingRepo,
			links:      links,
		},
		output:      output,
		links:       links,
		teacherRepo: teacherRepo,
		meetingRepo: meetingRepo,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantAnyErr bool
}

func runCLITests(t *testing.T, cli testCLI, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case err == nil:
				if tt.wantErr != nil || tt.wantErrStr != "" || tt.wantAnyErr {
					t.Errorf("cli.run() error = nil, want an error")
				}
			case tt.wantErr != nil:
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if !strings.Contains(err.Error(), tt.wantErrStr) {
					t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
				}
			case !tt.wantAnyErr:
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	cli := setup(t, "")

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	}
	runCLITests(t, cli, tests)
	assert.Contains(t, cli.output.String(), "Usage:")
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t, "")

	orig := database.GooseRunFunc
	t.Cleanup(func() { database.GooseRunFunc = orig })
	database.GooseRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "room", "sql"}},
	}
	runCLITests(t, cli, tests)
}

func Test_commandLine_storageSetUp(t *testing.T) {
	cli := setup(t, "")
	cli.ready = false
	cli.openStorage = func(*commandLine) error { return errors.New("connection refused") }

	runCLITests(t, cli, []cliTest{
		{name: "storage failure", args: []string{"addteacher", "-email", "ada@dept.edu", "-department", "IT"}, wantErrStr: "connection refused"},
	})
}

func Test_commandLine_addTeacher(t *testing.T) {
	cli := setup(t, "")

	tests := []cliTest{
		{name: "no flags", args: []string{"addteacher"}, wantAnyErr: true},
		{name: "invalid email", args: []string{"addteacher", "-name", "Ada", "-email", "ada", "-department", "Computer"}, wantErrStr: "email"},
		{name: "unknown department", args: []string{"addteacher", "-name", "Ada", "-email", "ada@dept.edu", "-department", "comptuer"}, wantErrStr: `did you mean "Computer"?`},
		{name: "blank name", args: []string{"addteacher", "-name", " ", "-email", "ada@dept.edu", "-department", "Computer"}, wantErrStr: "name"},
		{name: "create", args: []string{"addteacher", "-name", "Ada", "-email", "Ada@Dept.edu", "-department", "Computer"}},
		{name: "update", args: []string{"addteacher", "-name", "Ada Lovelace", "-email", "ada@dept.edu", "-department", "IT"}},
	}
	runCLITests(t, cli, tests)

	ada, err := cli.teacherRepo.GetTeacherByEmail(context.Background(), "ada@dept.edu")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", ada.Name)
	assert.Equal(t, "IT", ada.Department)
}

func Test_commandLine_token(t *testing.T) {
	cli := setup(t, "")

	require.NoError(t, cli.run([]string{"admin", "token", "-subject", "kiosk"}))

	claims := new(echoapi.Claims)
	_, err := jwt.ParseWithClaims(strings.TrimSpace(cli.output.String()), claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cli.conf.SecretKey), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "kiosk", claims.Subject)
}

func Test_commandLine_gauth(t *testing.T) {
	cli := setup(t, "the-code\n")
	cli.conf.Google.ClientID = "id"
	cli.conf.Google.ClientSecret = "secret"
	cli.conf.Google.TokenFile = filepath.Join(t.TempDir(), "token.json")

	orig := oauthExchangeFunc
	t.Cleanup(func() { oauthExchangeFunc = orig })
	oauthExchangeFunc = func(_ context.Context, _ *oauth2.Config, code string) (*oauth2.Token, error) {
		if code != "the-code" {
			return nil, errors.New("bad code")
		}
		return &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}, nil
	}

	require.NoError(t, cli.run([]string{"admin", "gauth"}))
	assert.Contains(t, cli.output.String(), "accounts.google.com")

	b, err := os.ReadFile(cli.conf.Google.TokenFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"refresh_token":"refresh"`)
}

func Test_commandLine_schedule(t *testing.T) {
	createTeachers := func(t *testing.T, cli testCLI) {
		testutil.CreateTeacher(t, cli.teacherRepo, "Ada", "ada@dept.edu", "Computer")
		testutil.CreateTeacher(t, cli.teacherRepo, "Linus", "linus@dept.edu", "Computer")
		testutil.CreateTeacher(t, cli.teacherRepo, "Grace", "grace@dept.edu", "IT")
	}
	details := "Sync\n\n2024-05-01\n10:00\n\n\n" // title, description, date, time, duration, agenda
	args := []string{"admin", "schedule"}

	t.Run("department meeting", func(t *testing.T) {
		cli := setup(t, "\nComputer\n1\nn\n"+details+"y\n")
		createTeachers(t, cli)

		require.NoError(t, cli.run(args))
		out := cli.output.String()
		assert.Contains(t, out, "[SUCCESS] Meeting Scheduled Successfully")
		assert.Contains(t, out, "Meet link: https://meet.google.com/abc-defg-hij")

		meetings, err := cli.meetingRepo.QueryMeetings(context.Background(), meeting.QueryFilter{}, nil)
		require.NoError(t, err)
		require.Len(t, meetings, 1)
		assert.Equal(t, "Computer", meetings[0].Department)
		assert.Equal(t, "Sync", meetings[0].Title)
		assert.Equal(t, meeting.DefaultDuration, meetings[0].Duration)
		require.Len(t, meetings[0].Teachers, 1)
		assert.Equal(t, "ada@dept.edu", meetings[0].Teachers[0].Email)
	})

	t.Run("custom meeting", func(t *testing.T) {
		cli := setup(t, "custom\na\nn\n"+details+"y\n")
		createTeachers(t, cli)

		require.NoError(t, cli.run(args))

		meetings, err := cli.meetingRepo.QueryMeetings(context.Background(), meeting.QueryFilter{}, nil)
		require.NoError(t, err)
		require.Len(t, meetings, 1)
		assert.Equal(t, "Custom", meetings[0].Department)
		assert.Len(t, meetings[0].Teachers, 3)
	})

	t.Run("missing department", func(t *testing.T) {
		cli := setup(t, "\n\n")
		createTeachers(t, cli)

		err := cli.run(args)
		assert.Equal(t, io.EOF, err)
		assert.Contains(t, cli.output.String(), "[WARNING] Select Department")
	})

	t.Run("unknown department", func(t *testing.T) {
		cli := setup(t, "\ncomptuer\n")

		assert.Equal(t, io.EOF, cli.run(args))
		assert.Contains(t, cli.output.String(), `unknown department, did you mean "Computer"?`)
	})

	t.Run("no teacher selected", func(t *testing.T) {
		cli := setup(t, "\nComputer\nn\nq\n")
		createTeachers(t, cli)

		assert.Equal(t, errQuit, cli.run(args))
		assert.Contains(t, cli.output.String(), "[WARNING] Select Teachers")
	})

	t.Run("invalid duration", func(t *testing.T) {
		cli := setup(t, "\nComputer\n2\nn\nSync\n\n2024-05-01\n10:00\nabc\n30\n\ny\n")
		createTeachers(t, cli)

		require.NoError(t, cli.run(args))
		meetings, err := cli.meetingRepo.QueryMeetings(context.Background(), meeting.QueryFilter{}, nil)
		require.NoError(t, err)
		require.Len(t, meetings, 1)
		assert.Equal(t, 30, meetings[0].Duration)
		assert.Equal(t, "linus@dept.edu", meetings[0].Teachers[0].Email)
	})

	t.Run("link creation failure", func(t *testing.T) {
		cli := setup(t, "\nComputer\n1\nn\n"+details+"y\nq\n")
		createTeachers(t, cli)
		cli.links.err = errors.New("calendar down")

		assert.Equal(t, errQuit, cli.run(args))
		assert.Contains(t, cli.output.String(), "[ERROR] Meeting scheduling failed")
		assert.Equal(t, 1, cli.links.calls)

		meetings, err := cli.meetingRepo.QueryMeetings(context.Background(), meeting.QueryFilter{}, nil)
		require.NoError(t, err)
		assert.Empty(t, meetings)
	})

	t.Run("meet API not configured", func(t *testing.T) {
		cli := setup(t, "")
		cli.commandLine.links = nil

		assert.Equal(t, errNoMeetAPI, cli.run(args))
	})
}
