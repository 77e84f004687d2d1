package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	ucli "github.com/urfave/cli/v2"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/meeting"
	"github.com/trezcool/masomo-meet/core/scheduler"
)

var (
	errQuit      = errors.New("scheduling abandoned")
	errNoMeetAPI = errors.New("meet API not configured: set MEET_BASEURL")

	fieldLabels = map[string]string{
		meeting.FieldTitle:       "Title",
		meeting.FieldDescription: "Description",
		meeting.FieldDate:        "Date (YYYY-MM-DD)",
		meeting.FieldTime:        "Time (HH:MM)",
		meeting.FieldDuration:    "Duration (minutes)",
		meeting.FieldAgenda:      "Agenda",
	}
)

func (cli *commandLine) schedule(c *ucli.Context) error {
	if cli.links == nil {
		return errNoMeetAPI
	}
	notifier := scheduler.NewNotifier()
	session := scheduler.NewSession(
		scheduler.NewResolver(cli.teacherSvc),
		scheduler.NewOrchestrator(cli.links, cli.meetings, cli.logger, cli.conf.Meet.RequestTimeout),
		notifier,
		cli.logger,
	)
	w := &wizard{
		session:     session,
		notifier:    notifier,
		in:          bufio.NewScanner(cli.in),
		out:         cli.out,
		departments: cli.conf.Departments,
	}
	return w.run(c.Context)
}

// wizard drives a scheduler.Session from line based terminal input.
type wizard struct {
	session     *scheduler.Session
	notifier    *scheduler.Notifier
	in          *bufio.Scanner
	out         io.Writer
	departments []string
}

func (w *wizard) run(ctx context.Context) error {
	err := w.session.Start(ctx)
	w.flush()
	if err != nil {
		return err
	}

	for {
		step := w.session.State().Step
		fmt.Fprintf(w.out, "\n== Step %d/%d: %s ==\n", int(step)+1, len(scheduler.Steps), step)

		var done bool
		switch step {
		case scheduler.StepSelectMode:
			err = w.selectScope(ctx)
		case scheduler.StepSelectTeachers:
			err = w.selectTeachers()
		case scheduler.StepDetails:
			err = w.fillDetails()
		case scheduler.StepConfirm:
			done, err = w.confirm(ctx)
		}
		w.flush()
		if err != nil || done {
			return err
		}
	}
}

// flush prints the pending notification, if any.
func (w *wizard) flush() {
	if n, ok := w.notifier.Pending(); ok {
		fmt.Fprintf(w.out, "[%s] %s\n", strings.ToUpper(string(n.Severity)), n.Message)
	}
}

func (w *wizard) prompt(label string) (string, error) {
	fmt.Fprint(w.out, label+": ")
	if !w.in.Scan() {
		if err := w.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(w.in.Text()), nil
}

func (w *wizard) selectScope(ctx context.Context) error {
	state := w.session.State()

	answer, err := w.prompt(fmt.Sprintf("Mode [%s|%s] (%s)", scheduler.ModeDepartment, scheduler.ModeCustom, state.Mode))
	if err != nil {
		return err
	}
	switch answer {
	case "":
	case "q":
		return errQuit
	default:
		mode, err := scheduler.ParseMode(answer)
		if err != nil {
			fmt.Fprintf(w.out, "unknown mode %q\n", answer)
			return nil
		}
		_ = w.session.SetMode(ctx, mode) // fetch failures are notified
		state = w.session.State()
	}

	if state.Mode == scheduler.ModeDepartment {
		dept, err := w.prompt(fmt.Sprintf("Department [%s] (%s)", strings.Join(w.departments, ", "), state.Department))
		if err != nil {
			return err
		}
		if dept == "" {
			dept = state.Department
		}
		if dept != "" && !lo.Contains(w.departments, dept) {
			msg := "unknown department"
			if s := core.SuggestDepartment(dept, w.departments); s != "" {
				msg += fmt.Sprintf(", did you mean %q?", s)
			}
			fmt.Fprintln(w.out, msg)
			return nil
		}
		_ = w.session.SetDepartment(ctx, dept)
	}

	_ = w.session.Advance() // incomplete steps are notified
	return nil
}

func (w *wizard) selectTeachers() error {
	roster := w.session.Roster()
	if len(roster) == 0 {
		fmt.Fprintln(w.out, "No teachers in this scope.")
	}
	for i, t := range roster {
		mark := " "
		if w.session.IsSelected(t.Email) {
			mark = "x"
		}
		fmt.Fprintf(w.out, "%3d. [%s] %s\n", i+1, mark, t.Label())
	}

	answer, err := w.prompt("Toggle numbers (e.g. 1,3), a = all, n = next, b = back, q = quit")
	if err != nil {
		return err
	}
	switch answer {
	case "q":
		return errQuit
	case "n":
		_ = w.session.Advance()
	case "b":
		_ = w.session.Retreat()
	case "a":
		w.session.SelectAll()
	default:
		for _, field := range strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == ' ' }) {
			i, err := strconv.Atoi(field)
			if err != nil || i < 1 || i > len(roster) {
				fmt.Fprintf(w.out, "invalid choice %q\n", field)
				continue
			}
			w.session.Toggle(roster[i-1])
		}
	}
	return nil
}

// fillDetails prompts every draft field; an empty answer keeps the current value.
func (w *wizard) fillDetails() error {
	for _, name := range meeting.Fields {
		for {
			current, _ := w.session.Draft().Field(name)
			value, err := w.prompt(fmt.Sprintf("%s [%s]", fieldLabels[name], current))
			if err != nil {
				return err
			}
			if value == "" {
				break
			}
			if err = w.session.SetField(name, value); err != nil {
				fmt.Fprintln(w.out, err)
				continue
			}
			break
		}
	}
	_ = w.session.Advance()
	return nil
}

func (w *wizard) confirm(ctx context.Context) (bool, error) {
	snap := w.session.Snapshot()
	d := snap.Draft
	fmt.Fprintf(w.out, "Scope:    %s\n", snap.State.Label())
	fmt.Fprintf(w.out, "Title:    %s\n", d.Title)
	fmt.Fprintf(w.out, "When:     %s %s (%d minutes)\n", d.Date, d.Time, d.Duration)
	if d.Description != "" {
		fmt.Fprintf(w.out, "About:    %s\n", d.Description)
	}
	if d.Agenda != "" {
		fmt.Fprintf(w.out, "Agenda:   %s\n", d.Agenda)
	}
	fmt.Fprintf(w.out, "Teachers: %d\n", len(snap.Selected))
	for _, t := range snap.Selected {
		fmt.Fprintf(w.out, "  - %s\n", t.Label())
	}

	answer, err := w.prompt("Schedule this meeting? y = yes, b = back, q = quit")
	if err != nil {
		return false, err
	}
	switch answer {
	case "q":
		return false, errQuit
	case "b":
		_ = w.session.Retreat()
	case "y":
		m, err := w.session.Schedule(ctx)
		if err != nil {
			return false, nil // notified; the wizard keeps its state
		}
		w.flush()
		fmt.Fprintf(w.out, "Meet link: %s\n", m.MeetLink)
		return true, nil
	}
	return false, nil
}
