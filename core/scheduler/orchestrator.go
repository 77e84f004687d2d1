package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/meeting"
	"github.com/trezcool/masomo-meet/core/teacher"
)

type (
	// LinkCreator creates the external meeting and returns its join link.
	LinkCreator interface {
		CreateMeeting(ctx context.Context, draft meeting.Draft, teachers []teacher.Teacher) (string, error)
	}

	// MeetingStore records scheduled meetings.
	MeetingStore interface {
		CreateMeeting(ctx context.Context, m meeting.Meeting) (meeting.Meeting, error)
	}

	// Orchestrator creates the external meeting then records it, in that order.
	Orchestrator struct {
		links   LinkCreator
		store   MeetingStore
		logger  core.Logger
		timeout time.Duration // per external call; 0 means none
	}
)

func NewOrchestrator(links LinkCreator, store MeetingStore, logger core.Logger, timeout time.Duration) *Orchestrator {
	vala.BeginValidation().Validate(
		vala.IsNotNil(links, "links"),
		vala.IsNotNil(store, "store"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Orchestrator{links: links, store: store, logger: logger, timeout: timeout}
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.timeout)
}

// Precheck fails with a *core.ValidationError when title, date, time or teachers are missing.
func Precheck(draft meeting.Draft, teachers []teacher.Teacher) error {
	flds := draft.MissingFields()
	if len(teachers) == 0 {
		flds = append(flds, core.FieldError{Field: "teachers", Error: "select at least one teacher"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(errors.New(MsgFillRequired), flds...)
	}
	return nil
}

// Schedule creates the meeting link then records the meeting under `scopeLabel`.
// Nothing is recorded when the link creation fails. A recording failure returns a *PersistenceError
// holding the orphaned link; the external meeting is not cancelled.
func (o *Orchestrator) Schedule(
	ctx context.Context,
	draft meeting.Draft,
	teachers []teacher.Teacher,
	scopeLabel string,
) (meeting.Meeting, error) {
	if err := Precheck(draft, teachers); err != nil {
		return meeting.Meeting{}, err
	}
	if draft.Duration <= 0 {
		draft.Duration = meeting.DefaultDuration
	}
	teachers = append([]teacher.Teacher(nil), teachers...)

	linkCtx, cancel := o.withTimeout(ctx)
	link, err := o.links.CreateMeeting(linkCtx, draft, teachers)
	cancel()
	if err != nil {
		return meeting.Meeting{}, &MeetingCreationError{Err: err}
	}

	storeCtx, cancel := o.withTimeout(ctx)
	defer cancel()
	m, err := o.store.CreateMeeting(storeCtx, meeting.Meeting{
		Draft:      draft,
		MeetLink:   link,
		Teachers:   teachers,
		Department: scopeLabel,
		Status:     meeting.StatusScheduled,
	})
	if err != nil {
		pErr := &PersistenceError{MeetLink: link, Err: err}
		o.logger.Error(fmt.Sprintf("meeting %q created but not recorded, orphaned link: %s", draft.Title, link), pErr)
		return meeting.Meeting{}, pErr
	}
	return m, nil
}
