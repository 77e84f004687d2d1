package meeting

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/teacher"
)

var (
	NowFunc = time.Now // mockable

	invitationTemplate = "meeting_invitation"
	invitationFilename = "invite.ics"
	invitationMIMEType = "text/calendar; method=REQUEST"

	// errors
	ErrNotFound   = errors.New("meeting not found")
	ErrNoMeetLink = errors.New("calendar event has no meet link")
)

type (
	Repository interface {
		// CreateMeeting stores the meeting; ID & CreatedAt are assigned by the store.
		CreateMeeting(ctx context.Context, m Meeting) (Meeting, error)
		QueryMeetings(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Meeting, error)
	}

	// EventCreator creates calendar events with an attached video conference.
	EventCreator interface {
		CreateEvent(ctx context.Context, req EventRequest) (Event, error)
	}

	Service struct {
		repo      Repository
		events    EventCreator
		mailSvc   core.EmailService
		validate  *validator.Validate
		logger    core.Logger
		loc       *time.Location
		organizer string
	}

	invitationData struct {
		Name     string
		MeetLink string
		Draft
	}
)

func NewService(
	repo Repository,
	events EventCreator,
	mailSvc core.EmailService,
	validate *validator.Validate,
	logger core.Logger,
	conf *core.Config,
) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(events, "events"),
		vala.IsNotNil(mailSvc, "mailSvc"),
		vala.IsNotNil(validate, "validate"),
		vala.IsNotNil(logger, "logger"),
		vala.IsNotNil(conf, "conf"),
	).CheckAndPanic()

	return &Service{
		repo:      repo,
		events:    events,
		mailSvc:   mailSvc,
		validate:  validate,
		logger:    logger,
		loc:       conf.Location(),
		organizer: conf.DefaultFromEmail().Address,
	}
}

// CreateAndInvite creates the calendar event of the draft with a video conference, then emails an
// invitation to every teacher. Nothing is persisted: recording the meeting is left to the caller.
func (svc *Service) CreateAndInvite(ctx context.Context, draft Draft, teachers []teacher.Teacher) (Event, error) {
	if err := draft.Validate(svc.validate); err != nil {
		return Event{}, err
	}
	if len(teachers) == 0 {
		return Event{}, core.NewValidationError(nil, core.FieldError{Field: "teachers", Error: "select at least one teacher"})
	}
	for i := range teachers {
		teachers[i].Email = core.CleanString(teachers[i].Email, true /* lower */)
		if err := svc.validate.Struct(teachers[i]); err != nil {
			return Event{}, err
		}
	}

	start, end, err := draft.Schedule(svc.loc)
	if err != nil {
		return Event{}, core.NewValidationError(err, core.FieldError{Field: FieldDate, Error: "invalid date or time"})
	}

	req := EventRequest{
		RequestID: uuid.New().String(),
		Draft:     draft,
		Start:     start,
		End:       end,
		Attendees: teachers,
	}
	ev, err := svc.events.CreateEvent(ctx, req)
	if err != nil {
		return Event{}, errors.Wrap(err, "creating calendar event")
	}
	if ev.HangoutLink == "" {
		return Event{}, errors.Wrapf(ErrNoMeetLink, "event %s", ev.ID)
	}

	svc.invite(req, ev)
	return ev, nil
}

func (svc *Service) invite(req EventRequest, ev Event) {
	ics, err := invitationICS(req, ev, svc.organizer)
	if err != nil {
		// the invitation is still useful without the calendar attachment
		svc.logger.Error(fmt.Sprintf("building invitation for event %s: %v", ev.ID, err), err)
	}

	messages := make([]*core.EmailMessage, 0, len(req.Attendees))
	for _, t := range req.Attendees {
		name := t.Name
		if name == "" {
			name = t.Email
		}
		msg := &core.EmailMessage{
			To:           []mail.Address{t.Address()},
			Subject:      "Invitation: " + req.Draft.Title,
			TemplateName: invitationTemplate,
			TemplateData: invitationData{Name: name, MeetLink: ev.HangoutLink, Draft: req.Draft},
		}
		if ics != nil {
			msg.Attach(ics, invitationFilename, invitationMIMEType)
		}
		messages = append(messages, msg)
	}
	svc.mailSvc.SendMessages(messages...)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Meeting, error) {
	filter.Clean()
	meetings, err := svc.repo.QueryMeetings(ctx, filter, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying meetings")
	}
	return meetings, nil
}
