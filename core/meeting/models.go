package meeting

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/teacher"
)

const (
	DefaultDuration = 60 // minutes

	StatusScheduled = "scheduled"

	// draft field names
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDate        = "date"
	FieldTime        = "time"
	FieldDuration    = "duration"
	FieldAgenda      = "agenda"

	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	dateTimeLayout = dateLayout + " " + timeLayout
)

var (
	// errors
	ErrUnknownField = errors.New("unknown meeting field")

	// Fields lists the editable draft fields, in form order.
	Fields = []string{FieldTitle, FieldDescription, FieldDate, FieldTime, FieldDuration, FieldAgenda}
)

// Draft holds the meeting details being edited.
type Draft struct {
	Title       string `json:"title" validate:"notblank,max=255"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required,meetdate"` // YYYY-MM-DD
	Time        string `json:"time" validate:"required,meettime"` // HH:MM
	Duration    int    `json:"duration" validate:"min=1,max=1440"` // minutes
	Agenda      string `json:"agenda"`
}

func NewDraft() Draft {
	return Draft{Duration: DefaultDuration}
}

// SetField replaces exactly one attribute of the draft. Any string is accepted except for
// the duration, which must be an integer.
func (d *Draft) SetField(name, value string) error {
	switch name {
	case FieldTitle:
		d.Title = value
	case FieldDescription:
		d.Description = value
	case FieldDate:
		d.Date = value
	case FieldTime:
		d.Time = value
	case FieldDuration:
		n, err := strconv.Atoi(core.CleanString(value))
		if err != nil {
			return core.NewValidationError(
				errors.Wrapf(err, "parsing duration %q", value),
				core.FieldError{Field: FieldDuration, Error: "duration must be a number of minutes"},
			)
		}
		d.Duration = n
	case FieldAgenda:
		d.Agenda = value
	default:
		return errors.Wrap(ErrUnknownField, name)
	}
	return nil
}

// Field returns the current value of the named attribute.
func (d Draft) Field(name string) (string, error) {
	switch name {
	case FieldTitle:
		return d.Title, nil
	case FieldDescription:
		return d.Description, nil
	case FieldDate:
		return d.Date, nil
	case FieldTime:
		return d.Time, nil
	case FieldDuration:
		return strconv.Itoa(d.Duration), nil
	case FieldAgenda:
		return d.Agenda, nil
	default:
		return "", errors.Wrap(ErrUnknownField, name)
	}
}

// MissingFields returns the required fields left blank: title, date & time.
func (d Draft) MissingFields() []core.FieldError {
	var flds []core.FieldError
	if !core.NonBlank(d.Title) {
		flds = append(flds, core.FieldError{Field: FieldTitle, Error: "this field is required"})
	}
	if !core.NonBlank(d.Date) {
		flds = append(flds, core.FieldError{Field: FieldDate, Error: "this field is required"})
	}
	if !core.NonBlank(d.Time) {
		flds = append(flds, core.FieldError{Field: FieldTime, Error: "this field is required"})
	}
	return flds
}

// Schedule returns the start & end of the meeting in `loc`.
func (d Draft) Schedule(loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation(dateTimeLayout, core.CleanString(d.Date)+" "+core.CleanString(d.Time), loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrap(err, "parsing meeting date & time")
	}
	duration := d.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	return start, start.Add(time.Duration(duration) * time.Minute), nil
}

func (d *Draft) Validate(validate *validator.Validate) error {
	d.Title = core.CleanString(d.Title)
	d.Date = core.CleanString(d.Date)
	d.Time = core.CleanString(d.Time)
	if d.Duration == 0 {
		d.Duration = DefaultDuration
	}
	return validate.Struct(d)
}

// Meeting is the persisted record of a scheduled meeting. It is written once.
type Meeting struct {
	ID string `json:"id"`
	Draft
	MeetLink   string            `json:"meetLink"`
	Teachers   []teacher.Teacher `json:"teachers"`
	Department string            `json:"department"` // department key, or "Custom"
	CreatedAt  time.Time         `json:"createdAt"`
	Status     string            `json:"status"`
}

type QueryFilter struct {
	Department string `query:"department"`
}

func (f *QueryFilter) Clean() {
	f.Department = core.CleanString(f.Department)
}

// OrderingFields are the fields meetings can be ordered by.
var OrderingFields = []string{"created_at", "date", "title"}

// Event is the calendar event backing a meeting.
type Event struct {
	ID          string `json:"id,omitempty"`
	HangoutLink string `json:"hangoutLink,omitempty"`
	HTMLLink    string `json:"htmlLink,omitempty"`
}

// EventRequest describes the calendar event to create for a draft.
type EventRequest struct {
	RequestID string
	Draft     Draft
	Start     time.Time
	End       time.Time
	Attendees []teacher.Teacher
}

// CreateAndInviteRequest is the body of a create-and-invite call.
type CreateAndInviteRequest struct {
	Meeting  Draft             `json:"meeting"`
	Teachers []teacher.Teacher `json:"teachers" validate:"required,min=1,dive"`
}

// CreateAndInviteResponse is the reply of a create-and-invite call.
// The join link is MeetLink, or Event.HangoutLink when absent.
type CreateAndInviteResponse struct {
	Success  bool   `json:"success"`
	MeetLink string `json:"meetLink,omitempty"`
	Event    *Event `json:"event,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Link returns the join link of the response, "" if there is none.
func (r CreateAndInviteResponse) Link() string {
	if r.MeetLink != "" {
		return r.MeetLink
	}
	if r.Event != nil {
		return r.Event.HangoutLink
	}
	return ""
}
