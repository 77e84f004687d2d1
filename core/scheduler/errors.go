package scheduler

import (
	"github.com/pkg/errors"
)

// user facing messages
const (
	MsgSelectDepartment = "Select Department"
	MsgSelectTeachers   = "Select Teachers"
	MsgFillRequired     = "Fill all required fields"
	MsgFetchFailed      = "Error fetching teachers"
	MsgScheduled        = "Meeting Scheduled Successfully"
	MsgScheduleFailed   = "Meeting scheduling failed"
)

var (
	ErrFirstStep          = errors.New("already at the first step")
	ErrLastStep           = errors.New("already at the last step, schedule the meeting instead")
	ErrNotAtConfirm       = errors.New("meetings can only be scheduled from the confirmation step")
	ErrScheduleInProgress = errors.New("a meeting is already being scheduled")
	ErrUnknownMode        = errors.New("unknown selection mode")
)

// FetchError is returned when the teachers of a scope could not be queried.
type FetchError struct {
	Department string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Department == "" {
		return "fetching teachers: " + e.Err.Error()
	}
	return "fetching teachers of department " + e.Department + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }
func (e *FetchError) Cause() error  { return e.Err }

// MeetingCreationError is returned when the meeting link could not be created. Nothing was persisted.
type MeetingCreationError struct {
	Err error
}

func (e *MeetingCreationError) Error() string { return "creating meeting: " + e.Err.Error() }
func (e *MeetingCreationError) Unwrap() error { return e.Err }
func (e *MeetingCreationError) Cause() error  { return e.Err }

// PersistenceError is returned when the meeting link was created but the meeting could not be recorded.
// MeetLink is the orphaned link.
type PersistenceError struct {
	MeetLink string
	Err      error
}

func (e *PersistenceError) Error() string {
	return "recording meeting " + e.MeetLink + ": " + e.Err.Error()
}
func (e *PersistenceError) Unwrap() error { return e.Err }
func (e *PersistenceError) Cause() error  { return e.Err }
