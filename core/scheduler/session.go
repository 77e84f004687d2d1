package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/meeting"
	"github.com/trezcool/masomo-meet/core/teacher"
)

// Session is one run of the scheduling wizard: scope, roster, selection, draft & step.
// Its methods are safe for concurrent use; no I/O happens while its lock is held.
// Every failure is both notified and returned.
type Session struct {
	resolver     *Resolver
	orchestrator *Orchestrator
	notifier     *Notifier
	logger       core.Logger

	mu         sync.Mutex
	state      WizardState
	all        []teacher.Teacher
	roster     []teacher.Teacher
	selection  Selection
	draft      meeting.Draft
	meetLink   string
	generation uint64 // bumped on every scope change; stale fetches are discarded
	inflight   int
	scheduling bool
}

func NewSession(resolver *Resolver, orchestrator *Orchestrator, notifier *Notifier, logger core.Logger) *Session {
	vala.BeginValidation().Validate(
		vala.IsNotNil(resolver, "resolver"),
		vala.IsNotNil(orchestrator, "orchestrator"),
		vala.IsNotNil(notifier, "notifier"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Session{
		resolver:     resolver,
		orchestrator: orchestrator,
		notifier:     notifier,
		logger:       logger,
		state:        NewWizardState(),
		roster:       []teacher.Teacher{},
		draft:        meeting.NewDraft(),
	}
}

func (s *Session) begin() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
}

func (s *Session) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

// Start fetches every teacher once; custom mode picks from them.
func (s *Session) Start(ctx context.Context) error {
	s.begin()
	defer s.end()

	all, err := s.resolver.All(ctx)
	if err != nil {
		s.fetchFailed(err)
		return err
	}

	s.mu.Lock()
	s.all = all
	s.mu.Unlock()
	return s.refresh(ctx)
}

// SetMode switches the selection mode and recomputes the roster.
func (s *Session) SetMode(ctx context.Context, mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Mode = mode
	s.mu.Unlock()
	return s.refresh(ctx)
}

// SetDepartment changes the department key and recomputes the roster.
func (s *Session) SetDepartment(ctx context.Context, dept string) error {
	s.mu.Lock()
	s.state.Department = core.CleanString(dept)
	s.mu.Unlock()
	return s.refresh(ctx)
}

// refresh resolves the roster of the current scope. The result is dropped when the scope
// changed while it was being fetched.
func (s *Session) refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	scope := s.state.Scope
	all := s.all
	s.inflight++
	s.mu.Unlock()
	defer s.end()

	roster, err := s.resolver.Resolve(ctx, scope, all)

	s.mu.Lock()
	stale := gen != s.generation
	if !stale {
		s.roster = roster
	}
	s.mu.Unlock()

	if stale {
		s.logger.Debug(fmt.Sprintf("discarding stale roster of scope %q", scope.Label()))
		return nil
	}
	if err != nil {
		s.fetchFailed(err)
		return err
	}
	return nil
}

func (s *Session) fetchFailed(err error) {
	s.logger.Error(fmt.Sprintf("%s: %v", MsgFetchFailed, err), err)
	s.notifier.Notify(SeverityError, MsgFetchFailed)
}

// Toggle adds or removes a teacher from the selection.
func (s *Session) Toggle(t teacher.Teacher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Toggle(t)
}

// SelectAll selects the whole roster, or clears the selection when it is already as large.
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.SelectAll(s.roster)
}

// SetField updates one draft attribute.
func (s *Session) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.SetField(name, value)
}

// Advance moves the wizard forward, notifying a warning when the current step is incomplete.
func (s *Session) Advance() error {
	s.mu.Lock()
	next, err := s.state.Advance(s.selection.Len())
	if err == nil {
		s.state = next
	}
	s.mu.Unlock()

	if err != nil {
		s.warn(err)
	}
	return err
}

// Retreat moves the wizard back one step.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, err := s.state.Retreat()
	if err != nil {
		return err
	}
	s.state = prev
	return nil
}

func (s *Session) warn(err error) {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && vErr.Err != nil {
		s.notifier.Notify(SeverityWarning, vErr.Err.Error())
	}
}

// Schedule creates and records the meeting. It is only accepted on the confirmation step.
// On success the session is reset and MeetLink returns the new link; on failure the state is kept.
func (s *Session) Schedule(ctx context.Context) (meeting.Meeting, error) {
	s.mu.Lock()
	if s.state.Step != StepConfirm {
		s.mu.Unlock()
		return meeting.Meeting{}, ErrNotAtConfirm
	}
	if s.scheduling {
		s.mu.Unlock()
		return meeting.Meeting{}, ErrScheduleInProgress
	}
	s.scheduling = true
	s.inflight++
	draft := s.draft
	teachers := s.selection.Teachers()
	label := s.state.Label()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.scheduling = false
		s.inflight--
		s.mu.Unlock()
	}()

	m, err := s.orchestrator.Schedule(ctx, draft, teachers, label)
	if err != nil {
		if core.IsValidation(err) {
			s.warn(err)
		} else {
			s.logger.Error(fmt.Sprintf("%s: %v", MsgScheduleFailed, err), err)
			s.notifier.Notify(SeverityError, MsgScheduleFailed)
		}
		return meeting.Meeting{}, err
	}

	s.mu.Lock()
	s.reset()
	s.meetLink = m.MeetLink
	s.mu.Unlock()

	s.logger.Info(fmt.Sprintf("meeting %q scheduled: %s", m.Title, m.MeetLink))
	s.notifier.Notify(SeveritySuccess, MsgScheduled)
	return m, nil
}

// reset brings everything but the full teacher list back to its initial value.
// In-flight fetches are invalidated. s.mu must be held.
func (s *Session) reset() {
	s.generation++
	s.state = NewWizardState()
	s.roster = []teacher.Teacher{}
	s.selection.Clear()
	s.draft = meeting.NewDraft()
}

// Reset abandons the current wizard run.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.meetLink = ""
}

// Snapshot is a consistent copy of the session's state.
type Snapshot struct {
	State    WizardState       `json:"state"`
	Roster   []teacher.Teacher `json:"roster"`
	Selected []teacher.Teacher `json:"selected"`
	Draft    meeting.Draft     `json:"draft"`
	MeetLink string            `json:"meetLink,omitempty"`
	Loading  bool              `json:"loading"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:    s.state,
		Roster:   append([]teacher.Teacher{}, s.roster...),
		Selected: s.selection.Teachers(),
		Draft:    s.draft,
		MeetLink: s.meetLink,
		Loading:  s.inflight > 0,
	}
}

func (s *Session) State() WizardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Roster returns a copy of the active roster.
func (s *Session) Roster() []teacher.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]teacher.Teacher{}, s.roster...)
}

func (s *Session) Selected() []teacher.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Teachers()
}

func (s *Session) IsSelected(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Has(email)
}

func (s *Session) Draft() meeting.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// MeetLink is the link of the last meeting scheduled by this session.
func (s *Session) MeetLink() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meetLink
}

// Loading reports whether a fetch or a scheduling is in progress.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}
