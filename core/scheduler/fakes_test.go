package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/trezcool/masomo-meet/core/meeting"
	"github.com/trezcool/masomo-meet/core/teacher"
)

var (
	ada   = teacher.Teacher{ID: "1", Name: "Ada", Email: "ada@dept.edu", Department: "Computer"}
	linus = teacher.Teacher{ID: "2", Name: "Linus", Email: "linus@dept.edu", Department: "Computer"}
	grace = teacher.Teacher{ID: "3", Name: "Grace", Email: "grace@dept.edu", Department: "IT"}
	alan  = teacher.Teacher{ID: "4", Name: "Alan", Email: "alan@dept.edu", Department: "ENTC"}

	allTeachers = []teacher.Teacher{ada, linus, grace, alan}
)

type fakeQuerier struct {
	mu       sync.Mutex
	teachers []teacher.Teacher
	err      error
	calls    []teacher.QueryFilter
	block    map[string]chan struct{} // department -> released when closed
	started  chan string
}

func newFakeQuerier(teachers ...teacher.Teacher) *fakeQuerier {
	return &fakeQuerier{teachers: teachers, block: make(map[string]chan struct{}), started: make(chan string, 10)}
}

func (q *fakeQuerier) Query(ctx context.Context, filter teacher.QueryFilter) ([]teacher.Teacher, error) {
	q.mu.Lock()
	q.calls = append(q.calls, filter)
	release := q.block[filter.Department]
	err := q.err
	q.mu.Unlock()

	select {
	case q.started <- filter.Department:
	default:
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return lo.Filter(q.teachers, func(t teacher.Teacher, _ int) bool {
		return filter.Department == "" || t.Department == filter.Department
	}), nil
}

func (q *fakeQuerier) setErr(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.err = err
}

func (q *fakeQuerier) callCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.calls)
}

type fakeLinks struct {
	mu       sync.Mutex
	link     string
	err      error
	calls    int
	deadline bool
	teachers []teacher.Teacher
}

func (l *fakeLinks) CreateMeeting(ctx context.Context, _ meeting.Draft, teachers []teacher.Teacher) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	_, l.deadline = ctx.Deadline()
	l.teachers = teachers
	if l.err != nil {
		return "", l.err
	}
	return l.link, nil
}

type fakeStore struct {
	mu    sync.Mutex
	err   error
	saved []meeting.Meeting
}

func (s *fakeStore) CreateMeeting(_ context.Context, m meeting.Meeting) (meeting.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return meeting.Meeting{}, s.err
	}
	m.ID = uuid.New().String()
	m.CreatedAt = time.Now().UTC()
	s.saved = append(s.saved, m)
	return m, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Warn(string, ...interface{})  {}
func (l *recordingLogger) Error(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}
func (l *recordingLogger) Fatal(string, ...interface{}) {}

func (l *recordingLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}
