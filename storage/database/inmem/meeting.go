package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/meeting"
	"github.com/trezcool/masomo-meet/core/teacher"
)

type meetingRepository struct {
	db *meetingTable
}

var _ meeting.Repository = (*meetingRepository)(nil) // interface compliance check

func NewMeetingRepository(db *DB) *meetingRepository {
	return &meetingRepository{db: db.meeting}
}

func (repo *meetingRepository) CreateMeeting(ctx context.Context, m meeting.Meeting) (meeting.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return meeting.Meeting{}, err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	m.ID = uuid.New().String()
	m.CreatedAt = time.Now().UTC()
	if m.Status == "" {
		m.Status = meeting.StatusScheduled
	}
	m.Teachers = append([]teacher.Teacher{}, m.Teachers...)
	repo.db.table = append(repo.db.table, m)
	return m, nil
}

func (repo *meetingRepository) QueryMeetings(ctx context.Context, filter meeting.QueryFilter, ordering []core.DBOrdering) ([]meeting.Meeting, error) {
	repo.db.RLock()
	meetings := make([]meeting.Meeting, 0, len(repo.db.table))
	for _, m := range repo.db.table {
		if filter.Department == "" || m.Department == filter.Department {
			meetings = append(meetings, m)
		}
	}
	repo.db.RUnlock()

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "created_at"}}
	}
	sort.SliceStable(meetings, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareMeetings(meetings[i], meetings[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return meetings, nil
}

func compareMeetings(a, b meeting.Meeting, field string) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "date":
		return strings.Compare(a.Date+" "+a.Time, b.Date+" "+b.Time)
	default: // created_at
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	}
}
