package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/meeting"
	"github.com/trezcool/masomo-meet/core/teacher"
)

const meetingColumns = "id, title, description, date, time, duration, agenda, meet_link, teachers, department, status, created_at"

type meetingRow struct {
	ID          string      `db:"id"`
	Title       string      `db:"title"`
	Description null.String `db:"description"`
	Date        string      `db:"date"`
	Time        string      `db:"time"`
	Duration    int         `db:"duration"`
	Agenda      null.String `db:"agenda"`
	MeetLink    string      `db:"meet_link"`
	Teachers    null.JSON   `db:"teachers"`
	Department  string      `db:"department"`
	Status      string      `db:"status"`
	CreatedAt   time.Time   `db:"created_at"`
}

func (row meetingRow) meeting() (meeting.Meeting, error) {
	teachers := make([]teacher.Teacher, 0)
	if row.Teachers.Valid {
		if err := row.Teachers.Unmarshal(&teachers); err != nil {
			return meeting.Meeting{}, errors.Wrap(err, "decoding meeting teachers")
		}
	}
	return meeting.Meeting{
		ID: row.ID,
		Draft: meeting.Draft{
			Title:       row.Title,
			Description: row.Description.String,
			Date:        row.Date,
			Time:        row.Time,
			Duration:    row.Duration,
			Agenda:      row.Agenda.String,
		},
		MeetLink:   row.MeetLink,
		Teachers:   teachers,
		Department: row.Department,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
	}, nil
}

type meetingRepository struct {
	db *sqlx.DB
}

var _ meeting.Repository = (*meetingRepository)(nil) // interface compliance check

func NewMeetingRepository(db *sqlx.DB) *meetingRepository {
	return &meetingRepository{db: db}
}

func (repo meetingRepository) CreateMeeting(ctx context.Context, m meeting.Meeting) (meeting.Meeting, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Status == "" {
		m.Status = meeting.StatusScheduled
	}

	// snapshot of the invitees at scheduling time
	teachers := m.Teachers
	if teachers == nil {
		teachers = []teacher.Teacher{}
	}
	snapshot := null.JSON{}
	if err := snapshot.Marshal(teachers); err != nil {
		return meeting.Meeting{}, errors.Wrap(err, "encoding meeting teachers")
	}

	q := `INSERT INTO meeting (id, title, description, date, time, duration, agenda, meet_link, teachers, department, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`
	err := repo.db.QueryRowxContext(
		ctx, q,
		m.ID,
		m.Title,
		null.NewString(m.Description, m.Description != ""),
		m.Date,
		m.Time,
		m.Duration,
		null.NewString(m.Agenda, m.Agenda != ""),
		m.MeetLink,
		snapshot,
		m.Department,
		m.Status,
	).Scan(&m.CreatedAt)
	if err != nil {
		return meeting.Meeting{}, errors.Wrap(err, "inserting meeting")
	}
	m.Teachers = teachers
	return m, nil
}

func (repo meetingRepository) QueryMeetings(ctx context.Context, filter meeting.QueryFilter, ordering []core.DBOrdering) ([]meeting.Meeting, error) {
	q := "SELECT " + meetingColumns + " FROM meeting"
	var args []interface{}
	if filter.Department != "" {
		q += " WHERE department = $1"
		args = append(args, filter.Department)
	}
	q += " " + core.OrderByClause(ordering, "created_at DESC")

	var rows []meetingRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting meetings")
	}

	meetings := make([]meeting.Meeting, 0, len(rows))
	for _, row := range rows {
		m, err := row.meeting()
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, nil
}
