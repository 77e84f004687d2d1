package sqlxrepos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/meeting"
	"github.com/trezcool/masomo-meet/core/teacher"
	"github.com/trezcool/masomo-meet/tests"
)

func TestTeacherRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTeacherRepository(testutil.PrepareDB(t))

	ada := testutil.CreateTeacher(t, repo, "Ada", "ada@dept.edu", "Computer")
	testutil.CreateTeacher(t, repo, "", "anon@dept.edu", "Computer")
	testutil.CreateTeacher(t, repo, "Grace", "grace@dept.edu", "IT")

	moved, err := repo.UpdateOrCreateTeacher(ctx, teacher.Teacher{Name: "Ada L.", Email: "ada@dept.edu", Department: "Computer"})
	require.NoError(t, err)
	assert.Equal(t, ada.ID, moved.ID)
	assert.Equal(t, "Ada L.", moved.Name)

	computer, err := repo.QueryTeachers(ctx, teacher.QueryFilter{Department: "Computer"})
	require.NoError(t, err)
	assert.Len(t, computer, 2)

	all, err := repo.QueryTeachers(ctx, teacher.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := repo.GetTeacherByEmail(ctx, "anon@dept.edu")
	require.NoError(t, err)
	assert.Equal(t, "", got.Name)

	_, err = repo.GetTeacherByEmail(ctx, "nobody@dept.edu")
	assert.Equal(t, teacher.ErrNotFound, err)
}

func TestMeetingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMeetingRepository(testutil.PrepareDB(t))

	m, err := repo.CreateMeeting(ctx, meeting.Meeting{
		Draft:      meeting.Draft{Title: "Sync", Date: "2024-05-01", Time: "10:00", Duration: 60, Agenda: "news"},
		MeetLink:   "https://meet.example/1",
		Teachers:   []teacher.Teacher{{Name: "Ada", Email: "ada@dept.edu"}},
		Department: "Computer",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.CreatedAt.IsZero())

	_, err = repo.CreateMeeting(ctx, meeting.Meeting{
		Draft:      meeting.Draft{Title: "Alpha", Date: "2024-05-02", Time: "10:00", Duration: 30},
		MeetLink:   "https://meet.example/2",
		Department: "Custom",
	})
	require.NoError(t, err)

	got, err := repo.QueryMeetings(ctx, meeting.QueryFilter{}, core.ParseOrdering("title", meeting.OrderingFields...))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Title)
	assert.Empty(t, got[0].Teachers)
	assert.Equal(t, "news", got[1].Agenda)
	assert.Equal(t, "ada@dept.edu", got[1].Teachers[0].Email)
	assert.Equal(t, meeting.StatusScheduled, got[1].Status)

	computer, err := repo.QueryMeetings(ctx, meeting.QueryFilter{Department: "Computer"}, nil)
	require.NoError(t, err)
	assert.Len(t, computer, 1)
}
