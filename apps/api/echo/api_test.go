package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-meet/core/meeting"
	"github.com/trezcool/masomo-meet/core/teacher"
	emailsvc "github.com/trezcool/masomo-meet/services/email"
	testutil "github.com/trezcool/masomo-meet/tests"
)

func Test_home(t *testing.T) {
	app := setup(t)
	req, rec := newAuthRequest(http.MethodGet, "/", "")
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Masomo Meet API!", rec.Body.String())
}

func Test_teacherApi(t *testing.T) {
	app := setup(t)
	token := getToken(t, app.conf)

	ada := testutil.CreateTeacher(t, app.teacherRepo, "Ada", "ada@dept.edu", "Computer")
	grace := testutil.CreateTeacher(t, app.teacherRepo, "Grace", "grace@dept.edu", "IT")
	testutil.CreateTeacher(t, app.teacherRepo, "Broken", "not-an-email", "IT")

	tests := []httpTest{
		{name: "auth required", path: "/v1/teachers", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "all", path: "/v1/teachers", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, []teacher.Teacher{ada, grace})},
		{name: "department", path: "/v1/teachers?department=IT", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, []teacher.Teacher{grace})},
		{name: "empty department", path: "/v1/teachers?department=ECE", token: token, wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{
			name: "unknown department", path: "/v1/teachers?department=comptuer", token: token, wantCode: http.StatusBadRequest,
			wantData: []byte(`{"department":"unknown department, did you mean \"Computer\"?"}`),
		},
		{
			name: "departments", path: "/v1/departments", token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, []string{"Computer", "IT", "ENTC", "AIDS", "ECE"}),
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_meetingApi_createAndInvite(t *testing.T) {
	app := setup(t)
	token := getToken(t, app.conf)
	path := "/v1/meetings/create-and-invite"

	body := func(draft meeting.Draft, teachers ...teacher.Teacher) []byte {
		return marchallObj(t, meeting.CreateAndInviteRequest{Meeting: draft, Teachers: teachers})
	}
	draft := meeting.Draft{Title: "Sync", Date: "2024-05-01", Time: "10:00", Duration: 45}
	ada := teacher.Teacher{Name: "Ada", Email: "ada@dept.edu"}

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: path, body: body(draft, ada),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "invalid body", method: http.MethodPost, path: path, body: []byte(`{"meeting":`), token: token,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"success":false,"error":"invalid request body"}`),
		},
		{
			name: "no teachers", method: http.MethodPost, path: path, body: body(draft), token: token,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"success":false,"error":"teachers: select at least one teacher"}`),
		},
		{
			name: "missing title", method: http.MethodPost, path: path, body: body(meeting.Draft{Date: "2024-05-01", Time: "10:00"}, ada), token: token,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"success":false,"error":"title: this field is required"}`),
		},
	}
	runHTTPTests(t, app, tests)
	assert.Empty(t, emailsvc.SentMessages())

	t.Run("success", func(t *testing.T) {
		grace := teacher.Teacher{Email: "Grace@Dept.edu"}
		req, rec := newAuthRequest(http.MethodPost, path, token, body(draft, ada, grace))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res meeting.CreateAndInviteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.True(t, res.Success)
		assert.True(t, strings.HasPrefix(res.MeetLink, "https://meet.google.com/"), res.MeetLink)
		require.NotNil(t, res.Event)
		assert.Equal(t, res.MeetLink, res.Event.HangoutLink)

		sent := emailsvc.SentMessages()
		require.Len(t, sent, 2)
		assert.Equal(t, "grace@dept.edu", sent[1].To[0].Address)
		assert.Contains(t, sent[0].TextContent, res.MeetLink)
		assert.True(t, sent[0].HasAttachments())

		// nothing is recorded: persistence belongs to the scheduler
		meetings, err := app.meetingRepo.QueryMeetings(context.Background(), meeting.QueryFilter{}, nil)
		require.NoError(t, err)
		assert.Empty(t, meetings)
	})
}

func Test_meetingApi_createAndInviteUpstreamFailure(t *testing.T) {
	app := setup(t, failingCreator{})
	app.app.Debug = false

	req, rec := newAuthRequest(
		http.MethodPost, "/v1/meetings/create-and-invite", getToken(t, app.conf),
		marchallObj(t, meeting.CreateAndInviteRequest{
			Meeting:  meeting.Draft{Title: "Sync", Date: "2024-05-01", Time: "10:00"},
			Teachers: []teacher.Teacher{{Email: "ada@dept.edu"}},
		}),
	)
	app.ServeHTTP(rec, req)

	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadGateway,
		wantData: []byte(`{"success":false,"error":"could not create the meeting"}`),
	}, rec)
	assert.Empty(t, emailsvc.SentMessages())
}

func Test_meetingApi_query(t *testing.T) {
	app := setup(t)
	token := getToken(t, app.conf)
	ctx := context.Background()

	sync, err := app.meetingRepo.CreateMeeting(ctx, meeting.Meeting{
		Draft: meeting.Draft{Title: "Sync", Date: "2024-05-02", Time: "10:00", Duration: 60}, MeetLink: "https://meet.example/1", Department: "Computer",
	})
	require.NoError(t, err)
	adhoc, err := app.meetingRepo.CreateMeeting(ctx, meeting.Meeting{
		Draft: meeting.Draft{Title: "Adhoc", Date: "2024-05-01", Time: "09:00", Duration: 30}, MeetLink: "https://meet.example/2", Department: "Custom",
	})
	require.NoError(t, err)

	tests := []httpTest{
		{name: "auth required", path: "/v1/meetings", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "all", path: "/v1/meetings", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, []meeting.Meeting{adhoc, sync})},
		{name: "department", path: "/v1/meetings?department=Custom", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, []meeting.Meeting{adhoc})},
		{name: "ordering", path: "/v1/meetings?ordering=-title", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, []meeting.Meeting{sync, adhoc})},
	}
	runHTTPTests(t, app, tests)
}
