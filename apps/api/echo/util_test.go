package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/meeting"
	"github.com/trezcool/masomo-meet/core/teacher"
	calendarsvc "github.com/trezcool/masomo-meet/services/calendar"
	emailsvc "github.com/trezcool/masomo-meet/services/email"
	inmemdb "github.com/trezcool/masomo-meet/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	*Server
	conf        *core.Config
	teacherRepo teacher.Repository
	meetingRepo meeting.Repository
}

type failingCreator struct{}

func (failingCreator) CreateEvent(context.Context, meeting.EventRequest) (meeting.Event, error) {
	return meeting.Event{}, assert.AnError
}

func setup(t *testing.T, events ...meeting.EventCreator) testApp {
	conf := core.NewTestConfig()
	logger := core.NopLogger{}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator, conf.Departments)
	core.ParseEmailTemplates(logger, true)

	// set up DB & repos
	db := inmemdb.Open()
	teacherRepo := inmemdb.NewTeacherRepository(db)
	meetingRepo := inmemdb.NewMeetingRepository(db)

	// set up services
	var creator meeting.EventCreator = calendarsvc.NewConsoleCreator(logger)
	if len(events) > 0 {
		creator = events[0]
	}
	emailsvc.ResetSentMessages()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	server := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		TeacherSvc:     teacher.NewService(teacherRepo, validate, logger),
		MeetingSvc:     meeting.NewService(meetingRepo, creator, mailSvc, validate, logger, conf),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	return testApp{Server: server, conf: conf, teacherRepo: teacherRepo, meetingRepo: meetingRepo}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, conf *core.Config) string {
	token, err := GenerateToken(conf, NewClaims(conf, "scheduler"))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
