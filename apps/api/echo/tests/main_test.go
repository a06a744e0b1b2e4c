package tests

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

	. "github.com/2023UCA1802/Infosys-Study-AI-Recommender/apps/api/echo"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/feedback"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/goal"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/otp"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/recommend"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/schedule"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/session"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/stats"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/studylog"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/support"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
	emailsvc "github.com/2023UCA1802/Infosys-Study-AI-Recommender/services/email"
	inmemdb "github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database/inmem"
	testutil "github.com/2023UCA1802/Infosys-Study-AI-Recommender/tests"
)

var (
	errMissingToken = httpErr{Message: "unauthorized: no session token provided"}
	errForbidden    = httpErr{Message: "permission denied"}
	errBadSession   = httpErr{Message: session.ErrUnauthenticated.Error()}
)

type testApp struct {
	server   *Server
	conf     *core.Config
	mail     *emailsvc.ConsoleServiceMock
	scorer   *stubScorer
	sessions *session.Manager

	usrRepo user.Repository
	otpRepo otp.Repository

	usrSvc      *user.Service
	goalSvc     *goal.Service
	scheduleSvc *schedule.Service
	logSvc      *studylog.Service
	feedbackSvc *feedback.Service
	supportSvc  *support.Service
}

func setup(t *testing.T) *testApp {
	t.Helper()
	conf := core.NewTestConfig()

	// set up DB & repos
	db := inmemdb.Open()
	app := &testApp{
		conf:    conf,
		mail:    emailsvc.NewConsoleServiceMock(conf),
		scorer:  new(stubScorer),
		usrRepo: inmemdb.NewUserRepository(db),
		otpRepo: inmemdb.NewOTPRepository(db),
	}

	// set up services
	app.sessions = session.NewManager(inmemdb.NewSessionRepository(db), conf)
	codes := otp.NewService(app.otpRepo, app.mail, conf)
	app.usrSvc = user.NewService(app.usrRepo, codes, app.sessions)
	app.goalSvc = goal.NewService(inmemdb.NewGoalRepository(db))
	app.scheduleSvc = schedule.NewService(inmemdb.NewScheduleRepository(db))
	app.logSvc = studylog.NewService(inmemdb.NewStudyLogRepository(db))
	app.feedbackSvc = feedback.NewService(inmemdb.NewFeedbackRepository(db))
	app.supportSvc = support.NewService(inmemdb.NewSupportRepository(db))

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	schedule.InitValidators(validate)
	studylog.InitValidators(validate)

	// set up server
	app.server = NewServer(ServerDeps{
		Conf:         conf,
		Logger:       testutil.NopLogger{},
		Validate:     validate,
		Translator:   translator,
		UserSvc:      app.usrSvc,
		GoalSvc:      app.goalSvc,
		ScheduleSvc:  app.scheduleSvc,
		StudyLogSvc:  app.logSvc,
		FeedbackSvc:  app.feedbackSvc,
		SupportSvc:   app.supportSvc,
		StatsSvc:     stats.NewService(app.usrSvc, app.goalSvc, app.scheduleSvc, app.logSvc),
		RecommendSvc: recommend.NewService(app.scorer),
	})
	return app
}

func (app *testApp) createUser(t *testing.T, uname, email, pwd, role string) user.User {
	return testutil.CreateUser(t, app.usrRepo, uname, email, pwd, role)
}

// getToken opens a session for usr the way a login does.
func (app *testApp) getToken(t *testing.T, usr user.User) string {
	token, err := app.sessions.Issue(context.Background(), usr.Email, usr.Username, usr.Role)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func (app *testApp) do(req *http.Request, rec *httptest.ResponseRecorder) {
	app.server.ServeHTTP(rec, req)
}

type stubScorer struct {
	res   recommend.Result
	err   error
	calls []recommend.Metrics
}

func (s *stubScorer) Score(_ context.Context, m recommend.Metrics) (recommend.Result, error) {
	s.calls = append(s.calls, m)
	return s.res, s.err
}

type httpErr struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// sessionCookie returns the session token set by the response, if any.
func sessionCookie(rec *httptest.ResponseRecorder) (*http.Cookie, bool) {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c, true
		}
	}
	return nil, false
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
	if _, ok := j1.([]interface{}); !ok {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.do(req, rec)
			checkCodeAndData(t, tt, rec)
		})
	}
}
