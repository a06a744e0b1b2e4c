package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/studylog"
)

func (app *testApp) createLog(t *testing.T, owner, date, start, end, subject string) studylog.Log {
	l, err := app.logSvc.Create(context.Background(), owner, studylog.NewLog{
		Date: date, StartTime: start, EndTime: end, Subject: subject,
	})
	if err != nil {
		t.Fatalf("createLog() failed: %v", err)
	}
	return l
}

func TestQueryStudyLogs(t *testing.T) {
	app := setup(t)
	alice := app.createUser(t, "alice", "a@x.com", "secret123", "")
	bob := app.createUser(t, "bob", "b@x.com", "b0bpassword", "")

	l1 := app.createLog(t, alice.Email, "2024-05-01", "09:00", "10:00", "Algebra")
	l2 := app.createLog(t, alice.Email, "2024-05-02", "08:00", "09:00", "Physics")
	l3 := app.createLog(t, alice.Email, "2024-05-02", "18:00", "19:30", "")
	app.createLog(t, bob.Email, "2024-05-03", "08:00", "09:00", "Chemistry")

	tests := []httpTest{
		{
			name:     "anonymous",
			path:     "/api/study-logs",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "most recent first",
			path:     "/api/study-logs",
			token:    app.getToken(t, alice),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"success": true, "logs": []studylog.Log{l3, l2, l1}}),
		},
	}
	runHTTPTests(t, app, tests)
}

func TestStudyLogLifecycle(t *testing.T) {
	app := setup(t)
	alice := app.createUser(t, "alice", "a@x.com", "secret123", "")
	bob := app.createUser(t, "bob", "b@x.com", "b0bpassword", "")
	token := app.getToken(t, alice)
	other := app.createLog(t, bob.Email, "2024-05-01", "09:00", "10:00", "Chemistry")

	// create
	req, rec := newAuthRequest(http.MethodPost, "/api/study-logs", token, []byte(
		`{"date": "2024-05-01", "startTime": "13:00", "endTime": "14:15", "subject": " Algebra "}`,
	))
	app.do(req, rec)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	logs, err := app.logSvc.ListByOwner(context.Background(), alice.Email)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	created := logs[0]
	assert.Equal(t, "Algebra", created.Subject)
	assert.Equal(t, 75, created.Minutes())
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusCreated,
		wantData: marchallObj(t, map[string]interface{}{"success": true, "message": "Study session logged", "log": created}),
	}, rec)

	edited := created
	edited.Subject = "Geometry"

	tests := []httpTest{
		{
			name:     "create with end before start",
			method:   http.MethodPost,
			path:     "/api/study-logs",
			body:     []byte(`{"date": "2024-05-01", "startTime": "14:00", "endTime": "14:00"}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Message: "invalid input",
				Errors:  map[string]string{"endTime": "endTime must be after startTime"},
			}),
		},
		{
			name:     "update subject",
			method:   http.MethodPut,
			path:     "/api/study-logs/" + created.ID,
			body:     []byte(`{"subject": "Geometry"}`),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"success": true, "message": "Study log updated", "log": edited}),
		},
		{
			name:     "update start after end",
			method:   http.MethodPut,
			path:     "/api/study-logs/" + created.ID,
			body:     []byte(`{"startTime": "15:00"}`),
			token:    token,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "update someone else's log",
			method:   http.MethodPut,
			path:     "/api/study-logs/" + other.ID,
			body:     []byte(`{"subject": "Mine"}`),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Message: studylog.ErrNotFound.Error()}),
		},
		{
			name:     "delete someone else's log",
			method:   http.MethodDelete,
			path:     "/api/study-logs/" + other.ID,
			token:    token,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "delete own log",
			method:   http.MethodDelete,
			path:     "/api/study-logs/" + created.ID,
			token:    token,
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "message": "Study log deleted"}`),
		},
		{
			name:     "no logs left",
			path:     "/api/study-logs",
			token:    token,
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "logs": []}`),
		},
	}
	runHTTPTests(t, app, tests)
}
