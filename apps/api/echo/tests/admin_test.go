package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/feedback"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/goal"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/stats"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/support"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
	testutil "github.com/2023UCA1802/Infosys-Study-AI-Recommender/tests"
)

type adminFixture struct {
	*testApp
	admin, alice, bob user.User
	adminToken        string
	aliceToken        string
}

func setupAdmin(t *testing.T) adminFixture {
	app := setup(t)
	t0 := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	f := adminFixture{
		testApp: app,
		admin:   testutil.CreateUser(t, app.usrRepo, "root", "root@x.com", "r00tpassword", user.RoleAdmin, t0),
		alice:   testutil.CreateUser(t, app.usrRepo, "alice", "a@x.com", "secret123", "", t0.Add(time.Hour)),
		bob:     testutil.CreateUser(t, app.usrRepo, "bob", "b@x.com", "b0bpassword", "", t0.Add(2*time.Hour)),
	}
	f.adminToken = app.getToken(t, f.admin)
	f.aliceToken = app.getToken(t, f.alice)
	return f
}

func TestAdminRoutesForbiddenToStudents(t *testing.T) {
	f := setupAdmin(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/students"},
		{http.MethodGet, "/api/admin/students/list"},
		{http.MethodGet, "/api/admin/stats/a@x.com"},
		{http.MethodGet, "/api/admin/all-feedback"},
		{http.MethodPut, "/api/admin/feedback/abc/status"},
		{http.MethodDelete, "/api/admin/feedback/abc"},
		{http.MethodGet, "/api/admin/support"},
		{http.MethodPut, "/api/admin/support/abc/reply"},
		{http.MethodPost, "/api/admin/support/message"},
	}
	var tests []httpTest
	for _, p := range paths {
		tests = append(tests,
			httpTest{
				name:     "anonymous " + p.method + " " + p.path,
				method:   p.method,
				path:     p.path,
				body:     []byte(`{}`),
				wantCode: http.StatusUnauthorized,
				wantData: marchallObj(t, errMissingToken),
			},
			httpTest{
				name:     "student " + p.method + " " + p.path,
				method:   p.method,
				path:     p.path,
				body:     []byte(`{}`),
				token:    f.aliceToken,
				wantCode: http.StatusForbidden,
				wantData: marchallObj(t, errForbidden),
			},
		)
	}
	runHTTPTests(t, f.testApp, tests)
}

func TestAdminStudents(t *testing.T) {
	f := setupAdmin(t)
	ctx := context.Background()

	f.createGoal(t, f.alice.Email, goal.NewGoal{Title: "Algebra", Progress: 50})
	f.createGoal(t, f.alice.Email, goal.NewGoal{Title: "Physics", Progress: 100})
	f.createTask(t, f.alice.Email, "Algebra", "2024-05-01", "09:00", "10:30")

	req, rec := newAuthRequest(http.MethodGet, "/api/admin/students", f.adminToken)
	f.do(req, rec)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success  bool                 `json:"success"`
		Students []stats.StudentStats `json:"students"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Students, 2, "admins are not listed")

	// newest accounts first
	bob, alice := resp.Students[0], resp.Students[1]
	assert.Equal(t, f.bob.Email, bob.Email)
	assert.Equal(t, 0, bob.TotalGoals)
	assert.Equal(t, 0, bob.FocusScore)

	assert.Equal(t, f.alice.Email, alice.Email)
	assert.Equal(t, "alice", alice.Username)
	assert.Equal(t, 2, alice.TotalGoals)
	assert.Equal(t, 1, alice.CompletedGoals)
	assert.Equal(t, 75, alice.AvgProgress)
	assert.Equal(t, 1.5, alice.StudyHours)
	assert.Equal(t, 55, alice.FocusScore)
	assert.NotContains(t, rec.Body.String(), "password")

	req, rec = newAuthRequest(http.MethodGet, "/api/admin/students/list", f.adminToken)
	f.do(req, rec)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: []byte(`{"success": true, "students": [
			{"email": "b@x.com", "username": "bob"},
			{"email": "a@x.com", "username": "alice"}
		]}`),
	}, rec)

	_, err := f.usrSvc.GetByEmail(ctx, f.admin.Email)
	assert.NoError(t, err)
}

func TestAdminStudentStats(t *testing.T) {
	f := setupAdmin(t)
	ctx := context.Background()

	defer func() { stats.NowFunc = time.Now }()
	stats.NowFunc = func() time.Time { return time.Date(2024, 5, 7, 12, 0, 0, 0, time.UTC) } // a Tuesday

	_, err := f.usrSvc.UpdateProfile(ctx, user.UpdateProfile{
		Email:           f.alice.Email,
		DailyStudyHours: map[string]float64{"Sunday": 2, "Monday": 4},
	})
	require.NoError(t, err)
	f.createGoal(t, f.alice.Email, goal.NewGoal{Title: "Algebra", Progress: 50})
	f.createGoal(t, f.alice.Email, goal.NewGoal{Title: "Physics", Progress: 100})
	f.createLog(t, f.alice.Email, "2024-05-07", "05:00", "07:00", "Algebra")
	f.createLog(t, f.alice.Email, "2024-05-06", "13:00", "14:30", "Physics")

	tests := []httpTest{
		{
			name:     "unknown student",
			path:     "/api/admin/stats/nobody@x.com",
			token:    f.adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Message: user.ErrNotFound.Error()}),
		},
		{
			name:     "student without activity",
			path:     "/api/admin/stats/b@x.com",
			token:    f.adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{
				"success": true,
				"goalsDistribution": {"pending": 0, "finished": 0},
				"goalProgressBins": [
					{"name": "0", "count": 0}, {"name": "1-25", "count": 0}, {"name": "26-50", "count": 0},
					{"name": "51-75", "count": 0}, {"name": "76-99", "count": 0}, {"name": "100", "count": 0}
				],
				"studyTimeDistribution": [
					{"name": "Night", "hours": 0}, {"name": "Morning", "hours": 0},
					{"name": "Afternoon", "hours": 0}, {"name": "Evening", "hours": 0}
				],
				"weeklyStudyHours": [
					{"day": "Wed", "date": "2024-05-01", "hours": 0},
					{"day": "Thu", "date": "2024-05-02", "hours": 0},
					{"day": "Fri", "date": "2024-05-03", "hours": 0},
					{"day": "Sat", "date": "2024-05-04", "hours": 0},
					{"day": "Sun", "date": "2024-05-05", "hours": 0},
					{"day": "Mon", "date": "2024-05-06", "hours": 0},
					{"day": "Tue", "date": "2024-05-07", "hours": 0}
				]
			}`),
		},
		{
			name:     "logged days override the declared hours",
			path:     "/api/admin/stats/a@x.com",
			token:    f.adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{
				"success": true,
				"goalsDistribution": {"pending": 1, "finished": 1},
				"goalProgressBins": [
					{"name": "0", "count": 0}, {"name": "1-25", "count": 0}, {"name": "26-50", "count": 1},
					{"name": "51-75", "count": 0}, {"name": "76-99", "count": 0}, {"name": "100", "count": 1}
				],
				"studyTimeDistribution": [
					{"name": "Night", "hours": 1}, {"name": "Morning", "hours": 1},
					{"name": "Afternoon", "hours": 1.5}, {"name": "Evening", "hours": 0}
				],
				"weeklyStudyHours": [
					{"day": "Wed", "date": "2024-05-01", "hours": 0},
					{"day": "Thu", "date": "2024-05-02", "hours": 0},
					{"day": "Fri", "date": "2024-05-03", "hours": 0},
					{"day": "Sat", "date": "2024-05-04", "hours": 0},
					{"day": "Sun", "date": "2024-05-05", "hours": 2},
					{"day": "Mon", "date": "2024-05-06", "hours": 1.5},
					{"day": "Tue", "date": "2024-05-07", "hours": 2}
				]
			}`),
		},
	}
	runHTTPTests(t, f.testApp, tests)
}

func TestAdminFeedback(t *testing.T) {
	f := setupAdmin(t)

	fromAlice := f.createFeedback(t, f.alice.Email, "Charts", 4)
	fromBob := f.createFeedback(t, f.bob.Email, "Goals", 2)

	req, rec := newAuthRequest(http.MethodGet, "/api/admin/all-feedback", f.adminToken)
	f.do(req, rec)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Feedbacks []feedback.Feedback `json:"feedbacks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Feedbacks, 2)

	tests := []httpTest{
		{
			name:     "unknown status",
			method:   http.MethodPut,
			path:     "/api/admin/feedback/" + fromAlice.ID + "/status",
			body:     []byte(`{"status": "Ignored"}`),
			token:    f.adminToken,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "resolve",
			method:   http.MethodPut,
			path:     "/api/admin/feedback/" + fromAlice.ID + "/status",
			body:     []byte(`{"status": "Resolved"}`),
			token:    f.adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "message": "Feedback status updated"}`),
		},
		{
			name:     "unknown feedback",
			method:   http.MethodPut,
			path:     "/api/admin/feedback/not-an-id/status",
			body:     []byte(`{"status": "Resolved"}`),
			token:    f.adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Message: feedback.ErrNotFound.Error()}),
		},
		{
			name:     "delete anyone's feedback",
			method:   http.MethodDelete,
			path:     "/api/admin/feedback/" + fromBob.ID,
			token:    f.adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "message": "Feedback deleted successfully"}`),
		},
	}
	runHTTPTests(t, f.testApp, tests)

	fbs, err := f.feedbackSvc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, fbs, 1)
	assert.Equal(t, fromAlice.ID, fbs[0].ID)
	assert.Equal(t, feedback.StatusResolved, fbs[0].Status)
}

func TestAdminSupport(t *testing.T) {
	f := setupAdmin(t)
	ctx := context.Background()

	q, err := f.supportSvc.Create(ctx, f.alice.Email, support.NewQuery{Subject: "Charts", Message: "empty chart"})
	require.NoError(t, err)
	_, err = f.supportSvc.Create(ctx, f.bob.Email, support.NewQuery{Subject: "Login", Message: "locked out"})
	require.NoError(t, err)

	tests := []httpTest{
		{
			name:     "empty reply",
			method:   http.MethodPut,
			path:     "/api/admin/support/" + q.ID + "/reply",
			body:     []byte(`{"reply": " "}`),
			token:    f.adminToken,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "reply",
			method:   http.MethodPut,
			path:     "/api/admin/support/" + q.ID + "/reply",
			body:     []byte(`{"reply": "Refresh the page"}`),
			token:    f.adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "message": "Reply sent successfully"}`),
		},
		{
			name:     "reply to unknown query",
			method:   http.MethodPut,
			path:     "/api/admin/support/not-an-id/reply",
			body:     []byte(`{"reply": "Refresh the page"}`),
			token:    f.adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Message: support.ErrNotFound.Error()}),
		},
		{
			name:     "message to unknown student",
			method:   http.MethodPost,
			path:     "/api/admin/support/message",
			body:     []byte(`{"userEmail": "nobody@x.com", "subject": "Hi", "message": "Welcome"}`),
			token:    f.adminToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Message: "no student with this email",
				Errors:  map[string]string{"userEmail": "no student with this email"},
			}),
		},
	}
	runHTTPTests(t, f.testApp, tests)

	req, rec := newAuthRequest(http.MethodPost, "/api/admin/support/message", f.adminToken,
		[]byte(`{"userEmail": " A@x.com", "subject": "Weekly tip", "message": "Plan your week on Sunday"}`))
	f.do(req, rec)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// the student sees the reply and the admin message
	req, rec = newAuthRequest(http.MethodGet, "/api/support", f.aliceToken)
	f.do(req, rec)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Queries []support.Query `json:"queries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Queries, 2)

	byID := make(map[string]support.Query)
	for _, sq := range resp.Queries {
		byID[sq.ID] = sq
	}
	replied := byID[q.ID]
	assert.Equal(t, support.StatusReplied, replied.Status)
	assert.Equal(t, "Refresh the page", replied.Reply)
	assert.False(t, replied.IsFromAdmin)

	delete(byID, q.ID)
	for _, msg := range byID {
		assert.Equal(t, support.StatusSent, msg.Status)
		assert.True(t, msg.IsFromAdmin)
		assert.Equal(t, "Weekly tip", msg.Subject)
	}

	all, err := f.supportSvc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
