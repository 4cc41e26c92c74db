package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/examally/examally/apps/api/echo"
	"github.com/examally/examally/core/mark"
	"github.com/examally/examally/tests"
)

func Test_dashboardApi_dashboard(t *testing.T) {
	app := setup(t)
	ada := testutil.CreateUser(t, app.usrRepo, "Ada", "ada@test.io", "", true)

	testutil.CreateExam(t, app.exmRepo, ada.ID, "Biology", day(-2))
	next := testutil.CreateExam(t, app.exmRepo, ada.ID, "Maths", day(1))
	testutil.CreateExam(t, app.exmRepo, ada.ID, "Chemistry", day(8))

	created := make([]mark.Mark, 0, 6)
	for _, pct := range []int{50, 60, 70, 80, 90, 100} {
		created = append(created, testutil.CreateMark(t, app.mrkRepo, ada.ID, "Maths", pct, 100, "2026-05-01"))
	}

	t.Run("summary", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodGet, path: "/v1/dashboard", token: app.getToken(t, ada)})
		require.Equal(t, http.StatusOK, rec.Code)

		var res DashboardResponse
		unmarshalObj(t, rec.Body.Bytes(), &res)
		assert.Equal(t, 2, res.UpcomingExams)
		assert.Equal(t, 75.0, res.AveragePercent)
		assert.Equal(t, 3, res.TotalSubjects)
		require.NotNil(t, res.NextExam)
		assert.Equal(t, next.ID, res.NextExam.ID)

		// five most recent marks, newest first
		require.Len(t, res.RecentMarks, 5)
		for i, m := range res.RecentMarks {
			assert.Equal(t, created[len(created)-1-i].ID, m.ID)
		}
	})

	t.Run("new user", func(t *testing.T) {
		usr := testutil.CreateUser(t, app.usrRepo, "Alan", "alan@test.io", "", true)
		tt := httpTest{
			method:   http.MethodGet,
			path:     "/v1/dashboard",
			token:    app.getToken(t, usr),
			wantCode: http.StatusOK,
			wantData: []byte(`{"upcoming_exams": 0, "average_percent": 0, "total_subjects": 0, "recent_marks": [], "next_exam": null}`),
		}
		checkCodeAndData(t, tt, app.do(tt))
	})

	t.Run("store unavailable without local copy", func(t *testing.T) {
		usr := testutil.CreateUser(t, app.usrRepo, "Grace", "grace@test.io", "", true)
		app.records.SetUnavailable(true)
		defer app.records.SetUnavailable(false)

		tt := httpTest{method: http.MethodGet, path: "/v1/dashboard", token: app.getToken(t, usr), wantCode: http.StatusOK}
		checkCodeAndData(t, tt, app.do(tt))
	})
}
