package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/core/mark"
)

type (
	dashboardApi struct {
		examSvc *exam.Service
		markSvc *mark.Service
	}

	DashboardResponse struct {
		UpcomingExams  int         `json:"upcoming_exams"`
		AveragePercent float64     `json:"average_percent"`
		TotalSubjects  int         `json:"total_subjects"`
		RecentMarks    []mark.Mark `json:"recent_marks"`
		NextExam       *exam.Exam  `json:"next_exam"`
	}
)

const recentMarks = 5

func registerDashboardAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := dashboardApi{examSvc: deps.ExamSvc, markSvc: deps.MarkSvc}
	g.GET("/dashboard", api.dashboard, authed...)
}

func (api *dashboardApi) dashboard(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	ownerID := contextUser(ctx).ID

	exams, err := api.examSvc.Query(reqCtx, ownerID)
	if err != nil {
		return errors.Wrap(err, "querying exams")
	}
	marks, err := api.markSvc.Query(reqCtx, ownerID)
	if err != nil {
		return errors.Wrap(err, "querying marks")
	}

	now := time.Now().In(api.examSvc.Location())
	sched := exam.Split(exams, now)
	examSubjects := make([]string, 0, len(exams))
	for _, e := range exams {
		examSubjects = append(examSubjects, e.Subject)
	}

	res := DashboardResponse{
		UpcomingExams:  len(sched.Upcoming),
		AveragePercent: mark.Summarize(marks).AveragePercent,
		TotalSubjects:  mark.CountSubjects(examSubjects, mark.Subjects(marks)),
		RecentMarks:    marks,
	}
	if len(marks) > recentMarks {
		res.RecentMarks = marks[:recentMarks]
	}
	if next, ok := exam.Next(exams, now); ok {
		res.NextExam = &next
	}
	return ctx.JSON(http.StatusOK, res)
}
