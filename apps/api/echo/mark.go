package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/core/mark"
	"github.com/examally/examally/core/notify"
)

type (
	markApi struct {
		svc       *mark.Service
		examSvc   *exam.Service
		notifySvc *notify.Service
		logger    core.Logger
		validate  *validator.Validate
	}

	StatsResponse struct {
		mark.Summary
		TotalSubjects int `json:"total_subjects"`
	}
)

func registerMarkAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := markApi{
		svc:       deps.MarkSvc,
		examSvc:   deps.ExamSvc,
		notifySvc: deps.NotifySvc,
		logger:    deps.Logger,
		validate:  deps.Validate,
	}

	mg := g.Group("/marks", authed...)
	mg.POST("", api.create)
	mg.GET("", api.query)
	mg.GET("/stats", api.stats)
}

// Handlers

func (api *markApi) create(ctx echo.Context) error {
	var data mark.NewMark
	if err := bind(ctx, &data, "NewMark"); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr := contextUser(ctx)
	m, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating mark")
	}

	res := CreatedResponse{Data: m}
	_, err = api.notifySvc.MarkUpdate(ctx.Request().Context(), usr.ID, notify.MarkUpdateData{
		Subject:    m.Subject,
		Marks:      m.Marks,
		TotalMarks: m.TotalMarks,
		Grade:      m.Grade.String(),
		Percentage: m.Percentage(),
	})
	if err != nil {
		api.logger.Warn("sending mark update", err, usr)
		res.Notice = "Mark added, but the update email could not be sent."
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *markApi) query(ctx echo.Context) error {
	marks, err := api.svc.Query(ctx.Request().Context(), contextUser(ctx).ID)
	if err != nil {
		return errors.Wrap(err, "querying marks")
	}
	return ctx.JSON(http.StatusOK, marks)
}

func (api *markApi) stats(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	ownerID := contextUser(ctx).ID

	marks, err := api.svc.Query(reqCtx, ownerID)
	if err != nil {
		return errors.Wrap(err, "querying marks")
	}
	exams, err := api.examSvc.Query(reqCtx, ownerID)
	if err != nil {
		return errors.Wrap(err, "querying exams")
	}

	examSubjects := make([]string, 0, len(exams))
	for _, e := range exams {
		examSubjects = append(examSubjects, e.Subject)
	}
	return ctx.JSON(http.StatusOK, StatsResponse{
		Summary:       mark.Summarize(marks),
		TotalSubjects: mark.CountSubjects(examSubjects, mark.Subjects(marks)),
	})
}
