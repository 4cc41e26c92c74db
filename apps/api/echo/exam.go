package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/countdown"
	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/core/notify"
)

type (
	examApi struct {
		svc       *exam.Service
		notifySvc *notify.Service
		logger    core.Logger
		validate  *validator.Validate
		interval  time.Duration
	}

	NextExamResponse struct {
		Exam      exam.Exam           `json:"exam"`
		Countdown countdown.Countdown `json:"countdown"`
		TimeUntil string              `json:"time_until"`
		Urgency   countdown.Tier      `json:"urgency"`
	}
)

func registerExamAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := examApi{
		svc:       deps.ExamSvc,
		notifySvc: deps.NotifySvc,
		logger:    deps.Logger,
		validate:  deps.Validate,
		interval:  deps.Conf.Countdown.Interval,
	}

	eg := g.Group("/exams", authed...)
	eg.POST("", api.create)
	eg.GET("", api.schedule)
	eg.GET("/next", api.next)
	eg.GET("/next/countdown", api.countdown)
}

// Handlers

func (api *examApi) create(ctx echo.Context) error {
	var data exam.NewExam
	if err := bind(ctx, &data, "NewExam"); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr := contextUser(ctx)
	e, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating exam")
	}

	// the exam is kept whatever happens to its reminder
	res := CreatedResponse{Data: e}
	_, err = api.notifySvc.ExamReminder(ctx.Request().Context(), usr.ID, notify.ExamReminderData{
		Subject:  e.Subject,
		Date:     e.Date,
		Time:     e.Time,
		Location: e.Location,
	})
	if err != nil {
		api.logger.Warn("sending exam reminder", err, usr)
		res.Notice = "Exam added, but the reminder email could not be sent."
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *examApi) schedule(ctx echo.Context) error {
	sched, err := api.svc.Schedule(ctx.Request().Context(), contextUser(ctx).ID)
	if err != nil {
		return errors.Wrap(err, "querying exams")
	}
	return ctx.JSON(http.StatusOK, sched)
}

func (api *examApi) nextExam(ctx echo.Context) (exam.Exam, time.Time, error) {
	e, ok, err := api.svc.Next(ctx.Request().Context(), contextUser(ctx).ID)
	if err != nil {
		return exam.Exam{}, time.Time{}, errors.Wrap(err, "finding next exam")
	}
	if !ok {
		return exam.Exam{}, time.Time{}, errNoUpcomingExam
	}
	startsAt, _ := e.StartsAt(api.svc.Location())
	return e, startsAt, nil
}

func (api *examApi) next(ctx echo.Context) error {
	e, startsAt, err := api.nextExam(ctx)
	if err != nil {
		return err
	}
	now := time.Now().In(api.svc.Location())
	res := NextExamResponse{
		Exam:      e,
		Countdown: countdown.Remaining(startsAt, now),
		TimeUntil: countdown.TimeUntilLabel(startsAt, now),
		Urgency:   countdown.TierHigh,
	}
	if day, ok := e.Day(api.svc.Location()); ok {
		res.Urgency = countdown.Urgency(day, now)
	}
	return ctx.JSON(http.StatusOK, res)
}

// countdown streams the countdown to the next exam as server-sent events until the exam starts
// or the client goes away.
func (api *examApi) countdown(ctx echo.Context) error {
	_, startsAt, err := api.nextExam(ctx)
	if err != nil {
		return err
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	updates := countdown.Watch(ctx.Request().Context(), countdown.Fixed(startsAt), countdown.WithInterval(api.interval))
	for cd := range updates {
		data, err := json.Marshal(cd)
		if err != nil {
			return errors.Wrap(err, "encoding countdown")
		}
		if _, err = fmt.Fprintf(res, "event: countdown\ndata: %s\n\n", data); err != nil {
			return nil // client gone
		}
		res.Flush()
	}
	return nil
}
