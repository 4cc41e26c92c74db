package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/core/notify"
)

type remindResult struct {
	sent, skipped, failed int
}

// remind emails every active user a reminder of each exam starting within the next days.
// A failed dispatch is counted and the run goes on.
func (cli *commandLine) remind(days int) error {
	ctx := context.Background()
	now := time.Now
	if cli.now != nil {
		now = cli.now
	}
	current := now().In(cli.examSvc.Location())

	users, err := cli.usrSvc.QueryAll(ctx)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}

	var res remindResult
	for _, usr := range users {
		if !usr.IsActive {
			continue
		}
		exams, err := cli.examSvc.Query(ctx, usr.ID)
		if err != nil {
			return errors.Wrapf(err, "querying exams of %s", usr.Email)
		}
		for _, e := range exam.Within(exams, current, time.Duration(days)*24*time.Hour) {
			sent, err := cli.notifySvc.ExamReminder(ctx, usr.ID, notify.ExamReminderData{
				Subject:  e.Subject,
				Date:     e.Date,
				Time:     e.Time,
				Location: e.Location,
			})
			switch {
			case errors.Is(err, core.ErrDispatchFailure):
				res.failed++
				cli.printf("reminder of %s for %s failed: %v\n", e.Subject, usr.Email, err)
			case err != nil:
				return errors.Wrapf(err, "reminding %s", usr.Email)
			case sent:
				res.sent++
			default:
				res.skipped++
			}
		}
	}

	cli.printf("reminders: %d sent, %d skipped, %d failed\n", res.sent, res.skipped, res.failed)
	return nil
}
