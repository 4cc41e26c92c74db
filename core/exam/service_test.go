package exam_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/countdown"
	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/storage/database/inmem"
)

func newService() (*exam.Service, *inmemdb.DB) {
	db := inmemdb.Open()
	return exam.NewService(inmemdb.NewExamRepository(db), core.NewTestConfig()), db
}

func TestNewExam_Validate(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	tests := []struct {
		name    string
		ne      exam.NewExam
		wantErr bool
	}{
		{name: "valid", ne: exam.NewExam{Subject: " Maths ", Date: "2026-06-01", Time: "09:30", Location: "Hall A"}},
		{name: "blank subject", ne: exam.NewExam{Subject: "  ", Date: "2026-06-01", Time: "09:30", Location: "Hall A"}, wantErr: true},
		{name: "bad date", ne: exam.NewExam{Subject: "Maths", Date: "01/06/2026", Time: "09:30", Location: "Hall A"}, wantErr: true},
		{name: "bad time", ne: exam.NewExam{Subject: "Maths", Date: "2026-06-01", Time: "25:00", Location: "Hall A"}, wantErr: true},
		{name: "missing location", ne: exam.NewExam{Subject: "Maths", Date: "2026-06-01", Time: "09:30"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ne.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Maths", tt.ne.Subject)
		})
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, db := newService()

	created, err := svc.Create(ctx, "u1", exam.NewExam{Subject: "Physics", Date: "2099-01-02", Time: "09:00", Location: "Lab 3"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.OwnerID)

	_, err = svc.Create(ctx, "u1", exam.NewExam{Subject: "Physics", Date: "2099-02-30", Time: "09:00", Location: "Lab 3"})
	assert.True(t, errors.Is(err, core.ErrInvalidInput))

	db.SetUnavailable(true)
	_, err = svc.Create(ctx, "u1", exam.NewExam{Subject: "Physics", Date: "2099-01-03", Time: "09:00", Location: "Lab 3"})
	assert.True(t, errors.Is(err, core.ErrStoreUnavailable))
}

func TestService_Schedule(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	for _, ne := range []exam.NewExam{
		{Subject: "History", Date: "2099-05-01", Time: "09:00", Location: "A"},
		{Subject: "Latin", Date: "2001-05-01", Time: "09:00", Location: "B"},
		{Subject: "Maths", Date: "2099-04-01", Time: "09:00", Location: "C"},
	} {
		_, err := svc.Create(ctx, "u1", ne)
		require.NoError(t, err)
	}

	sched, err := svc.Schedule(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sched.Upcoming, 2)
	require.Len(t, sched.Past, 1)
	assert.Equal(t, "Maths", sched.Upcoming[0].Subject)
	assert.Equal(t, "History", sched.Upcoming[1].Subject)
	assert.Equal(t, countdown.TierNone, sched.Upcoming[0].Urgency)
	assert.Equal(t, "Latin", sched.Past[0].Subject)

	next, ok, err := svc.Next(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Maths", next.Subject)

	_, ok, err = svc.Next(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSplit(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	exams := []exam.Exam{
		{Subject: "yesterday", Date: "2026-05-31", Time: "09:00"},
		{Subject: "this morning", Date: "2026-06-01", Time: "08:00"},
		{Subject: "tonight", Date: "2026-06-01", Time: "18:30"},
		{Subject: "in three days", Date: "2026-06-04", Time: "12:00"},
		{Subject: "in five days", Date: "2026-06-06", Time: "09:00"},
		{Subject: "in a month", Date: "2026-07-01", Time: "09:00"},
	}

	sched := exam.Split(exams, now)
	require.Len(t, sched.Past, 1)
	assert.Equal(t, "yesterday", sched.Past[0].Subject)

	tests := []struct {
		subject   string
		timeUntil string
		urgency   countdown.Tier
	}{
		{subject: "this morning", timeUntil: "Today", urgency: countdown.TierHigh},
		{subject: "tonight", timeUntil: "8 hours", urgency: countdown.TierHigh},
		{subject: "in three days", timeUntil: "3 days", urgency: countdown.TierMedium},
		{subject: "in five days", timeUntil: "4 days", urgency: countdown.TierLow},
		{subject: "in a month", timeUntil: "29 days", urgency: countdown.TierNone},
	}
	require.Len(t, sched.Upcoming, len(tests))
	for i, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			up := sched.Upcoming[i]
			assert.Equal(t, tt.subject, up.Subject)
			assert.Equal(t, tt.timeUntil, up.TimeUntil)
			assert.Equal(t, tt.urgency, up.Urgency)
		})
	}
}

func TestNextAndWithin(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	exams := []exam.Exam{
		{Subject: "started", Date: "2026-06-01", Time: "09:00"},
		{Subject: "soon", Date: "2026-06-01", Time: "15:00"},
		{Subject: "later", Date: "2026-06-04", Time: "09:00"},
	}

	next, ok := exam.Next(exams, now)
	require.True(t, ok)
	assert.Equal(t, "soon", next.Subject)

	_, ok = exam.Next(exams[:1], now)
	assert.False(t, ok)

	within := exam.Within(exams, now, 24*time.Hour)
	require.Len(t, within, 1)
	assert.Equal(t, "soon", within[0].Subject)
}
