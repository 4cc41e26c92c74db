package exam

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/countdown"
)

type (
	Repository interface {
		CreateExam(ctx context.Context, exam Exam) (Exam, error)
		// QueryExams returns the owner's exams sorted by date and time.
		QueryExams(ctx context.Context, ownerID string) ([]Exam, error)
	}

	Service struct {
		repo Repository
		loc  *time.Location
		now  func() time.Time // mockable
	}

	// Upcoming is an exam with the labels derived from the time left.
	Upcoming struct {
		Exam
		TimeUntil string         `json:"time_until"`
		Urgency   countdown.Tier `json:"urgency"`
	}

	Schedule struct {
		Upcoming []Upcoming `json:"upcoming"`
		Past     []Exam     `json:"past"`
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{
		repo: repo,
		loc:  conf.Location(),
		now:  time.Now,
	}
}

// Location is the time zone exam dates are interpreted in.
func (svc *Service) Location() *time.Location { return svc.loc }

// Create stores a new exam for owner. ne must have been validated.
func (svc *Service) Create(ctx context.Context, ownerID string, ne NewExam) (Exam, error) {
	ne.Clean()
	exam := Exam{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Subject:     ne.Subject,
		Date:        ne.Date,
		Time:        ne.Time,
		Location:    ne.Location,
		Description: ne.Description,
		CreatedAt:   svc.now().UTC(),
	}
	if _, ok := exam.StartsAt(svc.loc); !ok {
		return Exam{}, core.InvalidInput("date", "exam date and time are invalid")
	}

	exam, err := svc.repo.CreateExam(ctx, exam)
	return exam, errors.Wrap(err, "creating exam")
}

// Query returns the owner's exams sorted by date and time.
func (svc *Service) Query(ctx context.Context, ownerID string) ([]Exam, error) {
	exams, err := svc.repo.QueryExams(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "querying exams")
	}
	SortByDate(exams)
	return exams, nil
}

// Schedule splits the owner's exams into upcoming and past.
func (svc *Service) Schedule(ctx context.Context, ownerID string) (Schedule, error) {
	exams, err := svc.Query(ctx, ownerID)
	if err != nil {
		return Schedule{}, err
	}
	return Split(exams, svc.now().In(svc.loc)), nil
}

// Next returns the owner's closest upcoming exam. ok is false when there is none.
func (svc *Service) Next(ctx context.Context, ownerID string) (exam Exam, ok bool, err error) {
	exams, err := svc.Query(ctx, ownerID)
	if err != nil {
		return Exam{}, false, err
	}
	exam, ok = Next(exams, svc.now().In(svc.loc))
	return exam, ok, nil
}

// SortByDate sorts exams by date then time, ascending.
func SortByDate(exams []Exam) {
	sort.SliceStable(exams, func(i, j int) bool {
		if exams[i].Date != exams[j].Date {
			return exams[i].Date < exams[j].Date
		}
		return exams[i].Time < exams[j].Time
	})
}

// isUpcoming reports whether the exam date is today or later; the time of day is ignored.
func isUpcoming(e Exam, now time.Time) bool {
	return e.Date >= now.Format(core.DateLayout)
}

// Split partitions sorted exams into upcoming (today onwards) and past, labelling upcoming ones.
func Split(exams []Exam, now time.Time) Schedule {
	sched := Schedule{
		Upcoming: make([]Upcoming, 0),
		Past:     make([]Exam, 0),
	}
	for _, e := range exams {
		if !isUpcoming(e, now) {
			sched.Past = append(sched.Past, e)
			continue
		}
		up := Upcoming{Exam: e, TimeUntil: "Today", Urgency: countdown.TierHigh}
		if startsAt, ok := e.StartsAt(now.Location()); ok {
			up.TimeUntil = countdown.TimeUntilLabel(startsAt, now)
		}
		// urgency counts whole days to the exam date, not to its start time
		if day, ok := e.Day(now.Location()); ok {
			up.Urgency = countdown.Urgency(day, now)
		}
		sched.Upcoming = append(sched.Upcoming, up)
	}
	return sched
}

// Next returns the first upcoming exam that has not started yet.
func Next(exams []Exam, now time.Time) (Exam, bool) {
	for _, e := range exams {
		if !isUpcoming(e, now) {
			continue
		}
		if startsAt, ok := e.StartsAt(now.Location()); ok && startsAt.After(now) {
			return e, true
		}
	}
	return Exam{}, false
}

// Within returns the exams starting between now and now+d.
func Within(exams []Exam, now time.Time, d time.Duration) []Exam {
	out := make([]Exam, 0)
	for _, e := range exams {
		if startsAt, ok := e.StartsAt(now.Location()); ok && startsAt.After(now) && !startsAt.After(now.Add(d)) {
			out = append(out, e)
		}
	}
	return out
}
