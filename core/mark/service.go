package mark

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/grade"
	"github.com/examally/examally/services/metrics"
)

type (
	Repository interface {
		CreateMark(ctx context.Context, mark Mark) (Mark, error)
		QueryMarks(ctx context.Context, ownerID string) ([]Mark, error)
	}

	Service struct {
		repo Repository
		now  func() time.Time // mockable
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create computes the grade of the new mark and stores both together.
func (svc *Service) Create(ctx context.Context, ownerID string, nm NewMark) (Mark, error) {
	if nm.Marks == nil || nm.TotalMarks == nil {
		return Mark{}, core.InvalidInput("marks", "marks and total marks are required")
	}
	nm.Clean()
	if !nm.ExamType.Valid() {
		return Mark{}, core.InvalidInput("exam_type", examTypeText)
	}

	g, err := grade.Compute(*nm.Marks, *nm.TotalMarks)
	if err != nil {
		return Mark{}, err
	}
	mark := Mark{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Subject:    nm.Subject,
		ExamType:   nm.ExamType,
		Marks:      *nm.Marks,
		TotalMarks: *nm.TotalMarks,
		Date:       nm.Date,
		Grade:      g,
		CreatedAt:  svc.now().UTC(),
	}

	mark, err = svc.repo.CreateMark(ctx, mark)
	if err != nil {
		return Mark{}, errors.Wrap(err, "creating mark")
	}
	metrics.MarkPercentage.Observe(mark.Percentage())
	return mark, nil
}

// Query returns the owner's marks, newest first.
func (svc *Service) Query(ctx context.Context, ownerID string) ([]Mark, error) {
	marks, err := svc.repo.QueryMarks(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}
	SortNewestFirst(marks)
	return marks, nil
}

// SortNewestFirst sorts marks by date descending, then by creation time descending.
func SortNewestFirst(marks []Mark) {
	sort.SliceStable(marks, func(i, j int) bool {
		if marks[i].Date != marks[j].Date {
			return marks[i].Date > marks[j].Date
		}
		return marks[i].CreatedAt.After(marks[j].CreatedAt)
	})
}
