package localstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/core/mark"
	"github.com/examally/examally/services/metrics"
)

// examRepository mirrors the record store into the local store and reads from it
// while the record store is unavailable. Writes are never accepted locally only.
type examRepository struct {
	primary exam.Repository
	local   *Store
	logger  core.Logger
}

var _ exam.Repository = (*examRepository)(nil)

func NewExamRepository(primary exam.Repository, local *Store, logger core.Logger) exam.Repository {
	return &examRepository{primary: primary, local: local, logger: logger}
}

func (repo *examRepository) CreateExam(ctx context.Context, e exam.Exam) (exam.Exam, error) {
	e, err := repo.primary.CreateExam(ctx, e)
	if err != nil {
		return exam.Exam{}, err
	}
	if err = repo.mirror(ctx, e); err != nil {
		repo.logger.Warn("mirroring exam to local store", err)
	}
	return e, nil
}

// mirror appends e to the local copy. Without a local copy, the whole
// collection is loaded from the record store so the copy is never partial.
func (repo *examRepository) mirror(ctx context.Context, e exam.Exam) error {
	var exams []exam.Exam
	ok, err := repo.local.Get(ctx, e.OwnerID, ExamsKey, &exams)
	if err != nil {
		return err
	}
	if !ok {
		if exams, err = repo.primary.QueryExams(ctx, e.OwnerID); err != nil {
			return errors.Wrap(err, "seeding local exams")
		}
		return repo.local.Put(ctx, e.OwnerID, ExamsKey, exams)
	}
	return repo.local.Update(ctx, e.OwnerID, ExamsKey, &exams, func() error {
		exams = append(exams, e)
		return nil
	})
}

func (repo *examRepository) QueryExams(ctx context.Context, ownerID string) ([]exam.Exam, error) {
	exams, err := repo.primary.QueryExams(ctx, ownerID)
	if err == nil {
		if err = repo.local.Put(ctx, ownerID, ExamsKey, exams); err != nil {
			repo.logger.Warn("refreshing local exams", err)
		}
		return exams, nil
	}
	if !errors.Is(err, core.ErrStoreUnavailable) {
		return nil, err
	}

	metrics.StoreFallbacksTotal.WithLabelValues(ExamsKey).Inc()
	repo.logger.Warn("record store unavailable, reading local exams", err)
	var local []exam.Exam
	if _, lerr := repo.local.Get(ctx, ownerID, ExamsKey, &local); lerr != nil {
		repo.logger.Error("reading local exams", lerr)
		return nil, err
	}
	if local == nil {
		local = make([]exam.Exam, 0)
	}
	exam.SortByDate(local)
	return local, nil
}

type markRepository struct {
	primary mark.Repository
	local   *Store
	logger  core.Logger
}

var _ mark.Repository = (*markRepository)(nil)

func NewMarkRepository(primary mark.Repository, local *Store, logger core.Logger) mark.Repository {
	return &markRepository{primary: primary, local: local, logger: logger}
}

func (repo *markRepository) CreateMark(ctx context.Context, m mark.Mark) (mark.Mark, error) {
	m, err := repo.primary.CreateMark(ctx, m)
	if err != nil {
		return mark.Mark{}, err
	}
	if err = repo.mirror(ctx, m); err != nil {
		repo.logger.Warn("mirroring mark to local store", err)
	}
	return m, nil
}

// mirror appends m to the local copy, seeding it from the record store when missing.
func (repo *markRepository) mirror(ctx context.Context, m mark.Mark) error {
	var marks []mark.Mark
	ok, err := repo.local.Get(ctx, m.OwnerID, MarksKey, &marks)
	if err != nil {
		return err
	}
	if !ok {
		if marks, err = repo.primary.QueryMarks(ctx, m.OwnerID); err != nil {
			return errors.Wrap(err, "seeding local marks")
		}
		return repo.local.Put(ctx, m.OwnerID, MarksKey, marks)
	}
	return repo.local.Update(ctx, m.OwnerID, MarksKey, &marks, func() error {
		marks = append(marks, m)
		return nil
	})
}

func (repo *markRepository) QueryMarks(ctx context.Context, ownerID string) ([]mark.Mark, error) {
	marks, err := repo.primary.QueryMarks(ctx, ownerID)
	if err == nil {
		if err = repo.local.Put(ctx, ownerID, MarksKey, marks); err != nil {
			repo.logger.Warn("refreshing local marks", err)
		}
		return marks, nil
	}
	if !errors.Is(err, core.ErrStoreUnavailable) {
		return nil, err
	}

	metrics.StoreFallbacksTotal.WithLabelValues(MarksKey).Inc()
	repo.logger.Warn("record store unavailable, reading local marks", err)
	var local []mark.Mark
	if _, lerr := repo.local.Get(ctx, ownerID, MarksKey, &local); lerr != nil {
		repo.logger.Error("reading local marks", lerr)
		return nil, err
	}
	if local == nil {
		local = make([]mark.Mark, 0)
	}
	mark.SortNewestFirst(local)
	return local, nil
}
