package inmemdb

import (
	"context"

	"github.com/examally/examally/core/exam"
)

type examRepository struct {
	db *DB
}

var _ exam.Repository = (*examRepository)(nil)

func NewExamRepository(db *DB) exam.Repository {
	return &examRepository{db: db}
}

func (repo *examRepository) CreateExam(_ context.Context, e exam.Exam) (exam.Exam, error) {
	if err := repo.db.check("creating exam"); err != nil {
		return exam.Exam{}, err
	}
	tbl := repo.db.exam
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	tbl.t[e.OwnerID] = append(tbl.t[e.OwnerID], e)
	return e, nil
}

func (repo *examRepository) QueryExams(_ context.Context, ownerID string) ([]exam.Exam, error) {
	if err := repo.db.check("querying exams"); err != nil {
		return nil, err
	}
	tbl := repo.db.exam
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	exams := make([]exam.Exam, len(tbl.t[ownerID]))
	copy(exams, tbl.t[ownerID])
	exam.SortByDate(exams)
	return exams, nil
}
