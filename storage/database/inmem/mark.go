package inmemdb

import (
	"context"

	"github.com/examally/examally/core/mark"
)

type markRepository struct {
	db *DB
}

var _ mark.Repository = (*markRepository)(nil)

func NewMarkRepository(db *DB) mark.Repository {
	return &markRepository{db: db}
}

func (repo *markRepository) CreateMark(_ context.Context, m mark.Mark) (mark.Mark, error) {
	if err := repo.db.check("creating mark"); err != nil {
		return mark.Mark{}, err
	}
	tbl := repo.db.mark
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	tbl.t[m.OwnerID] = append(tbl.t[m.OwnerID], m)
	return m, nil
}

func (repo *markRepository) QueryMarks(_ context.Context, ownerID string) ([]mark.Mark, error) {
	if err := repo.db.check("querying marks"); err != nil {
		return nil, err
	}
	tbl := repo.db.mark
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	marks := make([]mark.Mark, len(tbl.t[ownerID]))
	copy(marks, tbl.t[ownerID])
	mark.SortNewestFirst(marks)
	return marks, nil
}
