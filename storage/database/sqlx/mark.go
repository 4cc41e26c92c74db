package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/grade"
	"github.com/examally/examally/core/mark"
)

type markRow struct {
	ID         string    `db:"id"`
	OwnerID    string    `db:"owner_id"`
	Subject    string    `db:"subject"`
	ExamType   string    `db:"exam_type"`
	Marks      int       `db:"marks"`
	TotalMarks int       `db:"total_marks"`
	Date       string    `db:"date"`
	Grade      string    `db:"grade"`
	CreatedAt  time.Time `db:"created_at"`
}

func fromMark(m mark.Mark) markRow {
	return markRow{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		Subject:    m.Subject,
		ExamType:   string(m.ExamType),
		Marks:      m.Marks,
		TotalMarks: m.TotalMarks,
		Date:       m.Date,
		Grade:      string(m.Grade),
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

func (r markRow) toMark() mark.Mark {
	return mark.Mark{
		ID:         r.ID,
		OwnerID:    r.OwnerID,
		Subject:    r.Subject,
		ExamType:   mark.ExamType(r.ExamType),
		Marks:      r.Marks,
		TotalMarks: r.TotalMarks,
		Date:       r.Date,
		Grade:      grade.Grade(r.Grade),
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

type markRepository struct {
	db *sqlx.DB
}

var _ mark.Repository = (*markRepository)(nil) // interface compliance check

func NewMarkRepository(db *sqlx.DB) mark.Repository {
	return &markRepository{db: db}
}

func (repo *markRepository) CreateMark(ctx context.Context, m mark.Mark) (mark.Mark, error) {
	q := `INSERT INTO "mark" ("id", "owner_id", "subject", "exam_type", "marks", "total_marks", "date", "grade", "created_at")
		VALUES (:id, :owner_id, :subject, :exam_type, :marks, :total_marks, :date, :grade, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, fromMark(m)); err != nil {
		return mark.Mark{}, wrapErr(err, "inserting mark")
	}
	return m, nil
}

func (repo *markRepository) QueryMarks(ctx context.Context, ownerID string) ([]mark.Mark, error) {
	ordering := []core.DBOrdering{{Field: `"date"`}, {Field: `"created_at"`}}
	q := `SELECT "id", "owner_id", "subject", "exam_type", "marks", "total_marks", "date", "grade", "created_at"
		FROM "mark" WHERE "owner_id" = $1 ORDER BY ` + orderBy(ordering)

	var rows []markRow
	if err := repo.db.SelectContext(ctx, &rows, q, ownerID); err != nil {
		return nil, wrapErr(err, "querying marks")
	}
	marks := make([]mark.Mark, 0, len(rows))
	for _, r := range rows {
		marks = append(marks, r.toMark())
	}
	return marks, nil
}
