package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/exam"
)

type examRow struct {
	ID          string      `db:"id"`
	OwnerID     string      `db:"owner_id"`
	Subject     string      `db:"subject"`
	Date        string      `db:"date"`
	Time        string      `db:"time"`
	Location    string      `db:"location"`
	Description null.String `db:"description"`
	CreatedAt   time.Time   `db:"created_at"`
}

func fromExam(e exam.Exam) examRow {
	return examRow{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Subject:     e.Subject,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Description: null.NewString(e.Description, e.Description != ""),
		CreatedAt:   e.CreatedAt.UTC(),
	}
}

func (r examRow) toExam() exam.Exam {
	return exam.Exam{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Subject:     r.Subject,
		Date:        r.Date,
		Time:        r.Time,
		Location:    r.Location,
		Description: r.Description.String,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

type examRepository struct {
	db *sqlx.DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *sqlx.DB) exam.Repository {
	return &examRepository{db: db}
}

func (repo *examRepository) CreateExam(ctx context.Context, e exam.Exam) (exam.Exam, error) {
	q := `INSERT INTO "exam" ("id", "owner_id", "subject", "date", "time", "location", "description", "created_at")
		VALUES (:id, :owner_id, :subject, :date, :time, :location, :description, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, fromExam(e)); err != nil {
		return exam.Exam{}, wrapErr(err, "inserting exam")
	}
	return e, nil
}

func (repo *examRepository) QueryExams(ctx context.Context, ownerID string) ([]exam.Exam, error) {
	ordering := []core.DBOrdering{{Field: `"date"`, Ascending: true}, {Field: `"time"`, Ascending: true}}
	q := `SELECT "id", "owner_id", "subject", "date", "time", "location", "description", "created_at"
		FROM "exam" WHERE "owner_id" = $1 ORDER BY ` + orderBy(ordering)

	var rows []examRow
	if err := repo.db.SelectContext(ctx, &rows, q, ownerID); err != nil {
		return nil, wrapErr(err, "querying exams")
	}
	exams := make([]exam.Exam, 0, len(rows))
	for _, r := range rows {
		exams = append(exams, r.toExam())
	}
	return exams, nil
}
