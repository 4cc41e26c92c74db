package mark_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/grade"
	"github.com/examally/examally/core/mark"
	"github.com/examally/examally/storage/database/inmem"
)

func intPtr(i int) *int { return &i }

func TestNewMark_Validate(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	mark.InitValidators(validate, translator)

	tests := []struct {
		name     string
		nm       mark.NewMark
		wantErr  bool
		wantType mark.ExamType
	}{
		{name: "defaults to midterm", nm: mark.NewMark{Subject: "Maths", Marks: intPtr(8), TotalMarks: intPtr(10), Date: "2026-03-01"}, wantType: mark.Midterm},
		{name: "type is lowered", nm: mark.NewMark{Subject: "Maths", ExamType: " QUIZ ", Marks: intPtr(0), TotalMarks: intPtr(10), Date: "2026-03-01"}, wantType: mark.Quiz},
		{name: "unknown type", nm: mark.NewMark{Subject: "Maths", ExamType: "oral", Marks: intPtr(8), TotalMarks: intPtr(10), Date: "2026-03-01"}, wantErr: true},
		{name: "missing marks", nm: mark.NewMark{Subject: "Maths", TotalMarks: intPtr(10), Date: "2026-03-01"}, wantErr: true},
		{name: "negative marks", nm: mark.NewMark{Subject: "Maths", Marks: intPtr(-1), TotalMarks: intPtr(10), Date: "2026-03-01"}, wantErr: true},
		{name: "zero total", nm: mark.NewMark{Subject: "Maths", Marks: intPtr(0), TotalMarks: intPtr(0), Date: "2026-03-01"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nm.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, tt.nm.ExamType)
		})
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.Open()
	svc := mark.NewService(inmemdb.NewMarkRepository(db))

	tests := []struct {
		name      string
		nm        mark.NewMark
		wantGrade grade.Grade
		wantErr   error
	}{
		{name: "a plus", nm: mark.NewMark{Subject: "Maths", Marks: intPtr(90), TotalMarks: intPtr(100), Date: "2026-03-01"}, wantGrade: grade.APlus},
		{name: "two thirds", nm: mark.NewMark{Subject: "Physics", Marks: intPtr(2), TotalMarks: intPtr(3), Date: "2026-03-01"}, wantGrade: grade.C},
		{name: "zero total", nm: mark.NewMark{Subject: "Maths", Marks: intPtr(1), TotalMarks: intPtr(0), Date: "2026-03-01"}, wantErr: core.ErrInvalidInput},
		{name: "missing marks", nm: mark.NewMark{Subject: "Maths", TotalMarks: intPtr(10), Date: "2026-03-01"}, wantErr: core.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := svc.Create(ctx, "u1", tt.nm)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantGrade, m.Grade)
			assert.Equal(t, mark.Midterm, m.ExamType)
		})
	}

	t.Run("store unavailable", func(t *testing.T) {
		db.SetUnavailable(true)
		defer db.SetUnavailable(false)
		_, err := svc.Create(ctx, "u1", mark.NewMark{Subject: "Maths", Marks: intPtr(1), TotalMarks: intPtr(2), Date: "2026-03-01"})
		assert.True(t, errors.Is(err, core.ErrStoreUnavailable))
	})

	t.Run("query newest first", func(t *testing.T) {
		marks, err := svc.Query(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, marks, 2)
		assert.Equal(t, "Physics", marks[0].Subject)
	})
}

func TestService_Query_keepsStoredGrade(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.Open()
	repo := inmemdb.NewMarkRepository(db)
	svc := mark.NewService(repo)

	// graded under an older scale: 95/100 would be A+ today
	stored := mark.Mark{
		ID: "m1", OwnerID: "u1", Subject: "Maths", ExamType: mark.Final,
		Marks: 95, TotalMarks: 100, Grade: grade.B, Date: "2025-06-01",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	_, err := repo.CreateMark(ctx, stored)
	require.NoError(t, err)

	current, err := grade.Compute(stored.Marks, stored.TotalMarks)
	require.NoError(t, err)
	require.NotEqual(t, stored.Grade, current)

	marks, err := svc.Query(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, grade.B, marks[0].Grade)
	assert.Equal(t, stored, marks[0])
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	marks := []mark.Mark{
		{ID: "old", Date: "2026-01-10", CreatedAt: base},
		{ID: "new-first", Date: "2026-02-10", CreatedAt: base},
		{ID: "new-second", Date: "2026-02-10", CreatedAt: base.Add(time.Minute)},
	}
	mark.SortNewestFirst(marks)
	assert.Equal(t, []string{"new-second", "new-first", "old"}, []string{marks[0].ID, marks[1].ID, marks[2].ID})
}

func TestSummarize(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	at := func(i int) time.Time { return base.Add(time.Duration(i) * time.Hour) }

	tests := []struct {
		name  string
		marks []mark.Mark
		want  mark.Summary
	}{
		{
			name:  "no marks",
			marks: nil,
			want:  mark.Summary{Subjects: []mark.SubjectStats{}},
		},
		{
			name: "trend per subject",
			marks: []mark.Mark{
				{Subject: "Maths", Marks: 90, TotalMarks: 100, CreatedAt: at(2)},
				{Subject: "Maths", Marks: 60, TotalMarks: 100, CreatedAt: at(0)},
				{Subject: "Physics", Marks: 2, TotalMarks: 3, CreatedAt: at(1)},
			},
			want: mark.Summary{
				Count:          3,
				AveragePercent: 72.2,
				Subjects: []mark.SubjectStats{
					{Subject: "Maths", Count: 2, AveragePercent: 75, Trend: 30},
					{Subject: "Physics", Count: 1, AveragePercent: 66.7},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mark.Summarize(tt.marks))
		})
	}
}

func TestCountSubjects(t *testing.T) {
	assert.Equal(t, 3, mark.CountSubjects([]string{"Maths", "Physics"}, []string{"Maths", "Art"}))
	assert.Equal(t, 0, mark.CountSubjects())
}
