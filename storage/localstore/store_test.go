package localstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/core/mark"
	"github.com/examally/examally/services/logger"
	"github.com/examally/examally/storage/database/inmem"
	"github.com/examally/examally/storage/localstore"
)

func openStore(t *testing.T) *localstore.Store {
	t.Helper()
	store, err := localstore.Open(core.NewTestConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_GetPut(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	var got []string
	ok, err := store.Get(ctx, "u1", localstore.ExamsKey, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "u1", localstore.ExamsKey, []string{"a", "b"}))
	require.NoError(t, store.Put(ctx, "u1", localstore.ExamsKey, []string{"c"}))

	ok, err = store.Get(ctx, "u1", localstore.ExamsKey, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"c"}, got)

	// scoped per user
	var other []string
	ok, err = store.Get(ctx, "u2", localstore.ExamsKey, &other)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	for _, v := range []int{1, 2, 3} {
		var list []int
		require.NoError(t, store.Update(ctx, "u1", localstore.MarksKey, &list, func() error {
			list = append(list, v)
			return nil
		}))
	}

	var list []int
	err := store.Update(ctx, "u1", localstore.MarksKey, &list, func() error { return errors.New("abort") })
	assert.EqualError(t, err, "abort")

	var got []int
	_, err = store.Get(ctx, "u1", localstore.MarksKey, &got)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestExamRepository_Fallback(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.Open()
	repo := localstore.NewExamRepository(inmemdb.NewExamRepository(db), openStore(t), logsvc.NewNopLogger())

	for _, e := range []exam.Exam{
		{ID: "e1", OwnerID: "u1", Subject: "Physics", Date: "2026-06-02", Time: "09:00"},
		{ID: "e2", OwnerID: "u1", Subject: "Maths", Date: "2026-06-01", Time: "09:00"},
	} {
		_, err := repo.CreateExam(ctx, e)
		require.NoError(t, err)
	}

	db.SetUnavailable(true)

	t.Run("reads fall back", func(t *testing.T) {
		exams, err := repo.QueryExams(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, exams, 2)
		assert.Equal(t, "e2", exams[0].ID)
	})

	t.Run("unknown user reads empty", func(t *testing.T) {
		exams, err := repo.QueryExams(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, exams)
	})

	t.Run("writes do not fall back", func(t *testing.T) {
		_, err := repo.CreateExam(ctx, exam.Exam{ID: "e3", OwnerID: "u1", Date: "2026-06-03", Time: "09:00"})
		assert.True(t, errors.Is(err, core.ErrStoreUnavailable))

		exams, err := repo.QueryExams(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, exams, 2)
	})
}

func TestMarkRepository_Fallback(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.Open()
	primary := inmemdb.NewMarkRepository(db)
	repo := localstore.NewMarkRepository(primary, openStore(t), logsvc.NewNopLogger())
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// recorded before the local store existed, seeded into the local copy by the next create
	_, err := primary.CreateMark(ctx, mark.Mark{ID: "m1", OwnerID: "u1", Date: "2026-02-01", CreatedAt: now})
	require.NoError(t, err)
	_, err = repo.CreateMark(ctx, mark.Mark{ID: "m2", OwnerID: "u1", Date: "2026-02-15", CreatedAt: now})
	require.NoError(t, err)

	marks, err := repo.QueryMarks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, marks, 2)

	db.SetUnavailable(true)
	marks, err = repo.QueryMarks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, marks, 2)
	assert.Equal(t, "m2", marks[0].ID)
	assert.Equal(t, "m1", marks[1].ID)
}

func TestRepository_CreateSeedsLocalCopy(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("exams", func(t *testing.T) {
		db := inmemdb.Open()
		primary := inmemdb.NewExamRepository(db)
		repo := localstore.NewExamRepository(primary, openStore(t), logsvc.NewNopLogger())

		_, err := primary.CreateExam(ctx, exam.Exam{ID: "e1", OwnerID: "u1", Date: "2026-06-01", Time: "09:00"})
		require.NoError(t, err)
		_, err = repo.CreateExam(ctx, exam.Exam{ID: "e2", OwnerID: "u1", Date: "2026-06-02", Time: "09:00"})
		require.NoError(t, err)

		// no read happened before the outage
		db.SetUnavailable(true)
		exams, err := repo.QueryExams(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, exams, 2)
		assert.Equal(t, "e1", exams[0].ID)
		assert.Equal(t, "e2", exams[1].ID)
	})

	t.Run("marks", func(t *testing.T) {
		db := inmemdb.Open()
		primary := inmemdb.NewMarkRepository(db)
		repo := localstore.NewMarkRepository(primary, openStore(t), logsvc.NewNopLogger())

		_, err := primary.CreateMark(ctx, mark.Mark{ID: "m1", OwnerID: "u1", Date: "2026-02-01", CreatedAt: now})
		require.NoError(t, err)
		_, err = repo.CreateMark(ctx, mark.Mark{ID: "m2", OwnerID: "u1", Date: "2026-02-15", CreatedAt: now})
		require.NoError(t, err)
		_, err = repo.CreateMark(ctx, mark.Mark{ID: "m3", OwnerID: "u1", Date: "2026-02-20", CreatedAt: now})
		require.NoError(t, err)

		db.SetUnavailable(true)
		marks, err := repo.QueryMarks(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, marks, 3)
		assert.Equal(t, "m3", marks[0].ID)
		assert.Equal(t, "m1", marks[2].ID)
	})
}
