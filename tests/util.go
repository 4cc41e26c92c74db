// Package testutil holds fixtures shared by the test suites.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/examally/examally/core/exam"
	"github.com/examally/examally/core/grade"
	"github.com/examally/examally/core/mark"
	"github.com/examally/examally/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateExam stores an exam for owner on the given date, at 09:00 unless clock is set.
func CreateExam(t *testing.T, repo exam.Repository, ownerID, subject, date string, clock ...string) exam.Exam {
	t.Helper()

	at := "09:00"
	if len(clock) > 0 {
		at = clock[0]
	}
	e, err := repo.CreateExam(context.Background(), exam.Exam{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Subject:   subject,
		Date:      date,
		Time:      at,
		Location:  "Hall A",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateExam() failed: %v", err)
	}
	return e
}

// CreateMark stores a graded mark for owner. Marks created later sort as newer on the same date.
func CreateMark(t *testing.T, repo mark.Repository, ownerID, subject string, obtained, total int, date string) mark.Mark {
	t.Helper()

	g, err := grade.Compute(obtained, total)
	if err != nil {
		t.Fatalf("CreateMark() failed: %v", err)
	}
	m, err := repo.CreateMark(context.Background(), mark.Mark{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Subject:    subject,
		ExamType:   mark.Midterm,
		Marks:      obtained,
		TotalMarks: total,
		Date:       date,
		Grade:      g,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateMark() failed: %v", err)
	}
	return m
}
