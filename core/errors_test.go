package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{name: "wrapped invalid input", err: errors.Wrap(ErrInvalidInput, "total"), target: ErrInvalidInput, want: true},
		{name: "validation error", err: InvalidInput("total_marks", "must be positive"), target: ErrInvalidInput, want: true},
		{name: "wrapped validation error", err: errors.Wrap(InvalidInput("a", "b"), "creating"), target: ErrInvalidInput, want: true},
		{name: "store unavailable", err: errors.Wrap(ErrStoreUnavailable, "querying exams"), target: ErrStoreUnavailable, want: true},
		{name: "dispatch is not store", err: errors.Wrap(ErrDispatchFailure, "sendgrid"), target: ErrStoreUnavailable, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestIsShutdown(t *testing.T) {
	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("integrity"), "handler")))
	assert.False(t, IsShutdown(ErrInvalidInput))
}
