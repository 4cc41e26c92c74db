package exam

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/examally/examally/core"
)

type Exam struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"-"`
	Subject     string    `json:"subject"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:MM
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// StartsAt combines Date and Time in loc. ok is false if either is malformed.
func (e Exam) StartsAt(loc *time.Location) (t time.Time, ok bool) {
	t, err := time.ParseInLocation(core.DateLayout+" "+core.ClockLayout, e.Date+" "+e.Time, loc)
	return t, err == nil
}

// Day is the exam date at midnight in loc.
func (e Exam) Day(loc *time.Location) (t time.Time, ok bool) {
	t, err := time.ParseInLocation(core.DateLayout, e.Date, loc)
	return t, err == nil
}

// NewExam contains information needed to create a new Exam.
type NewExam struct {
	Subject     string `json:"subject" validate:"required,notblank,max=150"`
	Date        string `json:"date" validate:"required,isodate"`
	Time        string `json:"time" validate:"required,clock"`
	Location    string `json:"location" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

func (ne *NewExam) Clean() {
	ne.Subject = core.CleanString(ne.Subject)
	ne.Date = core.CleanString(ne.Date)
	ne.Time = core.CleanString(ne.Time)
	ne.Location = core.CleanString(ne.Location)
	ne.Description = core.CleanString(ne.Description)
}

func (ne *NewExam) Validate(validate *validator.Validate) error {
	ne.Clean()
	return validate.Struct(ne)
}
