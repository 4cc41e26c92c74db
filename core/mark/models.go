package mark

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/grade"
)

// ExamType is the kind of assessment a mark was obtained in.
type ExamType string

const (
	Midterm    ExamType = "midterm"
	Final      ExamType = "final"
	Quiz       ExamType = "quiz"
	Test       ExamType = "test"
	Assignment ExamType = "assignment"
	Project    ExamType = "project"
	Practical  ExamType = "practical"
	Other      ExamType = "other"
)

var ExamTypes = []ExamType{Midterm, Final, Quiz, Test, Assignment, Project, Practical, Other}

func (et ExamType) Valid() bool {
	for _, t := range ExamTypes {
		if et == t {
			return true
		}
	}
	return false
}

// Mark is an obtained score. Grade is computed once at creation and never recomputed.
type Mark struct {
	ID         string      `json:"id"`
	OwnerID    string      `json:"-"`
	Subject    string      `json:"subject"`
	ExamType   ExamType    `json:"exam_type"`
	Marks      int         `json:"marks"`
	TotalMarks int         `json:"total_marks"`
	Date       string      `json:"date"` // YYYY-MM-DD
	Grade      grade.Grade `json:"grade"`
	CreatedAt  time.Time   `json:"created_at"` // UTC
}

// Percentage of Marks over TotalMarks; 0 for a malformed mark.
func (m Mark) Percentage() float64 {
	p, err := grade.Percentage(m.Marks, m.TotalMarks)
	if err != nil {
		return 0
	}
	return p
}

// NewMark contains information needed to create a new Mark.
type NewMark struct {
	Subject    string   `json:"subject" validate:"required,notblank,max=150"`
	ExamType   ExamType `json:"exam_type" validate:"omitempty,examtype"`
	Marks      *int     `json:"marks" validate:"required,min=0"`
	TotalMarks *int     `json:"total_marks" validate:"required,min=1"`
	Date       string   `json:"date" validate:"required,isodate"`
}

func (nm *NewMark) Clean() {
	nm.Subject = core.CleanString(nm.Subject)
	nm.ExamType = ExamType(core.CleanString(string(nm.ExamType), true /* lower */))
	if nm.ExamType == "" {
		nm.ExamType = Midterm
	}
	nm.Date = core.CleanString(nm.Date)
}

func (nm *NewMark) Validate(validate *validator.Validate) error {
	nm.Clean()
	return validate.Struct(nm)
}

var (
	examTypeTag  = "examtype"
	examTypeText = "invalid exam type"
)

// InitValidators registers the mark validation tags on validate.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(examTypeTag, func(fl validator.FieldLevel) bool {
		return ExamType(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, examTypeTag, examTypeText)
}
