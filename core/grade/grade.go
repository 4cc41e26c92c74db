// Package grade maps obtained marks to letter grades.
package grade

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/examally/examally/core"
)

type Grade string

const (
	APlus Grade = "A+"
	A     Grade = "A"
	B     Grade = "B"
	C     Grade = "C"
	D     Grade = "D"
	F     Grade = "F"
)

// thresholds are inclusive lower bounds in percent, evaluated top-down.
var thresholds = []struct {
	min   int64
	grade Grade
}{
	{90, APlus},
	{80, A},
	{70, B},
	{60, C},
	{50, D},
}

// All lists every grade from best to worst.
var All = []Grade{APlus, A, B, C, D, F}

func (g Grade) Valid() bool {
	for _, v := range All {
		if g == v {
			return true
		}
	}
	return false
}

func (g Grade) String() string { return string(g) }

func validate(obtained, total int) error {
	if total <= 0 {
		return core.InvalidInput("total_marks", "total marks must be greater than zero")
	}
	if obtained < 0 {
		return core.InvalidInput("marks", "obtained marks cannot be negative")
	}
	return nil
}

// Compute returns the letter grade of obtained out of total.
// Obtained marks above total are accepted and grade as A+.
func Compute(obtained, total int) (Grade, error) {
	if err := validate(obtained, total); err != nil {
		return "", errors.Wrap(err, "computing grade")
	}
	// obtained/total*100 >= min in exact arithmetic; the products do not fit int64 for large inputs
	scaled := new(big.Int).Mul(big.NewInt(int64(obtained)), big.NewInt(100))
	bound := new(big.Int)
	for _, th := range thresholds {
		bound.Mul(big.NewInt(th.min), big.NewInt(int64(total)))
		if scaled.Cmp(bound) >= 0 {
			return th.grade, nil
		}
	}
	return F, nil
}

// Percentage returns obtained out of total as a percentage.
func Percentage(obtained, total int) (float64, error) {
	if err := validate(obtained, total); err != nil {
		return 0, errors.Wrap(err, "computing percentage")
	}
	return float64(obtained) / float64(total) * 100, nil
}
