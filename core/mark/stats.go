package mark

import (
	"math"
	"sort"
)

type (
	SubjectStats struct {
		Subject        string  `json:"subject"`
		Count          int     `json:"count"`
		AveragePercent float64 `json:"average_percent"`
		// Trend is the latest percentage minus the one before it, in the order marks were recorded.
		Trend float64 `json:"trend"`
	}

	Summary struct {
		Count          int            `json:"count"`
		AveragePercent float64        `json:"average_percent"`
		Subjects       []SubjectStats `json:"subjects"`
	}
)

// Round1 rounds to one decimal place.
func Round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// Summarize computes the average percentage overall and per subject. Percentages are rounded to one decimal.
func Summarize(marks []Mark) Summary {
	recorded := make([]Mark, len(marks))
	copy(recorded, marks)
	sort.SliceStable(recorded, func(i, j int) bool { return recorded[i].CreatedAt.Before(recorded[j].CreatedAt) })

	type acc struct {
		total float64
		pcts  []float64
	}
	var (
		total float64
		order []string
	)
	bySubject := make(map[string]*acc)
	for _, m := range recorded {
		p := m.Percentage()
		total += p
		a, ok := bySubject[m.Subject]
		if !ok {
			a = new(acc)
			bySubject[m.Subject] = a
			order = append(order, m.Subject)
		}
		a.total += p
		a.pcts = append(a.pcts, p)
	}

	sum := Summary{Count: len(recorded), Subjects: make([]SubjectStats, 0, len(order))}
	if len(recorded) > 0 {
		sum.AveragePercent = Round1(total / float64(len(recorded)))
	}
	for _, subject := range order {
		a := bySubject[subject]
		st := SubjectStats{
			Subject:        subject,
			Count:          len(a.pcts),
			AveragePercent: Round1(a.total / float64(len(a.pcts))),
		}
		if n := len(a.pcts); n > 1 {
			st.Trend = Round1(a.pcts[n-1] - a.pcts[n-2])
		}
		sum.Subjects = append(sum.Subjects, st)
	}
	return sum
}

// CountSubjects returns the number of distinct subjects among the given names.
func CountSubjects(subjects ...[]string) int {
	seen := make(map[string]struct{})
	for _, list := range subjects {
		for _, s := range list {
			seen[s] = struct{}{}
		}
	}
	return len(seen)
}

// Subjects lists the subject of each mark.
func Subjects(marks []Mark) []string {
	out := make([]string, 0, len(marks))
	for _, m := range marks {
		out = append(out, m.Subject)
	}
	return out
}
