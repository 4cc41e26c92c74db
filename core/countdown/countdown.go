// Package countdown derives time-remaining values for exams.
package countdown

import (
	"fmt"
	"time"
)

const (
	day = 24 * time.Hour

	// StartedDisplay is shown once the target has been reached.
	StartedDisplay = "Exam Started!"
)

// Countdown is the remaining time until a target, broken into units.
type Countdown struct {
	Days         int    `json:"days"`
	Hours        int    `json:"hours"`
	Minutes      int    `json:"minutes"`
	Seconds      int    `json:"seconds"`
	TotalSeconds int64  `json:"total_seconds"`
	Display      string `json:"display"`
	IsNow        bool   `json:"is_now"`
	Urgent       bool   `json:"urgent"`
}

// Remaining computes the countdown from now to target with whole second precision.
func Remaining(target, now time.Time) Countdown {
	total := int64(target.Sub(now) / time.Second)
	if total <= 0 {
		return Countdown{Display: StartedDisplay, IsNow: true}
	}

	cd := Countdown{
		Days:         int(total / 86400),
		Hours:        int(total % 86400 / 3600),
		Minutes:      int(total % 3600 / 60),
		Seconds:      int(total % 60),
		TotalSeconds: total,
	}
	switch {
	case cd.Days > 0:
		cd.Display = fmt.Sprintf("%dd %dh %dm %ds", cd.Days, cd.Hours, cd.Minutes, cd.Seconds)
		cd.Urgent = cd.Days <= 1
	case cd.Hours > 0:
		cd.Display = fmt.Sprintf("%dh %dm %ds", cd.Hours, cd.Minutes, cd.Seconds)
		cd.Urgent = true
	default:
		cd.Display = fmt.Sprintf("%dm %ds", cd.Minutes, cd.Seconds)
		cd.Urgent = true
	}
	return cd
}

// DaysBetween returns the number of whole days from now until target, truncated toward zero.
func DaysBetween(target, now time.Time) int {
	return int(target.Sub(now) / day)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// TimeUntilLabel is the coarse "N days" / "N hours" / "Today" label of an exam.
func TimeUntilLabel(target, now time.Time) string {
	diff := target.Sub(now)
	if days := int(diff / day); days > 0 {
		return plural(days, "day")
	}
	if hours := int(diff/time.Hour) % 24; hours > 0 {
		return plural(hours, "hour")
	}
	return "Today"
}
