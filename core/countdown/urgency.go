package countdown

import "time"

// Tier is the urgency of an exam, from its whole days remaining.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
	TierNone   Tier = "none"
)

func TierForDays(days int) Tier {
	switch {
	case days <= 1:
		return TierHigh
	case days <= 3:
		return TierMedium
	case days <= 7:
		return TierLow
	default:
		return TierNone
	}
}

// Urgency returns the tier of an exam starting at target.
func Urgency(target, now time.Time) Tier {
	return TierForDays(DaysBetween(target, now))
}
