package notify

import (
	"time"

	"github.com/examally/examally/core"
)

// Kind is the kind of email sent to a user.
type Kind string

const (
	KindVerification Kind = "verification"
	KindExamReminder Kind = "exam_reminder"
	KindMarkUpdate   Kind = "mark_update"
)

// Kinds lists every message kind the dispatcher knows how to render.
var Kinds = []Kind{KindVerification, KindExamReminder, KindMarkUpdate}

// Preferences are a user's notification switches.
type Preferences struct {
	UserID             string    `json:"-" db:"user_id"`
	EmailNotifications bool      `json:"email_notifications" db:"email_notifications"`
	ExamReminders      bool      `json:"exam_reminders" db:"exam_reminders"`
	MarkUpdates        bool      `json:"mark_updates" db:"mark_updates"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// DefaultPreferences applies until the user saves their own: every notification on.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:             userID,
		EmailNotifications: true,
		ExamReminders:      true,
		MarkUpdates:        true,
	}
}

// UpdatePreferences is a partial update: nil fields keep their current value.
type UpdatePreferences struct {
	EmailNotifications *bool `json:"email_notifications"`
	ExamReminders      *bool `json:"exam_reminders"`
	MarkUpdates        *bool `json:"mark_updates"`
}

func (up UpdatePreferences) IsEmpty() bool {
	return up.EmailNotifications == nil && up.ExamReminders == nil && up.MarkUpdates == nil
}

// Apply merges the update into prefs.
func (up UpdatePreferences) Apply(prefs Preferences) Preferences {
	if up.EmailNotifications != nil {
		prefs.EmailNotifications = *up.EmailNotifications
	}
	if up.ExamReminders != nil {
		prefs.ExamReminders = *up.ExamReminders
	}
	if up.MarkUpdates != nil {
		prefs.MarkUpdates = *up.MarkUpdates
	}
	return prefs
}

// Contact is an email address the user proved control of.
// Once verified it stays valid, whatever happens to the code used.
type Contact struct {
	UserID     string    `json:"-" db:"user_id"`
	Email      string    `json:"email" db:"email"`
	VerifiedAt time.Time `json:"verified_at" db:"verified_at"` // UTC
}

// PendingCode is an outstanding verification code for a user.
type PendingCode struct {
	UserID    string    `json:"-"`
	Email     string    `json:"email"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"` // UTC
}

// Expired reports whether the code can no longer be confirmed at now.
func (pc PendingCode) Expired(now time.Time) bool {
	return !now.Before(pc.ExpiresAt)
}

// VerificationRequest asks for a code to be sent to Email.
type VerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (vr *VerificationRequest) Clean() {
	vr.Email = core.CleanString(vr.Email, true /* lower */)
}

// VerificationConfirm presents a code received at Email.
type VerificationConfirm struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

func (vc *VerificationConfirm) Clean() {
	vc.Email = core.CleanString(vc.Email, true /* lower */)
	vc.Code = core.CleanString(vc.Code)
}

// ExamReminderData fills the exam_reminder email.
type ExamReminderData struct {
	Subject  string
	Date     string
	Time     string
	Location string
}

// MarkUpdateData fills the mark_update email.
type MarkUpdateData struct {
	Subject    string
	Marks      int
	TotalMarks int
	Grade      string
	Percentage float64
}

type verificationData struct {
	Code             string
	ExpiresInMinutes int
}
