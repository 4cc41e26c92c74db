package notify

// ShouldNotify decides whether an event of kind must be emailed and to which address.
// Only exam reminders and mark updates are gated; the master switch overrides the per-kind ones.
// Declining is a normal outcome, not an error.
func ShouldNotify(kind Kind, prefs Preferences, contact *Contact) (string, bool) {
	if !prefs.EmailNotifications {
		return "", false
	}
	switch kind {
	case KindExamReminder:
		if !prefs.ExamReminders {
			return "", false
		}
	case KindMarkUpdate:
		if !prefs.MarkUpdates {
			return "", false
		}
	default:
		return "", false
	}
	if contact == nil || contact.Email == "" {
		return "", false
	}
	return contact.Email, true
}
