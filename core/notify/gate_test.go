package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldNotify(t *testing.T) {
	verified := &Contact{UserID: "u1", Email: "ada@test.io"}
	allOn := DefaultPreferences("u1")

	tests := []struct {
		name    string
		kind    Kind
		prefs   Preferences
		contact *Contact
		wantTo  string
		wantOk  bool
	}{
		{name: "exam reminder allowed", kind: KindExamReminder, prefs: allOn, contact: verified, wantTo: "ada@test.io", wantOk: true},
		{name: "mark update allowed", kind: KindMarkUpdate, prefs: allOn, contact: verified, wantTo: "ada@test.io", wantOk: true},
		{
			name:    "master switch off overrides reminders",
			kind:    KindExamReminder,
			prefs:   Preferences{EmailNotifications: false, ExamReminders: true, MarkUpdates: true},
			contact: verified,
		},
		{
			name:    "master switch off overrides mark updates",
			kind:    KindMarkUpdate,
			prefs:   Preferences{EmailNotifications: false, ExamReminders: true, MarkUpdates: true},
			contact: verified,
		},
		{
			name:    "reminders off",
			kind:    KindExamReminder,
			prefs:   Preferences{EmailNotifications: true, ExamReminders: false, MarkUpdates: true},
			contact: verified,
		},
		{
			name:    "mark updates off does not affect reminders",
			kind:    KindExamReminder,
			prefs:   Preferences{EmailNotifications: true, ExamReminders: true, MarkUpdates: false},
			contact: verified,
			wantTo:  "ada@test.io",
			wantOk:  true,
		},
		{
			name:    "mark updates off",
			kind:    KindMarkUpdate,
			prefs:   Preferences{EmailNotifications: true, ExamReminders: true, MarkUpdates: false},
			contact: verified,
		},
		{name: "no verified contact", kind: KindExamReminder, prefs: allOn},
		{name: "empty contact", kind: KindMarkUpdate, prefs: allOn, contact: &Contact{}},
		{name: "verification is not gated", kind: KindVerification, prefs: allOn, contact: verified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			to, ok := ShouldNotify(tt.kind, tt.prefs, tt.contact)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

func TestUpdatePreferences_Apply(t *testing.T) {
	bPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name string
		up   UpdatePreferences
		want Preferences
	}{
		{name: "empty keeps everything", up: UpdatePreferences{}, want: DefaultPreferences("u1")},
		{
			name: "single flag",
			up:   UpdatePreferences{MarkUpdates: bPtr(false)},
			want: Preferences{UserID: "u1", EmailNotifications: true, ExamReminders: true, MarkUpdates: false},
		},
		{
			name: "all flags",
			up:   UpdatePreferences{EmailNotifications: bPtr(false), ExamReminders: bPtr(false), MarkUpdates: bPtr(false)},
			want: Preferences{UserID: "u1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.up.Apply(DefaultPreferences("u1")))
		})
	}
	assert.True(t, UpdatePreferences{}.IsEmpty())
	assert.False(t, UpdatePreferences{ExamReminders: bPtr(true)}.IsEmpty())
}
