package core

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailMessage_Render(t *testing.T) {
	conf := NewTestConfig()
	to := []mail.Address{{Address: "ada@test.io"}}

	tests := []struct {
		name     string
		msg      EmailMessage
		wantErr  bool
		wantText []string
		wantHTML []string
	}{
		{
			name:     "plain body",
			msg:      EmailMessage{To: to, Subject: "hi", BodyStr: "hello"},
			wantText: []string{"hello"},
		},
		{
			name: "verification",
			msg: EmailMessage{To: to, TemplateName: "verification", TemplateData: struct {
				Code             string
				ExpiresInMinutes int
			}{"123456", 10}},
			wantText: []string{"123456", "expire in 10 minutes", "ExamAlly"},
			wantHTML: []string{"123456", "Email Verification"},
		},
		{
			name: "exam reminder",
			msg: EmailMessage{To: to, TemplateName: "exam_reminder", TemplateData: struct {
				Subject, Date, Time, Location string
			}{"Physics", "2030-05-01", "09:30", "Hall B"}},
			wantText: []string{"Exam Reminder: Physics", "Date: 2030-05-01", "Time: 09:30", "Location: Hall B"},
			wantHTML: []string{"Physics", "Hall B"},
		},
		{
			name: "mark update",
			msg: EmailMessage{To: to, TemplateName: "mark_update", TemplateData: struct {
				Subject           string
				Marks, TotalMarks int
				Grade             string
				Percentage        float64
			}{"Maths", 2, 3, "C", 66.6666}},
			wantText: []string{"Score: 2/3", "Grade: C", "Percentage: 66.7%"},
			wantHTML: []string{"Maths", "66.7%"},
		},
		{
			name:    "unknown template",
			msg:     EmailMessage{To: to, TemplateName: "newsletter"},
			wantErr: true,
		},
		{
			name:    "missing template data",
			msg:     EmailMessage{To: to, TemplateName: "verification", TemplateData: struct{}{}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.msg
			err := msg.Render(conf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, msg.HasContent())
			for _, s := range tt.wantText {
				assert.Contains(t, msg.TextContent, s)
			}
			for _, s := range tt.wantHTML {
				assert.Contains(t, msg.HTMLContent, s)
			}
		})
	}
}
